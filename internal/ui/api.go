package ui

import (
	"context"
	"fmt"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"gitdeck/internal/logging"
	"gitdeck/internal/storage/catalog"
)

const themeSettingKey = "theme"

type API struct {
	ctxFn func() context.Context
	cat   *catalog.Catalog
	log   logging.Logger
}

func NewAPI(ctxProvider func() context.Context, cat *catalog.Catalog, logger logging.Logger) *API {
	if logger == nil {
		logger = logging.Nop()
	}
	return &API{ctxFn: ctxProvider, cat: cat, log: logger}
}

func (a *API) SelectRepositoryDirectory(defaultDirectory string) (string, error) {
	if a.ctxFn == nil {
		return "", fmt.Errorf("application context not initialised")
	}
	ctx := a.ctxFn()
	if ctx == nil {
		return "", fmt.Errorf("application context not initialised")
	}
	options := wailsruntime.OpenDialogOptions{Title: "Select a repository directory"}
	if defaultDirectory != "" {
		options.DefaultDirectory = defaultDirectory
	}
	return wailsruntime.OpenDirectoryDialog(ctx, options)
}

// GetTheme returns the stored UI theme, defaulting to "system".
func (a *API) GetTheme() (string, error) {
	value, err := a.cat.GetSetting(context.Background(), themeSettingKey)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "system", nil
	}
	return value, nil
}

func (a *API) SetTheme(theme string) error {
	switch theme {
	case "light", "dark", "system":
	default:
		return fmt.Errorf("unknown theme %q", theme)
	}
	return a.cat.SetSetting(context.Background(), themeSettingKey, theme)
}

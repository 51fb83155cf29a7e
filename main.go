package main

import (
	"context"
	"embed"
	"log"
	"os"
	"path/filepath"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"

	"gitdeck/internal/branches"
	"gitdeck/internal/git/client"
	"gitdeck/internal/git/runner"
	"gitdeck/internal/logging"
	"gitdeck/internal/prs"
	"gitdeck/internal/repos"
	"gitdeck/internal/staging"
	"gitdeck/internal/stash"
	"gitdeck/internal/storage"
	"gitdeck/internal/storage/catalog"
	"gitdeck/internal/storage/migrate"
	"gitdeck/internal/storage/sqlite"
	term "gitdeck/internal/terminal"
	"gitdeck/internal/ui"
	"gitdeck/internal/watchers"
	"gitdeck/internal/worktrees"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	logger := logging.NewText(os.Stderr, logging.ParseLevel(os.Getenv("GITDECK_LOG_LEVEL")))
	app := NewApp(logger)

	// Storage
	dataDir, err := storage.DataDir()
	if err != nil {
		log.Fatalf("data dir: %v", err)
	}
	db, err := sqlite.Open(filepath.Join(dataDir, "catalog.db"))
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	if err := migrate.Up(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	cat := catalog.New(db)
	app.db = db

	// Git plumbing and domain services. go-git serves the read ops
	// (repo root / current ref), exec git the diff/apply ops.
	gitRunner := runner.NewExecRunner("git")
	gitClient := client.NewClientWithRunner(gitRunner)
	readClient := client.NewGoGitClient()
	repoService := repos.NewService(cat, readClient, logger)
	app.repoService = repoService
	stagingService := staging.NewService(gitClient, logger)
	branchService := branches.NewService(gitRunner, logger)
	stashService := stash.NewService(gitRunner, logger)
	prService := prs.NewService("gh", logger)
	worktreeMgr := worktrees.NewManager(filepath.Join(dataDir, "worktrees"), "git")
	worktreeMgr.SetGitClient(readClient)

	// Domain APIs
	reposAPI := repos.NewAPI(repoService, logger)
	watcherSvc := watchers.New(nil)
	watcherSvc.SetLogger(logger)
	stagingAPI := staging.NewAPI(stagingService, repoService, gitClient, watcherSvc, app.Context, logger)
	watcherSvc.SetEmitter(stagingAPI.EmitRepoDiffUpdate)
	branchesAPI := branches.NewAPI(branchService, repoService)
	stashAPI := stash.NewAPI(stashService, repoService)
	prsAPI := prs.NewAPI(prService, repoService)
	worktreesAPI := worktrees.NewAPI(worktreeMgr, repoService)
	termMgr := term.NewManager(repoService.ResolvePath, app.Context, "", logger)
	termAPI := term.NewAPI(termMgr)
	uiAPI := ui.NewAPI(app.Context, cat, logger)

	err = wails.Run(&options.App{
		Title:  "gitdeck",
		Width:  1920,
		Height: 1080,
		Linux: &linux.Options{
			WebviewGpuPolicy: linux.WebviewGpuPolicyAlways,
		},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        app.startup,
		OnShutdown: func(ctx context.Context) {
			if watcherSvc != nil {
				watcherSvc.Stop()
			}
			if termMgr != nil {
				termMgr.CloseAll()
			}
			if app.db != nil {
				_ = app.db.Close()
			}
		},
		Bind: []interface{}{reposAPI, stagingAPI, branchesAPI, stashAPI, prsAPI, worktreesAPI, termAPI, uiAPI},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}

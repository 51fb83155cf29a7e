package terminal

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"
	"syscall"

	"github.com/creack/pty"
	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"gitdeck/internal/logging"
)

const terminalTopicPrefix = "repo:terminal:"

// Topic returns the runtime event topic for terminal streaming.
func Topic(repoID int64) string {
	return fmt.Sprintf("%s%d", terminalTopicPrefix, repoID)
}

// PathResolver maps a repository id to its working-copy path.
type PathResolver func(ctx context.Context, repoID int64) (string, error)

// Manager runs one shell session per repository inside a pty.
type Manager struct {
	resolve PathResolver
	ctxFn   func() context.Context
	log     logging.Logger
	mu      sync.Mutex
	terms   map[int64]*session
	shell   string
}

type session struct {
	repoID int64
	cmd    *exec.Cmd
	pty    *os.File
	cancel context.CancelFunc
	done   chan struct{}
}

func NewManager(resolve PathResolver, ctxProvider func() context.Context, shellPath string, logger logging.Logger) *Manager {
	if strings.TrimSpace(shellPath) == "" {
		shellPath = detectShell()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Manager{resolve: resolve, ctxFn: ctxProvider, log: logger, terms: map[int64]*session{}, shell: shellPath}
}

func (m *Manager) Start(repoID int64) error {
	if m.resolve == nil {
		return fmt.Errorf("repository resolver not initialised")
	}
	root, err := m.resolve(context.Background(), repoID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(root) == "" {
		return fmt.Errorf("repository %d has no working copy", repoID)
	}

	m.mu.Lock()
	if existing, ok := m.terms[repoID]; ok {
		m.mu.Unlock()
		if existing.cmd.ProcessState != nil && existing.cmd.ProcessState.Exited() {
			_ = m.Stop(repoID)
		} else {
			m.emitReady(repoID)
			return nil
		}
	} else {
		m.mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	shell := m.shell
	if strings.TrimSpace(shell) == "" {
		shell = defaultShell()
	}
	cmd := exec.CommandContext(ctx, shell, shellArgs(shell)...)
	cmd.Dir = root
	cmd.Env = os.Environ()
	if !envHasKey(cmd.Env, "TERM") {
		cmd.Env = append(cmd.Env, "TERM=xterm-256color")
	}
	ptmx, err := pty.Start(cmd)
	if err != nil {
		cancel()
		return fmt.Errorf("start terminal: %w", err)
	}

	s := &session{repoID: repoID, cmd: cmd, pty: ptmx, cancel: cancel, done: make(chan struct{})}
	m.mu.Lock()
	m.terms[repoID] = s
	m.mu.Unlock()
	go m.forward(s)
	m.emitReady(repoID)
	return nil
}

func (m *Manager) Write(repoID int64, data string) error {
	s, ok := m.get(repoID)
	if !ok {
		return fmt.Errorf("terminal for repository %d not started", repoID)
	}
	if _, err := s.pty.Write([]byte(data)); err != nil {
		return fmt.Errorf("write terminal: %w", err)
	}
	return nil
}

func (m *Manager) Resize(repoID int64, cols, rows int) error {
	s, ok := m.get(repoID)
	if !ok {
		return fmt.Errorf("terminal for repository %d not started", repoID)
	}
	if err := pty.Setsize(s.pty, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}
	return nil
}

func (m *Manager) Stop(repoID int64) error {
	s, ok := m.get(repoID)
	if !ok {
		return nil
	}
	s.cancel()
	_ = s.pty.Close()
	<-s.done
	return nil
}

func (m *Manager) CloseAll() {
	m.mu.Lock()
	list := make([]*session, 0, len(m.terms))
	for _, s := range m.terms {
		list = append(list, s)
	}
	m.terms = map[int64]*session{}
	m.mu.Unlock()
	for _, s := range list {
		if s == nil {
			continue
		}
		s.cancel()
		_ = s.pty.Close()
		<-s.done
	}
}

func (m *Manager) get(repoID int64) (*session, bool) {
	m.mu.Lock()
	s, ok := m.terms[repoID]
	m.mu.Unlock()
	if !ok || s == nil {
		return nil, false
	}
	return s, true
}

func (m *Manager) forward(s *session) {
	defer func() {
		_ = s.pty.Close()
		_ = s.cmd.Wait()
		close(s.done)
		m.mu.Lock()
		if cur, ok := m.terms[s.repoID]; ok && cur == s {
			delete(m.terms, s.repoID)
		}
		m.mu.Unlock()
		status := "exited"
		if s.cmd.ProcessState != nil && !s.cmd.ProcessState.Success() {
			status = fmt.Sprintf("exit:%d", s.cmd.ProcessState.ExitCode())
		}
		m.emitExit(s.repoID, status)
	}()
	buf := make([]byte, 4096)
	for {
		n, err := s.pty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			m.emitOutput(s.repoID, chunk)
		}
		if err != nil {
			if !errors.Is(err, os.ErrClosed) && !errors.Is(err, io.EOF) {
				var errno syscall.Errno
				// EIO is the normal pty close signal on linux
				if !(goruntime.GOOS != "windows" && errors.As(err, &errno) && errno == syscall.Errno(5)) {
					m.log.Warn("terminal read failed", "repoID", s.repoID, "error", err)
				}
			}
			return
		}
	}
}

func (m *Manager) emitReady(repoID int64) { m.emitEvent(repoID, "ready", "", "") }

func (m *Manager) emitExit(repoID int64, status string) {
	if status == "" {
		status = "exited"
	}
	m.emitEvent(repoID, "exit", "", status)
}

func (m *Manager) emitOutput(repoID int64, data []byte) {
	if len(data) == 0 {
		return
	}
	m.emitEvent(repoID, "output", base64.StdEncoding.EncodeToString(data), "")
}

func (m *Manager) emitEvent(repoID int64, typ, data, status string) {
	if m.ctxFn == nil {
		return
	}
	ctx := m.ctxFn()
	if ctx == nil {
		return
	}
	payload := struct {
		RepoID int64  `json:"repoId"`
		Type   string `json:"type"`
		Data   string `json:"data,omitempty"`
		Status string `json:"status,omitempty"`
	}{repoID, typ, data, status}
	wailsruntime.EventsEmit(ctx, Topic(repoID), payload)
}

func shellArgs(shell string) []string {
	switch filepath.Base(shell) {
	case "bash", "zsh", "fish":
		return []string{"-l"}
	case "pwsh", "powershell.exe":
		return []string{"-NoLogo"}
	default:
		return nil
	}
}

func envHasKey(env []string, key string) bool {
	for _, p := range env {
		if strings.HasPrefix(p, key+"=") {
			return true
		}
	}
	return false
}

func detectShell() string {
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	if goruntime.GOOS == "windows" {
		if c := os.Getenv("COMSPEC"); c != "" {
			return c
		}
		return "powershell.exe"
	}
	return defaultShell()
}

func defaultShell() string {
	if goruntime.GOOS == "windows" {
		return "powershell.exe"
	}
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	return "/bin/sh"
}

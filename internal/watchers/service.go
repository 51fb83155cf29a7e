package watchers

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"gitdeck/internal/logging"
)

// Service watches working copies per repository and emits diff updates.
type Service struct {
	mu           sync.Mutex
	watchers     map[int64]*fsnotify.Watcher
	notifyTimers map[int64]*time.Timer
	onDiff       func(repoID int64)
	logger       logging.Logger
	debounce     time.Duration
}

func New(emitter func(repoID int64)) *Service {
	return &Service{
		watchers:     map[int64]*fsnotify.Watcher{},
		notifyTimers: map[int64]*time.Timer{},
		onDiff:       emitter,
		logger:       logging.Nop(),
		debounce:     200 * time.Millisecond,
	}
}

func (s *Service) SetEmitter(fn func(repoID int64)) { s.mu.Lock(); s.onDiff = fn; s.mu.Unlock() }

func (s *Service) SetLogger(l logging.Logger) {
	s.mu.Lock()
	if l != nil {
		s.logger = l
	}
	s.mu.Unlock()
}

func (s *Service) SetDebounce(d time.Duration) {
	s.mu.Lock()
	if d > 0 {
		s.debounce = d
	}
	s.mu.Unlock()
}

func (s *Service) Ensure(repoID int64, root string) {
	root = strings.TrimSpace(root)
	if root == "" {
		return
	}
	s.mu.Lock()
	if w, ok := s.watchers[repoID]; ok {
		s.mu.Unlock()
		if err := w.Add(root); err != nil {
			// Root may exist while new subdirectories do not; re-walk.
			s.logger.Warn("watcher add root failed", "repoID", repoID, "path", root, "error", err)
			if info, statErr := os.Stat(root); statErr == nil && info.IsDir() {
				_ = addRecursive(w, root)
			}
		}
		return
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("watcher create failed", "repoID", repoID, "error", err)
		return
	}
	s.watchers[repoID] = watcher
	s.mu.Unlock()
	if err := addRecursive(watcher, root); err != nil {
		s.logger.Warn("watcher setup error", "repoID", repoID, "error", err)
	}
	go s.observe(repoID, watcher)
}

func (s *Service) Remove(repoID int64) {
	s.mu.Lock()
	if t, ok := s.notifyTimers[repoID]; ok {
		t.Stop()
		delete(s.notifyTimers, repoID)
	}
	w, ok := s.watchers[repoID]
	if ok {
		delete(s.watchers, repoID)
	}
	s.mu.Unlock()
	if ok {
		_ = w.Close()
	}
}

func (s *Service) Stop() {
	s.mu.Lock()
	timers := make([]*time.Timer, 0, len(s.notifyTimers))
	for _, t := range s.notifyTimers {
		timers = append(timers, t)
	}
	ws := make([]*fsnotify.Watcher, 0, len(s.watchers))
	for _, w := range s.watchers {
		ws = append(ws, w)
	}
	s.notifyTimers = map[int64]*time.Timer{}
	s.watchers = map[int64]*fsnotify.Watcher{}
	s.mu.Unlock()
	for _, t := range timers {
		if t != nil {
			t.Stop()
		}
	}
	for _, w := range ws {
		if w != nil {
			_ = w.Close()
		}
	}
}

func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		_ = w.Add(path)
		return nil
	})
}

func (s *Service) observe(repoID int64, w *fsnotify.Watcher) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if isIgnored(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addRecursive(w, ev.Name)
				}
			}
			s.schedule(repoID)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watcher error", "repoID", repoID, "error", err)
		}
	}
}

func isIgnored(path string) bool {
	if path == "" {
		return false
	}
	sep := string(filepath.Separator)
	// common VCS + caches + builds
	if strings.Contains(path, sep+".git"+sep) {
		return true
	}
	if strings.Contains(path, sep+"node_modules"+sep) {
		return true
	}
	if strings.Contains(path, sep+"dist"+sep) {
		return true
	}
	if strings.Contains(path, sep+"build"+sep) {
		return true
	}
	if strings.Contains(path, sep+".cache"+sep) {
		return true
	}
	switch filepath.Base(path) {
	case ".git", "node_modules", "dist", "build", ".cache":
		return true
	}
	return false
}

func (s *Service) schedule(repoID int64) {
	s.mu.Lock()
	if t, ok := s.notifyTimers[repoID]; ok {
		t.Stop()
	}
	var t *time.Timer
	delay := s.debounce
	if delay <= 0 {
		delay = 200 * time.Millisecond
	}
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		emit := s.onDiff
		if cur, ok := s.notifyTimers[repoID]; ok && cur == t {
			delete(s.notifyTimers, repoID)
		}
		s.mu.Unlock()
		if emit != nil {
			emit(repoID)
		}
	})
	s.notifyTimers[repoID] = t
	s.mu.Unlock()
}

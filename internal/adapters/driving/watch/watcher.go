// Package watch turns file uploads into delayed index rebuilds.
//
// The uploads root holds one directory per shop, named by the shop id.
// Any change to a non-hidden file below a shop directory schedules an
// upload rebuild of that shop's tenant; the refresher coalesces bursts.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driving"
	"github.com/Akashog123/textile-saas-app-sub000/internal/logger"
)

// DefaultDelay is how long a shop waits after an upload before rebuilding.
const DefaultDelay = 2 * time.Second

// ErrWatcherClosed is returned by Run after Close.
var ErrWatcherClosed = errors.New("watch: watcher closed")

// UploadWatcher watches the uploads root and every shop directory in it.
type UploadWatcher struct {
	root    string
	refresh driving.RefreshService
	delay   time.Duration

	fsw *fsnotify.Watcher

	mu     sync.Mutex
	closed bool
}

// NewUploadWatcher creates the uploads root if needed and starts watching
// it together with the shop directories it already holds.
func NewUploadWatcher(root string, refresh driving.RefreshService, delay time.Duration) (*UploadWatcher, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: uploads directory is required", domain.ErrInvalidInput)
	}
	if refresh == nil {
		return nil, fmt.Errorf("%w: refresh service is required", domain.ErrInvalidInput)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &UploadWatcher{
		root:    filepath.Clean(root),
		refresh: refresh,
		delay:   delay,
		fsw:     fsw,
	}

	if err := fsw.Add(w.root); err != nil {
		fsw.Close() //nolint:errcheck
		return nil, fmt.Errorf("watch %s: %w", w.root, err)
	}

	entries, err := os.ReadDir(w.root)
	if err != nil {
		fsw.Close() //nolint:errcheck
		return nil, fmt.Errorf("read uploads dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, ok := parseShopDir(e.Name()); !ok {
			continue
		}
		if err := fsw.Add(filepath.Join(w.root, e.Name())); err != nil {
			logger.Warn("watch: skipping %s: %v", e.Name(), err)
		}
	}

	return w, nil
}

// Root returns the watched uploads directory.
func (w *UploadWatcher) Root() string {
	return w.root
}

// Run dispatches filesystem events until ctx is cancelled or the watcher
// is closed.
func (w *UploadWatcher) Run(ctx context.Context) error {
	logger.Info("watch: watching %s", w.root)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return ErrWatcherClosed
			}
			w.dispatch(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			logger.Warn("watch: %v", err)
		}
	}
}

func (w *UploadWatcher) dispatch(event fsnotify.Event) {
	tenant, ok := w.handleEvent(event)
	if !ok {
		return
	}

	ack, err := w.refresh.Schedule(tenant, domain.ReasonUpload, w.delay)
	if err != nil {
		logger.Warn("watch: schedule %s: %v", tenant, err)
		return
	}
	logger.Debug("watch: %s %s -> %s (%s)", event.Op, event.Name, tenant, ack)
}

// handleEvent maps an event to the tenant it invalidates. A new shop
// directory is added to the watch list.
func (w *UploadWatcher) handleEvent(event fsnotify.Event) (domain.TenantID, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	shopID, ok := parseShopDir(parts[0])
	if !ok {
		return "", false
	}

	if len(parts) == 1 {
		// Events on the shop directory itself.
		if event.Has(fsnotify.Create) {
			info, err := os.Stat(event.Name)
			if err != nil || !info.IsDir() {
				return "", false
			}
			if err := w.fsw.Add(event.Name); err != nil {
				logger.Warn("watch: add %s: %v", event.Name, err)
			}
		}
		return domain.ShopTenant(shopID), true
	}

	if isHidden(parts[len(parts)-1]) {
		return "", false
	}
	return domain.ShopTenant(shopID), true
}

// Close stops watching. It is safe to call more than once.
func (w *UploadWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}

func parseShopDir(name string) (int64, bool) {
	id, err := strconv.ParseInt(name, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

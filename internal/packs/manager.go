package packs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/partycards/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Entry is a collection held by the Manager.
type Entry struct {
	Name       string
	Collection *Collection
	LoadedAt   time.Time
}

// Manager caches pack collections in memory on top of a persistent Store.
// It is safe for concurrent use.
type Manager struct {
	store   storage.Store
	fetcher Fetcher
	clock   quartz.Clock
	logger  *log.Logger

	mu     sync.RWMutex
	loaded map[string]Entry
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithFetcher sets the Fetcher used by Download.
func WithFetcher(f Fetcher) ManagerOption {
	return func(m *Manager) { m.fetcher = f }
}

// WithClock sets the clock used to stamp loaded entries.
func WithClock(c quartz.Clock) ManagerOption {
	return func(m *Manager) { m.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l.WithPrefix("packs") }
}

// NewManager returns a Manager backed by store. Call Refresh to load what the
// store already holds.
func NewManager(store storage.Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  store,
		clock:  quartz.NewReal(),
		logger: log.New(io.Discard),
		loaded: make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Refresh drops the in-memory cache and reloads every pack key from the
// store. Entries that fail validation are skipped and reported together in
// the returned error; valid entries are still loaded.
func (m *Manager) Refresh(ctx context.Context) error {
	keys, err := m.store.Keys(ctx)
	if err != nil {
		return fmt.Errorf("list stored packs: %w", err)
	}

	loaded := make(map[string]Entry)
	var errs []error
	for _, key := range keys {
		name, ok := storage.PackName(key)
		if !ok {
			continue
		}
		data, err := m.store.Get(ctx, key)
		if err != nil {
			errs = append(errs, fmt.Errorf("load %q: %w", name, err))
			continue
		}
		c, err := DecodeBytes(data)
		if err != nil {
			m.logger.Warn("Skipping invalid cached pack", "name", name, "error", err)
			errs = append(errs, fmt.Errorf("load %q: %w", name, err))
			continue
		}
		loaded[name] = Entry{Name: name, Collection: c, LoadedAt: m.clock.Now()}
	}

	m.mu.Lock()
	m.loaded = loaded
	m.mu.Unlock()

	m.logger.Debug("Refreshed packs from storage", "count", len(loaded))
	return errors.Join(errs...)
}

// Get returns the named collection if it is loaded.
func (m *Manager) Get(name string) (*Collection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.loaded[name]
	return e.Collection, ok
}

// Entries returns every loaded collection ordered by name.
func (m *Manager) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, 0, len(m.loaded))
	for _, e := range m.loaded {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the names of every loaded collection in order.
func (m *Manager) Names() []string {
	entries := m.Entries()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Import validates data and stores it under name, replacing any existing
// collection of that name. The bytes are stored as given. The returned entry
// stays valid even if the collection is deleted afterwards.
func (m *Manager) Import(ctx context.Context, name string, data []byte) (Entry, error) {
	if name == "" {
		return Entry{}, errors.New("pack collection name required")
	}
	c, err := DecodeBytes(data)
	if err != nil {
		return Entry{}, fmt.Errorf("import %q: %w", name, err)
	}
	if err := m.store.Put(ctx, storage.PackKey(name), data); err != nil {
		return Entry{}, fmt.Errorf("cache %q: %w", name, err)
	}

	e := Entry{Name: name, Collection: c, LoadedAt: m.clock.Now()}
	m.mu.Lock()
	m.loaded[name] = e
	m.mu.Unlock()

	m.logger.Info("Stored pack collection", "name", name, "packs", len(c.Packs), "white", len(c.White), "black", len(c.Black))
	return e, nil
}

// Download fetches src and caches it under src.Name, overwriting any
// previous copy.
func (m *Manager) Download(ctx context.Context, src Source) (Entry, error) {
	if m.fetcher == nil {
		return Entry{}, errors.New("no fetcher configured")
	}
	m.logger.Info("Downloading pack collection", "name", src.Name, "url", src.URL)
	data, err := m.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return Entry{}, fmt.Errorf("download %q: %w", src.Name, err)
	}
	return m.Import(ctx, src.Name, data)
}

// DownloadAll downloads every source concurrently and stops at the first
// failure.
func (m *Manager) DownloadAll(ctx context.Context, sources []Source) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		g.Go(func() error {
			_, err := m.Download(ctx, src)
			return err
		})
	}
	return g.Wait()
}

// Delete removes a collection from memory and from the store.
func (m *Manager) Delete(ctx context.Context, name string) error {
	if err := m.store.Delete(ctx, storage.PackKey(name)); err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	m.mu.Lock()
	delete(m.loaded, name)
	m.mu.Unlock()

	m.logger.Info("Deleted pack collection", "name", name)
	return nil
}

// SelectionFromRaw looks up the collection of every raw selection. Pack
// names are checked later, when the selections are resolved.
func (m *Manager) SelectionFromRaw(raw []RawSelection) ([]Selection, error) {
	out := make([]Selection, 0, len(raw))
	for _, r := range raw {
		c, ok := m.Get(r.Collection)
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", ErrCollectionNotFound, r.Collection)
		}
		out = append(out, Selection{PackName: r.Pack, Collection: c})
	}
	return out, nil
}

// ResolveRaw looks up and resolves raw selections in one step.
func (m *Manager) ResolveRaw(raw []RawSelection) (Cards, error) {
	sels, err := m.SelectionFromRaw(raw)
	if err != nil {
		return Cards{}, err
	}
	return Resolve(sels...)
}

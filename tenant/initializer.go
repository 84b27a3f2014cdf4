// Package tenant keeps a theme store in step with the tenant currently
// being viewed, across navigation and asynchronous record loads.
package tenant

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"menutheme/colormath"
	"menutheme/model"
	"menutheme/theme"
)

// Loader fetches a tenant's location record.
type Loader interface {
	Location(ctx context.Context, slug string) (*model.Location, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, slug string) (*model.Location, error)

// Location calls f(ctx, slug).
func (f LoaderFunc) Location(ctx context.Context, slug string) (*model.Location, error) {
	return f(ctx, slug)
}

// Ticket identifies the navigation a load was requested under. Seq orders
// loads within one generation; tickets from Navigate and Current carry 0.
type Ticket struct {
	Slug       string
	Generation uint64
	Seq        uint64
}

// Initializer binds one theme store to the tenant being viewed. A slug
// change bumps the generation and resets the store to the default theme
// before any load for the new slug can resolve; resolutions carrying an
// older generation, or an older load of the same generation than one
// already resolved, are discarded.
type Initializer struct {
	mu         sync.Mutex
	store      *theme.Store
	loader     Loader
	logger     zerolog.Logger
	slug       string
	generation uint64
	seq        uint64
	latest     uint64
	pending    int
	mounted    bool

	inflight sync.WaitGroup
}

// New returns an initializer for store that loads records through loader.
func New(store *theme.Store, loader Loader, logger zerolog.Logger) *Initializer {
	return &Initializer{
		store:  store,
		loader: loader,
		logger: logger,
	}
}

// Mount applies whatever the store holds. Only the first call writes.
func (i *Initializer) Mount() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.mounted {
		return
	}
	i.mounted = true
	i.store.Apply()
}

// Navigate records slug as the tenant being viewed. A different slug than
// the tracked one starts a new generation and resets the store at once;
// the same slug returns the current ticket untouched.
func (i *Initializer) Navigate(slug string) Ticket {
	i.mu.Lock()
	defer i.mu.Unlock()

	if slug == i.slug && i.generation > 0 {
		return i.currentLocked()
	}

	prev := i.slug
	i.slug = slug
	i.generation++
	i.latest = 0
	i.pending = 0
	i.store.ResetToDefault()

	i.logger.Debug().
		Str("from", prev).
		Str("to", slug).
		Uint64("generation", i.generation).
		Msg("tenant changed, theme reset")

	return i.currentLocked()
}

// Current returns the ticket of the tenant being viewed.
func (i *Initializer) Current() Ticket {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.currentLocked()
}

func (i *Initializer) currentLocked() Ticket {
	return Ticket{Slug: i.slug, Generation: i.generation}
}

func (i *Initializer) isCurrentLocked(t Ticket) bool {
	return t.Slug == i.slug && t.Generation == i.generation
}

// Loading reports whether any load for the current tenant is outstanding.
func (i *Initializer) Loading() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.pending > 0
}

// Resolve reconciles the store with a finished load. It reports whether a
// new color was applied. Stale tickets and failed loads change nothing;
// a failed load leaves the default theme in place.
func (i *Initializer) Resolve(t Ticket, loc *model.Location, err error) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.isCurrentLocked(t) {
		i.logger.Debug().
			Str("slug", t.Slug).
			Uint64("generation", t.Generation).
			Uint64("current", i.generation).
			Msg("discarding stale tenant load")
		return false
	}
	if t.Seq > 0 && i.pending > 0 {
		i.pending--
	}
	if t.Seq < i.latest {
		i.logger.Debug().
			Str("slug", t.Slug).
			Uint64("seq", t.Seq).
			Uint64("latest", i.latest).
			Msg("discarding superseded tenant reload")
		return false
	}
	i.latest = t.Seq

	if err != nil {
		i.logger.Warn().Err(err).Str("slug", t.Slug).Msg("tenant load failed, keeping default theme")
		return false
	}
	if loc == nil {
		return false
	}

	want := colormath.DefaultColor
	if c := loc.Color(); c != "" {
		want = colormath.Normalize(c)
	}
	if i.store.Initialized() && want == i.store.BaseColor() {
		return false
	}

	i.store.SetColor(want)
	i.logger.Info().Str("slug", t.Slug).Str("color", want).Msg("tenant theme applied")
	return true
}

// Track navigates to slug and loads its record in the background. The
// returned ticket is the one the load resolves with.
func (i *Initializer) Track(ctx context.Context, slug string) Ticket {
	return i.load(ctx, i.Navigate(slug))
}

// Refresh reloads the current tenant without resetting the theme.
// It does nothing before the first navigation.
func (i *Initializer) Refresh(ctx context.Context) {
	t := i.Current()
	if t.Generation == 0 {
		return
	}
	i.load(ctx, t)
}

func (i *Initializer) load(ctx context.Context, t Ticket) Ticket {
	if ctx.Err() != nil {
		return t
	}

	i.mu.Lock()
	if i.isCurrentLocked(t) {
		i.seq++
		i.pending++
		t.Seq = i.seq
	}
	i.mu.Unlock()

	i.inflight.Add(1)
	go func() {
		defer i.inflight.Done()
		loc, err := i.loader.Location(ctx, t.Slug)
		i.Resolve(t, loc, err)
	}()
	return t
}

// Wait blocks until every background load has resolved.
func (i *Initializer) Wait() {
	i.inflight.Wait()
}

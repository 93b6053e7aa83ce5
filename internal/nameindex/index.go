package nameindex

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/langexch/langexch/internal/language"
)

// Source supplies the stored languages the index mirrors
type Source interface {
	GetLanguage(ctx context.Context, id int64) (language.Language, error)
	GetLanguages(ctx context.Context) ([]language.Language, error)
}

// Index keeps an in-memory view of stored ids and names so existence and
// duplicate checks avoid a storage round trip. Misses on id lookups fall
// through to the source. The storage UNIQUE constraint stays authoritative
// for names; a stale index only changes which error a request sees.
type Index struct {
	source Source

	mu    sync.RWMutex
	names map[int64]string
	ids   map[string]int64

	cron        *cron.Cron
	cronEntryID cron.EntryID
	running     bool
	lastSync    time.Time
}

// New creates an empty index backed by source
func New(source Source) *Index {
	return &Index{
		source: source,
		names:  make(map[int64]string),
		ids:    make(map[string]int64),
		cron:   cron.New(),
	}
}

// Warm loads the index from storage before the first request is served
func (x *Index) Warm(ctx context.Context) error {
	if err := x.Resync(ctx); err != nil {
		return err
	}
	log.Info().Int("count", x.Len()).Msg("Language index warmed")
	return nil
}

// Resync replaces the index contents with the current stored languages
func (x *Index) Resync(ctx context.Context) error {
	languages, err := x.source.GetLanguages(ctx)
	if err != nil {
		return fmt.Errorf("failed to load languages: %w", err)
	}

	names := make(map[int64]string, len(languages))
	ids := make(map[string]int64, len(languages))
	for _, l := range languages {
		names[l.ID] = l.Name
		ids[l.Name] = l.ID
	}

	x.mu.Lock()
	x.names = names
	x.ids = ids
	x.lastSync = time.Now()
	x.mu.Unlock()

	log.Debug().Int("count", len(languages)).Msg("Language index synced")
	return nil
}

// HasID reports whether a language with id exists, consulting storage on a miss
func (x *Index) HasID(ctx context.Context, id int64) (bool, error) {
	x.mu.RLock()
	_, ok := x.names[id]
	x.mu.RUnlock()
	if ok {
		return true, nil
	}

	l, err := x.source.GetLanguage(ctx, id)
	if errors.Is(err, language.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	x.Put(l.ID, l.Name)
	return true, nil
}

// HasName reports whether name is known to be taken
func (x *Index) HasName(name string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.ids[name]
	return ok
}

// Put records id under name, dropping any previous name for id
func (x *Index) Put(id int64, name string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if old, ok := x.names[id]; ok && x.ids[old] == id {
		delete(x.ids, old)
	}
	x.names[id] = name
	x.ids[name] = id
}

// Remove forgets id and its name
func (x *Index) Remove(id int64) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if name, ok := x.names[id]; ok {
		if x.ids[name] == id {
			delete(x.ids, name)
		}
		delete(x.names, id)
	}
}

// Len returns the number of indexed languages
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.names)
}

// LastSync returns when the index was last fully rebuilt
func (x *Index) LastSync() time.Time {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.lastSync
}

// Start schedules periodic resyncs. An empty schedule disables them.
func (x *Index) Start(schedule string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.running {
		return nil
	}

	if schedule != "" {
		id, err := x.cron.AddFunc(schedule, x.scheduledResync)
		if err != nil {
			return fmt.Errorf("invalid resync schedule %q: %w", schedule, err)
		}
		x.cronEntryID = id
	}

	x.cron.Start()
	x.running = true

	log.Info().Str("schedule", schedule).Msg("Language index resync scheduled")
	return nil
}

// Stop halts scheduled resyncs and waits for a running one to finish
func (x *Index) Stop() {
	x.mu.Lock()
	if !x.running {
		x.mu.Unlock()
		return
	}
	if x.cronEntryID != 0 {
		x.cron.Remove(x.cronEntryID)
		x.cronEntryID = 0
	}
	x.running = false
	x.mu.Unlock()

	// scheduledResync takes the lock, so wait outside it
	ctx := x.cron.Stop()
	<-ctx.Done()
}

// scheduledResync is called by cron
func (x *Index) scheduledResync() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := x.Resync(ctx); err != nil {
		log.Error().Err(err).Msg("Scheduled language index resync failed")
	}
}

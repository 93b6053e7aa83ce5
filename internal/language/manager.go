package language

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

// Store is the storage contract the manager delegates to
type Store interface {
	AddLanguage(ctx context.Context, name string) (int64, error)
	UpdateLanguage(ctx context.Context, id int64, name string) error
	DeleteLanguage(ctx context.Context, id int64) error
	GetLanguage(ctx context.Context, id int64) (string, error)
	GetLanguages(ctx context.Context) (map[int64]string, error)
}

// Manager validates language input and delegates to storage
type Manager struct {
	store Store
}

// NewManager creates a new language manager
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// AddLanguage validates name and stores a new language.
// It returns 0 when storage reported no identifier.
func (m *Manager) AddLanguage(ctx context.Context, name string) (int64, error) {
	if err := Validate(name); err != nil {
		log.Debug().Err(err).Msg("Rejected language name")
		return 0, err
	}

	id, err := m.store.AddLanguage(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to add language %s: %w", name, err)
	}

	log.Debug().Int64("lang_id", id).Str("lang_name", name).Msg("Language added")
	return id, nil
}

// UpdateLanguage validates name and renames the language with the given id
func (m *Manager) UpdateLanguage(ctx context.Context, id int64, name string) error {
	if err := Validate(name); err != nil {
		log.Debug().Err(err).Msg("Rejected language name")
		return err
	}

	if err := m.store.UpdateLanguage(ctx, id, name); err != nil {
		return fmt.Errorf("failed to update language %d: %w", id, err)
	}

	log.Debug().Int64("lang_id", id).Str("lang_name", name).Msg("Language updated")
	return nil
}

// DeleteLanguage removes the language with the given id.
// Deleting an id that no longer exists is not an error.
func (m *Manager) DeleteLanguage(ctx context.Context, id int64) error {
	if err := m.store.DeleteLanguage(ctx, id); err != nil {
		return fmt.Errorf("failed to delete language %d: %w", id, err)
	}

	log.Debug().Int64("lang_id", id).Msg("Language deleted")
	return nil
}

// GetLanguage returns the language with the given id or ErrNotFound
func (m *Manager) GetLanguage(ctx context.Context, id int64) (Language, error) {
	name, err := m.store.GetLanguage(ctx, id)
	if err != nil {
		return Language{}, fmt.Errorf("failed to get language %d: %w", id, err)
	}
	return Language{ID: id, Name: name}, nil
}

// GetLanguages returns every stored language ordered by id
func (m *Manager) GetLanguages(ctx context.Context) ([]Language, error) {
	byID, err := m.store.GetLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}

	languages := make([]Language, 0, len(byID))
	for id, name := range byID {
		languages = append(languages, Language{ID: id, Name: name})
	}
	slices.SortFunc(languages, func(a, b Language) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return languages, nil
}

package ports

import (
	"context"

	"github.com/habitmaster/core/internal/domain/entities"
)

// HabitRepository defines the interface for habit storage operations.
// Implementations hold no state between calls.
type HabitRepository interface {
	// Load reads the whole store. A missing backing file yields an empty store.
	Load(ctx context.Context) (*entities.HabitStore, error)

	// Save replaces the backing file with store.
	Save(ctx context.Context, store *entities.HabitStore) error
}

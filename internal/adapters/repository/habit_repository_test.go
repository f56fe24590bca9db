package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitmaster/core/internal/domain/entities"
	"github.com/habitmaster/core/internal/infrastructure/config"
	"github.com/habitmaster/core/internal/infrastructure/datafile"
	"github.com/habitmaster/core/internal/infrastructure/logger"
)

func newTestRepository(t *testing.T) (*HabitRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habit_data.json")
	file, err := datafile.New(config.StorageConfig{Path: path})
	require.NoError(t, err)
	return NewHabitRepository(file, logger.NewNop()), path
}

func TestHabitRepository_LoadMissingFile(t *testing.T) {
	repo, _ := newTestRepository(t)

	store, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestHabitRepository_LoadPreservesDocumentOrder(t *testing.T) {
	repo, path := newTestRepository(t)
	doc := `{
  "Zzz": {"category": "rest", "dates": []},
  "Drink Water": {"category": "health", "dates": ["2024-01-02", "2024-01-01"]},
  "Anki": {"category": "growth", "dates": ["2024-01-01"], "extra": true}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	store, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Zzz", "Drink Water", "Anki"}, store.Names())
	h, ok := store.Get("Drink Water")
	require.True(t, ok)
	assert.Equal(t, "health", h.Category)
	assert.Equal(t, []string{"2024-01-02", "2024-01-01"}, h.Dates)
}

func TestHabitRepository_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty file", doc: ""},
		{name: "truncated", doc: `{"Read": {"category": "growth", "dates": [`},
		{name: "top level array", doc: `[]`},
		{name: "record not object", doc: `{"Read": "growth"}`},
		{name: "missing category", doc: `{"Read": {"dates": []}}`},
		{name: "category not string", doc: `{"Read": {"category": 3, "dates": []}}`},
		{name: "missing dates", doc: `{"Read": {"category": "growth"}}`},
		{name: "dates not array", doc: `{"Read": {"category": "growth", "dates": "2024-01-01"}}`},
		{name: "date not string", doc: `{"Read": {"category": "growth", "dates": [20240101]}}`},
		{name: "malformed date", doc: `{"Read": {"category": "growth", "dates": ["01/01/2024"]}}`},
		{name: "duplicate date", doc: `{"Read": {"category": "growth", "dates": ["2024-01-01", "2024-01-01"]}}`},
		{name: "duplicate habit key", doc: `{"Read": {"category": "a", "dates": []}, "Read": {"category": "b", "dates": []}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, path := newTestRepository(t)
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0o644))

			store, err := repo.Load(context.Background())
			assert.Nil(t, store)
			assert.ErrorIs(t, err, entities.ErrStorageCorrupt)
		})
	}
}

func TestHabitRepository_SaveFormat(t *testing.T) {
	repo, path := newTestRepository(t)
	store := entities.NewHabitStore()
	require.NoError(t, store.Insert("Drink Water", &entities.Habit{Category: "health", Dates: []string{"2024-01-01", "2024-01-02"}}))
	require.NoError(t, store.Insert("Read", &entities.Habit{Category: "growth"}))

	require.NoError(t, repo.Save(context.Background(), store))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	expected := `{
  "Drink Water": {
    "category": "health",
    "dates": [
      "2024-01-01",
      "2024-01-02"
    ]
  },
  "Read": {
    "category": "growth",
    "dates": []
  }
}
`
	assert.Equal(t, expected, string(data))
}

func TestHabitRepository_RoundTrip(t *testing.T) {
	repo, path := newTestRepository(t)
	doc := `{"Drink Water": {"category": "health", "dates": ["2024-01-03", "2024-01-01"]}, "Read": {"category": "", "dates": []}, "Ünïcode \"quoted\"": {"category": "misc", "dates": ["2024-02-29"]}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	store, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), store))

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(saved))

	// A second load/save cycle leaves the bytes untouched.
	store, err = repo.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), store))
	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(saved), string(again))

	var decoded map[string]entities.Habit
	require.NoError(t, json.Unmarshal(again, &decoded))
	assert.Equal(t, []string{"2024-01-03", "2024-01-01"}, decoded["Drink Water"].Dates)
}

func TestHabitRepository_CanceledContext(t *testing.T) {
	repo, path := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	err = repo.Save(ctx, entities.NewHabitStore())
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}

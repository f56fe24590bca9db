package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/tidwall/gjson"

	"github.com/habitmaster/core/internal/domain/entities"
	"github.com/habitmaster/core/internal/infrastructure/datafile"
	"github.com/habitmaster/core/internal/infrastructure/logger"
)

// HabitRepository persists the habit store as one JSON document
type HabitRepository struct {
	file   *datafile.DataFile
	logger *logger.Logger
}

// NewHabitRepository creates a new JSON file habit repository
func NewHabitRepository(file *datafile.DataFile, logger *logger.Logger) *HabitRepository {
	return &HabitRepository{
		file:   file,
		logger: logger.WithComponent("habit_repository"),
	}
}

// Load reads the whole habit store from the data file
func (r *HabitRepository) Load(ctx context.Context) (*entities.HabitStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	data, exists, err := r.file.ReadAll()
	if err != nil {
		r.logger.LogStorageOperation("load", r.file.Path(), 0, elapsedMs(start), err)
		return nil, err
	}
	if !exists {
		r.logger.Infow("Data file not found, starting with empty store", "path", r.file.Path())
		return entities.NewHabitStore(), nil
	}

	store, err := decodeStore(data)
	if err != nil {
		err = fmt.Errorf("%s: %w", r.file.Path(), err)
		r.logger.LogStorageOperation("load", r.file.Path(), 0, elapsedMs(start), err)
		return nil, err
	}

	r.logger.LogStorageOperation("load", r.file.Path(), store.Len(), elapsedMs(start), nil)
	return store, nil
}

// Save rewrites the data file with the full store
func (r *HabitRepository) Save(ctx context.Context, store *entities.HabitStore) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode habit store: %w", err)
	}
	data = append(data, '\n')

	err = r.file.ReplaceAtomically(func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write habit store: %w", err)
		}
		return nil
	})
	r.logger.LogStorageOperation("save", r.file.Path(), store.Len(), elapsedMs(start), err)
	return err
}

// decodeStore parses the document, keeping key order as insertion order.
// Any deviation from the expected shape is reported as ErrStorageCorrupt.
func decodeStore(data []byte) (*entities.HabitStore, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", entities.ErrStorageCorrupt)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level must be an object", entities.ErrStorageCorrupt)
	}

	store := entities.NewHabitStore()
	var decodeErr error
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		habit, err := decodeHabit(value)
		if err != nil {
			decodeErr = fmt.Errorf("%w: habit %q: %v", entities.ErrStorageCorrupt, name, err)
			return false
		}
		if err := store.Insert(name, habit); err != nil {
			decodeErr = fmt.Errorf("%w: habit %q appears more than once", entities.ErrStorageCorrupt, name)
			return false
		}
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}

	return store, nil
}

func decodeHabit(value gjson.Result) (*entities.Habit, error) {
	if !value.IsObject() {
		return nil, fmt.Errorf("record must be an object")
	}

	category := value.Get("category")
	if category.Type != gjson.String {
		return nil, fmt.Errorf("category must be a string")
	}

	datesField := value.Get("dates")
	if !datesField.IsArray() {
		return nil, fmt.Errorf("dates must be an array")
	}

	elems := datesField.Array()
	dates := make([]string, 0, len(elems))
	seen := make(map[string]struct{}, len(elems))
	for _, elem := range elems {
		if elem.Type != gjson.String {
			return nil, fmt.Errorf("dates must contain strings")
		}
		date := elem.String()
		if _, err := entities.ParseDate(date); err != nil {
			return nil, fmt.Errorf("invalid date %q", date)
		}
		if _, dup := seen[date]; dup {
			return nil, fmt.Errorf("duplicate date %q", date)
		}
		seen[date] = struct{}{}
		dates = append(dates, date)
	}

	return &entities.Habit{Category: category.String(), Dates: dates}, nil
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / 1000000
}

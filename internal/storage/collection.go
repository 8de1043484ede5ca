package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// LoadCollection reads the whole collection stored under key.
// A missing key or a blob that does not parse yields an empty collection;
// only backend failures are returned as errors.
func LoadCollection[T any](ctx context.Context, s Store, key string, logger *zap.SugaredLogger) ([]T, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warnw("Discarding unparsable collection", "key", key, "error", err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// SaveCollection serializes the entire collection and overwrites key.
func SaveCollection[T any](ctx context.Context, s Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

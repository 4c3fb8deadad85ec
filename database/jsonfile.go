package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// rename is replaced in tests to simulate a failed write
var rename = os.Rename

// collection is one JSON array on disk. Every load reads the whole file and
// every save rewrites it; callers hold the store lock around load/save pairs.
type collection[T any] struct {
	path string
}

func (c collection[T]) load() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := c.save(nil); err != nil {
			return nil, err
		}
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(c.path), err)
	}

	items := []T{}
	if len(bytes.TrimSpace(data)) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(c.path), err)
	}
	return items, nil
}

// save writes to a temp file in the same directory and renames it over the
// target, so readers never see a partially written array.
func (c collection[T]) save(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(c.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(c.path), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(c.path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(c.path), err)
	}
	if err := rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(c.path), err)
	}
	return nil
}

func (c collection[T]) ensure() error {
	_, err := c.load()
	return err
}

func maxID[T any](items []T, id func(T) int64) int64 {
	var last int64
	for _, item := range items {
		if v := id(item); v > last {
			last = v
		}
	}
	return last
}

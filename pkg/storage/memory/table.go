package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/storage"
)

// table is a locked map of rows keyed by id with unique keys and
// whitelisted sort columns, mirroring the Postgres repositories
type table[T any] struct {
	mu       sync.RWMutex
	entity   string
	rows     map[uuid.UUID]T
	id       func(T) uuid.UUID
	setID    func(*T, uuid.UUID)
	unique   func(T) []string
	sortable map[string]func(T) string
	fallback string
}

func (t *table[T]) notFound() error {
	return fmt.Errorf("%s: %w", t.entity, storage.ErrNotFound)
}

func (t *table[T]) get(id uuid.UUID) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, t.notFound()
	}
	return row, nil
}

func (t *table[T]) first(match func(T) bool) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, row := range t.rows {
		if match(row) {
			return row, nil
		}
	}
	var zero T
	return zero, t.notFound()
}

// conflictLocked reports whether row shares a unique key with another row
func (t *table[T]) conflictLocked(row T) error {
	if t.unique == nil {
		return nil
	}
	keys := t.unique(row)
	for id, other := range t.rows {
		if id == t.id(row) {
			continue
		}
		for i, key := range t.unique(other) {
			if key == keys[i] {
				return fmt.Errorf("%s %d: %w", t.entity, i, storage.ErrConflict)
			}
		}
	}
	return nil
}

func (t *table[T]) insert(row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.setID(row, uuid.New())
	if err := t.conflictLocked(*row); err != nil {
		return err
	}
	t.rows[t.id(*row)] = *row
	return nil
}

func (t *table[T]) update(row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[t.id(row)]; !ok {
		return t.notFound()
	}
	if err := t.conflictLocked(row); err != nil {
		return err
	}
	t.rows[t.id(row)] = row
	return nil
}

func (t *table[T]) delete(id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return t.notFound()
	}
	delete(t.rows, id)
	return nil
}

func (t *table[T]) page(match func(T) bool, pageable model.Pageable) model.Page[T] {
	pageable = pageable.Normalize()

	t.mu.RLock()
	var rows []T
	for _, row := range t.rows {
		if match(row) {
			rows = append(rows, row)
		}
	}
	t.mu.RUnlock()

	key, ok := t.sortable[pageable.Sort.Column]
	if !ok {
		key = t.sortable[t.fallback]
	}
	desc := ok && pageable.Sort.Direction == model.Desc
	sort.Slice(rows, func(i, j int) bool {
		a, b := key(rows[i]), key(rows[j])
		if a != b {
			return (a < b) != desc
		}
		return t.id(rows[i]).String() < t.id(rows[j]).String()
	})

	total := int64(len(rows))
	from := pageable.Offset()
	if from > len(rows) {
		from = len(rows)
	}
	to := from + pageable.Size
	if to > len(rows) || to < from {
		to = len(rows)
	}
	return model.NewPage(rows[from:to], pageable, total)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

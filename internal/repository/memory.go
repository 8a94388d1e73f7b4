package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/vilain-Petit-Canard/API-Films/internal/models"
)

// MemoryStore keeps collections in process memory. Documents are deep
// copied on the way in and out so callers never share state with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	cols map[string]*memoryData
}

type memoryData struct {
	docs  map[string]models.Document
	order []string // insertion order, for stable ties
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cols: make(map[string]*memoryData)}
}

func (s *MemoryStore) Collection(name string) Collection {
	return &memoryCollection{store: s, name: name}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Count returns the number of documents in a collection.
func (s *MemoryStore) Count(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.cols[name]; ok {
		return len(d.docs)
	}
	return 0
}

// data must be called with s.mu held for writing.
func (s *MemoryStore) data(name string) *memoryData {
	d, ok := s.cols[name]
	if !ok {
		d = &memoryData{docs: make(map[string]models.Document)}
		s.cols[name] = d
	}
	return d
}

type memoryCollection struct {
	store *MemoryStore
	name  string
}

func (c *memoryCollection) insertLocked(doc models.Document) string {
	d := c.store.data(c.name)
	id := uuid.NewString()
	d.docs[id] = copyDocument(stripID(doc))
	d.order = append(d.order, id)
	return id
}

func (c *memoryCollection) Add(ctx context.Context, doc models.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.insertLocked(doc), nil
}

func (c *memoryCollection) Get(ctx context.Context, id string) (models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	d, ok := c.store.cols[c.name]
	if !ok {
		return nil, nil
	}
	doc, ok := d.docs[id]
	if !ok {
		return nil, nil
	}
	return copyDocument(doc), nil
}

func (c *memoryCollection) Update(ctx context.Context, id string, partial models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	d, ok := c.store.cols[c.name]
	if !ok {
		return ErrNotFound
	}
	doc, ok := d.docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range stripID(partial) {
		doc[k] = copyValue(v)
	}
	return nil
}

func (c *memoryCollection) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	d, ok := c.store.cols[c.name]
	if !ok {
		return nil
	}
	if _, ok := d.docs[id]; !ok {
		return nil
	}
	delete(d.docs, id)
	for i, oid := range d.order {
		if oid == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *memoryCollection) Where(ctx context.Context, field string, op Operator, value any) ([]models.Record, error) {
	if err := checkOperator(op); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return c.whereLocked(field, op, value), nil
}

func (c *memoryCollection) whereLocked(field string, op Operator, value any) []models.Record {
	d, ok := c.store.cols[c.name]
	if !ok {
		return nil
	}
	var out []models.Record
	for _, id := range d.order {
		doc := d.docs[id]
		v, present := doc[field]
		if !present {
			continue
		}
		if matches(v, op, value) {
			out = append(out, models.Record{ID: id, Data: copyDocument(doc)})
		}
	}
	return out
}

func (c *memoryCollection) List(ctx context.Context, field string, dir Direction, limit int) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	d, ok := c.store.cols[c.name]
	if !ok {
		return []models.Record{}, nil
	}

	out := make([]models.Record, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, models.Record{ID: id, Data: d.docs[id]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		cmp := compareValues(out[i].Data[field], out[j].Data[field])
		if dir == Desc {
			return cmp > 0
		}
		return cmp < 0
	})

	if n := absLimit(limit); n > 0 && n < len(out) {
		out = out[:n]
	}
	for i := range out {
		out[i].Data = copyDocument(out[i].Data)
	}
	return out, nil
}

func (c *memoryCollection) InsertIfAbsent(ctx context.Context, field string, value any, doc models.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if len(c.whereLocked(field, OpEq, value)) > 0 {
		return "", ErrDuplicate
	}
	return c.insertLocked(doc), nil
}

func copyDocument(doc models.Document) models.Document {
	out := make(models.Document, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case models.Document:
		return map[string]any(copyDocument(x))
	case map[string]any:
		return map[string]any(copyDocument(x))
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}

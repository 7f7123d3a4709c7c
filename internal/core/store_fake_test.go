package core

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	mu          sync.Mutex
	collections map[uuid.UUID]Collection
	recordTypes map[uuid.UUID]RecordType
	imports     []ImportEntry
	records     []Record
	saveErr     error
}

func newMemStore() *memStore {
	return &memStore{
		collections: make(map[uuid.UUID]Collection),
		recordTypes: make(map[uuid.UUID]RecordType),
	}
}

func (m *memStore) ListCollections(ctx context.Context) ([]Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Collection, 0, len(m.collections))
	for _, c := range m.collections {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetCollection(ctx context.Context, id uuid.UUID) (Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[id]
	if !ok {
		return Collection{}, ErrNotFound
	}
	return c, nil
}

func (m *memStore) ListRecordTypes(ctx context.Context) ([]RecordType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordType, 0, len(m.recordTypes))
	for _, rt := range m.recordTypes {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetRecordType(ctx context.Context, id uuid.UUID) (RecordType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.recordTypes[id]
	if !ok {
		return RecordType{}, ErrNotFound
	}
	return rt, nil
}

func (m *memStore) UpsertCatalog(ctx context.Context, cat Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range cat.Collections {
		if m.findCollection(c.Name) == uuid.Nil {
			id := NewID()
			m.collections[id] = Collection{ID: id, Name: c.Name}
		}
	}
	for _, r := range cat.RecordTypes {
		id := m.findRecordType(r.Name)
		if id == uuid.Nil {
			id = NewID()
		}
		m.recordTypes[id] = RecordType{ID: id, Name: r.Name, Fields: r.Fields}
	}
	return nil
}

func (m *memStore) findCollection(name string) uuid.UUID {
	for id, c := range m.collections {
		if c.Name == name {
			return id
		}
	}
	return uuid.Nil
}

func (m *memStore) findRecordType(name string) uuid.UUID {
	for id, rt := range m.recordTypes {
		if rt.Name == name {
			return id
		}
	}
	return uuid.Nil
}

func (m *memStore) SaveImport(ctx context.Context, entry ImportEntry, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.imports = append(m.imports, entry)
	m.records = append(m.records, records...)
	return nil
}

func (m *memStore) ListImports(ctx context.Context, limit int) ([]ImportEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ImportEntry, 0, len(m.imports))
	for i := len(m.imports) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.imports[i])
	}
	return out, nil
}

func (m *memStore) CountRecords(ctx context.Context, collectionID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.records {
		if r.CollectionID == collectionID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) Close() error { return nil }

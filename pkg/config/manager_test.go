package config

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSection is a minimal Section
type mockSection struct {
	id          string
	data        map[string]any
	validateErr error
}

func (m *mockSection) ID() string                        { return m.id }
func (m *mockSection) Title() string                     { return m.id }
func (m *mockSection) Description() string               { return "" }
func (m *mockSection) Data() map[string]any              { return m.data }
func (m *mockSection) SetData(data map[string]any) error { m.data = data; return nil }
func (m *mockSection) Validate() error                   { return m.validateErr }
func (m *mockSection) Reset()                            { m.data = map[string]any{} }

// mockStore keeps sections in memory
type mockStore struct {
	sections map[string]map[string]any
	loadErr  error
	saveErr  error
	saved    int
}

func newMockStore() *mockStore {
	return &mockStore{sections: make(map[string]map[string]any)}
}

func (m *mockStore) Load() error { return m.loadErr }

func (m *mockStore) Save() error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved++
	return nil
}

func (m *mockStore) GetSection(id string) (map[string]any, error) {
	if data, ok := m.sections[id]; ok {
		return data, nil
	}
	return map[string]any{}, nil
}

func (m *mockStore) SetSection(id string, data map[string]any) error {
	m.sections[id] = data
	return nil
}

func (m *mockStore) GetAll() (map[string]map[string]any, error) { return m.sections, nil }

func (m *mockStore) SetAll(data map[string]map[string]any) error {
	m.sections = data
	return nil
}

func TestManager_RegisterSection(t *testing.T) {
	store := newMockStore()
	m := NewManager(store)
	assert.Same(t, store, m.Store())
	assert.Empty(t, m.GetSections())

	for _, id := range []string{"first", "second", "third"} {
		require.NoError(t, m.RegisterSection(&mockSection{id: id}))
	}
	assert.Error(t, m.RegisterSection(&mockSection{id: "second"}), "duplicate IDs are rejected")

	var ids []string
	for _, s := range m.GetSections() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []string{"first", "second", "third"}, ids)

	s, ok := m.GetSection("second")
	require.True(t, ok)
	assert.Equal(t, "second", s.ID())

	_, ok = m.GetSection("missing")
	assert.False(t, ok)
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("applies stored data", func(t *testing.T) {
		store := newMockStore()
		store.sections["a"] = map[string]any{"k": "v"}
		m := NewManager(store)
		a := &mockSection{id: "a"}
		b := &mockSection{id: "b", data: map[string]any{"default": true}}
		require.NoError(t, m.RegisterSection(a))
		require.NoError(t, m.RegisterSection(b))

		require.NoError(t, m.LoadAll())
		assert.Equal(t, "v", a.data["k"])
		assert.Equal(t, true, b.data["default"], "sections without stored data keep defaults")
	})

	t.Run("store error", func(t *testing.T) {
		store := newMockStore()
		store.loadErr = errors.New("disk on fire")
		assert.Error(t, NewManager(store).LoadAll())
	})
}

func TestManager_SaveAll(t *testing.T) {
	t.Run("writes every section", func(t *testing.T) {
		store := newMockStore()
		m := NewManager(store)
		require.NoError(t, m.RegisterSection(&mockSection{id: "a", data: map[string]any{"k": 1}}))
		require.NoError(t, m.RegisterSection(&mockSection{id: "b", data: map[string]any{"k": 2}}))

		require.NoError(t, m.SaveAll())
		assert.Equal(t, 1, store.sections["a"]["k"])
		assert.Equal(t, 2, store.sections["b"]["k"])
		assert.Equal(t, 1, store.saved)
	})

	t.Run("invalid section blocks the save", func(t *testing.T) {
		store := newMockStore()
		m := NewManager(store)
		require.NoError(t, m.RegisterSection(&mockSection{id: "ok", data: map[string]any{}}))
		require.NoError(t, m.RegisterSection(&mockSection{id: "bad", validateErr: errors.New("nope")}))

		assert.Error(t, m.SaveAll())
		assert.Empty(t, store.sections)
		assert.Zero(t, store.saved)
	})

	t.Run("store error", func(t *testing.T) {
		store := newMockStore()
		store.saveErr = errors.New("read-only")
		m := NewManager(store)
		require.NoError(t, m.RegisterSection(&mockSection{id: "a"}))
		assert.Error(t, m.SaveAll())
	})
}

func TestManager_ResetAll(t *testing.T) {
	m := NewManager(newMockStore())
	m.ResetAll()

	a := &mockSection{id: "a", data: map[string]any{"k": "v"}}
	require.NoError(t, m.RegisterSection(a))
	m.ResetAll()
	assert.Empty(t, a.data)
}

func TestManager_Concurrency(t *testing.T) {
	m := NewManager(newMockStore())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.RegisterSection(&mockSection{id: fmt.Sprintf("s%d", i)})
			m.GetSections()
			m.GetSection("s0")
		}(i)
	}
	wg.Wait()

	assert.Len(t, m.GetSections(), 10)
}

// Package ordmap implements the insertion-ordered string map that the
// codecs return. Resource files are edited in place, so callers listing
// their keys expect file order, not map order.
package ordmap

// Map is a string→string map that remembers the order in which keys were
// first set. The zero value is ready to use.
type Map struct {
	keys   []string
	values map[string]string
}

// New returns an empty map with room for n keys.
func New(n int) *Map {
	return &Map{keys: make([]string, 0, n), values: make(map[string]string, n)}
}

// Set stores value under key. A key set twice keeps the position of its
// first appearance and the value of its last.
func (m *Map) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key. Deleting an absent key is a no-op.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in order. The slice is a copy.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Range calls fn for each pair in order until fn returns false.
func (m *Map) Range(fn func(key, value string) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Map returns an unordered copy.
func (m *Map) Map() map[string]string {
	out := make(map[string]string, m.Len())
	m.Range(func(k, v string) bool {
		out[k] = v
		return true
	})
	return out
}

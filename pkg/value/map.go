package value

// Map is a string-keyed collection that preserves key insertion order.
// Overwriting an existing key keeps its original position. The zero value
// is not usable; call NewMap.
type Map struct {
	keys  []string
	items map[string]Value
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{items: make(map[string]Value)}
}

func (m *Map) Kind() Kind     { return KindMap }
func (m *Map) String() string { return displayString(m) }
func (*Map) value()           {}

// Set stores v under key. A new key is appended after all existing keys.
func (m *Map) Set(key string, v Value) {
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.items[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.items[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.items[key]
	return ok
}

// Delete removes key if present.
func (m *Map) Delete(key string) {
	if _, ok := m.items[key]; !ok {
		return
	}
	delete(m.items, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The slice is a copy.
func (m *Map) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.items) }

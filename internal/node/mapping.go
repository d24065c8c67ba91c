package node

import "strconv"

// NewMapping builds a Mapping from entries in the given order.
func NewMapping(entries ...Entry) *Mapping {
	return &Mapping{Entries: entries}
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Node, bool) {
	for _, e := range m.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set replaces the value under key in place, or appends a new entry if the
// key is absent.
func (m *Mapping) Set(key string, value Node) {
	for i, e := range m.Entries {
		if e.Key == key {
			m.Entries[i].Value = value
			return
		}
	}
	m.Entries = append(m.Entries, Entry{Key: key, Value: value})
}

// Delete removes the entry under key, preserving the order of the rest.
func (m *Mapping) Delete(key string) bool {
	for i, e := range m.Entries {
		if e.Key == key {
			m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.Entries)
}

// Keys returns the keys in entry order.
func (m *Mapping) Keys() []string {
	keys := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Copy returns a shallow copy: fresh entry slice, shared values.
func (m *Mapping) Copy() *Mapping {
	out := &Mapping{Entries: make([]Entry, len(m.Entries)), Overwrite: m.Overwrite}
	copy(out.Entries, m.Entries)
	return out
}

// IsIndex reports whether key is a canonical non-negative decimal integer,
// i.e. a positional key.
func IsIndex(key string) bool {
	i, err := strconv.Atoi(key)
	return err == nil && i >= 0 && key == strconv.Itoa(i)
}

// IsList reports whether every entry of the mapping is positional.
func (m *Mapping) IsList() bool {
	for _, e := range m.Entries {
		if !IsIndex(e.Key) {
			return false
		}
	}
	return true
}

// MappingOf converts n into mapping form. Sequences become positional
// mappings with integer keys; mappings pass through; nil yields an empty
// mapping. Any other kind returns false.
func MappingOf(n Node) (*Mapping, bool) {
	switch v := n.(type) {
	case nil:
		return &Mapping{}, true
	case *Mapping:
		return v, true
	case *Sequence:
		m := &Mapping{Overwrite: v.Overwrite}
		for i, item := range v.Items {
			m.Entries = append(m.Entries, Entry{Key: strconv.Itoa(i), Value: item})
		}
		return m, true
	default:
		return nil, false
	}
}

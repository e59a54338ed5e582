package identity

import "github.com/roach88/qbcube/internal/table"

// CodeMap is an exact-match lookup from a key code to a tuple of values.
type CodeMap struct {
	columns   []string
	keys      []string
	values    map[string][]string
	conflicts int
}

// BuildCodeMap indexes rows by the key column.
//
// Rows missing the key or any value column are dropped, never defaulted.
// Exact duplicates collapse. When the same key appears with different
// values the first row wins and the later row counts as a conflict; a
// plain dict rebuilt row by row would keep the last one instead.
func BuildCodeMap(rows []table.Row, key string, values ...string) *CodeMap {
	m := &CodeMap{
		columns: append([]string(nil), values...),
		values:  make(map[string][]string),
	}

	cols := append([]string{key}, values...)
	for _, row := range rows {
		if !row.Complete(cols...) {
			continue
		}
		k := row[key]
		tuple := make([]string, len(values))
		for i, c := range values {
			tuple[i] = row[c]
		}

		if prev, ok := m.values[k]; ok {
			if !equalTuples(prev, tuple) {
				m.conflicts++
			}
			continue
		}
		m.values[k] = tuple
		m.keys = append(m.keys, k)
	}
	return m
}

func equalTuples(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Lookup returns the value tuple for key. A miss means the caller should
// skip the row.
func (m *CodeMap) Lookup(key string) ([]string, bool) {
	v, ok := m.values[key]
	if !ok {
		return nil, false
	}
	return append([]string(nil), v...), true
}

// Value returns one named value column for key.
func (m *CodeMap) Value(key, column string) (string, bool) {
	v, ok := m.values[key]
	if !ok {
		return "", false
	}
	for i, c := range m.columns {
		if c == column {
			return v[i], true
		}
	}
	return "", false
}

// Keys returns the keys in first-occurrence order.
func (m *CodeMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of keys.
func (m *CodeMap) Len() int {
	return len(m.keys)
}

// Conflicts returns how many rows disagreed with an earlier row for the
// same key.
func (m *CodeMap) Conflicts() int {
	return m.conflicts
}

package hlslbuild

import (
	"maps"
	"slices"
)

// FieldSet is a set of fully qualified field names ("Struct.field").
// The zero value is an empty read-only set; use [NewFieldSet] to create a set that can grow.
type FieldSet map[string]struct{}

// NewFieldSet returns a set containing names.
func NewFieldSet(names ...string) FieldSet {
	fs := make(FieldSet, len(names))
	for _, name := range names {
		fs[name] = struct{}{}
	}
	return fs
}

// Add inserts name and reports whether it was not yet present.
func (fs FieldSet) Add(name string) bool {
	if _, ok := fs[name]; ok {
		return false
	}
	fs[name] = struct{}{}
	return true
}

// Has reports whether name is in the set.
func (fs FieldSet) Has(name string) bool {
	_, ok := fs[name]
	return ok
}

// Len returns the number of names in the set.
func (fs FieldSet) Len() int { return len(fs) }

// Clone returns a copy of fs that can grow independently.
func (fs FieldSet) Clone() FieldSet {
	if fs == nil {
		return make(FieldSet)
	}
	return maps.Clone(fs)
}

// Sorted returns the names in lexical order.
func (fs FieldSet) Sorted() []string {
	return slices.Sorted(maps.Keys(fs))
}

// IsSubset reports whether every name of fs is in other.
func (fs FieldSet) IsSubset(other FieldSet) bool {
	for name := range fs {
		if !other.Has(name) {
			return false
		}
	}
	return true
}

// Equal reports whether fs and other contain the same names.
func (fs FieldSet) Equal(other FieldSet) bool {
	return len(fs) == len(other) && fs.IsSubset(other)
}

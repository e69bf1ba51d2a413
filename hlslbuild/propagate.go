package hlslbuild

import (
	"errors"
	"fmt"
	"strings"
)

// Dependency states that when field Name is active, field DependsOn must be active too.
// Both names are fully qualified and may refer to fields of different structs.
type Dependency struct {
	Name      string
	DependsOn string
}

// Propagate returns the closure of seed over the dependency tables: the
// smallest set containing seed such that for every dependency whose Name is in
// the set its DependsOn is in the set too. seed is not modified.
//
// Names absent from every table are inert. Cycles are harmless since a name
// is only enqueued the first time it is added.
func Propagate(seed FieldSet, tables ...[]Dependency) FieldSet {
	active := seed.Clone()
	queue := make([]string, 0, len(active))
	for name := range seed {
		queue = append(queue, name)
	}
	for len(queue) > 0 {
		field := queue[0]
		queue = queue[1:]
		for _, table := range tables {
			for _, dep := range table {
				if dep.Name == field && active.Add(dep.DependsOn) {
					queue = append(queue, dep.DependsOn)
				}
			}
		}
	}
	return active
}

// ValidateDependencies checks that every name referenced by the dependency
// tables matches a field of structs.
func ValidateDependencies(structs []Struct, tables ...[]Dependency) error {
	var errs []error
	check := func(name string) {
		structName, fieldName, ok := strings.Cut(name, ".")
		if !ok {
			errs = append(errs, fmt.Errorf("dependency %q is not fully qualified", name))
			return
		}
		for _, s := range structs {
			if s.Name != structName {
				continue
			}
			if _, ok := s.Field(fieldName); ok {
				return
			}
			errs = append(errs, fmt.Errorf("dependency %q: struct %s has no field %q", name, structName, fieldName))
			return
		}
		errs = append(errs, fmt.Errorf("dependency %q: unknown struct %q", name, structName))
	}
	for _, table := range tables {
		for _, dep := range table {
			check(dep.Name)
			check(dep.DependsOn)
		}
	}
	return errors.Join(errs...)
}

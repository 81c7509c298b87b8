package atoms

import (
	"fmt"
	"sort"
	"strings"

	"github.com/molforge/atomkit/pkg/errors"
)

// PropertyMapping translates abstract model property names (keys) to the
// column names used by a dataset's storage backend (values).  One mapping
// exists per dataset profile; keys are unique and order is irrelevant.
type PropertyMapping map[string]string

// ParsePropertyMapping parses the delimited string form of a mapping,
// "energy:U0,forces:atomic_forces", into its structured form.  Entries are
// split on commas, then on the first colon, so column names may themselves
// contain colons.  Parsing happens once at the configuration boundary; all
// internal code operates on the structured form.
func ParsePropertyMapping(s string) (PropertyMapping, error) {
	m := PropertyMapping{}
	if strings.TrimSpace(s) == "" {
		return m, nil
	}
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, value, ok := strings.Cut(entry, ":")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, errors.New(errors.CodeParseError,
				fmt.Sprintf("property mapping entry %q is not of the form key:value", entry))
		}
		if _, dup := m[key]; dup {
			return nil, errors.New(errors.CodeParseError,
				fmt.Sprintf("property mapping declares %q twice", key))
		}
		m[key] = value
	}
	return m, nil
}

// Resolve restricts the mapping to exactly the requested property names.
// Every requested property must be a key of the mapping; the first missing
// property fails resolution with an error naming the property and the
// database path, so callers can report which dataset is incompatible with
// which model requirement.  Resolve is a pure transformation.
func (m PropertyMapping) Resolve(properties []string, dbpath string) (PropertyMapping, error) {
	resolved := make(PropertyMapping, len(properties))
	for _, prop := range properties {
		column, ok := m[prop]
		if !ok {
			return nil, errors.PropertyNotMapped(prop, dbpath)
		}
		resolved[prop] = column
	}
	return resolved, nil
}

// Columns returns the mapped column names in sorted order.  This is the
// required-property list handed to the storage backend when a dataset is
// opened.
func (m PropertyMapping) Columns() []string {
	cols := make([]string, 0, len(m))
	for _, c := range m {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Keys returns the abstract property names in sorted order.
func (m PropertyMapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the mapping in its delimited form with sorted keys, the
// inverse of ParsePropertyMapping up to ordering.
func (m PropertyMapping) String() string {
	keys := m.Keys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+m[k])
	}
	return strings.Join(parts, ",")
}

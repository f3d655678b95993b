package field

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/Garsondee/RoboRadar/internal/fault"
)

// ErrFieldNotFound is returned when no lookup table matches a search.
var ErrFieldNotFound = fmt.Errorf("%w: field not found", fault.ErrConfiguration)

// Catalog is an ordered collection of fields plus lookup tables. Build it
// once with Discover or NewCatalog; it is read-only afterwards.
type Catalog struct {
	fields  []*Model
	byFile  map[string]int
	byName  map[string]int
	byTheme map[string]int
	byAlias map[string]int
}

// NewCatalog indexes the given fields in order. When two fields share a
// key the first one keeps it.
func NewCatalog(fields ...*Model) *Catalog {
	c := &Catalog{
		byFile:  make(map[string]int),
		byName:  make(map[string]int),
		byTheme: make(map[string]int),
		byAlias: make(map[string]int),
	}
	for _, f := range fields {
		c.add(f)
	}
	return c
}

func (c *Catalog) add(m *Model) {
	idx := len(c.fields)
	c.fields = append(c.fields, m)
	index := func(table map[string]int, key string) {
		if key == "" {
			return
		}
		if prev, ok := table[key]; ok {
			glog.Warningf("field %q: key %q already taken by %q", m.Name, key, c.fields[prev].Name)
			return
		}
		table[key] = idx
	}
	index(c.byFile, m.File)
	index(c.byName, m.Name)
	index(c.byTheme, m.Theme)
	for _, a := range m.Aliases {
		index(c.byAlias, a)
	}
}

// Builtin returns the fields compiled into the binary.
func Builtin() []*Model {
	return []*Model{FRC2020()}
}

// Discover builds a catalog from the built-in fields followed by every
// *.json file in dirs, in lexical order per directory. A directory that
// does not exist is skipped; a file that fails to load aborts discovery.
func Discover(dirs ...string) (*Catalog, error) {
	fields := Builtin()
	var errs []error
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return nil, fmt.Errorf("field: scan %s: %w", dir, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(dir); err != nil {
				glog.V(1).Infof("field directory %s: %v", dir, err)
			}
			continue
		}
		sort.Strings(matches)
		for _, path := range matches {
			m, err := Load(path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			glog.V(1).Infof("discovered field %q (%s)", m.Name, path)
			fields = append(fields, m)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return NewCatalog(fields...), nil
}

// Len returns the number of fields.
func (c *Catalog) Len() int { return len(c.fields) }

// At returns the field at index i.
func (c *Catalog) At(i int) (*Model, error) {
	if i < 0 || i >= len(c.fields) {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrFieldNotFound, i, len(c.fields))
	}
	return c.fields[i], nil
}

// Resolve returns the index of the field matching search. Lookup order is
// fixed: a valid integer index, then file id, display name, theme and
// finally alias.
func (c *Catalog) Resolve(search string) (int, error) {
	if i, err := strconv.Atoi(strings.TrimSpace(search)); err == nil && i >= 0 && i < len(c.fields) {
		return i, nil
	}
	for _, table := range []map[string]int{c.byFile, c.byName, c.byTheme, c.byAlias} {
		if i, ok := table[search]; ok {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrFieldNotFound, search)
}

// Find resolves search and returns the field.
func (c *Catalog) Find(search string) (*Model, error) {
	i, err := c.Resolve(search)
	if err != nil {
		return nil, err
	}
	return c.fields[i], nil
}

// Names lists the display names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.fields))
	for i, f := range c.fields {
		out[i] = f.Name
	}
	return out
}

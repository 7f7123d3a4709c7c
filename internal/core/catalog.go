package core

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Catalog is the seed list of collections and record types, read from a
// TOML file of the form:
//
//	[[collection]]
//	name = "Default"
//
//	[[record_type]]
//	name = "Basic"
//	fields = ["Front", "Back"]
type Catalog struct {
	Collections []CatalogCollection `toml:"collection"`
	RecordTypes []CatalogRecordType `toml:"record_type"`
}

type CatalogCollection struct {
	Name string `toml:"name"`
}

type CatalogRecordType struct {
	Name   string   `toml:"name"`
	Fields []string `toml:"fields"`
}

// DefaultCatalog is used when no catalog file is configured.
func DefaultCatalog() Catalog {
	return Catalog{
		Collections: []CatalogCollection{{Name: "Default"}},
		RecordTypes: []CatalogRecordType{
			{Name: "Basic", Fields: []string{"Front", "Back"}},
			{Name: "Basic (and reversed)", Fields: []string{"Front", "Back"}},
			{Name: "Cloze", Fields: []string{"Text", "Back Extra"}},
		},
	}
}

// LoadCatalog reads and validates a catalog file. An empty path yields
// DefaultCatalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(string(data))
}

// ParseCatalog decodes TOML catalog text and validates it.
func ParseCatalog(data string) (Catalog, error) {
	var cat Catalog
	md, err := toml.Decode(data, &cat)
	if err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Catalog{}, fmt.Errorf("%w: unknown key %q", ErrInvalidCatalog, undecoded[0].String())
	}
	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

// Validate reports every problem in the catalog at once.
func (c Catalog) Validate() error {
	var errs []error

	if len(c.Collections) == 0 {
		errs = append(errs, errors.New("at least one collection is required"))
	}
	if len(c.RecordTypes) == 0 {
		errs = append(errs, errors.New("at least one record type is required"))
	}

	seen := make(map[string]bool)
	for i, col := range c.Collections {
		name := strings.TrimSpace(col.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("collection %d: name is required", i+1))
		case seen["c:"+name]:
			errs = append(errs, fmt.Errorf("collection %q: duplicate name", name))
		}
		seen["c:"+name] = true
	}

	for i, rt := range c.RecordTypes {
		name := strings.TrimSpace(rt.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("record type %d: name is required", i+1))
		case seen["r:"+name]:
			errs = append(errs, fmt.Errorf("record type %q: duplicate name", name))
		}
		seen["r:"+name] = true

		if len(rt.Fields) == 0 {
			errs = append(errs, fmt.Errorf("record type %q: at least one field is required", name))
		}
		for j, f := range rt.Fields {
			if strings.TrimSpace(f) == "" {
				errs = append(errs, fmt.Errorf("record type %q: field %d has no name", name, j+1))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package biomarker

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog is an immutable, case-insensitive index of biomarker definitions.
// It is safe for concurrent use once constructed.
type Catalog struct {
	byName map[string]Definition
	sorted []Definition
}

// NewCatalog validates defs and builds a catalog from them.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{
		byName: make(map[string]Definition, len(defs)),
		sorted: make([]Definition, 0, len(defs)),
	}

	for _, def := range defs {
		def.Name = strings.TrimSpace(def.Name)
		def.Unit = strings.TrimSpace(def.Unit)

		if def.Name == "" {
			return nil, errEmptyDefinitionName
		}
		if def.Unit == "" {
			return nil, fmt.Errorf("%s: %w", def.Name, errEmptyDefinitionUnit)
		}
		if def.ReferenceLow != nil && def.ReferenceHigh != nil && *def.ReferenceLow > *def.ReferenceHigh {
			return nil, fmt.Errorf("%s: %w", def.Name, errInvertedRange)
		}

		key := NormalizeName(def.Name)
		if _, exists := c.byName[key]; exists {
			return nil, fmt.Errorf("%s: %w", def.Name, errDuplicateDefinition)
		}

		c.byName[key] = def
		c.sorted = append(c.sorted, def)
	}

	sort.SliceStable(c.sorted, func(i, j int) bool {
		if c.sorted[i].Category != c.sorted[j].Category {
			return c.sorted[i].Category < c.sorted[j].Category
		}
		return c.sorted[i].Name < c.sorted[j].Name
	})

	return c, nil
}

// MustDefaultCatalog builds the catalog from the built-in definitions.
func MustDefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultDefinitions())
	if err != nil {
		panic(fmt.Sprintf("invalid built-in biomarker catalog: %v", err))
	}

	return c
}

// Lookup finds a definition by case-normalized exact name.
func (c *Catalog) Lookup(name string) (Definition, error) {
	if c != nil {
		if def, ok := c.byName[NormalizeName(name)]; ok {
			return def, nil
		}
	}

	return Definition{}, fmt.Errorf("%q: %w", strings.TrimSpace(name), ErrNotFound)
}

// Definitions returns every definition ordered by category and name.
func (c *Catalog) Definitions() []Definition {
	if c == nil {
		return nil
	}

	out := make([]Definition, len(c.sorted))
	copy(out, c.sorted)

	return out
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}

	return len(c.sorted)
}

// CategoryOf returns the category of a biomarker, or "Other" for unknown names.
func (c *Catalog) CategoryOf(name string) string {
	def, err := c.Lookup(name)
	if err != nil || def.Category == "" {
		return CategoryOther
	}

	return def.Category
}

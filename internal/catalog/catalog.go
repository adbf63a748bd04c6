// Package catalog holds the fixed set of ledger categories and which entry
// types may use each of them.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	AffiliationExpense = "expense"
	AffiliationIncome  = "income"
	AffiliationBoth    = "both"
)

//go:embed categories.yaml
var defaultCategories []byte

type Category struct {
	Name        string `yaml:"name" json:"name"`
	Affiliation string `yaml:"affiliation" json:"affiliation"`
}

type Catalog struct {
	ordered []Category
	byName  map[string]Category
}

type document struct {
	Categories []Category `yaml:"categories"`
}

// Default returns the embedded catalog and panics if it does not parse.
func Default() *Catalog {
	c, err := Parse(defaultCategories)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded categories: %v", err))
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	c := &Catalog{
		ordered: make([]Category, 0, len(doc.Categories)),
		byName:  make(map[string]Category, len(doc.Categories)),
	}
	for _, category := range doc.Categories {
		if category.Name == "" {
			return nil, fmt.Errorf("category without name")
		}
		switch category.Affiliation {
		case AffiliationExpense, AffiliationIncome, AffiliationBoth:
		default:
			return nil, fmt.Errorf("category %q: unknown affiliation %q", category.Name, category.Affiliation)
		}
		if _, ok := c.byName[category.Name]; ok {
			return nil, fmt.Errorf("category %q declared twice", category.Name)
		}
		c.byName[category.Name] = category
		c.ordered = append(c.ordered, category)
	}
	return c, nil
}

func (c *Catalog) Lookup(name string) (Category, bool) {
	category, ok := c.byName[name]
	return category, ok
}

// Allows reports whether entries of entryType may be filed under name.
func (c *Catalog) Allows(name, entryType string) bool {
	category, ok := c.byName[name]
	if !ok {
		return false
	}
	return category.Affiliation == AffiliationBoth || category.Affiliation == entryType
}

// ByType lists categories usable for entryType; an empty type lists all.
func (c *Catalog) ByType(entryType string) []Category {
	result := make([]Category, 0, len(c.ordered))
	for _, category := range c.ordered {
		if entryType == "" || category.Affiliation == AffiliationBoth || category.Affiliation == entryType {
			result = append(result, category)
		}
	}
	return result
}

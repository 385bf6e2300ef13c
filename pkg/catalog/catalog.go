package catalog

import (
	"fmt"
	"strings"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
)

// Category is one slot of a combination with its labelled options
type Category struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// Catalog is the ordered list of categories that defines the search space.
// Gene i indexes Categories[i].Options.
type Catalog struct {
	Categories []Category `json:"categories"`
}

// Selection is one decoded gene
type Selection struct {
	Category string `json:"category"`
	Option   string `json:"option"`
	Index    int    `json:"index"`
}

// New validates and creates a catalog
func New(categories []Category) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, gaerrors.NewValidationError("catalog", "New", "catalog must contain at least one category")
	}
	seen := make(map[string]struct{}, len(categories))
	for i, c := range categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, gaerrors.NewValidationError("catalog", "New", "category %d has no name", i)
		}
		if _, dup := seen[c.Name]; dup {
			return nil, gaerrors.NewValidationError("catalog", "New", "duplicate category: %s", c.Name)
		}
		seen[c.Name] = struct{}{}
		if len(c.Options) == 0 {
			return nil, gaerrors.NewValidationError("catalog", "New", "category %s has no options", c.Name)
		}
	}
	return &Catalog{Categories: categories}, nil
}

// FromSizes builds a catalog with generated labels for the given sizes
func FromSizes(sizes []int) (*Catalog, error) {
	categories := make([]Category, len(sizes))
	for i, size := range sizes {
		if size < 1 {
			return nil, gaerrors.NewValidationError("catalog", "FromSizes",
				"category %d must have at least 1 option, got: %d", i, size)
		}
		options := make([]string, size)
		for j := range options {
			options[j] = fmt.Sprintf("option_%d", j+1)
		}
		categories[i] = Category{Name: fmt.Sprintf("category_%d", i+1), Options: options}
	}
	return New(categories)
}

// Len returns the number of categories
func (c *Catalog) Len() int {
	return len(c.Categories)
}

// Sizes returns the option count of every category
func (c *Catalog) Sizes() []int {
	sizes := make([]int, len(c.Categories))
	for i, cat := range c.Categories {
		sizes[i] = len(cat.Options)
	}
	return sizes
}

// Names returns the category names in gene order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}

// Decode maps genes to option labels
func (c *Catalog) Decode(genes []int) ([]string, error) {
	selections, err := c.Describe(genes)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(selections))
	for i, s := range selections {
		labels[i] = s.Option
	}
	return labels, nil
}

// Describe maps genes to category/option pairs
func (c *Catalog) Describe(genes []int) ([]Selection, error) {
	if len(genes) != len(c.Categories) {
		return nil, gaerrors.NewInvalidGenesError("catalog", "Decode",
			"expected %d genes, got %d", len(c.Categories), len(genes))
	}
	out := make([]Selection, len(genes))
	for i, g := range genes {
		cat := c.Categories[i]
		if g < 0 || g >= len(cat.Options) {
			return nil, gaerrors.NewInvalidGenesError("catalog", "Decode",
				"gene %d out of range for %s: %d not in [0, %d)", i, cat.Name, g, len(cat.Options))
		}
		out[i] = Selection{Category: cat.Name, Option: cat.Options[g], Index: g}
	}
	return out, nil
}

// SearchSpace returns the number of distinct combinations, saturating at
// the maximum uint64
func (c *Catalog) SearchSpace() uint64 {
	total := uint64(1)
	for _, cat := range c.Categories {
		n := uint64(len(cat.Options))
		if total > ^uint64(0)/n {
			return ^uint64(0)
		}
		total *= n
	}
	return total
}

// fromRows builds a catalog from (category, option) rows. Categories keep the
// order of their first appearance; a leading "category,option" header is
// skipped and blank rows are ignored.
func fromRows(rows [][]string, source string) (*Catalog, error) {
	var categories []Category
	index := make(map[string]int)

	for line, row := range rows {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if len(row) < 2 {
			return nil, gaerrors.NewValidationError("catalog", "load",
				"%s line %d: expected category and option columns, got %d", source, line+1, len(row))
		}
		name := strings.TrimSpace(row[0])
		option := strings.TrimSpace(row[1])
		if line == 0 && strings.EqualFold(name, "category") && strings.EqualFold(option, "option") {
			continue
		}
		if name == "" || option == "" {
			return nil, gaerrors.NewValidationError("catalog", "load",
				"%s line %d: category and option must not be empty", source, line+1)
		}

		i, ok := index[name]
		if !ok {
			i = len(categories)
			index[name] = i
			categories = append(categories, Category{Name: name})
		}
		for _, existing := range categories[i].Options {
			if existing == option {
				return nil, gaerrors.NewValidationError("catalog", "load",
					"%s line %d: duplicate option %q in category %s", source, line+1, option, name)
			}
		}
		categories[i].Options = append(categories[i].Options, option)
	}
	return New(categories)
}

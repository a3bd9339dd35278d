package okr

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"
)

//go:embed categories.yaml
var categoriesYAML []byte

type categoryFile struct {
	Categories []string `yaml:"categories"`
}

var categories []string

func init() {
	var file categoryFile
	if err := yaml.Unmarshal(categoriesYAML, &file); err != nil {
		panic(fmt.Sprintf("okr: embedded categories.yaml is invalid: %v", err))
	}
	if len(file.Categories) == 0 {
		panic("okr: embedded categories.yaml lists no categories")
	}
	categories = file.Categories
}

// Categories returns the closed category vocabulary. The returned slice is
// a copy; callers may mutate it freely.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// CategoryDefault is the placeholder category assigned to new items. It is
// the only category the reconciliation merge treats as overridable.
func CategoryDefault() string {
	return categories[0]
}

// CategoryFallback is assigned when an item has no category at all and the
// model produced nothing usable.
const CategoryFallback = "General"

// ValidCategory reports whether name is part of the vocabulary.
func ValidCategory(name string) bool {
	for _, c := range categories {
		if c == name {
			return true
		}
	}
	return false
}

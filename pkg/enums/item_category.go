package enums

import "fmt"

// ItemCategory represents the closed set of menu categories the shop sells.
// The string value is exactly what gets persisted in the items table.
type ItemCategory string

const (
	ItemCategoryMain      ItemCategory = "Main"
	ItemCategoryCurries   ItemCategory = "Curries"
	ItemCategoryDesserts  ItemCategory = "Desserts"
	ItemCategoryShortEats ItemCategory = "Short Eats"
	ItemCategoryDrinks    ItemCategory = "Drinks"
)

var validItemCategories = []ItemCategory{
	ItemCategoryMain,
	ItemCategoryCurries,
	ItemCategoryDesserts,
	ItemCategoryShortEats,
	ItemCategoryDrinks,
}

// ItemCategories returns the full set in menu order.
func ItemCategories() []ItemCategory {
	out := make([]ItemCategory, len(validItemCategories))
	copy(out, validItemCategories)
	return out
}

// String implements fmt.Stringer.
func (c ItemCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ItemCategory.
func (c ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}

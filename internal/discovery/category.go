package discovery

import (
	"fmt"
	"sort"
	"strings"

	"itinera/pkg/utils"
)

type Category string

const (
	CategoryStay Category = "stay"
	CategoryEat  Category = "eat"
	CategorySee  Category = "see"
	CategoryDo   Category = "do"
)

var AllCategories = []Category{CategoryStay, CategoryEat, CategorySee, CategoryDo}

var typeToCategory = map[string]Category{
	// stay
	"hotel":             CategoryStay,
	"resort":            CategoryStay,
	"hostel":            CategoryStay,
	"lodging":           CategoryStay,
	"guest_house":       CategoryStay,
	"inn":               CategoryStay,
	"campground":        CategoryStay,
	"bed_and_breakfast": CategoryStay,

	// eat
	"restaurant":    CategoryEat,
	"cafe":          CategoryEat,
	"food":          CategoryEat,
	"bar":           CategoryEat,
	"bakery":        CategoryEat,
	"coffee_shop":   CategoryEat,
	"meal_takeaway": CategoryEat,

	// see
	"attraction":          CategorySee,
	"beach":               CategorySee,
	"landmark":            CategorySee,
	"natural_feature":     CategorySee,
	"tourist_attraction":  CategorySee,
	"waterfall":           CategorySee,
	"museum":              CategorySee,
	"church":              CategorySee,
	"park":                CategorySee,
	"viewpoint":           CategorySee,
	"historical_landmark": CategorySee,

	// do
	"activity":       CategoryDo,
	"tour":           CategoryDo,
	"adventure":      CategoryDo,
	"transport":      CategoryDo,
	"shopping":       CategoryDo,
	"diving_site":    CategoryDo,
	"spa":            CategoryDo,
	"shopping_mall":  CategoryDo,
	"amusement_park": CategoryDo,
	"travel_agency":  CategoryDo,
}

func normalizeType(placeType string) string {
	t := strings.ToLower(strings.TrimSpace(placeType))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(t)
}

// Classify maps a provider place type onto the four-way taxonomy. Unmapped
// types land in CategorySee.
func Classify(placeType string) Category {
	if c, ok := typeToCategory[normalizeType(placeType)]; ok {
		return c
	}
	return CategorySee
}

// TypesFor lists the known raw types of a category, sorted.
func TypesFor(c Category) []string {
	var out []string
	for t, cat := range typeToCategory {
		if cat == c {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// ParseCategory reads a filter value. Empty and "all" mean no filter and
// return "".
func ParseCategory(s string) (Category, error) {
	switch v := Category(strings.ToLower(strings.TrimSpace(s))); v {
	case "", "all":
		return "", nil
	case CategoryStay, CategoryEat, CategorySee, CategoryDo:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown category %q", utils.ErrInvalidInput, s)
}

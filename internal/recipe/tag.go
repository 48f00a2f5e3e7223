package recipe

import (
	"errors"
	"fmt"
	"strings"
)

// TagKind groups recipe tags.
type TagKind string

const (
	TagCulture  TagKind = "Culture"
	TagMeat     TagKind = "Meat"
	TagMealType TagKind = "MealType"
	TagPrepType TagKind = "PrepType"
	TagOther    TagKind = "Other"
)

// Meal types.
const (
	Breakfast = "Breakfast"
	Lunch     = "Lunch"
	Dinner    = "Dinner"
	Side      = "Side"
	Snack     = "Snack"
)

// Preparation types.
const (
	Cold      = "Cold"
	Bake      = "Bake"
	Fry       = "Fry"
	Microwave = "Microwave"
	Boil      = "Boil"
	Stovetop  = "Stovetop"
)

var (
	mealTypes = []string{Breakfast, Lunch, Dinner, Side, Snack}
	prepTypes = []string{Cold, Bake, Fry, Microwave, Boil, Stovetop}
)

// ErrInvalidTag is returned when a tag cannot be parsed.
var ErrInvalidTag = errors.New("invalid tag")

// Tag labels a recipe, e.g. Meat:Pork or MealType:Dinner. Culture, Meat and
// Other take free text; MealType and PrepType take one of a fixed set.
type Tag struct {
	Kind  TagKind
	Value string
}

// ParseTag reads the "Kind:Value" form. Kind matching is case-insensitive and
// fixed-set values are normalized to their canonical spelling.
func ParseTag(s string) (Tag, error) {
	kind, value, ok := strings.Cut(s, ":")
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return Tag{}, fmt.Errorf("%w: %q, expected Kind:Value", ErrInvalidTag, s)
	}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "culture":
		return Tag{Kind: TagCulture, Value: value}, nil
	case "meat":
		return Tag{Kind: TagMeat, Value: value}, nil
	case "other":
		return Tag{Kind: TagOther, Value: value}, nil
	case "mealtype":
		return fixedTag(TagMealType, value, mealTypes)
	case "preptype":
		return fixedTag(TagPrepType, value, prepTypes)
	}
	return Tag{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidTag, kind)
}

func fixedTag(kind TagKind, value string, allowed []string) (Tag, error) {
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return Tag{Kind: kind, Value: a}, nil
		}
	}
	return Tag{}, fmt.Errorf("%w: %q is not a %s (want one of %s)", ErrInvalidTag, value, kind, strings.Join(allowed, ", "))
}

func (t Tag) String() string {
	return string(t.Kind) + ":" + t.Value
}

func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

package render

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Weight selects a face within a family.
type Weight int

const (
	// WeightNormal is the regular face.
	WeightNormal Weight = iota
	// WeightMedium is the medium face, falling back to regular.
	WeightMedium
	// WeightBold is the bold face.
	WeightBold
)

// String returns the weight name.
func (w Weight) String() string {
	switch w {
	case WeightMedium:
		return "medium"
	case WeightBold:
		return "bold"
	default:
		return "normal"
	}
}

// ParseWeight parses "normal", "medium" or "bold".
func ParseWeight(s string) (Weight, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "regular":
		return WeightNormal, nil
	case "medium":
		return WeightMedium, nil
	case "bold":
		return WeightBold, nil
	default:
		return WeightNormal, fmt.Errorf("unknown font weight: %s", s)
	}
}

// builtinFamilies maps family names to embedded TTF data per weight.
// The Go fonts stand in for the sans families desktop panels usually
// name.
var builtinFamilies = map[string]map[Weight][]byte{
	"go": {
		WeightNormal: goregular.TTF,
		WeightMedium: gomedium.TTF,
		WeightBold:   gobold.TTF,
	},
	"go mono": {
		WeightNormal: gomono.TTF,
		WeightBold:   gomonobold.TTF,
	},
}

var familyAliases = map[string]string{
	"roboto":      "go",
	"sans":        "go",
	"sans-serif":  "go",
	"dejavu sans": "go",
	"monospace":   "go mono",
	"mono":        "go mono",
}

// ResolveFamily maps a configured family name onto a built-in family.
func ResolveFamily(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := familyAliases[key]; ok {
		key = alias
	}
	if _, ok := builtinFamilies[key]; !ok {
		return "", fmt.Errorf("unknown font family %q (available: %s)", name, strings.Join(Families(), ", "))
	}
	return key, nil
}

// Families lists the built-in family names.
func Families() []string {
	names := make([]string, 0, len(builtinFamilies))
	for name := range builtinFamilies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type faceKey struct {
	family string
	weight Weight
	size   float64
}

// Fonts parses embedded fonts on demand and caches faces by family,
// weight and size. It is not safe for concurrent use.
type Fonts struct {
	parsed map[string]*opentype.Font
	faces  map[faceKey]font.Face
}

// NewFonts creates an empty font cache.
func NewFonts() *Fonts {
	return &Fonts{
		parsed: make(map[string]*opentype.Font),
		faces:  make(map[faceKey]font.Face),
	}
}

// Face returns a face for family at weight and size (in pixels).
func (f *Fonts) Face(family string, weight Weight, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", size)
	}
	fam, err := ResolveFamily(family)
	if err != nil {
		return nil, err
	}

	key := faceKey{family: fam, weight: weight, size: size}
	if face, ok := f.faces[key]; ok {
		return face, nil
	}

	data, ok := builtinFamilies[fam][weight]
	if !ok {
		data = builtinFamilies[fam][WeightNormal]
	}

	parsedKey := fam + "/" + weight.String()
	otf, ok := f.parsed[parsedKey]
	if !ok {
		otf, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s font: %w", parsedKey, err)
		}
		f.parsed[parsedKey] = otf
	}

	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s face at %v: %w", parsedKey, size, err)
	}
	f.faces[key] = face
	return face, nil
}

// Close releases every cached face.
func (f *Fonts) Close() error {
	for key, face := range f.faces {
		face.Close()
		delete(f.faces, key)
	}
	return nil
}

package models

import "strings"

// Turkish display labels for the stored species/gender enum keys. The mobile
// client sends and renders these labels; storage always uses the enum key.

var turkishSpeciesLabels = map[string]string{
	SpeciesDog:    "Köpek",
	SpeciesCat:    "Kedi",
	SpeciesBird:   "Kuş",
	SpeciesFish:   "Balık",
	SpeciesRodent: "Kemirgen",
	SpeciesOther:  "Diğer",
}

var turkishGenderLabels = map[string]string{
	GenderMale:    "Erkek",
	GenderFemale:  "Dişi",
	GenderUnknown: "Bilinmiyor",
}

// FilterAll is the filter value meaning "no filter".
const FilterAll = "tümü"

var reverseSpeciesLabels = reverseLabelMap(turkishSpeciesLabels)
var reverseGenderLabels = reverseLabelMap(turkishGenderLabels)

func reverseLabelMap(labels map[string]string) map[string]string {
	reversed := make(map[string]string, len(labels))
	for key, label := range labels {
		reversed[strings.ToLower(label)] = key
	}
	return reversed
}

func normalizeEnum(value string, reversed map[string]string) string {
	if value == "" {
		return ""
	}
	lower := strings.ToLower(value)
	if key, ok := reversed[lower]; ok {
		return key
	}
	// Unrecognized labels pass through lowercased and are applied literally.
	return lower
}

// NormalizeSpecies maps a display label (or enum key) back to the stored key.
func NormalizeSpecies(value string) string {
	return normalizeEnum(value, reverseSpeciesLabels)
}

// NormalizeGender maps a display label (or enum key) back to the stored key.
func NormalizeGender(value string) string {
	return normalizeEnum(value, reverseGenderLabels)
}

// FormatSpecies returns the Turkish display label for a stored species key.
func FormatSpecies(value string) string {
	if label, ok := turkishSpeciesLabels[strings.ToLower(value)]; ok {
		return label
	}
	return value
}

// FormatGender returns the Turkish display label for a stored gender key.
func FormatGender(value string) string {
	if label, ok := turkishGenderLabels[strings.ToLower(value)]; ok {
		return label
	}
	return value
}

// ValidSpecies reports whether value is one of the stored species keys.
func ValidSpecies(value string) bool {
	_, ok := turkishSpeciesLabels[value]
	return ok
}

// ValidGender reports whether value is one of the stored gender keys.
func ValidGender(value string) bool {
	_, ok := turkishGenderLabels[value]
	return ok
}

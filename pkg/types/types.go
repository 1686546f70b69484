// Package types defines the shared domain types of the pantryvox parsing
// pipeline: locales, canonical units, food categories, storage locations, and
// the final [FoodItem] record produced for every recognised inventory item.
//
// These types are deliberately free of behaviour beyond validation helpers so
// that every pipeline stage and collaborator can depend on them without
// import cycles.
package types

import "time"

// Locale selects the language-specific correction, numeral, and date tables
// used by the pipeline. Exactly two locales are supported.
type Locale string

const (
	// LocaleEN parses English utterances ("three apples and a bottle of milk").
	LocaleEN Locale = "en"

	// LocaleZH parses Chinese utterances ("3斤5两牛肉").
	LocaleZH Locale = "zh"
)

// IsValid reports whether l is a supported locale.
func (l Locale) IsValid() bool {
	return l == LocaleEN || l == LocaleZH
}

// CanonicalUnit is one of exactly three output units every parsed quantity is
// normalised to. Raw unit spellings ("kg", "斤", "bottles", "dozen") never
// appear in a [FoodItem]; they survive only as the DisplayUnit string.
type CanonicalUnit string

const (
	// UnitGram is the canonical weight unit.
	UnitGram CanonicalUnit = "g"

	// UnitMilliliter is the canonical volume unit.
	UnitMilliliter CanonicalUnit = "ml"

	// UnitCount is the canonical discrete-piece unit, and the default when an
	// utterance names no unit at all.
	UnitCount CanonicalUnit = "count"
)

// IsValid reports whether u is a recognised canonical unit.
func (u CanonicalUnit) IsValid() bool {
	switch u {
	case UnitGram, UnitMilliliter, UnitCount:
		return true
	}
	return false
}

// FoodCategory is the coarse category assigned by the classification
// collaborator. CategoryOther is the fallback when classification fails or
// produces an unknown value.
type FoodCategory string

const (
	CategoryVegetable FoodCategory = "vegetable"
	CategoryFruit     FoodCategory = "fruit"
	CategoryMeat      FoodCategory = "meat"
	CategorySeafood   FoodCategory = "seafood"
	CategoryDairy     FoodCategory = "dairy"
	CategoryEgg       FoodCategory = "egg"
	CategoryGrain     FoodCategory = "grain"
	CategoryBeverage  FoodCategory = "beverage"
	CategoryCondiment FoodCategory = "condiment"
	CategorySnack     FoodCategory = "snack"
	CategoryOther     FoodCategory = "other"
)

// IsValid reports whether c is a recognised food category.
func (c FoodCategory) IsValid() bool {
	switch c {
	case CategoryVegetable, CategoryFruit, CategoryMeat, CategorySeafood,
		CategoryDairy, CategoryEgg, CategoryGrain, CategoryBeverage,
		CategoryCondiment, CategorySnack, CategoryOther:
		return true
	}
	return false
}

// StorageLocation is where an item is (or should be) kept. LocationPantry is
// the fallback when the recommendation collaborator fails.
type StorageLocation string

const (
	LocationFridge  StorageLocation = "fridge"
	LocationFreezer StorageLocation = "freezer"
	LocationPantry  StorageLocation = "pantry"
)

// IsValid reports whether s is a recognised storage location.
func (s StorageLocation) IsValid() bool {
	switch s {
	case LocationFridge, LocationFreezer, LocationPantry:
		return true
	}
	return false
}

// FoodItem is the structured inventory record produced by the pipeline for
// one recognised food item.
//
// Invariants:
//   - Quantity >= 0, already converted to Unit.
//   - NeedsVolumeInput is true only when Unit is [UnitCount], the raw unit was
//     a container spelling, and the name matched the liquid-food lexicon. The
//     caller must then ask the user for an explicit volume instead of
//     assuming a default container size.
//   - StorageLocation initially equals RecommendedStorage; the surrounding
//     application may later diverge them when the user moves the item.
type FoodItem struct {
	// Name is the canonical food name as recognised by the lexicon.
	Name string `json:"name"`

	// Quantity is the integer amount in Unit.
	Quantity int64 `json:"quantity"`

	// Unit is the canonical unit Quantity is expressed in.
	Unit CanonicalUnit `json:"unit"`

	// DisplayUnit is the unit spelling as the user said it ("bottles", "斤").
	// Empty when the utterance named no unit.
	DisplayUnit string `json:"display_unit,omitempty"`

	// Category is the classification collaborator's verdict.
	Category FoodCategory `json:"category"`

	// PurchaseDate is the "now" the caller passed to Parse, truncated to a day.
	PurchaseDate time.Time `json:"purchase_date"`

	// ExpirationDate is the explicit user-stated date, or the shelf-life-table
	// fallback, or nil when neither produced a date.
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`

	// Emoji is an optional pictograph supplied by the classifier.
	Emoji string `json:"emoji,omitempty"`

	// NeedsVolumeInput flags the container+liquid ambiguity (see invariants).
	NeedsVolumeInput bool `json:"needs_volume_input"`

	// RecommendedStorage is the storage-recommendation collaborator's verdict.
	RecommendedStorage StorageLocation `json:"recommended_storage"`

	// StorageLocation is where the item is recorded as stored.
	StorageLocation StorageLocation `json:"storage_location"`
}

package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Product errors
var (
	ErrInvalidCategory = errors.New("invalid product category")
	ErrInvalidProduct  = errors.New("invalid product descriptor")
)

// Descriptor bounds
const (
	MinShelfLifeDays = 1
	MaxShelfLifeDays = 365
	MinDemand        = 0
	MaxDemand        = 100

	// Upper bounds keep squared feature distances finite
	MaxVolumeM3 = 1e6
	MaxWeightKg = 1e9
)

// ProductCategory is the storage category of a product
type ProductCategory string

const (
	CategoryFrozenGoods  ProductCategory = "frozen_goods"
	CategoryPerishables  ProductCategory = "perishables"
	CategoryNonFoodItems ProductCategory = "non_food_items"
)

// ProductCategories lists the categories in display order
var ProductCategories = []ProductCategory{CategoryFrozenGoods, CategoryPerishables, CategoryNonFoodItems}

// IsValid checks if the category is valid
func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryFrozenGoods, CategoryPerishables, CategoryNonFoodItems:
		return true
	default:
		return false
	}
}

// DisplayName returns the label shown to users
func (c ProductCategory) DisplayName() string {
	switch c {
	case CategoryFrozenGoods:
		return "Frozen Goods"
	case CategoryPerishables:
		return "Perishables"
	case CategoryNonFoodItems:
		return "Non-Food Items"
	default:
		return string(c)
	}
}

// ParseProductCategory accepts a wire value or a display name
func ParseProductCategory(s string) (ProductCategory, error) {
	trimmed := strings.TrimSpace(s)
	for _, c := range ProductCategories {
		if trimmed == string(c) || strings.EqualFold(trimmed, c.DisplayName()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// ProductDescriptor holds the attributes used to pick a storage zone
type ProductDescriptor struct {
	Category      ProductCategory `bson:"category" json:"category"`
	VolumeM3      float64         `bson:"volumeM3" json:"volumeM3"`
	WeightKg      float64         `bson:"weightKg" json:"weightKg"`
	ShelfLifeDays int             `bson:"shelfLifeDays" json:"shelfLifeDays"`
	Demand        int             `bson:"demand" json:"demand"`
}

// ValidationErrors maps descriptor fields to what is wrong with them
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+" "+v[field])
	}
	return fmt.Sprintf("%s: %s", ErrInvalidProduct, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrInvalidProduct and, for a bad category, ErrInvalidCategory
func (v ValidationErrors) Unwrap() []error {
	errs := []error{ErrInvalidProduct}
	if _, ok := v["category"]; ok {
		errs = append(errs, ErrInvalidCategory)
	}
	return errs
}

// Fields returns a copy of the offending fields
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for k, msg := range v {
		out[k] = msg
	}
	return out
}

// Validate checks every field and reports all offending ones at once
func (p ProductDescriptor) Validate() error {
	errs := ValidationErrors{}

	if !p.Category.IsValid() {
		errs["category"] = "must be one of frozen_goods, perishables, non_food_items"
	}
	if msg, ok := checkAmount(p.VolumeM3, MaxVolumeM3); !ok {
		errs["volumeM3"] = msg
	}
	if msg, ok := checkAmount(p.WeightKg, MaxWeightKg); !ok {
		errs["weightKg"] = msg
	}
	if p.ShelfLifeDays < MinShelfLifeDays || p.ShelfLifeDays > MaxShelfLifeDays {
		errs["shelfLifeDays"] = fmt.Sprintf("must be between %d and %d", MinShelfLifeDays, MaxShelfLifeDays)
	}
	if p.Demand < MinDemand || p.Demand > MaxDemand {
		errs["demand"] = fmt.Sprintf("must be between %d and %d", MinDemand, MaxDemand)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// checkAmount accepts finite values in (0, max]. NaN fails the first test.
func checkAmount(v, max float64) (string, bool) {
	if !(v > 0) {
		return "must be greater than 0", false
	}
	if math.IsInf(v, 0) || v > max {
		return fmt.Sprintf("must be a finite number no greater than %g", max), false
	}
	return "", true
}

// Features returns the numeric columns in reference table order
func (p ProductDescriptor) Features() Point {
	return Point{p.VolumeM3, p.WeightKg, float64(p.ShelfLifeDays), float64(p.Demand)}
}

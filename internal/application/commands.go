package application

import "github.com/freelansire/hrh/pkg/api"

// Warehousing Commands

// AssignZoneCommand selects a storage zone for a product
type AssignZoneCommand struct {
	Category      string  `json:"category"`
	VolumeM3      float64 `json:"volumeM3"`
	WeightKg      float64 `json:"weightKg"`
	ShelfLifeDays int     `json:"shelfLifeDays"`
	Demand        int     `json:"demand"`
}

// GetZoneAssignmentQuery retrieves one recorded assignment
type GetZoneAssignmentQuery struct {
	AssignmentID string
}

// ListZoneAssignmentsQuery lists recorded assignments
type ListZoneAssignmentsQuery struct {
	Page   api.PageRequest
	ZoneID *int
}

// Labeling Commands

// TranslateLabelCommand reads a label image and translates its text
type TranslateLabelCommand struct {
	FileName       string
	ContentType    string
	Data           []byte
	TargetLanguage string
}

// GetLabelTranslationQuery retrieves one recorded translation
type GetLabelTranslationQuery struct {
	TranslationID string
}

// ListLabelTranslationsQuery lists recorded translations
type ListLabelTranslationsQuery struct {
	Page           api.PageRequest
	TargetLanguage string
}

// Routing Commands

// PlanRouteCommand asks for driving directions between two places
type PlanRouteCommand struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// GetRoutePlanQuery retrieves one recorded route plan
type GetRoutePlanQuery struct {
	RoutePlanID string
}

// ListRoutePlansQuery lists recorded route plans
type ListRoutePlansQuery struct {
	Page api.PageRequest
}

package domain

import "context"

// ZoneAssignmentFilter narrows zone assignment listings
type ZoneAssignmentFilter struct {
	// ZoneID restricts results to one catalog zone when set
	ZoneID *int
}

// ZoneAssignmentRepository persists zone assignment history
type ZoneAssignmentRepository interface {
	// Save stores the assignment and its pending domain events
	Save(ctx context.Context, assignment *ZoneAssignment) error

	// FindByID returns nil without error when the assignment does not exist
	FindByID(ctx context.Context, assignmentID string) (*ZoneAssignment, error)

	// FindAll returns assignments newest first
	FindAll(ctx context.Context, filter ZoneAssignmentFilter, limit, offset int64) ([]*ZoneAssignment, error)

	Count(ctx context.Context, filter ZoneAssignmentFilter) (int64, error)
}

// LabelTranslationFilter narrows label translation listings
type LabelTranslationFilter struct {
	TargetLanguage TargetLanguage
}

// LabelTranslationRepository persists label translation history
type LabelTranslationRepository interface {
	Save(ctx context.Context, translation *LabelTranslation) error
	FindByID(ctx context.Context, translationID string) (*LabelTranslation, error)
	FindAll(ctx context.Context, filter LabelTranslationFilter, limit, offset int64) ([]*LabelTranslation, error)
	Count(ctx context.Context, filter LabelTranslationFilter) (int64, error)
}

// RoutePlanRepository persists route plan history
type RoutePlanRepository interface {
	Save(ctx context.Context, plan *RoutePlan) error
	FindByID(ctx context.Context, routePlanID string) (*RoutePlan, error)
	FindAll(ctx context.Context, limit, offset int64) ([]*RoutePlan, error)
	Count(ctx context.Context) (int64, error)
}

package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/pkg/cloudevents"
	"github.com/freelansire/hrh/pkg/outbox"
)

// ZoneAssignmentRepository implements domain.ZoneAssignmentRepository
type ZoneAssignmentRepository struct {
	store historyStore[domain.ZoneAssignment]
}

// NewZoneAssignmentRepository creates a new ZoneAssignmentRepository
func NewZoneAssignmentRepository(collection Collection, transactor Transactor, outboxRepo outbox.Repository, eventFactory *cloudevents.EventFactory) *ZoneAssignmentRepository {
	return &ZoneAssignmentRepository{store: historyStore[domain.ZoneAssignment]{
		collection:    collection,
		transactor:    transactor,
		outboxRepo:    outboxRepo,
		eventFactory:  eventFactory,
		aggregateType: domain.AggregateZoneAssignment,
		subjectPrefix: "zone-assignment/",
		timeField:     "assignedAt",
	}}
}

func zoneAssignmentFilter(filter domain.ZoneAssignmentFilter) bson.M {
	query := bson.M{}
	if filter.ZoneID != nil {
		query["zone.id"] = *filter.ZoneID
	}
	return query
}

// Save records the assignment and its events
func (r *ZoneAssignmentRepository) Save(ctx context.Context, assignment *domain.ZoneAssignment) error {
	if err := r.store.save(ctx, assignment.AssignmentID, assignment, assignment.GetDomainEvents()); err != nil {
		return err
	}
	assignment.ClearDomainEvents()
	return nil
}

// FindByID returns nil, nil when the assignment does not exist
func (r *ZoneAssignmentRepository) FindByID(ctx context.Context, assignmentID string) (*domain.ZoneAssignment, error) {
	return r.store.findByID(ctx, assignmentID)
}

// FindAll lists assignments newest first
func (r *ZoneAssignmentRepository) FindAll(ctx context.Context, filter domain.ZoneAssignmentFilter, limit, offset int64) ([]*domain.ZoneAssignment, error) {
	return r.store.findAll(ctx, zoneAssignmentFilter(filter), limit, offset)
}

// Count counts assignments matching filter
func (r *ZoneAssignmentRepository) Count(ctx context.Context, filter domain.ZoneAssignmentFilter) (int64, error) {
	return r.store.count(ctx, zoneAssignmentFilter(filter))
}

// EnsureIndexes creates the collection indexes
func (r *ZoneAssignmentRepository) EnsureIndexes(ctx context.Context) error {
	return r.store.ensureIndexes(ctx,
		mongo.IndexModel{Keys: bson.D{{Key: "zone.id", Value: 1}, {Key: "assignedAt", Value: -1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "product.category", Value: 1}}},
	)
}

// LabelTranslationRepository implements domain.LabelTranslationRepository
type LabelTranslationRepository struct {
	store historyStore[domain.LabelTranslation]
}

// NewLabelTranslationRepository creates a new LabelTranslationRepository
func NewLabelTranslationRepository(collection Collection, transactor Transactor, outboxRepo outbox.Repository, eventFactory *cloudevents.EventFactory) *LabelTranslationRepository {
	return &LabelTranslationRepository{store: historyStore[domain.LabelTranslation]{
		collection:    collection,
		transactor:    transactor,
		outboxRepo:    outboxRepo,
		eventFactory:  eventFactory,
		aggregateType: domain.AggregateLabelTranslation,
		subjectPrefix: "label-translation/",
		timeField:     "createdAt",
	}}
}

func labelTranslationFilter(filter domain.LabelTranslationFilter) bson.M {
	query := bson.M{}
	if filter.TargetLanguage != "" {
		query["targetLanguage"] = string(filter.TargetLanguage)
	}
	return query
}

// Save records the translation and its events
func (r *LabelTranslationRepository) Save(ctx context.Context, translation *domain.LabelTranslation) error {
	if err := r.store.save(ctx, translation.TranslationID, translation, translation.GetDomainEvents()); err != nil {
		return err
	}
	translation.ClearDomainEvents()
	return nil
}

// FindByID returns nil, nil when the translation does not exist
func (r *LabelTranslationRepository) FindByID(ctx context.Context, translationID string) (*domain.LabelTranslation, error) {
	return r.store.findByID(ctx, translationID)
}

// FindAll lists translations newest first
func (r *LabelTranslationRepository) FindAll(ctx context.Context, filter domain.LabelTranslationFilter, limit, offset int64) ([]*domain.LabelTranslation, error) {
	return r.store.findAll(ctx, labelTranslationFilter(filter), limit, offset)
}

// Count counts translations matching filter
func (r *LabelTranslationRepository) Count(ctx context.Context, filter domain.LabelTranslationFilter) (int64, error) {
	return r.store.count(ctx, labelTranslationFilter(filter))
}

// EnsureIndexes creates the collection indexes
func (r *LabelTranslationRepository) EnsureIndexes(ctx context.Context) error {
	return r.store.ensureIndexes(ctx,
		mongo.IndexModel{Keys: bson.D{{Key: "targetLanguage", Value: 1}, {Key: "createdAt", Value: -1}}},
	)
}

// RoutePlanRepository implements domain.RoutePlanRepository
type RoutePlanRepository struct {
	store historyStore[domain.RoutePlan]
}

// NewRoutePlanRepository creates a new RoutePlanRepository
func NewRoutePlanRepository(collection Collection, transactor Transactor, outboxRepo outbox.Repository, eventFactory *cloudevents.EventFactory) *RoutePlanRepository {
	return &RoutePlanRepository{store: historyStore[domain.RoutePlan]{
		collection:    collection,
		transactor:    transactor,
		outboxRepo:    outboxRepo,
		eventFactory:  eventFactory,
		aggregateType: domain.AggregateRoutePlan,
		subjectPrefix: "route-plan/",
		timeField:     "plannedAt",
	}}
}

// Save records the plan and its events
func (r *RoutePlanRepository) Save(ctx context.Context, plan *domain.RoutePlan) error {
	if err := r.store.save(ctx, plan.RoutePlanID, plan, plan.GetDomainEvents()); err != nil {
		return err
	}
	plan.ClearDomainEvents()
	return nil
}

// FindByID returns nil, nil when the plan does not exist
func (r *RoutePlanRepository) FindByID(ctx context.Context, routePlanID string) (*domain.RoutePlan, error) {
	return r.store.findByID(ctx, routePlanID)
}

// FindAll lists plans newest first
func (r *RoutePlanRepository) FindAll(ctx context.Context, limit, offset int64) ([]*domain.RoutePlan, error) {
	return r.store.findAll(ctx, bson.M{}, limit, offset)
}

// Count counts all plans
func (r *RoutePlanRepository) Count(ctx context.Context) (int64, error) {
	return r.store.count(ctx, bson.M{})
}

// EnsureIndexes creates the collection indexes
func (r *RoutePlanRepository) EnsureIndexes(ctx context.Context) error {
	return r.store.ensureIndexes(ctx,
		mongo.IndexModel{Keys: bson.D{{Key: "origin", Value: 1}, {Key: "destination", Value: 1}}},
	)
}

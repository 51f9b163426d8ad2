package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/pkg/cloudevents"
	"github.com/freelansire/hrh/pkg/kafka"
	pkgmongodb "github.com/freelansire/hrh/pkg/mongodb"
	"github.com/freelansire/hrh/pkg/outbox"
)

// Collection names
const (
	CollectionZoneAssignments   = "zone_assignments"
	CollectionLabelTranslations = "label_translations"
	CollectionRoutePlans        = "route_plans"
)

// Collection is the subset of *pkgmongodb.InstrumentedCollection the repositories use
type Collection interface {
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	CreateIndexes(ctx context.Context, models []mongo.IndexModel) ([]string, error)
}

// Transactor runs fn inside a multi-document transaction
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ClientTransactor adapts *pkgmongodb.Client to Transactor
type ClientTransactor struct {
	Client *pkgmongodb.Client
}

// WithTransaction implements Transactor
func (t ClientTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.Client.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return fn(sessCtx)
	})
}

// historyStore keeps immutable history documents of type T and writes their
// domain events to the outbox in the same transaction.
type historyStore[T any] struct {
	collection    Collection
	transactor    Transactor
	outboxRepo    outbox.Repository
	eventFactory  *cloudevents.EventFactory
	aggregateType string
	subjectPrefix string
	timeField     string
}

// save inserts doc under id. Saving the same id twice leaves the first
// document in place.
func (s *historyStore[T]) save(ctx context.Context, id string, doc *T, events []domain.DomainEvent) error {
	err := s.transactor.WithTransaction(ctx, func(txCtx context.Context) error {
		// 1. Save the document
		opts := options.Update().SetUpsert(true)
		filter := bson.M{"_id": id}
		update := bson.M{"$setOnInsert": doc}

		if _, err := s.collection.UpdateOne(txCtx, filter, update, opts); err != nil {
			return fmt.Errorf("failed to save %s: %w", s.aggregateType, err)
		}

		// 2. Save domain events to outbox
		outboxEvents, err := s.outboxEvents(txCtx, id, events)
		if err != nil {
			return err
		}
		if len(outboxEvents) > 0 {
			if err := s.outboxRepo.SaveAll(txCtx, outboxEvents); err != nil {
				return fmt.Errorf("failed to save outbox events: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (s *historyStore[T]) outboxEvents(ctx context.Context, id string, events []domain.DomainEvent) ([]*outbox.OutboxEvent, error) {
	outboxEvents := make([]*outbox.OutboxEvent, 0, len(events))
	for _, event := range events {
		topic, ok := kafka.TopicForEventType(event.EventType())
		if !ok {
			return nil, fmt.Errorf("no topic for event type %s", event.EventType())
		}

		cloudEvent := s.eventFactory.CreateEvent(ctx, event.EventType(), s.subjectPrefix+id, event)
		outboxEvent, err := outbox.NewOutboxEventFromCloudEvent(id, s.aggregateType, topic, cloudEvent)
		if err != nil {
			return nil, fmt.Errorf("failed to create outbox event: %w", err)
		}
		outboxEvents = append(outboxEvents, outboxEvent)
	}
	return outboxEvents, nil
}

// findByID returns nil, nil when the document does not exist
func (s *historyStore[T]) findByID(ctx context.Context, id string) (*T, error) {
	var doc T
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", s.aggregateType, err)
	}
	return &doc, nil
}

// findAll returns one page of documents, newest first
func (s *historyStore[T]) findAll(ctx context.Context, filter bson.M, limit, offset int64) ([]*T, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: s.timeField, Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.aggregateType, err)
	}
	defer cursor.Close(ctx)

	docs := make([]*T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.aggregateType, err)
	}
	return docs, nil
}

func (s *historyStore[T]) count(ctx context.Context, filter bson.M) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.aggregateType, err)
	}
	return n, nil
}

// ensureIndexes creates the time index used by listing plus any extra indexes
func (s *historyStore[T]) ensureIndexes(ctx context.Context, extra ...mongo.IndexModel) error {
	indexes := append([]mongo.IndexModel{
		{Keys: bson.D{{Key: s.timeField, Value: -1}, {Key: "_id", Value: -1}}},
	}, extra...)

	if _, err := s.collection.CreateIndexes(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", s.aggregateType, err)
	}
	return nil
}

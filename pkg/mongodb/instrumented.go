package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/metrics"
	"github.com/freelansire/hrh/pkg/tracing"
)

// InstrumentedClient wraps a MongoDB Client with metrics and tracing
type InstrumentedClient struct {
	client  *Client
	metrics *metrics.Metrics
	logger  *logging.Logger
	tracer  trace.Tracer
}

// NewInstrumentedClient creates a new instrumented MongoDB client
func NewInstrumentedClient(client *Client, m *metrics.Metrics, logger *logging.Logger) *InstrumentedClient {
	return &InstrumentedClient{
		client:  client,
		metrics: m,
		logger:  logger,
		tracer:  tracing.Tracer("mongodb"),
	}
}

// Collection returns an instrumented collection
func (c *InstrumentedClient) Collection(name string) *InstrumentedCollection {
	return NewInstrumentedCollection(c.client.Collection(name), c.client.DatabaseName(), c.metrics, c.logger)
}

// Database returns the underlying database handle
func (c *InstrumentedClient) Database() *mongo.Database {
	return c.client.Database()
}

// Client returns the underlying MongoDB client
func (c *InstrumentedClient) Client() *mongo.Client {
	return c.client.Client()
}

// Close disconnects the client
func (c *InstrumentedClient) Close(ctx context.Context) error {
	return c.client.Close(ctx)
}

// HealthCheck pings the primary inside a span
func (c *InstrumentedClient) HealthCheck(ctx context.Context) error {
	_, err := tracing.TracedOperation(ctx, c.tracer, "mongodb.ping", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.client.HealthCheck(ctx)
	}, tracing.DatabaseSpanAttributes(c.client.DatabaseName(), "ping", "")...)
	return err
}

// InstrumentedCollection wraps a MongoDB Collection with metrics and tracing
type InstrumentedCollection struct {
	collection *mongo.Collection
	name       string
	database   string
	metrics    *metrics.Metrics
	logger     *logging.Logger
	tracer     trace.Tracer
}

// NewInstrumentedCollection wraps an existing collection handle
func NewInstrumentedCollection(collection *mongo.Collection, database string, m *metrics.Metrics, logger *logging.Logger) *InstrumentedCollection {
	return &InstrumentedCollection{
		collection: collection,
		name:       collection.Name(),
		database:   database,
		metrics:    m,
		logger:     logger,
		tracer:     tracing.Tracer("mongodb"),
	}
}

// Name returns the collection name
func (c *InstrumentedCollection) Name() string {
	return c.name
}

// observe runs op inside a client span and records metrics and a debug log.
// affected reports how many documents the result touched.
func observe[T any](ctx context.Context, c *InstrumentedCollection, operation string, op func(context.Context) (T, error), affected func(T) int64) (T, error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "mongodb."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(tracing.DatabaseSpanAttributes(c.database, operation, c.name)...),
	)
	defer span.End()

	result, err := op(ctx)
	duration := time.Since(start)
	success := err == nil || errors.Is(err, mongo.ErrNoDocuments)

	var rows int64
	if success && affected != nil {
		rows = affected(result)
	}

	if c.metrics != nil {
		c.metrics.RecordMongoDBOperation(c.name, operation, success, duration)
	}
	if c.logger != nil {
		c.logger.DatabaseQuery(ctx, c.name, operation, duration, success, rows)
	}

	if !success {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
		span.SetAttributes(attribute.Int64("db.rows_affected", rows))
	}

	return result, err
}

// InsertMany inserts multiple documents with instrumentation
func (c *InstrumentedCollection) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	return observe(ctx, c, "insertMany", func(ctx context.Context) (*mongo.InsertManyResult, error) {
		return c.collection.InsertMany(ctx, documents, opts...)
	}, func(r *mongo.InsertManyResult) int64 {
		if r == nil {
			return 0
		}
		return int64(len(r.InsertedIDs))
	})
}

// UpdateOne updates a single document with instrumentation
func (c *InstrumentedCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return observe(ctx, c, "updateOne", func(ctx context.Context) (*mongo.UpdateResult, error) {
		return c.collection.UpdateOne(ctx, filter, update, opts...)
	}, func(r *mongo.UpdateResult) int64 {
		if r == nil {
			return 0
		}
		return r.ModifiedCount + r.UpsertedCount
	})
}

// FindOne finds a single document. The decode error, including
// mongo.ErrNoDocuments, is reported by the returned result.
func (c *InstrumentedCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	result, _ := observe(ctx, c, "findOne", func(ctx context.Context) (*mongo.SingleResult, error) {
		res := c.collection.FindOne(ctx, filter, opts...)
		return res, res.Err()
	}, func(res *mongo.SingleResult) int64 {
		if res.Err() != nil {
			return 0
		}
		return 1
	})
	return result
}

// Find finds documents with instrumentation
func (c *InstrumentedCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	return observe(ctx, c, "find", func(ctx context.Context) (*mongo.Cursor, error) {
		return c.collection.Find(ctx, filter, opts...)
	}, nil)
}

// CountDocuments counts documents with instrumentation
func (c *InstrumentedCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return observe(ctx, c, "countDocuments", func(ctx context.Context) (int64, error) {
		return c.collection.CountDocuments(ctx, filter, opts...)
	}, nil)
}

// DeleteMany deletes documents with instrumentation
func (c *InstrumentedCollection) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return observe(ctx, c, "deleteMany", func(ctx context.Context) (*mongo.DeleteResult, error) {
		return c.collection.DeleteMany(ctx, filter, opts...)
	}, func(r *mongo.DeleteResult) int64 {
		if r == nil {
			return 0
		}
		return r.DeletedCount
	})
}

// CreateIndexes creates the given indexes with instrumentation
func (c *InstrumentedCollection) CreateIndexes(ctx context.Context, models []mongo.IndexModel) ([]string, error) {
	return observe(ctx, c, "createIndexes", func(ctx context.Context) ([]string, error) {
		return c.collection.Indexes().CreateMany(ctx, models)
	}, func(names []string) int64 { return int64(len(names)) })
}

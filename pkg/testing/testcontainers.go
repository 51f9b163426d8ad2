package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	pkgmongodb "github.com/freelansire/hrh/pkg/mongodb"
)

// MongoDBContainer wraps a single-node replica set, which the history
// repositories need for multi-document transactions.
type MongoDBContainer struct {
	Container *mongodb.MongoDBContainer
	URI       string
}

// NewMongoDBContainer starts a MongoDB testcontainer
func NewMongoDBContainer(ctx context.Context) (*MongoDBContainer, error) {
	mongoContainer, err := mongodb.Run(ctx,
		"mongo:7",
		mongodb.WithReplicaSet("rs0"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start mongodb container: %w", err)
	}

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		_ = mongoContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &MongoDBContainer{
		Container: mongoContainer,
		URI:       uri,
	}, nil
}

// Close terminates the MongoDB container
func (m *MongoDBContainer) Close(ctx context.Context) error {
	if m.Container != nil {
		return m.Container.Terminate(ctx)
	}
	return nil
}

// Connect opens a client on the container using the given database name
func (m *MongoDBContainer) Connect(ctx context.Context, database string) (*pkgmongodb.Client, error) {
	cfg := pkgmongodb.DefaultConfig()
	cfg.URI = m.URI
	cfg.Database = database
	cfg.MinPoolSize = 0
	return pkgmongodb.NewClient(ctx, cfg)
}

// StartMongoDB starts a container for the duration of a test and returns a
// connected client. The test is skipped in short mode.
func StartMongoDB(t *testing.T, database string) *pkgmongodb.Client {
	t.Helper()
	SkipIfShort(t)

	ctx, cancel := CreateTestContext(2 * time.Minute)
	defer cancel()

	container, err := NewMongoDBContainer(ctx)
	if err != nil {
		t.Fatalf("start mongodb: %v", err)
	}
	t.Cleanup(func() { _ = container.Close(context.Background()) })

	client, err := container.Connect(ctx, database)
	if err != nil {
		t.Fatalf("connect mongodb: %v", err)
	}
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	return client
}

package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	pkgmongodb "github.com/freelansire/hrh/pkg/mongodb"
	"github.com/freelansire/hrh/pkg/outbox"
)

func TestOutboxRepository_MockOps(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("save, find, mark and purge", func(mt *mtest.T) {
		repo := NewOutboxRepository(pkgmongodb.NewInstrumentedCollection(mt.Coll, mt.DB.Name(), nil, nil))
		ctx := context.Background()
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		require.NoError(t, repo.SaveAll(ctx, nil))

		mt.AddMockResponses(mtest.CreateSuccessResponse())
		require.NoError(t, repo.SaveAll(ctx, []*outbox.OutboxEvent{
			{ID: "evt-1", EventType: "hrh.routing.route-planned", Topic: "hrh.routing.events", MaxRetries: 10},
		}))

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "evt-1"},
			{Key: "eventType", Value: "hrh.routing.route-planned"},
			{Key: "topic", Value: "hrh.routing.events"},
			{Key: "retryCount", Value: 0},
			{Key: "maxRetries", Value: 10},
		}))
		events, err := repo.FindUnpublished(ctx, 100)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "evt-1", events[0].ID)
		assert.Equal(t, "hrh.routing.events", events[0].Topic)

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		require.NoError(t, repo.MarkPublished(ctx, "evt-1"))

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		err = repo.IncrementRetry(ctx, "missing", "boom")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outbox event not found")

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 4}))
		deleted, err := repo.DeletePublished(ctx, 7*24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(4), deleted)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := NewOutboxRepository(pkgmongodb.NewInstrumentedCollection(mt.Coll, mt.DB.Name(), nil, nil))

		mt.AddMockResponses(mtest.CreateSuccessResponse())
		require.NoError(t, repo.EnsureIndexes(context.Background()))
	})
}

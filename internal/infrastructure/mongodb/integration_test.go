package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/pkg/cloudevents"
	pkgmongodb "github.com/freelansire/hrh/pkg/mongodb"
	outboxmongo "github.com/freelansire/hrh/pkg/outbox/mongodb"
	pkgtesting "github.com/freelansire/hrh/pkg/testing"
)

func TestZoneAssignmentRepository_Integration(t *testing.T) {
	client := pkgtesting.StartMongoDB(t, "hrh_test")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	instrumented := pkgmongodb.NewInstrumentedClient(client, nil, nil)
	outboxRepo := outboxmongo.NewOutboxRepository(instrumented.Collection(outboxmongo.DefaultCollectionName))
	require.NoError(t, outboxRepo.EnsureIndexes(ctx))

	repo := NewZoneAssignmentRepository(
		instrumented.Collection(CollectionZoneAssignments),
		ClientTransactor{Client: client},
		outboxRepo,
		cloudevents.NewEventFactory(cloudevents.SourceHRHLogistics),
	)
	require.NoError(t, repo.EnsureIndexes(ctx))

	cold, err := domain.AssignZone(domain.ProductDescriptor{
		Category: domain.CategoryFrozenGoods, VolumeM3: 0.2, WeightKg: 3.5, ShelfLifeDays: 11, Demand: 20,
	})
	require.NoError(t, err)
	overflow, err := domain.AssignZone(domain.ProductDescriptor{
		Category: domain.CategoryNonFoodItems, VolumeM3: 0.8, WeightKg: 15, ShelfLifeDays: 60, Demand: 70,
	})
	require.NoError(t, err)
	overflow.AssignedAt = cold.AssignedAt.Add(time.Second)

	require.NoError(t, repo.Save(ctx, cold))
	require.NoError(t, repo.Save(ctx, overflow))

	found, err := repo.FindByID(ctx, cold.AssignmentID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Cold Storage", found.Zone.Name)
	assert.Empty(t, found.Warnings)

	all, err := repo.FindAll(ctx, domain.ZoneAssignmentFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, overflow.AssignmentID, all[0].AssignmentID)

	zone := 3
	total, err := repo.Count(ctx, domain.ZoneAssignmentFilter{ZoneID: &zone})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	events, err := outboxRepo.FindByAggregateID(ctx, cold.AssignmentID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, cloudevents.ZoneAssigned, events[0].EventType)
	assert.False(t, events[0].IsPublished())

	missing, err := repo.FindByID(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

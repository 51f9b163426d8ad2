package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelansire/hrh/internal/domain"
)

func TestToZoneAssignmentDTO(t *testing.T) {
	assert.Nil(t, ToZoneAssignmentDTO(nil))

	assignment, err := domain.AssignZone(domain.ProductDescriptor{
		Category: domain.CategoryFrozenGoods, VolumeM3: 1.2, WeightKg: 20, ShelfLifeDays: 90, Demand: 100,
	})
	require.NoError(t, err)

	dto := ToZoneAssignmentDTO(assignment)
	assert.Equal(t, assignment.AssignmentID, dto.ID)
	assert.Equal(t, "Frozen Goods", dto.Product.CategoryName)
	assert.Equal(t, "Standard Shelving", dto.Zone.Name)
	assert.Equal(t, "Room Temp", dto.Zone.TemperatureLabel)
	assert.Equal(t, []string{domain.WarningFrozenNotCold}, dto.Warnings)

	// the DTO owns its warnings
	dto.Warnings[0] = "changed"
	assert.Equal(t, domain.WarningFrozenNotCold, assignment.Warnings[0])
}

func TestToLabelTranslationDTO(t *testing.T) {
	assert.Nil(t, ToLabelTranslationDTO(nil))

	image := domain.NewLabelImage("label.jpg", "", []byte{0xff, 0xd8, 0xff})
	translation, err := domain.NewLabelTranslation(image, "Handle with care", domain.LanguageGerman, "Mit Vorsicht behandeln")
	require.NoError(t, err)

	dto := ToLabelTranslationDTO(translation)
	assert.Equal(t, "image/jpeg", dto.ContentType)
	assert.Equal(t, 3, dto.ImageSize)
	assert.Equal(t, "de", dto.TargetLanguage)
	assert.Equal(t, "German", dto.TargetLanguageName)
	assert.Equal(t, "Mit Vorsicht behandeln", dto.TranslatedText)
}

func TestToRoutePlanDTO(t *testing.T) {
	assert.Nil(t, ToRoutePlanDTO(nil))

	plan := &domain.RoutePlan{
		RoutePlanID:        "plan-1",
		Origin:             "Chicago",
		Destination:        "Denver",
		Mode:               domain.TravelModeDriving,
		Road:               chicagoToDenver(),
		OriginPort:         domain.PortOfNewYork,
		DestinationPort:    domain.PortOfLosAngeles,
		ShippingDistanceKm: 3944.42,
		PlannedAt:          time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	dto := ToRoutePlanDTO(plan)
	assert.Equal(t, "plan-1", dto.ID)
	assert.Equal(t, 52320, dto.Road.DurationSeconds)
	assert.Equal(t, "Denver, CO, USA", dto.Road.EndAddress)
	assert.Equal(t, -118.2437, dto.DestinationPort.Longitude)
	assert.Equal(t, plan.PlannedAt, dto.PlannedAt)
}

package application

import (
	"context"
	"fmt"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/pkg/api"
	"github.com/freelansire/hrh/pkg/errors"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/metrics"
)

// WarehousingService handles zone selection use cases
type WarehousingService struct {
	repo    domain.ZoneAssignmentRepository
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewWarehousingService creates a new WarehousingService
func NewWarehousingService(
	repo domain.ZoneAssignmentRepository,
	logger *logging.Logger,
	m *metrics.Metrics,
) *WarehousingService {
	return &WarehousingService{
		repo:    repo,
		logger:  logger.WithComponent("warehousing"),
		metrics: m,
	}
}

// ListZones returns the fixed zone catalog
func (s *WarehousingService) ListZones(ctx context.Context) []ZoneDTO {
	zones := domain.ZoneCatalog()
	dtos := make([]ZoneDTO, len(zones))
	for i, z := range zones {
		dtos[i] = ToZoneDTO(z)
	}
	return dtos
}

// AssignZone selects a storage zone for a product. The assignment is
// recorded on a best-effort basis.
func (s *WarehousingService) AssignZone(ctx context.Context, cmd AssignZoneCommand) (*ZoneAssignmentDTO, error) {
	descriptor := domain.ProductDescriptor{
		Category:      domain.ProductCategory(cmd.Category),
		VolumeM3:      cmd.VolumeM3,
		WeightKg:      cmd.WeightKg,
		ShelfLifeDays: cmd.ShelfLifeDays,
		Demand:        cmd.Demand,
	}
	if category, err := domain.ParseProductCategory(cmd.Category); err == nil {
		descriptor.Category = category
	}

	assignment, err := domain.AssignZone(descriptor)
	if err != nil {
		return nil, productValidationError(err)
	}

	if err := s.repo.Save(ctx, assignment); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to record zone assignment",
			"assignmentId", assignment.AssignmentID)
	}

	s.metrics.RecordZoneAssignment(string(descriptor.Category), assignment.Zone.Name, len(assignment.Warnings))
	s.logger.Event(ctx, "zone.assigned", map[string]any{
		"assignmentId": assignment.AssignmentID,
		"category":     string(descriptor.Category),
		"zoneId":       assignment.Zone.ID,
		"warnings":     len(assignment.Warnings),
	})

	return ToZoneAssignmentDTO(assignment), nil
}

// GetZoneAssignment retrieves a recorded assignment
func (s *WarehousingService) GetZoneAssignment(ctx context.Context, query GetZoneAssignmentQuery) (*ZoneAssignmentDTO, error) {
	assignment, err := s.repo.FindByID(ctx, query.AssignmentID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get zone assignment", "assignmentId", query.AssignmentID)
		return nil, fmt.Errorf("failed to get zone assignment: %w", err)
	}

	if assignment == nil {
		return nil, errors.ErrNotFoundWithID("zone assignment", query.AssignmentID)
	}

	return ToZoneAssignmentDTO(assignment), nil
}

// ListZoneAssignments lists recorded assignments, newest first
func (s *WarehousingService) ListZoneAssignments(ctx context.Context, query ListZoneAssignmentsQuery) (*api.PageResponse[ZoneAssignmentDTO], error) {
	if query.ZoneID != nil {
		if _, err := domain.ZoneByID(*query.ZoneID); err != nil {
			return nil, errors.ErrValidationWithFields("invalid zone filter", map[string]string{
				"zoneId": fmt.Sprintf("must be between 0 and %d", domain.ZoneCount-1),
			})
		}
	}

	page := query.Page.Normalize()
	filter := domain.ZoneAssignmentFilter{ZoneID: query.ZoneID}

	assignments, err := s.repo.FindAll(ctx, filter, page.GetLimit(), page.GetOffset())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list zone assignments")
		return nil, fmt.Errorf("failed to list zone assignments: %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to count zone assignments")
		return nil, fmt.Errorf("failed to count zone assignments: %w", err)
	}

	dtos := make([]ZoneAssignmentDTO, 0, len(assignments))
	for _, a := range assignments {
		dtos = append(dtos, *ToZoneAssignmentDTO(a))
	}

	response := api.NewPageResponse(dtos, page.Page, page.PageSize, total)
	return &response, nil
}

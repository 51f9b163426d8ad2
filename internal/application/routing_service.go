package application

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/pkg/api"
	"github.com/freelansire/hrh/pkg/errors"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/metrics"
)

// RoutingService handles route planning use cases
type RoutingService struct {
	repo       domain.RoutePlanRepository
	directions domain.DirectionsProvider
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// NewRoutingService creates a new RoutingService
func NewRoutingService(
	repo domain.RoutePlanRepository,
	directions domain.DirectionsProvider,
	logger *logging.Logger,
	m *metrics.Metrics,
) *RoutingService {
	return &RoutingService{
		repo:       repo,
		directions: directions,
		logger:     logger.WithComponent("routing"),
		metrics:    m,
	}
}

// PlanRoute resolves driving directions and adds the port-to-port shipping distance
func (s *RoutingService) PlanRoute(ctx context.Context, cmd PlanRouteCommand) (*RoutePlanDTO, error) {
	origin, destination, err := domain.NormalizePlaces(cmd.Origin, cmd.Destination)
	if err != nil {
		return nil, placesValidationError(err)
	}

	road, err := s.directions.Directions(ctx, origin, destination, domain.TravelModeDriving)
	if err != nil {
		if stderrors.Is(err, domain.ErrNoRoute) {
			return nil, errors.ErrNoDrivingRoute(origin, destination).Wrap(err)
		}
		return nil, externalError(serviceDirections, err)
	}

	plan, err := domain.NewRoutePlan(origin, destination, road)
	if err != nil {
		return nil, errors.ErrInternal("failed to build route plan").Wrap(err)
	}

	if err := s.repo.Save(ctx, plan); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to record route plan",
			"routePlanId", plan.RoutePlanID)
	}

	s.metrics.RecordRoutePlan(string(plan.Mode), plan.ShippingDistanceKm)
	s.logger.Event(ctx, "route.planned", map[string]any{
		"routePlanId":        plan.RoutePlanID,
		"distanceMeters":     road.DistanceMeters,
		"shippingDistanceKm": plan.ShippingDistanceKm,
	})

	return ToRoutePlanDTO(plan), nil
}

func placesValidationError(err error) *errors.AppError {
	fields := map[string]string{}
	if stderrors.Is(err, domain.ErrEmptyOrigin) {
		fields["origin"] = "must not be blank"
	}
	if stderrors.Is(err, domain.ErrEmptyDestination) {
		fields["destination"] = "must not be blank"
	}
	if len(fields) == 0 {
		return errors.ErrValidation(err.Error()).Wrap(err)
	}
	return errors.ErrValidationWithFields("origin and destination are required", fields).Wrap(err)
}

// GetRoutePlan retrieves a recorded route plan
func (s *RoutingService) GetRoutePlan(ctx context.Context, query GetRoutePlanQuery) (*RoutePlanDTO, error) {
	plan, err := s.repo.FindByID(ctx, query.RoutePlanID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get route plan", "routePlanId", query.RoutePlanID)
		return nil, fmt.Errorf("failed to get route plan: %w", err)
	}

	if plan == nil {
		return nil, errors.ErrNotFoundWithID("route plan", query.RoutePlanID)
	}

	return ToRoutePlanDTO(plan), nil
}

// ListRoutePlans lists recorded route plans, newest first
func (s *RoutingService) ListRoutePlans(ctx context.Context, query ListRoutePlansQuery) (*api.PageResponse[RoutePlanDTO], error) {
	page := query.Page.Normalize()

	plans, err := s.repo.FindAll(ctx, page.GetLimit(), page.GetOffset())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list route plans")
		return nil, fmt.Errorf("failed to list route plans: %w", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to count route plans")
		return nil, fmt.Errorf("failed to count route plans: %w", err)
	}

	dtos := make([]RoutePlanDTO, 0, len(plans))
	for _, p := range plans {
		dtos = append(dtos, *ToRoutePlanDTO(p))
	}

	response := api.NewPageResponse(dtos, page.Page, page.PageSize, total)
	return &response, nil
}

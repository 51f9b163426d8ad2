package handlers

import (
	"context"
	"sync"

	"github.com/freelansire/hrh/internal/domain"
)

type memoryAssignments struct {
	mu    sync.Mutex
	items []*domain.ZoneAssignment
}

func (r *memoryAssignments) Save(_ context.Context, a *domain.ZoneAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]*domain.ZoneAssignment{a}, r.items...)
	a.ClearDomainEvents()
	return nil
}

func (r *memoryAssignments) FindByID(_ context.Context, id string) (*domain.ZoneAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if a.AssignmentID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *memoryAssignments) matching(filter domain.ZoneAssignmentFilter) []*domain.ZoneAssignment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.ZoneAssignment, 0, len(r.items))
	for _, a := range r.items {
		if filter.ZoneID == nil || a.Zone.ID == *filter.ZoneID {
			out = append(out, a)
		}
	}
	return out
}

func (r *memoryAssignments) FindAll(_ context.Context, filter domain.ZoneAssignmentFilter, limit, offset int64) ([]*domain.ZoneAssignment, error) {
	return window(r.matching(filter), limit, offset), nil
}

func (r *memoryAssignments) Count(_ context.Context, filter domain.ZoneAssignmentFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

type memoryTranslations struct {
	mu    sync.Mutex
	items []*domain.LabelTranslation
}

func (r *memoryTranslations) Save(_ context.Context, t *domain.LabelTranslation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]*domain.LabelTranslation{t}, r.items...)
	return nil
}

func (r *memoryTranslations) FindByID(_ context.Context, id string) (*domain.LabelTranslation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.items {
		if t.TranslationID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *memoryTranslations) matching(filter domain.LabelTranslationFilter) []*domain.LabelTranslation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.LabelTranslation, 0, len(r.items))
	for _, t := range r.items {
		if filter.TargetLanguage == "" || t.TargetLanguage == filter.TargetLanguage {
			out = append(out, t)
		}
	}
	return out
}

func (r *memoryTranslations) FindAll(_ context.Context, filter domain.LabelTranslationFilter, limit, offset int64) ([]*domain.LabelTranslation, error) {
	return window(r.matching(filter), limit, offset), nil
}

func (r *memoryTranslations) Count(_ context.Context, filter domain.LabelTranslationFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

type memoryRoutePlans struct {
	mu    sync.Mutex
	items []*domain.RoutePlan
}

func (r *memoryRoutePlans) Save(_ context.Context, p *domain.RoutePlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]*domain.RoutePlan{p}, r.items...)
	return nil
}

func (r *memoryRoutePlans) FindByID(_ context.Context, id string) (*domain.RoutePlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.RoutePlanID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memoryRoutePlans) FindAll(_ context.Context, limit, offset int64) ([]*domain.RoutePlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return window(r.items, limit, offset), nil
}

func (r *memoryRoutePlans) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func window[T any](items []T, limit, offset int64) []T {
	if offset >= int64(len(items)) {
		return nil
	}
	end := offset + limit
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[offset:end]
}

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractText(context.Context, domain.LabelImage) (string, error) {
	return s.text, s.err
}

type stubTranslator struct {
	result string
	err    error
}

func (s *stubTranslator) Translate(context.Context, string, domain.TargetLanguage) (string, error) {
	return s.result, s.err
}

type stubDirections struct {
	route domain.DrivingRoute
	err   error
}

func (s *stubDirections) Directions(context.Context, string, string, domain.TravelMode) (domain.DrivingRoute, error) {
	return s.route, s.err
}

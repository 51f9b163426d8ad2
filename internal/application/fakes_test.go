package application

import (
	"context"
	"sort"
	"sync"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/metrics"
)

func testDeps() (*logging.Logger, *metrics.Metrics) {
	return logging.NewNop(), metrics.New(metrics.DefaultConfig("hrh-test"))
}

func paginate[T any](items []T, limit, offset int64) []T {
	if offset >= int64(len(items)) {
		return []T{}
	}
	end := offset + limit
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[offset:end]
}

// fakeAssignmentRepository keeps assignments in memory
type fakeAssignmentRepository struct {
	mu          sync.Mutex
	assignments []*domain.ZoneAssignment
	saveErr     error
	findErr     error
}

func (r *fakeAssignmentRepository) Save(_ context.Context, a *domain.ZoneAssignment) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments = append(r.assignments, a)
	return nil
}

func (r *fakeAssignmentRepository) FindByID(_ context.Context, id string) (*domain.ZoneAssignment, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assignments {
		if a.AssignmentID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAssignmentRepository) matching(filter domain.ZoneAssignmentFilter) []*domain.ZoneAssignment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ZoneAssignment
	for _, a := range r.assignments {
		if filter.ZoneID == nil || a.Zone.ID == *filter.ZoneID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AssignedAt.After(out[j].AssignedAt) })
	return out
}

func (r *fakeAssignmentRepository) FindAll(_ context.Context, filter domain.ZoneAssignmentFilter, limit, offset int64) ([]*domain.ZoneAssignment, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return paginate(r.matching(filter), limit, offset), nil
}

func (r *fakeAssignmentRepository) Count(_ context.Context, filter domain.ZoneAssignmentFilter) (int64, error) {
	if r.findErr != nil {
		return 0, r.findErr
	}
	return int64(len(r.matching(filter))), nil
}

// fakeTranslationRepository keeps translations in memory
type fakeTranslationRepository struct {
	translations []*domain.LabelTranslation
	saveErr      error
	findErr      error
}

func (r *fakeTranslationRepository) Save(_ context.Context, t *domain.LabelTranslation) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.translations = append(r.translations, t)
	return nil
}

func (r *fakeTranslationRepository) FindByID(_ context.Context, id string) (*domain.LabelTranslation, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, t := range r.translations {
		if t.TranslationID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTranslationRepository) matching(filter domain.LabelTranslationFilter) []*domain.LabelTranslation {
	var out []*domain.LabelTranslation
	for _, t := range r.translations {
		if filter.TargetLanguage == "" || t.TargetLanguage == filter.TargetLanguage {
			out = append(out, t)
		}
	}
	return out
}

func (r *fakeTranslationRepository) FindAll(_ context.Context, filter domain.LabelTranslationFilter, limit, offset int64) ([]*domain.LabelTranslation, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return paginate(r.matching(filter), limit, offset), nil
}

func (r *fakeTranslationRepository) Count(_ context.Context, filter domain.LabelTranslationFilter) (int64, error) {
	if r.findErr != nil {
		return 0, r.findErr
	}
	return int64(len(r.matching(filter))), nil
}

// fakeRoutePlanRepository keeps route plans in memory
type fakeRoutePlanRepository struct {
	plans   []*domain.RoutePlan
	saveErr error
	findErr error
}

func (r *fakeRoutePlanRepository) Save(_ context.Context, p *domain.RoutePlan) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.plans = append(r.plans, p)
	return nil
}

func (r *fakeRoutePlanRepository) FindByID(_ context.Context, id string) (*domain.RoutePlan, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, p := range r.plans {
		if p.RoutePlanID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeRoutePlanRepository) FindAll(_ context.Context, limit, offset int64) ([]*domain.RoutePlan, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return paginate(r.plans, limit, offset), nil
}

func (r *fakeRoutePlanRepository) Count(_ context.Context) (int64, error) {
	if r.findErr != nil {
		return 0, r.findErr
	}
	return int64(len(r.plans)), nil
}

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractText(_ context.Context, _ domain.LabelImage) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeTranslator struct {
	result  string
	err     error
	calls   int
	gotText string
	gotLang domain.TargetLanguage
}

func (f *fakeTranslator) Translate(_ context.Context, text string, target domain.TargetLanguage) (string, error) {
	f.calls++
	f.gotText, f.gotLang = text, target
	return f.result, f.err
}

type fakeDirections struct {
	route domain.DrivingRoute
	err   error
	calls int
}

func (f *fakeDirections) Directions(_ context.Context, _, _ string, _ domain.TravelMode) (domain.DrivingRoute, error) {
	f.calls++
	return f.route, f.err
}

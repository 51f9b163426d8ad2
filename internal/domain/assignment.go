package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrZoneAssignmentNotFound = errors.New("zone assignment not found")

// Advisory warnings
const (
	WarningFrozenNotCold    = "Frozen goods should be in Cold Storage."
	WarningPerishableRotate = "Short shelf-life perishables should be in High Rotation Area."
)

// ShortShelfLifeDays is the shelf life below which perishables should rotate fast
const ShortShelfLifeDays = 30

// SelectZone validates the descriptor, classifies it against the reference
// grouping and returns the zone index with at most one advisory warning.
func SelectZone(p ProductDescriptor) (int, []string, error) {
	if err := p.Validate(); err != nil {
		return 0, nil, err
	}

	zoneIndex := referenceGrouping.Classify(p.Features())
	return zoneIndex, zoneWarnings(p, zoneCatalog[zoneIndex]), nil
}

// zoneWarnings checks the frozen rule first and only then the perishable rule
func zoneWarnings(p ProductDescriptor, zone Zone) []string {
	warnings := make([]string, 0, 1)
	switch {
	case p.Category == CategoryFrozenGoods && zone.Temperature != TemperatureLow:
		warnings = append(warnings, WarningFrozenNotCold)
	case p.Category == CategoryPerishables && p.ShelfLifeDays < ShortShelfLifeDays:
		warnings = append(warnings, WarningPerishableRotate)
	}
	return warnings
}

// ZoneAssignment pairs a product descriptor with the zone selected for it
type ZoneAssignment struct {
	AssignmentID string            `bson:"_id"`
	Product      ProductDescriptor `bson:"product"`
	Zone         Zone              `bson:"zone"`
	Warnings     []string          `bson:"warnings"`
	AssignedAt   time.Time         `bson:"assignedAt"`
	DomainEvents []DomainEvent     `bson:"-"`
}

// AssignZone selects a zone and records the outcome as a new assignment
func AssignZone(p ProductDescriptor) (*ZoneAssignment, error) {
	zoneIndex, warnings, err := SelectZone(p)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	assignment := &ZoneAssignment{
		AssignmentID: uuid.New().String(),
		Product:      p,
		Zone:         zoneCatalog[zoneIndex],
		Warnings:     warnings,
		AssignedAt:   now,
		DomainEvents: make([]DomainEvent, 0, 1),
	}

	assignment.AddDomainEvent(&ZoneAssignedEvent{
		AssignmentID: assignment.AssignmentID,
		Category:     string(p.Category),
		ZoneID:       assignment.Zone.ID,
		ZoneName:     assignment.Zone.Name,
		Warnings:     append([]string{}, warnings...),
		AssignedAt:   now,
	})

	return assignment, nil
}

// HasWarnings reports whether the assignment raised an advisory warning
func (a *ZoneAssignment) HasWarnings() bool {
	return len(a.Warnings) > 0
}

// AddDomainEvent adds a domain event
func (a *ZoneAssignment) AddDomainEvent(event DomainEvent) {
	a.DomainEvents = append(a.DomainEvents, event)
}

// ClearDomainEvents clears all domain events
func (a *ZoneAssignment) ClearDomainEvents() {
	a.DomainEvents = make([]DomainEvent, 0)
}

// GetDomainEvents returns all domain events
func (a *ZoneAssignment) GetDomainEvents() []DomainEvent {
	return a.DomainEvents
}

package domain

import "time"

// DomainEvent interface for domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// Aggregate types used as outbox aggregate ids
const (
	AggregateZoneAssignment   = "ZoneAssignment"
	AggregateLabelTranslation = "LabelTranslation"
	AggregateRoutePlan        = "RoutePlan"
)

// ZoneAssignedEvent is emitted when a product is assigned to a zone
type ZoneAssignedEvent struct {
	AssignmentID string    `json:"assignmentId"`
	Category     string    `json:"category"`
	ZoneID       int       `json:"zoneId"`
	ZoneName     string    `json:"zoneName"`
	Warnings     []string  `json:"warnings"`
	AssignedAt   time.Time `json:"assignedAt"`
}

func (e *ZoneAssignedEvent) EventType() string     { return "hrh.warehousing.zone-assigned" }
func (e *ZoneAssignedEvent) OccurredAt() time.Time { return e.AssignedAt }

// LabelTranslatedEvent is emitted when a label image has been read and translated
type LabelTranslatedEvent struct {
	TranslationID  string    `json:"translationId"`
	TargetLanguage string    `json:"targetLanguage"`
	Characters     int       `json:"characters"`
	TranslatedAt   time.Time `json:"translatedAt"`
}

func (e *LabelTranslatedEvent) EventType() string     { return "hrh.labeling.label-translated" }
func (e *LabelTranslatedEvent) OccurredAt() time.Time { return e.TranslatedAt }

// RoutePlannedEvent is emitted when a route plan has been produced
type RoutePlannedEvent struct {
	RoutePlanID        string    `json:"routePlanId"`
	Origin             string    `json:"origin"`
	Destination        string    `json:"destination"`
	DistanceText       string    `json:"distanceText"`
	ShippingDistanceKm float64   `json:"shippingDistanceKm"`
	PlannedAt          time.Time `json:"plannedAt"`
}

func (e *RoutePlannedEvent) EventType() string     { return "hrh.routing.route-planned" }
func (e *RoutePlannedEvent) OccurredAt() time.Time { return e.PlannedAt }

package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/geodesic"
)

// Routing errors
var (
	ErrEmptyOrigin        = errors.New("origin is required")
	ErrEmptyDestination   = errors.New("destination is required")
	ErrNoRoute            = errors.New("no driving route found")
	ErrRoutePlanNotFound  = errors.New("route plan not found")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// TravelMode of a directions request
type TravelMode string

const TravelModeDriving TravelMode = "driving"

// MaxPlaceLength bounds free-text origins and destinations
const MaxPlaceLength = 200

// Coordinates is a WGS84 position in decimal degrees
type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Validate checks the coordinate ranges
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinates, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinates, c.Longitude)
	}
	return nil
}

// Port is a named shipping port
type Port struct {
	Name        string      `bson:"name" json:"name"`
	Coordinates Coordinates `bson:"coordinates" json:"coordinates"`
}

// The shipping leg always runs between these two ports, whatever the road
// origin and destination are.
var (
	PortOfNewYork    = Port{Name: "Port of New York", Coordinates: Coordinates{Latitude: 40.7128, Longitude: -74.0060}}
	PortOfLosAngeles = Port{Name: "Port of Los Angeles", Coordinates: Coordinates{Latitude: 34.0522, Longitude: -118.2437}}
)

// GeodesicDistanceKm returns the WGS84 ellipsoidal distance in kilometers,
// rounded to two decimals.
func GeodesicDistanceKm(from, to Coordinates) (float64, error) {
	if err := from.Validate(); err != nil {
		return 0, err
	}
	if err := to.Validate(); err != nil {
		return 0, err
	}

	var meters float64
	geodesic.WGS84.Inverse(from.Latitude, from.Longitude, to.Latitude, to.Longitude, &meters, nil, nil)
	return math.Round(meters/10) / 100, nil
}

// DrivingRoute is the first leg of the first route returned for a road trip
type DrivingRoute struct {
	DistanceText    string `bson:"distanceText" json:"distanceText"`
	DurationText    string `bson:"durationText" json:"durationText"`
	DistanceMeters  int    `bson:"distanceMeters" json:"distanceMeters"`
	DurationSeconds int    `bson:"durationSeconds" json:"durationSeconds"`
	StartAddress    string `bson:"startAddress" json:"startAddress"`
	EndAddress      string `bson:"endAddress" json:"endAddress"`
}

// NormalizePlaces trims origin and destination and rejects blank or oversized values
func NormalizePlaces(origin, destination string) (string, string, error) {
	o := strings.TrimSpace(origin)
	d := strings.TrimSpace(destination)

	var errs []error
	if o == "" {
		errs = append(errs, ErrEmptyOrigin)
	} else if len(o) > MaxPlaceLength {
		errs = append(errs, fmt.Errorf("origin exceeds %d characters", MaxPlaceLength))
	}
	if d == "" {
		errs = append(errs, ErrEmptyDestination)
	} else if len(d) > MaxPlaceLength {
		errs = append(errs, fmt.Errorf("destination exceeds %d characters", MaxPlaceLength))
	}
	if len(errs) > 0 {
		return "", "", errors.Join(errs...)
	}
	return o, d, nil
}

// RoutePlan combines road directions with the port-to-port shipping distance
type RoutePlan struct {
	RoutePlanID        string        `bson:"_id"`
	Origin             string        `bson:"origin"`
	Destination        string        `bson:"destination"`
	Mode               TravelMode    `bson:"mode"`
	Road               DrivingRoute  `bson:"road"`
	OriginPort         Port          `bson:"originPort"`
	DestinationPort    Port          `bson:"destinationPort"`
	ShippingDistanceKm float64       `bson:"shippingDistanceKm"`
	PlannedAt          time.Time     `bson:"plannedAt"`
	DomainEvents       []DomainEvent `bson:"-"`
}

// NewRoutePlan builds a plan from resolved directions and computes the
// shipping distance between the fixed ports.
func NewRoutePlan(origin, destination string, road DrivingRoute) (*RoutePlan, error) {
	o, d, err := NormalizePlaces(origin, destination)
	if err != nil {
		return nil, err
	}

	shipping, err := GeodesicDistanceKm(PortOfNewYork.Coordinates, PortOfLosAngeles.Coordinates)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	plan := &RoutePlan{
		RoutePlanID:        uuid.New().String(),
		Origin:             o,
		Destination:        d,
		Mode:               TravelModeDriving,
		Road:               road,
		OriginPort:         PortOfNewYork,
		DestinationPort:    PortOfLosAngeles,
		ShippingDistanceKm: shipping,
		PlannedAt:          now,
		DomainEvents:       make([]DomainEvent, 0, 1),
	}

	plan.AddDomainEvent(&RoutePlannedEvent{
		RoutePlanID:        plan.RoutePlanID,
		Origin:             o,
		Destination:        d,
		DistanceText:       road.DistanceText,
		ShippingDistanceKm: shipping,
		PlannedAt:          now,
	})

	return plan, nil
}

// AddDomainEvent adds a domain event
func (p *RoutePlan) AddDomainEvent(event DomainEvent) {
	p.DomainEvents = append(p.DomainEvents, event)
}

// GetDomainEvents returns all domain events
func (p *RoutePlan) GetDomainEvents() []DomainEvent {
	return p.DomainEvents
}

// ClearDomainEvents clears all domain events
func (p *RoutePlan) ClearDomainEvents() {
	p.DomainEvents = make([]DomainEvent, 0)
}

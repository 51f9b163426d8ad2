package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownZone = errors.New("unknown warehouse zone")

// ZoneCount is the size of the zone catalog and the number of groups
const ZoneCount = 4

// TemperatureClass is the storage temperature of a zone
type TemperatureClass string

const (
	TemperatureLow      TemperatureClass = "low"
	TemperatureRoomTemp TemperatureClass = "room_temp"
)

// DisplayName returns the label shown to users
func (t TemperatureClass) DisplayName() string {
	switch t {
	case TemperatureLow:
		return "Low"
	case TemperatureRoomTemp:
		return "Room Temp"
	default:
		return string(t)
	}
}

// Zone is one fixed storage location of the warehouse
type Zone struct {
	ID          int              `bson:"id" json:"id"`
	Name        string           `bson:"name" json:"name"`
	Temperature TemperatureClass `bson:"temperature" json:"temperature"`
	SpaceFactor float64          `bson:"spaceFactor" json:"spaceFactor"`
}

// zoneCatalog is indexed by group id. The pairing of group id to zone is a
// fixed convention, not something derived from the reference table.
var zoneCatalog = [ZoneCount]Zone{
	{ID: 0, Name: "Cold Storage", Temperature: TemperatureLow, SpaceFactor: 0.8},
	{ID: 1, Name: "High Rotation Area", Temperature: TemperatureRoomTemp, SpaceFactor: 1.2},
	{ID: 2, Name: "Standard Shelving", Temperature: TemperatureRoomTemp, SpaceFactor: 1.0},
	{ID: 3, Name: "Overflow Storage", Temperature: TemperatureRoomTemp, SpaceFactor: 0.5},
}

// ZoneCatalog returns a copy of the catalog ordered by id
func ZoneCatalog() []Zone {
	zones := make([]Zone, ZoneCount)
	copy(zones, zoneCatalog[:])
	return zones
}

// ZoneByID looks up a catalog zone
func ZoneByID(id int) (Zone, error) {
	if id < 0 || id >= ZoneCount {
		return Zone{}, fmt.Errorf("%w: %d", ErrUnknownZone, id)
	}
	return zoneCatalog[id], nil
}

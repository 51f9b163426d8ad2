package application

import "time"

// ZoneDTO represents a catalog zone
type ZoneDTO struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Temperature      string  `json:"temperature"`
	TemperatureLabel string  `json:"temperatureLabel"`
	SpaceFactor      float64 `json:"spaceFactor"`
}

// ProductDTO represents the product descriptor of an assignment
type ProductDTO struct {
	Category      string  `json:"category"`
	CategoryName  string  `json:"categoryName"`
	VolumeM3      float64 `json:"volumeM3"`
	WeightKg      float64 `json:"weightKg"`
	ShelfLifeDays int     `json:"shelfLifeDays"`
	Demand        int     `json:"demand"`
}

// ZoneAssignmentDTO represents a zone assignment
type ZoneAssignmentDTO struct {
	ID         string     `json:"id"`
	Product    ProductDTO `json:"product"`
	Zone       ZoneDTO    `json:"zone"`
	Warnings   []string   `json:"warnings"`
	AssignedAt time.Time  `json:"assignedAt"`
}

// LanguageDTO represents a translation target
type LanguageDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// LabelTranslationDTO represents a translated label
type LabelTranslationDTO struct {
	ID                 string    `json:"id"`
	FileName           string    `json:"fileName"`
	ContentType        string    `json:"contentType"`
	ImageSize          int       `json:"imageSize"`
	ExtractedText      string    `json:"extractedText"`
	TargetLanguage     string    `json:"targetLanguage"`
	TargetLanguageName string    `json:"targetLanguageName"`
	TranslatedText     string    `json:"translatedText"`
	CreatedAt          time.Time `json:"createdAt"`
}

// DrivingRouteDTO represents the road leg of a route plan
type DrivingRouteDTO struct {
	DistanceText    string `json:"distanceText"`
	DurationText    string `json:"durationText"`
	DistanceMeters  int    `json:"distanceMeters"`
	DurationSeconds int    `json:"durationSeconds"`
	StartAddress    string `json:"startAddress"`
	EndAddress      string `json:"endAddress"`
}

// PortDTO represents a shipping port
type PortDTO struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RoutePlanDTO represents a route plan
type RoutePlanDTO struct {
	ID                 string          `json:"id"`
	Origin             string          `json:"origin"`
	Destination        string          `json:"destination"`
	Mode               string          `json:"mode"`
	Road               DrivingRouteDTO `json:"road"`
	OriginPort         PortDTO         `json:"originPort"`
	DestinationPort    PortDTO         `json:"destinationPort"`
	ShippingDistanceKm float64         `json:"shippingDistanceKm"`
	PlannedAt          time.Time       `json:"plannedAt"`
}

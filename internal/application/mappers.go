package application

import "github.com/freelansire/hrh/internal/domain"

// ToZoneDTO converts a catalog zone to ZoneDTO
func ToZoneDTO(zone domain.Zone) ZoneDTO {
	return ZoneDTO{
		ID:               zone.ID,
		Name:             zone.Name,
		Temperature:      string(zone.Temperature),
		TemperatureLabel: zone.Temperature.DisplayName(),
		SpaceFactor:      zone.SpaceFactor,
	}
}

// ToProductDTO converts a product descriptor to ProductDTO
func ToProductDTO(p domain.ProductDescriptor) ProductDTO {
	return ProductDTO{
		Category:      string(p.Category),
		CategoryName:  p.Category.DisplayName(),
		VolumeM3:      p.VolumeM3,
		WeightKg:      p.WeightKg,
		ShelfLifeDays: p.ShelfLifeDays,
		Demand:        p.Demand,
	}
}

// ToZoneAssignmentDTO converts a domain ZoneAssignment to ZoneAssignmentDTO
func ToZoneAssignmentDTO(a *domain.ZoneAssignment) *ZoneAssignmentDTO {
	if a == nil {
		return nil
	}

	warnings := make([]string, len(a.Warnings))
	copy(warnings, a.Warnings)

	return &ZoneAssignmentDTO{
		ID:         a.AssignmentID,
		Product:    ToProductDTO(a.Product),
		Zone:       ToZoneDTO(a.Zone),
		Warnings:   warnings,
		AssignedAt: a.AssignedAt,
	}
}

// ToLanguageDTO converts a target language to LanguageDTO
func ToLanguageDTO(l domain.TargetLanguage) LanguageDTO {
	return LanguageDTO{Code: string(l), Name: l.DisplayName()}
}

// ToLabelTranslationDTO converts a domain LabelTranslation to LabelTranslationDTO
func ToLabelTranslationDTO(t *domain.LabelTranslation) *LabelTranslationDTO {
	if t == nil {
		return nil
	}

	return &LabelTranslationDTO{
		ID:                 t.TranslationID,
		FileName:           t.FileName,
		ContentType:        t.ContentType,
		ImageSize:          t.ImageSize,
		ExtractedText:      t.ExtractedText,
		TargetLanguage:     string(t.TargetLanguage),
		TargetLanguageName: t.TargetLanguage.DisplayName(),
		TranslatedText:     t.TranslatedText,
		CreatedAt:          t.CreatedAt,
	}
}

// ToPortDTO converts a port to PortDTO
func ToPortDTO(p domain.Port) PortDTO {
	return PortDTO{
		Name:      p.Name,
		Latitude:  p.Coordinates.Latitude,
		Longitude: p.Coordinates.Longitude,
	}
}

// ToRoutePlanDTO converts a domain RoutePlan to RoutePlanDTO
func ToRoutePlanDTO(p *domain.RoutePlan) *RoutePlanDTO {
	if p == nil {
		return nil
	}

	return &RoutePlanDTO{
		ID:          p.RoutePlanID,
		Origin:      p.Origin,
		Destination: p.Destination,
		Mode:        string(p.Mode),
		Road: DrivingRouteDTO{
			DistanceText:    p.Road.DistanceText,
			DurationText:    p.Road.DurationText,
			DistanceMeters:  p.Road.DistanceMeters,
			DurationSeconds: p.Road.DurationSeconds,
			StartAddress:    p.Road.StartAddress,
			EndAddress:      p.Road.EndAddress,
		},
		OriginPort:         ToPortDTO(p.OriginPort),
		DestinationPort:    ToPortDTO(p.DestinationPort),
		ShippingDistanceKm: p.ShippingDistanceKm,
		PlannedAt:          p.PlannedAt,
	}
}

package domain

import "context"

// TextExtractor reads the text printed on a label image.
// An image without readable text yields an empty string and no error.
type TextExtractor interface {
	ExtractText(ctx context.Context, image LabelImage) (string, error)
}

// Translator translates text from an automatically detected source language
type Translator interface {
	Translate(ctx context.Context, text string, target TargetLanguage) (string, error)
}

// DirectionsProvider resolves road directions between two free-text places.
// It returns ErrNoRoute when the places are valid but not connected by road.
type DirectionsProvider interface {
	Directions(ctx context.Context, origin, destination string, mode TravelMode) (DrivingRoute, error)
}

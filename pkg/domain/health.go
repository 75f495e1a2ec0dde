package domain

import (
	"fmt"
	"strings"
)

// Mood is the self-reported mood for the day. The zero value means unset.
type Mood string

const (
	MoodUnset Mood = ""
	MoodGood  Mood = "good"
	MoodOkay  Mood = "okay"
	MoodLow   Mood = "low"
)

// ParseMood accepts good, okay, low, or none/clear to unset.
func ParseMood(s string) (Mood, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "good":
		return MoodGood, nil
	case "okay", "ok":
		return MoodOkay, nil
	case "low":
		return MoodLow, nil
	case "", "none", "clear":
		return MoodUnset, nil
	}
	return "", fmt.Errorf("invalid mood %q, want good, okay or low", s)
}

const (
	// DefaultWaterMax caps the glasses counter.
	DefaultWaterMax = 8
	// MlPerGlass converts glasses to millilitres.
	MlPerGlass = 250
)

// Health is today's hydration and mood.
type Health struct {
	Date    string `json:"date"`
	Glasses int    `json:"glasses"`
	Mood    Mood   `json:"mood"`

	// Unsynced is set while today's glasses have not reached the server.
	Unsynced bool `json:"unsynced,omitempty"`
}

// Millilitres is the water intake in ml.
func (h Health) Millilitres() int {
	return h.Glasses * MlPerGlass
}

// Clamp bounds Glasses to [0, max].
func (h *Health) Clamp(max int) {
	if h.Glasses < 0 {
		h.Glasses = 0
	}
	if max > 0 && h.Glasses > max {
		h.Glasses = max
	}
}

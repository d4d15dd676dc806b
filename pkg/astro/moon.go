// Package astro computes the lunar phase shown in the moon overlay widget
// and returned by the get-moon-phase command.
package astro

import (
	"math"
	"time"
)

// SynodicMonth is the mean length of a lunation in days.
const SynodicMonth = 29.530588853

// referenceNewMoon is a known new moon instant (2000-01-06 18:14 UTC).
var referenceNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

// MoonPhase describes the moon's appearance at an instant.
type MoonPhase struct {
	// Phase is the human-readable phase name.
	Phase string
	// Emoji is the pictographic form used by the overlay widget.
	Emoji string
	// Age is days since the last new moon, in [0, SynodicMonth).
	Age float64
	// Illumination is the lit fraction of the disc, in [0, 1].
	Illumination float64
}

var phaseNames = [8]string{
	"New Moon",
	"Waxing Crescent",
	"First Quarter",
	"Waxing Gibbous",
	"Full Moon",
	"Waning Gibbous",
	"Last Quarter",
	"Waning Crescent",
}

var phaseEmoji = [8]string{"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"}

// Phase returns the moon phase at t.
func Phase(t time.Time) MoonPhase {
	days := t.Sub(referenceNewMoon).Hours() / 24
	age := math.Mod(days, SynodicMonth)
	if age < 0 {
		age += SynodicMonth
	}

	// Split the lunation into eight equal windows centered on the principal
	// phases, so e.g. "Full Moon" spans half a window either side of the
	// exact instant.
	idx := int(math.Floor(age/SynodicMonth*8+0.5)) % 8

	return MoonPhase{
		Phase:        phaseNames[idx],
		Emoji:        phaseEmoji[idx],
		Age:          age,
		Illumination: (1 - math.Cos(2*math.Pi*age/SynodicMonth)) / 2,
	}
}

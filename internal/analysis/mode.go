package analysis

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnknownMode is returned by ParseMode and Run for values outside the four modes.
var ErrUnknownMode = eris.New("analysis: unknown mode")

// Mode selects one of the four analyses.
type Mode int

const (
	ModeViewSchools Mode = iota
	ModeAccess
	ModeHazard
	ModeWeather
)

var modeLabels = [...]string{
	ModeViewSchools: "View Schools",
	ModeAccess:      "Access Analysis",
	ModeHazard:      "Hazard Analysis",
	ModeWeather:     "Weather & Cyclone Status",
}

var modeSlugs = [...]string{
	ModeViewSchools: "schools",
	ModeAccess:      "access",
	ModeHazard:      "hazard",
	ModeWeather:     "weather",
}

// Modes lists every mode in selector order.
func Modes() []Mode {
	return []Mode{ModeViewSchools, ModeAccess, ModeHazard, ModeWeather}
}

// Valid reports whether m is one of the four modes.
func (m Mode) Valid() bool {
	return m >= ModeViewSchools && m <= ModeWeather
}

// String returns the selector label.
func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeLabels[m]
}

// Slug is the short name used in URLs and flags.
func (m Mode) Slug() string {
	if !m.Valid() {
		return ""
	}
	return modeSlugs[m]
}

// ParseMode accepts a label or slug, case-insensitively. Empty input selects
// ModeViewSchools.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ModeViewSchools, nil
	}
	for _, m := range Modes() {
		if strings.EqualFold(s, modeSlugs[m]) || strings.EqualFold(s, modeLabels[m]) {
			return m, nil
		}
	}
	return 0, eris.Wrapf(ErrUnknownMode, "analysis: parse mode %q", s)
}

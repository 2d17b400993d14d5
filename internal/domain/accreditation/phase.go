package accreditation

import (
	"time"

	"github.com/becreativeqatar/bceportal/internal/domain/shared"
)

// Phase identifies one of the three operational phases of a project
type Phase string

const (
	PhaseBumpIn  Phase = "BUMP_IN"
	PhaseLive    Phase = "LIVE"
	PhaseBumpOut Phase = "BUMP_OUT"
)

// AllPhases returns every phase in chronological order
func AllPhases() []Phase {
	return []Phase{PhaseBumpIn, PhaseLive, PhaseBumpOut}
}

// IsValid checks if the phase is valid
func (p Phase) IsValid() bool {
	switch p {
	case PhaseBumpIn, PhaseLive, PhaseBumpOut:
		return true
	}
	return false
}

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// Window is an inclusive calendar range bounding access during a phase
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow creates a window, rejecting ranges that end before they start
func NewWindow(start, end time.Time) (Window, error) {
	if start.After(end) {
		return Window{}, shared.NewDomainError("INVALID_WINDOW", "window start must not be after window end")
	}
	return Window{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the window, boundaries included
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// IsZero reports whether the window has no bounds set
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// PhaseGrant records whether a single phase is granted to a record, plus an
// optional override window narrower than or equal to the project's window
type PhaseGrant struct {
	Enabled       bool       `json:"enabled"`
	OverrideStart *time.Time `json:"override_start,omitempty"`
	OverrideEnd   *time.Time `json:"override_end,omitempty"`
}

// HasOverride reports whether the grant carries its own window
func (g PhaseGrant) HasOverride() bool {
	return g.OverrideStart != nil && g.OverrideEnd != nil
}

// OverrideWindow returns the override window; only meaningful when HasOverride is true
func (g PhaseGrant) OverrideWindow() Window {
	if !g.HasOverride() {
		return Window{}
	}
	return Window{Start: *g.OverrideStart, End: *g.OverrideEnd}
}

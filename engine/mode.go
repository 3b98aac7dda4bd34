package engine

// Mode selects how the simulation is driven.
type Mode int

const (
	// ModeDemo cycles analytic plate patterns without audio coupling.
	ModeDemo Mode = iota
	// ModeLive drives the plate from analyzed audio input.
	ModeLive
)

func (m Mode) String() string {
	switch m {
	case ModeDemo:
		return "demo"
	case ModeLive:
		return "live"
	default:
		return "unknown"
	}
}

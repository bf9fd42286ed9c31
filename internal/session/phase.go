package session

import "fmt"

// Phase is the lifecycle position of the current practice attempt.
type Phase int

const (
	PhaseIdle       Phase = iota // No attempt in progress
	PhaseDrawing                 // Attempt started, capture may change
	PhaseSubmitted               // Submission accepted, planning evaluations
	PhaseEvaluating              // Capability calls in flight
	PhaseFinalized               // Record written; the next Begin starts fresh
)

var phaseNames = [...]string{"idle", "drawing", "submitted", "evaluating", "finalized"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// MarshalText renders the phase by name in JSON responses.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText parses a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

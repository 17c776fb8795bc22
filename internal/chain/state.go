// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chain

// State is a step of the engine lifecycle or of one request.
//
// The engine moves Idle -> Warming -> Ready, reports Generating while
// requests are in flight, and ends in Stopped after Shutdown. Each request
// ends Accepted or Exhausted; that outcome is reported in the result
// metadata under "state".
type State int32

const (
	StateIdle State = iota
	StateWarming
	StateReady
	StateGenerating
	StateAccepted
	StateExhausted
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWarming:
		return "warming"
	case StateReady:
		return "ready"
	case StateGenerating:
		return "generating"
	case StateAccepted:
		return "accepted"
	case StateExhausted:
		return "exhausted"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

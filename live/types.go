// Package live implements the tree-structured liveness service: each
// broker reports itself to its parent via a hello handshake, parents
// track children's idle time against configurable thresholds, and
// transitions between health states emit cstate events for upstream
// schedulers and recovery logic.
package live

import "fmt"

// CState is the per-child liveness state.
type CState int

const (
	// StateOK is the initial state: the child's idle time is within
	// the slow threshold.
	StateOK CState = iota
	// StateSlow means idle time exceeds slow but not max_idle.
	StateSlow
	// StateFail means idle time exceeds max_idle.
	StateFail
)

func (s CState) String() string {
	switch s {
	case StateOK:
		return "OK"
	case StateSlow:
		return "SLOW"
	case StateFail:
		return "FAIL"
	default:
		return fmt.Sprintf("CState(%d)", int(s))
	}
}

// Parent is an upstream peer in the spanning tree: the first entry in a
// service's parent list is the immediate parent, subsequent entries are
// failover candidates (grandparents and above).
type Parent struct {
	Rank uint32 `json:"rank"`
	URI  string `json:"uri"`
}

// Child is a downstream peer, created on its first hello and never
// removed during normal operation.
type Child struct {
	Rank  uint32
	State CState
}

const (
	defaultMaxIdle = 5
	defaultSlow    = 3
)

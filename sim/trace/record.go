// Package trace provides decision-trace recording for market simulation runs.
// It has no dependencies on sim/ and stores pure data types only.
package trace

import "time"

// BroadcastRecord captures one broadcast as delivered to every enterprise.
type BroadcastRecord struct {
	Date   time.Time `json:"date"`
	Kind   string    `json:"kind"`
	Family string    `json:"family"`
}

// AcquisitionRecord captures a single acquisition attempt, accepted or not.
type AcquisitionRecord struct {
	Date     time.Time `json:"date"`
	Buyer    string    `json:"buyer"`
	Family   string    `json:"family"`
	Volume   int       `json:"volume"`
	Accepted bool      `json:"accepted"`
	Reason   string    `json:"reason,omitempty"` // rejection label; empty when accepted
}

package marker

import "github.com/rxtech-lab/argo-policy/internal/types"

// Marker records the decisions that produced orders so a replay can show why it traded.
type Marker interface {
	// Mark records a decision taken at timestamp.
	Mark(timestamp int64, decision types.Decision) error
	// GetMarkers returns all the marks in insertion order.
	GetMarkers() ([]types.Mark, error)
}

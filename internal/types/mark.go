package types

// Mark is a recorded decision: which side a rule took for a product at a step, and why.
type Mark struct {
	Timestamp int64      `json:"timestamp"`
	Product   string     `json:"product"`
	Side      SignalType `json:"side"`
	Price     int        `json:"price"`
	Reason    string     `json:"reason"`
}

// NewMark builds the mark of decision at timestamp.
func NewMark(timestamp int64, decision Decision) Mark {
	return Mark{
		Timestamp: timestamp,
		Product:   decision.Product,
		Side:      decision.Side,
		Price:     decision.Price,
		Reason:    decision.Reason,
	}
}

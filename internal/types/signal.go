package types

type SignalType string

const (
	// SignalTypeBuy tells the emitter to buy
	SignalTypeBuy SignalType = "buy"
	// SignalTypeSell tells the emitter to sell
	SignalTypeSell SignalType = "sell"
	// SignalTypeNoAction means the signal did not fire
	SignalTypeNoAction SignalType = "no_action"
)

// Opposite returns the other side; no-action stays no-action.
func (s SignalType) Opposite() SignalType {
	switch s {
	case SignalTypeBuy:
		return SignalTypeSell
	case SignalTypeSell:
		return SignalTypeBuy
	default:
		return SignalTypeNoAction
	}
}

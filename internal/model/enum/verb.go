package enum

// Verb is the side of an order or trade.
type Verb uint8

const (
	VerbUnknown Verb = iota
	VerbBuy
	VerbSell
)

func (v Verb) IsAvailable() bool {
	return v == VerbBuy || v == VerbSell
}

func (v Verb) Opposite() Verb {
	switch v {
	case VerbBuy:
		return VerbSell
	case VerbSell:
		return VerbBuy
	default:
		return VerbUnknown
	}
}

func (v Verb) String() string {
	switch v {
	case VerbBuy:
		return "buy"
	case VerbSell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseVerb maps a side name to its Verb, VerbUnknown when unrecognized.
func ParseVerb(s string) Verb {
	switch s {
	case "buy", "Buy", "BUY":
		return VerbBuy
	case "sell", "Sell", "SELL":
		return VerbSell
	default:
		return VerbUnknown
	}
}

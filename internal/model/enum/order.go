package enum

// OrderAction send, modify, cancel
type OrderAction uint8

const (
	_order_action_beg OrderAction = iota
	OrderActionSend
	OrderActionModify
	OrderActionCancel
	_order_action_end
)

func (a OrderAction) IsAvailable() bool {
	return a > _order_action_beg && a < _order_action_end
}

// NeedsOrigClientOrderID reports whether the action references a prior order.
func (a OrderAction) NeedsOrigClientOrderID() bool {
	return a == OrderActionModify || a == OrderActionCancel
}

func (a OrderAction) String() string {
	switch a {
	case OrderActionSend:
		return "send"
	case OrderActionModify:
		return "modify"
	case OrderActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// OrderType limit, market
type OrderType uint8

const (
	_order_type_beg OrderType = iota
	OrderTypeLimit
	OrderTypeMarket
	_order_type_end
)

func (t OrderType) IsAvailable() bool {
	return t > _order_type_beg && t < _order_type_end
}

// ReportStatus is the venue-reported order state carried on an execution
// report.
type ReportStatus uint8

const (
	ReportStatusUnknown ReportStatus = iota
	ReportStatusActive
	ReportStatusPartialFilled
	ReportStatusCompletelyFilled
	ReportStatusCancelled
	ReportStatusRejected
	ReportStatusCancelRejected
)

// IsActive reports whether the order is resting on the venue after this
// report.
func (s ReportStatus) IsActive() bool {
	return s == ReportStatusActive || s == ReportStatusPartialFilled
}

// IsInactive reports whether the order left the book with this report.
func (s ReportStatus) IsInactive() bool {
	return s == ReportStatusCancelled || s == ReportStatusRejected || s == ReportStatusCompletelyFilled
}

// IsFilled reports whether the report carries a fill.
func (s ReportStatus) IsFilled() bool {
	return s == ReportStatusPartialFilled || s == ReportStatusCompletelyFilled
}

func (s ReportStatus) String() string {
	switch s {
	case ReportStatusActive:
		return "active"
	case ReportStatusPartialFilled:
		return "partial_filled"
	case ReportStatusCompletelyFilled:
		return "completely_filled"
	case ReportStatusCancelled:
		return "cancelled"
	case ReportStatusRejected:
		return "rejected"
	case ReportStatusCancelRejected:
		return "cancel_rejected"
	default:
		return "unknown"
	}
}

// QuoteAction turns quoting on or off for an instrument.
type QuoteAction uint8

const (
	QuoteActionOff QuoteAction = iota
	QuoteActionOn
)

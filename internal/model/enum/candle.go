package enum

// CandleType identifies the source series and period of a candle.
type CandleType uint8

const (
	_candle_type_beg CandleType = iota
	CandleTimeOneMin
	CandleTimeOneHour
	CandleMidTimeOneMin
	_candle_type_end
)

func (t CandleType) IsAvailable() bool {
	return t > _candle_type_beg && t < _candle_type_end
}

func (t CandleType) String() string {
	switch t {
	case CandleTimeOneMin:
		return "time_1_min"
	case CandleTimeOneHour:
		return "time_1_hour"
	case CandleMidTimeOneMin:
		return "mid_time_1_min"
	default:
		return "unknown"
	}
}

// CommandType is an out-of-band control message from the feed.
type CommandType uint8

const (
	CommandUnknown CommandType = iota
	CommandStart
	CommandStop
)

func (c CommandType) String() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandStop:
		return "stop"
	default:
		return "unknown"
	}
}

// ParseCommand maps a command name to its type.
func ParseCommand(s string) CommandType {
	switch s {
	case "start", "Start", "START":
		return CommandStart
	case "stop", "Stop", "STOP":
		return CommandStop
	default:
		return CommandUnknown
	}
}

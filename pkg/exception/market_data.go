package exception

import "errors"

var (
	ErrDepthEmpty        = errors.New("market data: depth has an empty side")
	ErrInvalidTimestamp  = errors.New("market data: invalid timestamp")
	ErrUnknownCandleType = errors.New("market data: unknown candle type")
	ErrReplayCorrupted   = errors.New("market data: corrupted replay line")
)

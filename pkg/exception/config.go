package exception

import "errors"

var (
	ErrMissingParameter = errors.New("config: missing required parameter")
	ErrInvalidParameter = errors.New("config: invalid parameter value")
	ErrNoInstruments    = errors.New("config: no instruments configured")
)

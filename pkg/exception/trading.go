package exception

import "errors"

// Trading errors raised synchronously before an order is dispatched.
var (
	ErrAlgoNotStarted       = errors.New("trading: algorithm not started")
	ErrMissingAction        = errors.New("trading: order request without action")
	ErrMissingOrderType     = errors.New("trading: order request without order type")
	ErrMissingVerb          = errors.New("trading: order request without verb")
	ErrMissingOrigClOrdID   = errors.New("trading: modify/cancel without origClientOrderId")
	ErrOrigClOrdIDNotActive = errors.New("trading: origClientOrderId not confirmed active")
	ErrPendingRequest       = errors.New("trading: waiting execution report of pending request")
	ErrDuplicateQuote       = errors.New("trading: same price/quantity as last quote")
	ErrCancelUnconfirmed    = errors.New("trading: cancel of quote not confirmed active")
	ErrQuotePriceNotFinite  = errors.New("trading: quote price is NaN or infinite")
	ErrTooManyPending       = errors.New("trading: too many request orders pending execution report")
	ErrTooManyActive        = errors.New("trading: too many active orders")
	ErrRiskDenied           = errors.New("trading: order denied by risk limits")
	ErrUnknownInstrument    = errors.New("trading: unknown instrument")
)

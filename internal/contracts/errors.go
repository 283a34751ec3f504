package contracts

import "errors"

// Error taxonomy shared by all engines
// ⭐ SSOT: 엔진 에러 분류는 여기서만 정의
//
// Symbol-level upstream failures are absorbed into failed-symbol lists;
// only call-level failures surface one of these sentinels to the caller.
var (
	// ErrNotFound: unknown theme id or unresolvable target symbol
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable: a symbol's data could not be fetched
	ErrUpstreamUnavailable = errors.New("upstream data unavailable")

	// ErrInsufficientData: fetched, but too few points for a statistic
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidInput: empty peer list, theme with zero constituents
	ErrInvalidInput = errors.New("invalid input")
)

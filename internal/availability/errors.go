package availability

import (
	"errors"
	"fmt"
)

var (
	// ErrLookupFailed marks any failure to obtain busy intervals. Callers must
	// not treat it as "no bookings".
	ErrLookupFailed = errors.New("availability lookup failed")
	ErrInvalidDate  = errors.New("date must be formatted YYYY-MM-DD")
	ErrUnknownCabin = errors.New("unknown cabin")
)

type LookupError struct {
	CabinID string
	Err     error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("availability lookup for cabin %q failed: %v", e.CabinID, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func (e *LookupError) Is(target error) bool {
	return target == ErrLookupFailed
}

package httperr

import "errors"

// BusinessError is a recoverable rule violation. CurrentStatus is filled on
// transition-guard failures so callers can render the record's actual state.
type BusinessError struct {
	Code          string
	CurrentStatus string
}

func (e BusinessError) Error() string {
	if e.CurrentStatus != "" {
		return e.Code + " (status " + e.CurrentStatus + ")"
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessStatus(code, currentStatus string) error {
	return BusinessError{Code: code, CurrentStatus: currentStatus}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

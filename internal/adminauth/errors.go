// AngelaMos | 2026
// errors.go

package adminauth

import (
	"errors"
	"fmt"
)

var ErrVerificationUpdateFailed = errors.New("verification update failed")

// VerificationUpdateFailedError is returned when a grant or revoke could not
// be written. It matches ErrVerificationUpdateFailed and unwraps to the
// store error.
type VerificationUpdateFailedError struct {
	PrincipalID string
	Verified    bool
	Err         error
}

func (e *VerificationUpdateFailedError) Error() string {
	return fmt.Sprintf(
		"verification update failed for %s (verified=%t): %v",
		e.PrincipalID, e.Verified, e.Err,
	)
}

func (e *VerificationUpdateFailedError) Unwrap() error {
	return e.Err
}

func (e *VerificationUpdateFailedError) Is(target error) bool {
	return target == ErrVerificationUpdateFailed
}

package pathfinding

import (
	"github.com/pkg/errors"
)

// Errors returned by the router.
var (
	ErrInvalidStep       = errors.New("grid step must be positive")
	ErrNoCandidates      = errors.New("endpoint has no candidates")
	ErrNegativeBendCost  = errors.New("bend cost must not be negative")
	ErrNonOrthogonalJump = errors.New("only horizontal and vertical jumps are allowed")
)

// ContractViolation is raised from deep inside a search when the caller broke
// an invariant of the algorithm. Threading it through every recursive step
// would only obscure the search, so it travels as a panic and FindPath turns
// it back into an error.
type ContractViolation struct {
	err error
}

func (c *ContractViolation) Error() string { return c.err.Error() }

// Unwrap exposes the wrapped sentinel to errors.Is.
func (c *ContractViolation) Unwrap() error { return c.err }

// violatef panics with a ContractViolation wrapping sentinel.
func violatef(sentinel error, format string, args ...interface{}) {
	panic(&ContractViolation{err: errors.Wrapf(sentinel, format, args...)})
}

// recoverViolation converts a recovered ContractViolation into an error.
// Any other panic value is re-raised.
func recoverViolation(r interface{}) error {
	if r == nil {
		return nil
	}
	if violation, ok := r.(*ContractViolation); ok {
		return violation
	}
	panic(r)
}

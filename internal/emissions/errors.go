package emissions

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Validation errors returned by Validate. Compare with errors.Is.
var (
	// ErrNegativeInput indicates a negative activity amount.
	ErrNegativeInput = constError("input must not be negative")

	// ErrNonFiniteInput indicates a NaN or infinite activity amount.
	ErrNonFiniteInput = constError("input must be a finite number")
)

package llm

import "fmt"

// Reason classifies why a model-backed step produced nothing usable.
type Reason string

const (
	ReasonNotFound  Reason = "not_found"
	ReasonTimeout   Reason = "timeout"
	ReasonProcess   Reason = "process"
	ReasonNoJSON    Reason = "no_json"
	ReasonMalformed Reason = "malformed"
	ReasonShape     Reason = "shape"
)

// Failure is the explicit error of one fallible model operation.
type Failure struct {
	Reason Reason
	Err    error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return "llm: " + string(f.Reason)
	}
	return fmt.Sprintf("llm: %s: %v", f.Reason, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(reason Reason, err error) *Failure {
	return &Failure{Reason: reason, Err: err}
}

// Shape reports a decoded object missing the fields a strategy requires.
func Shape(format string, args ...any) *Failure {
	return fail(ReasonShape, fmt.Errorf(format, args...))
}

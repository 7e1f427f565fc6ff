package routing

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"algo_router/pkg/encoding"
	"algo_router/pkg/graph"
	"algo_router/pkg/weighting"
)

// ErrCompositionFailed matches every error returned by CreateForVehicle.
var ErrCompositionFailed = errors.New("routing: algorithm composition failed")

// CompositionError reports that CreateForVehicle could not assemble an
// algorithm. Err keeps the underlying failure with a stack trace.
type CompositionError struct {
	Algorithm string
	Err       error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("routing: composing %q failed: %v", e.Algorithm, e.Err)
}

func (e *CompositionError) Unwrap() error { return e.Err }

func (e *CompositionError) Is(target error) bool { return target == ErrCompositionFailed }

// newVehicleEncoder builds the default vehicle profile. Tests swap it out.
var newVehicleEncoder = func() (encoding.EdgePropertyEncoder, error) {
	enc, err := encoding.NewCarFlagEncoder()
	if err != nil {
		return nil, err
	}
	return enc, nil
}

// CreateForVehicle builds a ready-to-query algorithm for the default car
// profile. shortest selects distance as the cost, otherwise travel time
// on the same encoder instance the algorithm is built with. Approximation
// is off. Any failure, including a panic in a collaborator, comes back as
// a *CompositionError.
func CreateForVehicle(algorithm string, g *graph.Graph, shortest bool) (a Algorithm, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if ok {
				cause = pkgerrors.Wrap(cause, "panic")
			} else {
				cause = pkgerrors.Errorf("panic: %v", r)
			}
			a, err = nil, &CompositionError{Algorithm: algorithm, Err: cause}
		}
	}()

	enc, err := newVehicleEncoder()
	if err != nil {
		return nil, &CompositionError{Algorithm: algorithm, Err: pkgerrors.WithStack(err)}
	}

	var w weighting.Weighting = weighting.Shortest{}
	if !shortest {
		w = weighting.NewFastest(enc)
	}

	a, err = NewSelector(algorithm, false).Create(g, enc, w)
	if err != nil {
		return nil, &CompositionError{Algorithm: algorithm, Err: pkgerrors.WithStack(err)}
	}
	return a, nil
}

package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

// Direction is the side of a recorded trade.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// MaxTargets is the number of profit targets a trade intent may carry.
const MaxTargets = 3

var validate = validator.New()

// TradeIntent is the caller's recorded plan for a trade. It is read-only for the engine.
type TradeIntent struct {
	Direction  Direction `json:"direction" yaml:"direction" jsonschema:"title=Direction,enum=long,enum=short,required" validate:"required,oneof=long short"`
	EntryPrice float64   `json:"entry_price" yaml:"entry_price" jsonschema:"title=Entry Price,exclusiveMinimum=0,required" validate:"gt=0"`
	StopPrice  float64   `json:"stop_price" yaml:"stop_price" jsonschema:"title=Stop Price,exclusiveMinimum=0,required" validate:"gt=0"`
	// Targets holds t1..t3 in order. Missing targets are never reached.
	Targets    []float64 `json:"targets" yaml:"targets" jsonschema:"title=Targets,description=Profit targets t1 to t3 in order,minItems=1,maxItems=3,required" validate:"min=1,max=3,dive,gt=0"`
}

// Validate checks the intent and returns a PreconditionViolation error when it is malformed.
//
// For a long trade the stop must sit below the entry and every target above it, with
// targets strictly increasing. A short trade mirrors these constraints.
func (t TradeIntent) Validate() error {
	if err := validate.Struct(t); err != nil {
		return errors.Wrap(errors.ErrCodePreconditionViolation, "invalid trade intent", err)
	}

	sign := t.Direction.Sign()

	if sign*(t.EntryPrice-t.StopPrice) <= 0 {
		return errors.Newf(errors.ErrCodePreconditionViolation,
			"stop %.4f is on the wrong side of entry %.4f for a %s trade", t.StopPrice, t.EntryPrice, t.Direction)
	}

	previous := t.EntryPrice
	for i, target := range t.Targets {
		if sign*(target-previous) <= 0 {
			if i == 0 {
				return errors.Newf(errors.ErrCodePreconditionViolation,
					"t1 %.4f does not lie beyond entry %.4f for a %s trade", target, t.EntryPrice, t.Direction)
			}

			return errors.Newf(errors.ErrCodePreconditionViolation,
				"t%d %.4f does not lie beyond t%d %.4f for a %s trade", i+1, target, i, previous, t.Direction)
		}

		previous = target
	}

	return nil
}

// Sign is +1 for long and -1 for short. Profit in points is Sign() * (price - entry).
func (d Direction) Sign() float64 {
	if d == DirectionShort {
		return -1
	}

	return 1
}

// Target returns the k-th target (0-based) and whether the intent defines it.
func (t TradeIntent) Target(k int) (float64, bool) {
	if k < 0 || k >= len(t.Targets) {
		return 0, false
	}

	return t.Targets[k], true
}

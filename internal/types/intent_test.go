package types

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

type TradeIntentTestSuite struct {
	suite.Suite
}

func TestTradeIntentSuite(t *testing.T) {
	suite.Run(t, new(TradeIntentTestSuite))
}

func (suite *TradeIntentTestSuite) TestValidIntents() {
	tests := []struct {
		name   string
		intent TradeIntent
	}{
		{name: "long with three targets", intent: TradeIntent{Direction: DirectionLong, EntryPrice: 2000, StopPrice: 1995, Targets: []float64{2005, 2010, 2015}}},
		{name: "long with one target", intent: TradeIntent{Direction: DirectionLong, EntryPrice: 2000, StopPrice: 1995, Targets: []float64{2005}}},
		{name: "short with two targets", intent: TradeIntent{Direction: DirectionShort, EntryPrice: 2000, StopPrice: 2005, Targets: []float64{1995, 1990}}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.NoError(tt.intent.Validate())
		})
	}
}

func (suite *TradeIntentTestSuite) TestInvalidIntents() {
	tests := []struct {
		name    string
		intent  TradeIntent
		message string
	}{
		{name: "missing direction", intent: TradeIntent{EntryPrice: 2000, StopPrice: 1995, Targets: []float64{2005}}, message: "invalid trade intent"},
		{name: "zero entry", intent: TradeIntent{Direction: DirectionLong, StopPrice: 1995, Targets: []float64{2005}}, message: "invalid trade intent"},
		{name: "negative target", intent: TradeIntent{Direction: DirectionShort, EntryPrice: 2000, StopPrice: 2005, Targets: []float64{-1}}, message: "invalid trade intent"},
		{name: "stop equals entry", intent: TradeIntent{Direction: DirectionLong, EntryPrice: 2000, StopPrice: 2000, Targets: []float64{2005}}, message: "wrong side"},
		{name: "short stop below entry", intent: TradeIntent{Direction: DirectionShort, EntryPrice: 2000, StopPrice: 1995, Targets: []float64{1990}}, message: "wrong side"},
		{name: "long t1 at entry", intent: TradeIntent{Direction: DirectionLong, EntryPrice: 2000, StopPrice: 1995, Targets: []float64{2000}}, message: "t1"},
		{name: "short t2 not beyond t1", intent: TradeIntent{Direction: DirectionShort, EntryPrice: 2000, StopPrice: 2005, Targets: []float64{1995, 1995}}, message: "t2"},
		{name: "long t3 below t2", intent: TradeIntent{Direction: DirectionLong, EntryPrice: 2000, StopPrice: 1995, Targets: []float64{2005, 2010, 2008}}, message: "t3"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := tt.intent.Validate()
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodePreconditionViolation))
			suite.Contains(err.Error(), tt.message)
		})
	}
}

func (suite *TradeIntentTestSuite) TestTarget() {
	intent := TradeIntent{Direction: DirectionLong, EntryPrice: 2000, StopPrice: 1995, Targets: []float64{2005, 2010}}

	target, ok := intent.Target(1)
	suite.True(ok)
	suite.Equal(2010.0, target)

	_, ok = intent.Target(2)
	suite.False(ok)

	_, ok = intent.Target(-1)
	suite.False(ok)
}

func (suite *TradeIntentTestSuite) TestDirectionSign() {
	suite.Equal(1.0, DirectionLong.Sign())
	suite.Equal(-1.0, DirectionShort.Sign())
}

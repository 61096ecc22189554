package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TickTestSuite struct {
	suite.Suite
}

func TestTickSuite(t *testing.T) {
	suite.Run(t, new(TickTestSuite))
}

func (suite *TickTestSuite) TestEncodePrice() {
	suite.Equal(int64(2050_100_000_000), EncodePrice(2050.1))
	suite.Equal(int64(1_999_999_999_999), EncodePrice(1999.999999999))
	suite.Equal(int64(0), EncodePrice(0))
}

func (suite *TickTestSuite) TestEncodePriceString() {
	price, err := EncodePriceString("2650.37")
	suite.Require().NoError(err)
	suite.Equal(int64(2650_370_000_000), price)

	_, err = EncodePriceString("2650,37")
	suite.Error(err)
}

func (suite *TickTestSuite) TestPricePointsRoundTrip() {
	for _, points := range []float64{2050.1, 1999.9, 2015.25, 0.5} {
		suite.Equal(points, Tick{Price: EncodePrice(points)}.PricePoints())
	}
}

func (suite *TickTestSuite) TestTime() {
	at := time.Date(2024, 3, 10, 13, 30, 0, 123, time.UTC)
	tick := Tick{TsEvent: at.UnixNano()}

	suite.True(at.Equal(tick.Time()))
	suite.Equal(time.UTC, tick.Time().Location())
}

func (suite *TickTestSuite) TestBarSpan() {
	suite.Equal(time.Minute, Bar{}.Span())
}

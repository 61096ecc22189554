package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type MetricsRecordTestSuite struct {
	suite.Suite
}

func TestMetricsRecordSuite(t *testing.T) {
	suite.Run(t, new(MetricsRecordTestSuite))
}

func (suite *MetricsRecordTestSuite) TestUntriggeredRecordSerialisesNulls() {
	data, err := json.Marshal(MetricsRecord{BarsAnalyzed: 12})
	suite.Require().NoError(err)

	var body map[string]any
	suite.Require().NoError(json.Unmarshal(data, &body))

	suite.Len(body, 20)
	suite.Equal(false, body["entry_triggered"])
	suite.Equal(0.0, body["pnl_points"])
	suite.Equal(12.0, body["bars_analyzed"])

	for _, field := range []string{"entry_time", "exit_reason", "exit_price", "exit_time", "mfe_price", "mae_price", "time_to_t1_secs", "time_in_trade_secs"} {
		suite.Contains(body, field)
		suite.Nil(body[field], field)
	}
}

func (suite *MetricsRecordTestSuite) TestAsMap() {
	entry := time.Date(2024, 1, 16, 14, 30, 0, 0, time.UTC)
	record := MetricsRecord{
		EntryTriggered: true,
		EntryTime:      optional.Some(entry),
		ExitReason:     optional.Some(ExitReasonStop),
		ExitPrice:      optional.Some(1998.0),
		PnLPoints:      -2,
		T1Hit:          true,
		TimeToT1Secs:   optional.Some(int64(60)),
	}

	fields := record.AsMap()
	suite.Len(fields, 20)
	suite.Equal(entry, fields["entry_time"])
	suite.Equal(ExitReasonStop, fields["exit_reason"])
	suite.Equal(1998.0, fields["exit_price"])
	suite.Equal(int64(60), fields["time_to_t1_secs"])
	suite.Nil(fields["time_to_t2_secs"])
	suite.Nil(fields["mae_price"])
}

func (suite *MetricsRecordTestSuite) TestTargetHit() {
	record := MetricsRecord{T1Hit: true, T2Hit: true}

	suite.True(record.TargetHit(0))
	suite.True(record.TargetHit(1))
	suite.False(record.TargetHit(2))
	suite.False(record.TargetHit(3))
}

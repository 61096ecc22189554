package version

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/horizon-replay/pkg/errors"
)

type VersionTestSuite struct {
	suite.Suite
}

func TestVersionSuite(t *testing.T) {
	suite.Run(t, new(VersionTestSuite))
}

func (suite *VersionTestSuite) TestCheckCompatibility() {
	tests := []struct {
		name          string
		engine        string
		requested     string
		expectedCode  errors.ErrorCode
		errorContains string
	}{
		{name: "exact match", engine: "1.2.0", requested: "1.2.0"},
		{name: "patch differs", engine: "1.2.1", requested: "1.2.7"},
		{name: "v prefix on both", engine: "v2.5.10", requested: "v2.5.3"},
		{name: "no pin", engine: "1.2.0", requested: ""},
		{name: "development engine", engine: "main", requested: "3.0.0"},
		{name: "development client", engine: "1.2.0", requested: "main"},
		{name: "minor differs", engine: "1.3.0", requested: "1.2.0", expectedCode: errors.ErrCodeVersionMismatch, errorContains: "minor version mismatch"},
		{name: "major differs", engine: "2.0.0", requested: "1.0.0", expectedCode: errors.ErrCodeVersionMismatch, errorContains: "major version mismatch"},
		{name: "garbage request", engine: "1.2.0", requested: "latest", expectedCode: errors.ErrCodeInvalidParameter, errorContains: "invalid requested version"},
		{name: "garbage engine", engine: "dev-build", requested: "1.2.0", expectedCode: errors.ErrCodeInvalidParameter, errorContains: "invalid engine version"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := CheckCompatibility(tt.engine, tt.requested)
			if tt.expectedCode == 0 {
				suite.NoError(err)

				return
			}

			suite.Error(err)
			suite.True(errors.HasCode(err, tt.expectedCode))
			suite.Contains(err.Error(), tt.errorContains)
		})
	}
}

func (suite *VersionTestSuite) TestGetVersion() {
	original := Version
	defer func() { Version = original }()

	Version = "v1.4.2"
	suite.Equal("v1.4.2", GetVersion())
}

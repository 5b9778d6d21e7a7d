package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidPeriod, "period must be positive")
	suite.Equal(ErrCodeInvalidPeriod, err.Code)
	suite.Equal("period must be positive", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeInvalidAlertCondition, "unknown condition %q", "SIDEWAYS")
	suite.Equal(`unknown condition "SIDEWAYS"`, err.Message)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeQueryFailed, "failed to load ticks", cause)
	suite.Equal(cause, err.Unwrap())
	suite.Equal("[202] failed to load ticks: connection refused", err.Error())
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("timeout")
	err := Wrapf(ErrCodePredictionFailed, cause, "predict %d ticks", 15)
	suite.Equal("predict 15 ticks", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorStringWithoutCause() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestGetCodeThroughFmtWrap() {
	inner := New(ErrCodeAlertPersistFailed, "persist failed")
	wrapped := fmt.Errorf("dispatch: %w", inner)
	suite.Equal(ErrCodeAlertPersistFailed, GetCode(wrapped))
	suite.True(HasCode(wrapped, ErrCodeAlertPersistFailed))
}

func (suite *ErrorTestSuite) TestGetCodeUnknown() {
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("plain")))
	suite.Equal(ErrCodeUnknown, GetCode(nil))
}

func (suite *ErrorTestSuite) TestCategory() {
	suite.Equal("validation", ErrCodeInvalidPeriod.Category())
	suite.Equal("data", ErrCodeWriteFailed.Category())
	suite.Equal("alert", ErrCodeInvalidAlertCondition.Category())
	suite.Equal("backtest", ErrCodeBacktestCancelled.Category())
	suite.Equal("market_data", ErrCodeInvalidProvider.Category())
	suite.Equal("prediction", ErrCodePredictionMalformed.Category())
	suite.Equal("general", ErrCodeTimeout.Category())
}

func (suite *ErrorTestSuite) TestIsValidation() {
	suite.True(IsValidation(New(ErrCodeInvalidParameter, "bad")))
	suite.True(IsValidation(New(ErrCodeInvalidAlertCondition, "bad")))
	suite.False(IsValidation(New(ErrCodeQueryFailed, "db down")))
	suite.False(IsValidation(errors.New("plain")))
}

package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
	"github.com/shopspring/decimal"
)

type AlertCondition string

const (
	AlertConditionAbove AlertCondition = "ABOVE"
	AlertConditionBelow AlertCondition = "BELOW"
)

// ParseAlertCondition accepts the condition name in any case.
func ParseAlertCondition(raw string) (AlertCondition, error) {
	switch AlertCondition(strings.ToUpper(strings.TrimSpace(raw))) {
	case AlertConditionAbove:
		return AlertConditionAbove, nil
	case AlertConditionBelow:
		return AlertConditionBelow, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidAlertCondition, "unknown alert condition %q", raw)
	}
}

// Word returns the lower case direction word used in notifications.
func (c AlertCondition) Word() string {
	return strings.ToLower(string(c))
}

type AlertStatus string

const (
	AlertStatusActive    AlertStatus = "ACTIVE"
	AlertStatusTriggered AlertStatus = "TRIGGERED"
)

// Alert is a user-defined one-shot price threshold.
// Status only ever moves from ACTIVE to TRIGGERED.
type Alert struct {
	ID          string          `yaml:"id" json:"id"`
	UserID      string          `yaml:"user_id" json:"userId"`
	Symbol      string          `yaml:"symbol" json:"symbol"`
	Condition   AlertCondition  `yaml:"condition" json:"alertCondition"`
	TargetPrice decimal.Decimal `yaml:"target_price" json:"targetPrice"`
	Status      AlertStatus     `yaml:"status" json:"status"`
	CreatedAt   time.Time       `yaml:"created_at" json:"createdAt"`
}

// Matches reports whether the price satisfies the alert condition.
// Both comparisons are strict: a price equal to the target never matches.
func (a Alert) Matches(price decimal.Decimal) bool {
	switch a.Condition {
	case AlertConditionBelow:
		return price.LessThan(a.TargetPrice)
	case AlertConditionAbove:
		return price.GreaterThan(a.TargetPrice)
	default:
		return false
	}
}

// CreateAlertRequest is the payload of the alert creation API.
type CreateAlertRequest struct {
	Symbol      string          `yaml:"symbol" json:"symbol" validate:"required"`
	Condition   AlertCondition  `yaml:"condition" json:"condition" validate:"required,oneof=ABOVE BELOW"`
	TargetPrice decimal.Decimal `yaml:"target_price" json:"targetPrice"`
}

// Validate checks the request and normalizes the condition to upper case.
// An unknown condition is reported with ErrCodeInvalidAlertCondition.
func (r *CreateAlertRequest) Validate() error {
	condition, err := ParseAlertCondition(string(r.Condition))
	if err != nil {
		return err
	}

	r.Condition = condition

	if err := validator.New().Struct(r); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidAlertRequest, "invalid alert request", err)
	}

	if !r.TargetPrice.IsPositive() {
		return errors.New(errors.ErrCodeInvalidAlertRequest, "target price must be positive")
	}

	return nil
}

// Notification is a message addressed to the owner of a triggered alert.
type Notification struct {
	UserID  string `json:"userId"`
	AlertID string `json:"alertId"`
	Symbol  string `json:"symbol"`
	Message string `json:"message"`
}

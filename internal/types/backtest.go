package types

import "github.com/shopspring/decimal"

// BacktestResult summarizes one simulation run. It is built once and never mutated.
type BacktestResult struct {
	Strategy         string          `yaml:"strategy" json:"strategy"`
	InitialBalance   decimal.Decimal `yaml:"initial_balance" json:"initialBalance"`
	FinalBalance     decimal.Decimal `yaml:"final_balance" json:"finalBalance"`
	ProfitOrLoss     decimal.Decimal `yaml:"profit_or_loss" json:"profitOrLoss"`
	ProfitPercentage float64         `yaml:"profit_percentage" json:"profitPercentage"`
	TotalTrades      int             `yaml:"total_trades" json:"totalTrades"`
}

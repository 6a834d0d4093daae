package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/usecase"
)

// AccountSummaryResponse represents one client row in API responses.
type AccountSummaryResponse struct {
	Client    uint16          `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}

// AccountSummaryFromDomain converts a domain summary row to response.
func AccountSummaryFromDomain(s domain.AccountSummary) AccountSummaryResponse {
	return AccountSummaryResponse{
		Client:    uint16(s.Client),
		Available: s.Available,
		Held:      s.Held,
		Total:     s.Total,
		Locked:    s.Locked,
	}
}

// ProcessResponse represents a finished processing run.
type ProcessResponse struct {
	RunID    string                   `json:"run_id"`
	Applied  int                      `json:"applied"`
	Skipped  int                      `json:"skipped"`
	Accounts []AccountSummaryResponse `json:"accounts"`
}

// ProcessFromResult converts a use case result to response.
func ProcessFromResult(r *usecase.ProcessResult) *ProcessResponse {
	accounts := make([]AccountSummaryResponse, len(r.Summary))
	for i, s := range r.Summary {
		accounts[i] = AccountSummaryFromDomain(s)
	}

	return &ProcessResponse{
		RunID:    r.RunID,
		Applied:  r.Applied,
		Skipped:  r.Skipped,
		Accounts: accounts,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

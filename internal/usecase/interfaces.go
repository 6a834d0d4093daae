package usecase

import (
	"github.com/iho/txledger/internal/domain"
)

// TransactionSource yields decoded transactions in input order.
// Next returns io.EOF once the input is exhausted. Errors wrapping
// domain.ErrMalformedRecord describe a single bad record; the source stays
// usable and the record is skipped. Any other error aborts processing.
type TransactionSource interface {
	Next() (domain.Transaction, error)
}

// SummaryWriter renders the final per-client summary.
type SummaryWriter interface {
	WriteSummary(rows []domain.AccountSummary) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

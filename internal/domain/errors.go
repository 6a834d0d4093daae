package domain

import "errors"

var (
	// ErrMalformedRecord marks an input row that cannot become a Transaction.
	// Rows failing with it are skipped; they never reach the Ledger.
	ErrMalformedRecord = errors.New("malformed transaction record")

	// Decode errors, each wrapped together with ErrMalformedRecord
	ErrMissingField    = errors.New("missing field")
	ErrInvalidClientID = errors.New("client id must be an unsigned 16-bit integer")
	ErrInvalidTxID     = errors.New("tx id must be an unsigned 32-bit integer")
	ErrInvalidAmount   = errors.New("amount must be a decimal number")
)

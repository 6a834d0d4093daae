package csvcodec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/domain"
)

// Column order of the transaction input: type,client,tx,amount.
const (
	colType = iota
	colClient
	colTx
	colAmount
)

// maxAmountScale bounds the decimal exponent of an amount. Larger exponents
// make every later balance operation and the rendered summary grow with it.
const maxAmountScale = 28

// DecodeError describes an input row that could not be decoded.
type DecodeError struct {
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{domain.ErrMalformedRecord, e.Err}
}

// Decoder reads transactions from CSV. The first record is treated as the
// header. Rows may have any number of fields and every field is trimmed.
type Decoder struct {
	r          *csv.Reader
	headerSeen bool
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	return &Decoder{r: cr}
}

// Next returns the next transaction. It returns io.EOF at the end of input
// and a *DecodeError for a row that is not a valid transaction.
func (d *Decoder) Next() (domain.Transaction, error) {
	for {
		record, err := d.r.Read()
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &DecodeError{Line: parseErr.StartLine, Err: parseErr.Err}
			}
			return nil, err
		}

		if !d.headerSeen {
			d.headerSeen = true
			continue
		}

		line, _ := d.r.FieldPos(0)
		tx, err := decodeRecord(record)
		if err != nil {
			return nil, &DecodeError{Line: line, Err: err}
		}
		return tx, nil
	}
}

func decodeRecord(record []string) (domain.Transaction, error) {
	label := strings.TrimSpace(record[colType])
	txType := domain.ParseTransactionType(label)
	if txType == domain.TransactionTypeUnrecognized {
		return domain.Unrecognized{Label: label}, nil
	}

	if len(record) <= colTx {
		return nil, fmt.Errorf("%s: %w: want client and tx", txType, domain.ErrMissingField)
	}

	client, err := strconv.ParseUint(strings.TrimSpace(record[colClient]), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidClientID, record[colClient])
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(record[colTx]), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTxID, record[colTx])
	}

	clientID, txID := domain.ClientID(client), domain.TxID(tx)

	switch txType {
	case domain.TransactionTypeDispute:
		return domain.Dispute{Client: clientID, Tx: txID}, nil
	case domain.TransactionTypeResolve:
		return domain.Resolve{Client: clientID, Tx: txID}, nil
	case domain.TransactionTypeChargeback:
		return domain.Chargeback{Client: clientID, Tx: txID}, nil
	}

	amount, err := decodeAmount(record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", txType, err)
	}

	if txType == domain.TransactionTypeDeposit {
		return domain.Deposit{Client: clientID, Tx: txID, Amount: amount}, nil
	}
	return domain.Withdrawal{Client: clientID, Tx: txID, Amount: amount}, nil
}

func decodeAmount(record []string) (decimal.Decimal, error) {
	if len(record) <= colAmount {
		return decimal.Decimal{}, fmt.Errorf("%w: amount", domain.ErrMissingField)
	}

	raw := strings.TrimSpace(record[colAmount])
	if raw == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: amount", domain.ErrMissingField)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, raw)
	}
	if exp := amount.Exponent(); exp < -maxAmountScale || exp > maxAmountScale {
		return decimal.Decimal{}, fmt.Errorf("%w: %q exceeds scale %d", domain.ErrInvalidAmount, raw, maxAmountScale)
	}
	return amount, nil
}

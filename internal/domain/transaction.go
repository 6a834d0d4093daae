package domain

import "github.com/shopspring/decimal"

// ClientID identifies a client account.
type ClientID uint16

// TxID identifies a transaction. Ids are unique across the whole input stream.
type TxID uint32

// TransactionType is the label of a transaction as it appears in the input.
type TransactionType string

const (
	TransactionTypeDeposit      TransactionType = "deposit"
	TransactionTypeWithdrawal   TransactionType = "withdrawal"
	TransactionTypeDispute      TransactionType = "dispute"
	TransactionTypeResolve      TransactionType = "resolve"
	TransactionTypeChargeback   TransactionType = "chargeback"
	TransactionTypeUnrecognized TransactionType = "unrecognized"
)

// Transaction is one decoded input record. The set of implementations is
// closed: Deposit, Withdrawal, Dispute, Resolve, Chargeback and Unrecognized.
type Transaction interface {
	Type() TransactionType
	isTransaction()
}

// Deposit credits Amount to the client's account.
type Deposit struct {
	Client ClientID
	Tx     TxID
	Amount decimal.Decimal
}

// Withdrawal debits Amount from the client's account.
type Withdrawal struct {
	Client ClientID
	Tx     TxID
	Amount decimal.Decimal
}

// Dispute opens a claim against a previous deposit or withdrawal.
type Dispute struct {
	Client ClientID
	Tx     TxID
}

// Resolve closes a dispute in the client's favour of keeping the funds.
type Resolve struct {
	Client ClientID
	Tx     TxID
}

// Chargeback finalizes a dispute by reversing the transaction and locking the account.
type Chargeback struct {
	Client ClientID
	Tx     TxID
}

// Unrecognized carries a type label the decoder does not know.
type Unrecognized struct {
	Label string
}

func (Deposit) Type() TransactionType      { return TransactionTypeDeposit }
func (Withdrawal) Type() TransactionType   { return TransactionTypeWithdrawal }
func (Dispute) Type() TransactionType      { return TransactionTypeDispute }
func (Resolve) Type() TransactionType      { return TransactionTypeResolve }
func (Chargeback) Type() TransactionType   { return TransactionTypeChargeback }
func (Unrecognized) Type() TransactionType { return TransactionTypeUnrecognized }

func (Deposit) isTransaction()      {}
func (Withdrawal) isTransaction()   {}
func (Dispute) isTransaction()      {}
func (Resolve) isTransaction()      {}
func (Chargeback) isTransaction()   {}
func (Unrecognized) isTransaction() {}

// ParseTransactionType maps an input label to its TransactionType.
// Labels are matched exactly; anything else is TransactionTypeUnrecognized.
func ParseTransactionType(label string) TransactionType {
	switch t := TransactionType(label); t {
	case TransactionTypeDeposit,
		TransactionTypeWithdrawal,
		TransactionTypeDispute,
		TransactionTypeResolve,
		TransactionTypeChargeback:
		return t
	default:
		return TransactionTypeUnrecognized
	}
}

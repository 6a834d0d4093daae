package domain

import "github.com/shopspring/decimal"

// RecordKind is the kind of a processed transaction. Only deposits and
// withdrawals are ever recorded, so disputes of disputes cannot be expressed.
type RecordKind uint8

const (
	recordKindNone RecordKind = iota
	RecordKindDeposit
	RecordKindWithdrawal
)

func (k RecordKind) String() string {
	switch k {
	case RecordKindDeposit:
		return "deposit"
	case RecordKindWithdrawal:
		return "withdrawal"
	default:
		return "none"
	}
}

// ProcessedTransaction keeps what a later dispute, resolve or chargeback
// needs to know about an applied deposit or withdrawal.
type ProcessedTransaction struct {
	kind     RecordKind
	owner    ClientID
	disputed bool
	amount   decimal.Decimal
}

// NewDepositRecord creates an undisputed deposit record.
func NewDepositRecord(owner ClientID, amount decimal.Decimal) ProcessedTransaction {
	return ProcessedTransaction{kind: RecordKindDeposit, owner: owner, amount: amount}
}

// NewWithdrawalRecord creates an undisputed withdrawal record.
func NewWithdrawalRecord(owner ClientID, amount decimal.Decimal) ProcessedTransaction {
	return ProcessedTransaction{kind: RecordKindWithdrawal, owner: owner, amount: amount}
}

func (p *ProcessedTransaction) Kind() RecordKind        { return p.kind }
func (p *ProcessedTransaction) Owner() ClientID         { return p.owner }
func (p *ProcessedTransaction) Amount() decimal.Decimal { return p.amount }
func (p *ProcessedTransaction) Disputed() bool          { return p.disputed }

// IsDeposit reports whether the record was created by a deposit.
func (p *ProcessedTransaction) IsDeposit() bool {
	return p.kind == RecordKindDeposit
}

func (p *ProcessedTransaction) present() bool {
	return p.kind != recordKindNone
}

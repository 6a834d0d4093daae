package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Ledger owns every client account and the history of processed deposits
// and withdrawals. It is not safe for concurrent use: transactions must be
// applied one at a time, in input order.
type Ledger struct {
	accounts map[ClientID]*ClientAccount
	history  *TxHistory
}

// NewLedger creates an empty ledger whose history uses the given dense window.
func NewLedger(denseWindow int) *Ledger {
	return &Ledger{
		accounts: make(map[ClientID]*ClientAccount),
		history:  NewTxHistory(denseWindow),
	}
}

// Apply effects one transaction on the ledger.
//
// References that cannot be honoured (unknown tx, client mismatch, chargeback
// without an open dispute, deposit or withdrawal on a locked account) are
// ignored; Apply reports nothing.
func (l *Ledger) Apply(tx Transaction) {
	switch t := tx.(type) {
	case Deposit:
		l.deposit(t.Client, t.Tx, t.Amount)
	case Withdrawal:
		l.withdraw(t.Client, t.Tx, t.Amount)
	case Dispute:
		l.dispute(t.Client, t.Tx)
	case Resolve:
		l.resolve(t.Client, t.Tx)
	case Chargeback:
		l.chargeback(t.Client, t.Tx)
	}
}

func (l *Ledger) account(id ClientID) *ClientAccount {
	acc, ok := l.accounts[id]
	if !ok {
		acc = &ClientAccount{}
		l.accounts[id] = acc
	}
	return acc
}

func (l *Ledger) deposit(client ClientID, tx TxID, amount decimal.Decimal) {
	if !l.account(client).credit(amount) {
		return
	}
	l.history.Put(tx, NewDepositRecord(client, amount))
}

func (l *Ledger) withdraw(client ClientID, tx TxID, amount decimal.Decimal) {
	if !l.account(client).debit(amount) {
		return
	}
	l.history.Put(tx, NewWithdrawalRecord(client, amount))
}

// lookup returns the record for tx if it exists and belongs to client.
func (l *Ledger) lookup(client ClientID, tx TxID) (*ProcessedTransaction, bool) {
	rec, ok := l.history.Get(tx)
	if !ok || rec.owner != client {
		return nil, false
	}
	return rec, true
}

// dispute holds a deposit's funds. A disputed withdrawal moves nothing until
// it is charged back, because its money has already left the account.
// Repeated disputes hold the amount again.
func (l *Ledger) dispute(client ClientID, tx TxID) {
	rec, ok := l.lookup(client, tx)
	if !ok {
		return
	}

	rec.disputed = true
	if rec.IsDeposit() {
		acc := l.account(client)
		acc.Held = acc.Held.Add(rec.amount)
	}
}

// resolve releases a deposit's held funds. The previous disputed state is not checked.
func (l *Ledger) resolve(client ClientID, tx TxID) {
	rec, ok := l.lookup(client, tx)
	if !ok {
		return
	}

	rec.disputed = false
	if rec.IsDeposit() {
		acc := l.account(client)
		acc.Held = acc.Held.Sub(rec.amount)
	}
}

// chargeback reverses a disputed transaction and locks the account for good.
func (l *Ledger) chargeback(client ClientID, tx TxID) {
	rec, ok := l.lookup(client, tx)
	if !ok || !rec.disputed {
		return
	}

	acc := l.account(client)
	acc.Locked = true
	if rec.IsDeposit() {
		acc.Held = acc.Held.Sub(rec.amount)
		acc.Total = acc.Total.Sub(rec.amount)
	} else {
		acc.Total = acc.Total.Add(rec.amount)
	}
}

// Account returns a copy of the client's account state.
func (l *Ledger) Account(id ClientID) (ClientAccount, bool) {
	acc, ok := l.accounts[id]
	if !ok {
		return ClientAccount{}, false
	}
	return *acc, true
}

// Len returns the number of known accounts.
func (l *Ledger) Len() int {
	return len(l.accounts)
}

// LockedCount returns the number of locked accounts.
func (l *Ledger) LockedCount() int {
	n := 0
	for _, acc := range l.accounts {
		if acc.Locked {
			n++
		}
	}
	return n
}

// Records returns the number of processed deposits and withdrawals retained.
func (l *Ledger) Records() int {
	return l.history.Len()
}

// Summary returns one row per known client, ordered by ascending client id.
func (l *Ledger) Summary() []AccountSummary {
	ids := make([]ClientID, 0, len(l.accounts))
	for id := range l.accounts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	rows := make([]AccountSummary, 0, len(ids))
	for _, id := range ids {
		acc := l.accounts[id]
		rows = append(rows, AccountSummary{
			Client:    id,
			Available: acc.Available(),
			Held:      acc.Held,
			Total:     acc.Total,
			Locked:    acc.Locked,
		})
	}
	return rows
}

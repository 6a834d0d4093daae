package domain

import "github.com/shopspring/decimal"

// ClientAccount is the running state of one client.
// Held may exceed Total, for example when a withdrawal drains disputed funds.
type ClientAccount struct {
	Held   decimal.Decimal
	Total  decimal.Decimal
	Locked bool
}

// Available returns the funds not earmarked by an open dispute.
func (a *ClientAccount) Available() decimal.Decimal {
	return a.Total.Sub(a.Held)
}

// credit adds amount to total unless the account is locked.
func (a *ClientAccount) credit(amount decimal.Decimal) bool {
	if a.Locked {
		return false
	}
	a.Total = a.Total.Add(amount)
	return true
}

// debit subtracts amount from total unless the account is locked.
// Overdraft is not checked.
func (a *ClientAccount) debit(amount decimal.Decimal) bool {
	if a.Locked {
		return false
	}
	a.Total = a.Total.Sub(amount)
	return true
}

// AccountSummary is one rendered row of the final ledger state.
type AccountSummary struct {
	Client    ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// Package generator produces random transaction streams together with the
// summary they must yield. The expected summary comes from an integer-cent
// model kept separate from the domain Ledger so the two can check each other.
package generator

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/domain"
)

// Config controls the shape of a generated stream.
type Config struct {
	Clients      int
	Transactions int
	MaxCents     int64 // exclusive upper bound of a deposit or withdrawal, in cents
	Seed         uint64

	// NoiseRate is the share of rows, in percent, that are unrecognized or malformed.
	NoiseRate int
}

// DefaultConfig mirrors the mix used for bulk tests.
func DefaultConfig() Config {
	return Config{
		Clients:      100,
		Transactions: 10_000,
		MaxCents:     2000,
		Seed:         1,
		NoiseRate:    1,
	}
}

type record struct {
	client   domain.ClientID
	tx       domain.TxID
	cents    int64
	deposit  bool
	disputed bool
}

type account struct {
	heldCents  int64
	totalCents int64
	locked     bool
}

type model struct {
	rng      *rand.Rand
	cfg      Config
	records  []*record
	disputed []*record
	accounts map[domain.ClientID]*account
	nextTx   domain.TxID
}

// Generate writes cfg.Transactions input rows, preceded by a header, to w and
// returns the summary the ledger must produce for them.
func Generate(w io.Writer, cfg Config) ([]domain.AccountSummary, error) {
	if cfg.Clients <= 0 || cfg.Clients > 1<<16 {
		return nil, fmt.Errorf("clients must be in [1, 65536], got %d", cfg.Clients)
	}
	if cfg.MaxCents <= 0 {
		cfg.MaxCents = DefaultConfig().MaxCents
	}

	m := &model{
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		cfg:      cfg,
		accounts: make(map[domain.ClientID]*account),
		nextTx:   1,
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"type", "client", "tx", "amount"}); err != nil {
		return nil, err
	}

	for range cfg.Transactions {
		if err := cw.Write(m.step()); err != nil {
			return nil, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}

	return m.summary(), nil
}

func (m *model) account(id domain.ClientID) *account {
	acc, ok := m.accounts[id]
	if !ok {
		acc = &account{}
		m.accounts[id] = acc
	}
	return acc
}

func (m *model) randomClient() domain.ClientID {
	return domain.ClientID(m.rng.IntN(m.cfg.Clients))
}

// pick returns an existing record, or a reference to an id never used.
func (m *model) pick() (domain.TxID, *record) {
	if len(m.records) == 0 || m.rng.IntN(50) == 0 {
		return m.nextTx + domain.TxID(m.rng.IntN(1000)), nil
	}
	r := m.records[m.rng.IntN(len(m.records))]
	return r.tx, r
}

// pickDisputed prefers records that have been disputed at some point.
// Their flag may since have been cleared by a resolve.
func (m *model) pickDisputed() (domain.TxID, *record) {
	if len(m.disputed) == 0 || m.rng.IntN(5) == 0 {
		return m.pick()
	}
	r := m.disputed[m.rng.IntN(len(m.disputed))]
	return r.tx, r
}

// owner returns the record's client, or now and then somebody else.
func (m *model) owner(r *record) domain.ClientID {
	if r == nil || m.rng.IntN(20) == 0 {
		return m.randomClient()
	}
	return r.client
}

func (m *model) step() []string {
	if m.cfg.NoiseRate > 0 && m.rng.IntN(100) < m.cfg.NoiseRate {
		return m.noise()
	}

	// 50% deposit, 40% withdrawal, 4% dispute, 3% chargeback, 3% resolve
	switch n := m.rng.IntN(100); {
	case n < 90:
		return m.transfer(n < 50)
	case n < 94:
		return m.dispute()
	case n < 97:
		return m.chargeback()
	default:
		return m.resolve()
	}
}

func (m *model) transfer(deposit bool) []string {
	client := m.randomClient()
	cents := m.rng.Int64N(m.cfg.MaxCents)
	tx := m.nextTx
	m.nextTx++

	acc := m.account(client)
	label := "withdrawal"
	if deposit {
		label = "deposit"
	}

	if !acc.locked {
		if deposit {
			acc.totalCents += cents
		} else {
			acc.totalCents -= cents
		}
		r := &record{client: client, tx: tx, cents: cents, deposit: deposit}
		m.records = append(m.records, r)
	}

	return []string{label, formatUint(uint64(client)), formatUint(uint64(tx)), formatCents(cents)}
}

func (m *model) dispute() []string {
	tx, r := m.pick()
	client := m.owner(r)

	if r != nil && r.client == client {
		r.disputed = true
		m.disputed = append(m.disputed, r)
		if r.deposit {
			m.account(client).heldCents += r.cents
		}
	}
	return []string{"dispute", formatUint(uint64(client)), formatUint(uint64(tx)), ""}
}

func (m *model) resolve() []string {
	tx, r := m.pickDisputed()
	client := m.owner(r)

	if r != nil && r.client == client {
		r.disputed = false
		if r.deposit {
			m.account(client).heldCents -= r.cents
		}
	}
	return []string{"resolve", formatUint(uint64(client)), formatUint(uint64(tx)), ""}
}

func (m *model) chargeback() []string {
	tx, r := m.pickDisputed()
	client := m.owner(r)

	if r != nil && r.client == client && r.disputed {
		acc := m.account(client)
		acc.locked = true
		if r.deposit {
			acc.heldCents -= r.cents
			acc.totalCents -= r.cents
		} else {
			acc.totalCents += r.cents
		}
	}
	return []string{"chargeback", formatUint(uint64(client)), formatUint(uint64(tx)), ""}
}

// noise emits rows the ledger must never act on.
func (m *model) noise() []string {
	client := formatUint(uint64(m.randomClient()))
	switch m.rng.IntN(4) {
	case 0:
		return []string{"refund", client, formatUint(uint64(m.nextTx)), "1.00"}
	case 1:
		return []string{"deposit", client, formatUint(uint64(m.nextTx)), ""}
	case 2:
		return []string{"withdrawal", "client", formatUint(uint64(m.nextTx)), "1"}
	default:
		return []string{"deposit", client, "-1", "abc"}
	}
}

func (m *model) summary() []domain.AccountSummary {
	ids := make([]domain.ClientID, 0, len(m.accounts))
	for id := range m.accounts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	rows := make([]domain.AccountSummary, 0, len(ids))
	for _, id := range ids {
		acc := m.accounts[id]
		rows = append(rows, domain.AccountSummary{
			Client:    id,
			Available: decimal.New(acc.totalCents-acc.heldCents, -2),
			Held:      decimal.New(acc.heldCents, -2),
			Total:     decimal.New(acc.totalCents, -2),
			Locked:    acc.locked,
		})
	}
	return rows
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func formatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

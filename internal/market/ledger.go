package market

import (
	"github.com/dustin/go-humanize"
)

// TxType classifies ledger entries.
type TxType string

const (
	TxDeploy   TxType = "DEPLOY"
	TxBuyKeys  TxType = "BUY_KEYS"
	TxSellKeys TxType = "SELL_KEYS"
	TxYield    TxType = "YIELD"
	TxTrade    TxType = "TRADE"
	TxSwap     TxType = "SWAP"
)

// TxStatus is the settlement state shown next to an entry.
type TxStatus string

const (
	StatusPending TxStatus = "PENDING"
	StatusSuccess TxStatus = "SUCCESS"
	StatusFailed  TxStatus = "FAILED"
)

// Transaction is one ledger entry. Entries are never edited once recorded.
type Transaction struct {
	ID        string   `json:"id"`
	Type      TxType   `json:"type"`
	Amount    string   `json:"amount"`
	Status    TxStatus `json:"status"`
	Timestamp string   `json:"timestamp"`
}

// Ledger is an append-only list kept newest first.
type Ledger struct {
	entries []Transaction
}

// Prepend records tx as the newest entry.
func (l *Ledger) Prepend(tx Transaction) {
	l.entries = append(l.entries, Transaction{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = tx
}

// Entries returns a copy, newest first.
func (l *Ledger) Entries() []Transaction {
	out := make([]Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Len() int { return len(l.entries) }

// FormatAmount renders a signed display amount such as "+14,020.5 LMT".
func FormatAmount(sign byte, v float64, symbol string) string {
	if v < 0 {
		v = -v
	}
	return string(sign) + humanize.CommafWithDigits(v, 4) + " " + symbol
}

package extraction

import (
	"time"
)

// TransactionType classifies the direction/state of a UPI transaction.
type TransactionType string

const (
	TypeReceived TransactionType = "received"
	TypePaid     TransactionType = "paid"
	TypePending  TransactionType = "pending"
	TypeRefund   TransactionType = "refund"
)

// validTypes is the closed set the model reply is checked against.
var validTypes = map[TransactionType]bool{
	TypeReceived: true,
	TypePaid:     true,
	TypePending:  true,
	TypeRefund:   true,
}

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return validTypes[t]
}

// Amounts outside this range are never emitted as transactions; smaller
// numbers are usually dates or counts, larger ones OCR garbage.
const (
	MinAmount = 10
	MaxAmount = 10_000_000
)

// Transaction is one extracted UPI transaction. This is a domain struct, not
// a storage row; the store package maps it into the payments table.
type Transaction struct {
	Type         TransactionType `json:"transaction_type"`
	Amount       float64         `json:"amount"`
	Counterparty string          `json:"from"`
	VPA          string          `json:"upi_id"`
	ReferenceNo  string          `json:"ref_no"`
	Source       string          `json:"source"`
	Timestamp    time.Time       `json:"timestamp"`
	RawText      string          `json:"raw_text"`
}

// Result is the outcome of one extraction call. Transactions is never empty:
// when nothing usable was found it holds the single sentinel transaction
// (amount 0, empty fields, RawText = the full input). Multiple reports
// whether the input described more than one transaction, so callers can shape
// their response as an object or an array.
type Result struct {
	Transactions []Transaction
	Multiple     bool
}

// Single returns the first transaction. Valid on every Result because
// Transactions is never empty.
func (r Result) Single() Transaction {
	return r.Transactions[0]
}

// IsEmpty reports whether the result is the "nothing found" sentinel.
func (r Result) IsEmpty() bool {
	return !r.Multiple && len(r.Transactions) == 1 &&
		r.Transactions[0].Amount == 0 && r.Transactions[0].Type == ""
}

// sentinelResult builds the defined "nothing found" result for the given
// input text.
func sentinelResult(rawText string) Result {
	return Result{Transactions: []Transaction{{RawText: rawText}}}
}

// singleResult wraps one transaction.
func singleResult(tx Transaction) Result {
	return Result{Transactions: []Transaction{tx}}
}

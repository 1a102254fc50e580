package extraction

import (
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 15, 10, 30, 45, 0, time.UTC)

func runFallback(raw string) Result {
	return fallbackExtract(Normalize(raw), raw, testNow)
}

func TestFallbackSingleTransaction(t *testing.T) {
	raw := "Rs.1,200.00 recd from Rahul rahul@okaxis txn REF40983240 via Google Pay"
	res := runFallback(raw)

	if res.Multiple {
		t.Fatal("expected single transaction, got multiple")
	}
	tx := res.Single()

	if tx.Amount != 1200 {
		t.Errorf("Amount = %v, want 1200", tx.Amount)
	}
	if tx.Type != TypeReceived {
		t.Errorf("Type = %q, want %q", tx.Type, TypeReceived)
	}
	if tx.VPA != "rahul@okaxis" {
		t.Errorf("VPA = %q, want rahul@okaxis", tx.VPA)
	}
	if tx.ReferenceNo != "REF40983240" {
		t.Errorf("ReferenceNo = %q, want REF40983240", tx.ReferenceNo)
	}
	if tx.Counterparty != "Rahul" {
		t.Errorf("Counterparty = %q, want Rahul", tx.Counterparty)
	}
	if tx.Source != "Google Pay" {
		t.Errorf("Source = %q, want Google Pay", tx.Source)
	}
	if tx.Timestamp != testNow.Truncate(time.Minute) {
		t.Errorf("Timestamp = %v, want %v", tx.Timestamp, testNow.Truncate(time.Minute))
	}
}

func TestFallbackMultipleTransactions(t *testing.T) {
	raw := "paid Rs.500 to Amit via PhonePe. received Rs.300 from Neha via Paytm"
	res := runFallback(raw)

	if !res.Multiple {
		t.Fatal("expected multiple transactions")
	}
	if len(res.Transactions) != 2 {
		t.Fatalf("got %d transactions, want 2", len(res.Transactions))
	}

	first, second := res.Transactions[0], res.Transactions[1]
	if first.Type != TypePaid || first.Amount != 500 {
		t.Errorf("first = %q/%v, want paid/500", first.Type, first.Amount)
	}
	if first.Counterparty != "Amit" || first.Source != "PhonePe" {
		t.Errorf("first counterparty/source = %q/%q, want Amit/PhonePe", first.Counterparty, first.Source)
	}
	if second.Type != TypeReceived || second.Amount != 300 {
		t.Errorf("second = %q/%v, want received/300", second.Type, second.Amount)
	}
	if second.Counterparty != "Neha" || second.Source != "Paytm" {
		t.Errorf("second counterparty/source = %q/%q, want Neha/Paytm", second.Counterparty, second.Source)
	}
}

func TestFallbackSentinel(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no numbers at all", "thank you for shopping with us today"},
		{"number without currency marker", "transaction completed with code 12345678 yesterday"},
		{"amount below range", "received Rs.5 from Rahul as a token"},
		{"amount above range", "payment of Rs.99,999,999 processed for invoice"},
		{"short garbage", "ok"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runFallback(tt.raw)
			if !res.IsEmpty() {
				t.Fatalf("expected sentinel, got %+v", res.Transactions)
			}
			tx := res.Single()
			if tx.Amount != 0 {
				t.Errorf("sentinel Amount = %v, want 0", tx.Amount)
			}
			if tx.RawText != tt.raw {
				t.Errorf("sentinel RawText = %q, want full input", tx.RawText)
			}
		})
	}
}

func TestFallbackAmountRangeInvariant(t *testing.T) {
	inputs := []string{
		"Rs.1,200.00 recd from Rahul via Google Pay",
		"paid Rs.500 to Amit. received Rs.300 from Neha. sent Rs.2 to test",
		"payment of INR 10 exactly at the lower bound",
		"received Rs.10000000 at the upper bound today",
	}

	for _, raw := range inputs {
		res := runFallback(raw)
		if res.IsEmpty() {
			continue
		}
		for _, tx := range res.Transactions {
			if tx.Amount < MinAmount || tx.Amount > MaxAmount {
				t.Errorf("input %q emitted amount %v outside [%d, %d]", raw, tx.Amount, MinAmount, MaxAmount)
			}
		}
	}
}

func TestFallbackAmountTieBreak(t *testing.T) {
	// The maximum in-range candidate wins; the incidental Rs.2 and the
	// out-of-range big number are discarded.
	raw := "payment for 2 rs items total Rs.1,250 ref Rs.99999999"
	res := runFallback(raw)
	if res.IsEmpty() {
		t.Fatal("expected a transaction")
	}
	if got := res.Single().Amount; got != 1250 {
		t.Errorf("Amount = %v, want 1250", got)
	}
}

func TestFallbackAmountSuffixNotation(t *testing.T) {
	raw := "payment of 750 rupees completed successfully"
	res := runFallback(raw)
	if res.IsEmpty() {
		t.Fatal("expected a transaction")
	}
	if got := res.Single().Amount; got != 750 {
		t.Errorf("Amount = %v, want 750", got)
	}
}

func TestExtractType(t *testing.T) {
	tests := []struct {
		block string
		want  TransactionType
	}{
		{"paid ₹500 to Amit", TypePaid},
		{"sent ₹500 to Amit", TypePaid},
		{"debited ₹500 from account", TypePaid},
		{"refund of ₹500 initiated", TypeRefund},
		{"transfer of ₹500 is pending", TypePending},
		{"received ₹500 from Neha", TypeReceived},
		{"₹500 from Neha", TypeReceived},
		// paid-class beats refund and pending when keywords co-occur.
		{"refund of ₹500 paid back to card", TypePaid},
		{"refund of ₹500 is pending", TypeRefund},
	}

	for _, tt := range tests {
		t.Run(tt.block, func(t *testing.T) {
			if got := extractType(tt.block); got != tt.want {
				t.Errorf("extractType(%q) = %q, want %q", tt.block, got, tt.want)
			}
		})
	}
}

func TestExtractCounterparty(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  string
	}{
		{"after from", "received ₹500 from Rahul yesterday", "Rahul"},
		{"after to", "paid ₹500 to Amit Kumar via UPI", "Amit Kumar"},
		{"name stops before vpa", "received ₹500 from Rahul rahul@okaxis", "Rahul"},
		{"run before verb", "Neha Sharma paid you ₹750", "Neha Sharma"},
		{"boilerplate filtered", "payment received ₹500", ""},
		{"nothing", "₹500 transferred", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractCounterparty(tt.block); got != tt.want {
				t.Errorf("extractCounterparty(%q) = %q, want %q", tt.block, got, tt.want)
			}
		})
	}
}

func TestExtractSource(t *testing.T) {
	tests := []struct {
		block string
		want  string
	}{
		{"paid via Google Pay", "Google Pay"},
		{"paid via GPay", "Google Pay"},
		{"received on PhonePe app", "PhonePe"},
		{"Paytm wallet credited", "Paytm"},
		{"BHIM UPI transfer", "BHIM"},
		{"via Amazon Pay balance", "Amazon Pay"},
		{"WhatsApp Pay transfer", "WhatsApp Pay"},
		{"via some unknown bank", ""},
		// Table order decides when several apps are mentioned.
		{"moved from Paytm to PhonePe", "PhonePe"},
	}

	for _, tt := range tests {
		t.Run(tt.block, func(t *testing.T) {
			if got := extractSource(tt.block); got != tt.want {
				t.Errorf("extractSource(%q) = %q, want %q", tt.block, got, tt.want)
			}
		})
	}
}

func TestExtractReference(t *testing.T) {
	tests := []struct {
		block string
		want  string
	}{
		{"txn REF40983240 done", "REF40983240"},
		{"UPI ref 409832401234 credited", "409832401234"},
		{"ref ABC123 too short", ""},
		{"no reference here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.block, func(t *testing.T) {
			if got := extractReference(tt.block); got != tt.want {
				t.Errorf("extractReference(%q) = %q, want %q", tt.block, got, tt.want)
			}
		})
	}
}

func TestExtractVPA(t *testing.T) {
	tests := []struct {
		block string
		want  string
	}{
		{"from rahul@okaxis today", "rahul@okaxis"},
		{"to neha.sharma-01@ybl now", "neha.sharma-01@ybl"},
		{"no address here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.block, func(t *testing.T) {
			if got := extractVPA(tt.block); got != tt.want {
				t.Errorf("extractVPA(%q) = %q, want %q", tt.block, got, tt.want)
			}
		})
	}
}

func TestFallbackDeterministic(t *testing.T) {
	raw := "paid Rs.500 to Amit via PhonePe. received Rs.300 from Neha via Paytm"
	norm := Normalize(raw)

	a := fallbackExtract(norm, raw, testNow)
	b := fallbackExtract(norm, raw, testNow)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("fallbackExtract not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestSegmentBlocks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no keyword keeps whole text",
			text: "₹500 moved between accounts",
			want: []string{"₹500 moved between accounts"},
		},
		{
			name: "first keyword absorbs prefix",
			text: "₹1,200.00 received from Rahul",
			want: []string{"₹1,200.00 received from Rahul"},
		},
		{
			name: "split before later keywords",
			text: "paid ₹500 to Amit. received ₹300 from Neha",
			want: []string{"paid ₹500 to Amit.", "received ₹300 from Neha"},
		},
		{
			name: "short fragments dropped",
			text: "payment received ₹300 from Neha",
			want: []string{"received ₹300 from Neha"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := segmentBlocks(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("segmentBlocks(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

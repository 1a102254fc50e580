package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// blockKeywordRe marks positions where a new transaction block may begin. The
// keyword stays attached to the block that follows it.
var blockKeywordRe = regexp.MustCompile(`(?i)\b(?:transaction|payment|paid|received|debited|credited)\b`)

// minBlockLen filters out fragments too short to describe a transaction.
const minBlockLen = 10

var (
	// Currency marker before the number (₹500, rs 500, inr 500) or a
	// currency word after it (500 rupees).
	amountPrefixRe = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr)\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
	amountSuffixRe = regexp.MustCompile(`(?i)([0-9][0-9,]*(?:\.[0-9]+)?)\s*(?:rs|inr|rupees)\b`)

	vpaRe = regexp.MustCompile(`[A-Za-z0-9._-]+@[A-Za-z0-9.-]+`)
	refRe = regexp.MustCompile(`\b[A-Z0-9]{8,30}\b`)

	// Counterparty pattern (a): a capitalized-word run after a relation
	// keyword. A plain letters-and-spaces run would swallow the local part
	// of a following VPA ("from Rahul rahul@okaxis").
	counterpartyAfterRe = regexp.MustCompile(`(?i:\b(?:from|to|recipient|payer|sender|receiver)\b)[:\s]+((?:[A-Z][a-z]+)(?:\s+[A-Z][a-z]+)*)`)
	// Counterparty pattern (b): a letter-and-space run immediately before a
	// verb.
	counterpartyBeforeRe = regexp.MustCompile(`(?i)([A-Za-z][A-Za-z ]*?)\s+(?:paid|received|credited|debited)\b`)

	nonAmountRe = regexp.MustCompile(`[^0-9.]`)
)

// counterpartyStopwords are tokens that can never be part of a name; they
// keep pattern (b) from reporting message boilerplate as the counterparty.
var counterpartyStopwords = map[string]bool{
	"transaction": true, "payment": true, "paid": true, "received": true,
	"debited": true, "credited": true, "amount": true, "upi": true,
	"txn": true, "ref": true, "bank": true, "account": true, "money": true,
	"has": true, "have": true, "been": true, "was": true, "is": true,
	"you": true, "your": true, "via": true, "the": true, "a": true, "an": true,
}

// sourcePatterns is the fixed recognition table of payment apps, checked in
// priority order. First match wins.
var sourcePatterns = []struct {
	pattern string
	label   string
}{
	{"google pay", "Google Pay"},
	{"gpay", "Google Pay"},
	{"phonepe", "PhonePe"},
	{"paytm", "Paytm"},
	{"bhim", "BHIM"},
	{"amazon pay", "Amazon Pay"},
	{"whatsapp pay", "WhatsApp Pay"},
}

// fallbackExtract is the deterministic extraction path. It segments the
// normalized text into candidate blocks, extracts fields per block with
// independent heuristics, and keeps only blocks whose amount passes the
// plausibility range. It never fails: unmatched fields default to empty and
// an input with no valid blocks yields the sentinel result.
func fallbackExtract(normalized, rawText string, now time.Time) Result {
	blocks := segmentBlocks(normalized)

	txs := make([]Transaction, 0, len(blocks))
	for _, block := range blocks {
		if tx, ok := extractBlock(block, now); ok {
			txs = append(txs, tx)
		}
	}

	switch len(txs) {
	case 0:
		return sentinelResult(rawText)
	case 1:
		return singleResult(txs[0])
	default:
		return Result{Transactions: txs, Multiple: true}
	}
}

// segmentBlocks splits the text before every block keyword, keyword attached
// to the following block. The first keyword's block absorbs any text before
// it (an amount often precedes the verb, as in "₹1,200.00 received from ...");
// with no keyword at all the whole text is the single candidate. Blocks
// shorter than minBlockLen after trimming are noise.
func segmentBlocks(text string) []string {
	locs := blockKeywordRe.FindAllStringIndex(text, -1)

	var pieces []string
	prev := 0
	for i, loc := range locs {
		if i == 0 || loc[0] <= prev {
			continue
		}
		pieces = append(pieces, text[prev:loc[0]])
		prev = loc[0]
	}
	pieces = append(pieces, text[prev:])

	blocks := make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if len(p) >= minBlockLen {
			blocks = append(blocks, p)
		}
	}
	return blocks
}

// extractBlock runs the per-field extractors over one block. The block is
// rejected (ok=false) only when no amount in the valid range is found.
func extractBlock(block string, now time.Time) (Transaction, bool) {
	amount, ok := extractAmount(block)
	if !ok {
		return Transaction{}, false
	}

	return Transaction{
		Type:         extractType(block),
		Amount:       amount,
		Counterparty: extractCounterparty(block),
		VPA:          extractVPA(block),
		ReferenceNo:  extractReference(block),
		Source:       extractSource(block),
		Timestamp:    now.Truncate(time.Minute),
		RawText:      block,
	}, true
}

// extractAmount collects every currency-adjacent number in the block and
// returns the maximum candidate inside [MinAmount, MaxAmount]. Taking the
// maximum discards incidental small numbers (dates, counts) that happen to
// sit next to a currency marker.
func extractAmount(block string) (float64, bool) {
	var candidates []float64

	for _, m := range amountPrefixRe.FindAllStringSubmatch(block, -1) {
		if v, err := parseAmount(m[1]); err == nil {
			candidates = append(candidates, v)
		}
	}
	for _, m := range amountSuffixRe.FindAllStringSubmatch(block, -1) {
		if v, err := parseAmount(m[1]); err == nil {
			candidates = append(candidates, v)
		}
	}

	best := 0.0
	found := false
	for _, v := range candidates {
		if v < MinAmount || v > MaxAmount {
			continue
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	return best, found
}

// parseAmount strips everything but digits and dots, then parses the rest as
// a decimal.
func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(nonAmountRe.ReplaceAllString(s, ""), 64)
}

// extractVPA returns the first virtual payment address in the block.
func extractVPA(block string) string {
	return vpaRe.FindString(block)
}

// extractReference returns the first 8-30 character uppercase/digit run.
func extractReference(block string) string {
	return refRe.FindString(block)
}

// extractCounterparty tries pattern (a) then pattern (b); first hit wins,
// default empty.
func extractCounterparty(block string) string {
	if m := counterpartyAfterRe.FindStringSubmatch(block); m != nil {
		if name := cleanName(m[1]); name != "" {
			return name
		}
	}
	if m := counterpartyBeforeRe.FindStringSubmatch(block); m != nil {
		if name := cleanName(m[1]); name != "" {
			return name
		}
	}
	return ""
}

// cleanName drops stopword tokens from a candidate name run.
func cleanName(s string) string {
	var kept []string
	for _, tok := range strings.Fields(s) {
		if counterpartyStopwords[strings.ToLower(tok)] {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// extractType classifies the block. The paid-class check deliberately runs
// before refund and pending: a block containing both "refund" and "paid"
// stays classified as paid.
func extractType(block string) TransactionType {
	low := strings.ToLower(block)
	switch {
	case strings.Contains(low, "paid") || strings.Contains(low, "sent") || strings.Contains(low, "debited"):
		return TypePaid
	case strings.Contains(low, "refund"):
		return TypeRefund
	case strings.Contains(low, "pending"):
		return TypePending
	default:
		return TypeReceived
	}
}

// extractSource matches the block against the app recognition table.
func extractSource(block string) string {
	low := strings.ToLower(block)
	for _, sp := range sourcePatterns {
		if strings.Contains(low, sp.pattern) {
			return sp.label
		}
	}
	return ""
}

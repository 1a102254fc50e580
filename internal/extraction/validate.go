package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are the formats accepted from the model, most specific
// first. Anything else falls back to the extraction time.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseModelReply validates the generation service's reply against the
// transaction wire contract and converts it into a Result. Only a strict
// parse of the full body counts: a bare object or a non-empty array of
// objects, nothing else. No fence-stripping or other repair is attempted; a
// model that wraps its reply in Markdown has failed the contract and the
// caller falls through to the deterministic extractor.
func parseModelReply(reply, rawText string, now time.Time) (Result, error) {
	var parsed interface{}
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return Result{}, fmt.Errorf("parseModelReply: unmarshal JSON: %w", err)
	}

	switch v := parsed.(type) {
	case map[string]interface{}:
		tx, err := mapWireTransaction(v, rawText, now)
		if err != nil {
			return Result{}, err
		}
		return singleResult(tx), nil

	case []interface{}:
		if len(v) == 0 {
			return Result{}, fmt.Errorf("parseModelReply: empty transaction array")
		}
		txs := make([]Transaction, 0, len(v))
		for i, item := range v {
			obj, ok := item.(map[string]interface{})
			if !ok {
				return Result{}, fmt.Errorf("parseModelReply: element %d is %T, want object", i, item)
			}
			tx, err := mapWireTransaction(obj, rawText, now)
			if err != nil {
				return Result{}, fmt.Errorf("transaction %d: %w", i, err)
			}
			txs = append(txs, tx)
		}
		return Result{Transactions: txs, Multiple: len(txs) > 1}, nil

	default:
		return Result{}, fmt.Errorf("parseModelReply: reply is %T, want object or array", parsed)
	}
}

// mapWireTransaction converts one wire object into a Transaction, enforcing
// the field shape, the type enum and the amount range.
func mapWireTransaction(obj map[string]interface{}, rawText string, now time.Time) (Transaction, error) {
	typeStr, err := getStringField(obj, "transaction_type", true)
	if err != nil {
		return Transaction{}, err
	}
	txType := TransactionType(strings.ToLower(strings.TrimSpace(typeStr)))
	if !validTypes[txType] {
		return Transaction{}, fmt.Errorf("invalid transaction_type %q", typeStr)
	}

	amount, err := getFloat64Field(obj, "amount", true)
	if err != nil {
		return Transaction{}, err
	}
	if amount < MinAmount || amount > MaxAmount {
		return Transaction{}, fmt.Errorf("amount %v outside [%d, %d]", amount, MinAmount, MaxAmount)
	}

	from, err := getStringField(obj, "from", false)
	if err != nil {
		return Transaction{}, err
	}
	vpa, err := getStringField(obj, "upi_id", false)
	if err != nil {
		return Transaction{}, err
	}
	refNo, err := getStringField(obj, "ref_no", false)
	if err != nil {
		return Transaction{}, err
	}
	source, err := getStringField(obj, "source", false)
	if err != nil {
		return Transaction{}, err
	}
	tsStr, err := getStringField(obj, "timestamp", false)
	if err != nil {
		return Transaction{}, err
	}
	blockText, err := getStringField(obj, "raw_text", false)
	if err != nil {
		return Transaction{}, err
	}
	if strings.TrimSpace(blockText) == "" {
		blockText = rawText
	}

	return Transaction{
		Type:         txType,
		Amount:       amount,
		Counterparty: strings.TrimSpace(from),
		VPA:          strings.TrimSpace(vpa),
		ReferenceNo:  strings.TrimSpace(refNo),
		Source:       strings.TrimSpace(source),
		Timestamp:    parseTimestamp(tsStr, now),
		RawText:      blockText,
	}, nil
}

// parseTimestamp tries the known layouts and defaults to the extraction time
// when the value is absent or undeterminable.
func parseTimestamp(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now
}

func getStringField(m map[string]interface{}, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return "", fmt.Errorf("missing required field %q", key)
		}
		return "", nil
	}
	switch val := v.(type) {
	case string:
		if required && strings.TrimSpace(val) == "" {
			return "", fmt.Errorf("required field %q is empty", key)
		}
		return val, nil
	case nil:
		if required {
			return "", fmt.Errorf("required field %q is null", key)
		}
		return "", nil
	default:
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
}

func getFloat64Field(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return 0, fmt.Errorf("missing required field %q", key)
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}

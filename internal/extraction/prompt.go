package extraction

import (
	"strings"
)

// buildPrompt renders the normalized text plus formatting instructions into a
// single prompt for the generation model. The model must reply with raw JSON
// in the transaction wire shape: one object for a single transaction, an
// array for several.
func buildPrompt(normalizedText string) string {
	var b strings.Builder

	b.WriteString("You are a parser for Indian UPI payment messages (SMS, app notifications, OCR text from screenshots).\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Extract ALL payment transactions from the text below.\n")
	b.WriteString("- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n")
	b.WriteString("- If the text describes exactly one transaction, output a single JSON object.\n")
	b.WriteString("- If it describes several, output a JSON array of objects in the order they appear.\n\n")

	b.WriteString("Each object must have these fields:\n")
	b.WriteString("- \"transaction_type\": one of \"received\", \"paid\", \"pending\", \"refund\"\n")
	b.WriteString("- \"amount\": number (rupees, no currency symbol)\n")
	b.WriteString("- \"from\": string, sender or receiver name, \"\" if unknown\n")
	b.WriteString("- \"upi_id\": string, the VPA like name@bank, \"\" if absent\n")
	b.WriteString("- \"ref_no\": string, UPI reference / transaction id, \"\" if absent\n")
	b.WriteString("- \"source\": string, the app or bank (e.g. \"Google Pay\", \"PhonePe\"), \"\" if unknown\n")
	b.WriteString("- \"timestamp\": string, ISO date-time if present in the text, \"\" otherwise\n")
	b.WriteString("- \"raw_text\": string, the part of the input this transaction came from\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- Never invent amounts; skip fragments without a clear rupee amount.\n")
	b.WriteString("- Return ONLY valid raw JSON.\n")
	b.WriteString("- Do NOT wrap the response in code fences.\n")
	b.WriteString("- Do NOT use ```json or any Markdown.\n\n")

	b.WriteString("Text:\n")
	b.WriteString(normalizedText)

	return b.String()
}

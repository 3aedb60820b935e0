package invoice

import (
	"encoding/base64"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ZATCA phase-1 TLV tags.
const (
	tagSellerName = 1
	tagVATNumber  = 2
	tagTimestamp  = 3
	tagTotal      = 4
	tagVATAmount  = 5
)

// QRPayload builds the ZATCA phase-1 QR content for an issued invoice:
// base64 over the concatenated TLV fields (tag byte, length byte, UTF-8
// value). Amounts are formatted with exactly two decimal places.
func QRPayload(sellerName, vatNumber string, issuedAt time.Time, total, vat decimal.Decimal) string {
	payload := tlv(tagSellerName, sellerName)
	payload = append(payload, tlv(tagVATNumber, vatNumber)...)
	payload = append(payload, tlv(tagTimestamp, issuedAt.UTC().Format(time.RFC3339))...)
	payload = append(payload, tlv(tagTotal, total.StringFixed(2))...)
	payload = append(payload, tlv(tagVATAmount, vat.StringFixed(2))...)

	return base64.StdEncoding.EncodeToString(payload)
}

// tlvMaxValueLen is the largest value a single-byte TLV length field can
// describe. Longer values are truncated on a rune boundary so the length
// byte always matches the emitted bytes.
const tlvMaxValueLen = 255

func tlv(tag byte, value string) []byte {
	raw := []byte(truncateUTF8(value, tlvMaxValueLen))
	out := make([]byte, 0, len(raw)+2)
	out = append(out, tag, byte(len(raw)))
	return append(out, raw...)
}

// truncateUTF8 cuts s to at most max bytes without splitting a multi-byte
// rune.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

package ledger

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The fullnode does not serve string metadata in one consistent shape: the
// same field can arrive as a plain JSON string, as a struct wrapping a byte
// vector, or as a bare byte array depending on how the object was created.
// The functions here normalize every shape at the boundary so nothing past
// this package ever sees the variants.

// DecodeText turns a raw field of unknown shape into plain text. It is total:
// absent or null input yields "" and no input shape produces an error.
func DecodeText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	// json.Unmarshal into []byte expects base64; wrapped byte vectors arrive
	// as plain JSON number arrays, so decode those by hand.
	var wrapper struct {
		Bytes  []json.Number `json:"bytes"`
		Fields *struct {
			Bytes []json.Number `json:"bytes"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil {
		if wrapper.Fields != nil && wrapper.Fields.Bytes != nil {
			return string(numbersToBytes(wrapper.Fields.Bytes))
		}
		if wrapper.Bytes != nil {
			return string(numbersToBytes(wrapper.Bytes))
		}
	}

	var arr []json.Number
	if err := json.Unmarshal(raw, &arr); err == nil {
		return string(numbersToBytes(arr))
	}

	// Anything else (numbers, booleans, unexpected objects) is stringified.
	var v interface{}
	if err := json.Unmarshal(raw, &v); err == nil {
		return fmt.Sprint(v)
	}
	return strings.Trim(string(raw), `"`)
}

// DecodeU64 decodes a numeric field the node may serve either as a JSON
// number or as a decimal string (u64 values are stringified to avoid
// precision loss in JavaScript clients). Absent input yields 0.
func DecodeU64(raw json.RawMessage) uint64 {
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, _ := strconv.ParseUint(s, 10, 64)
		return n
	}
	var n uint64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	return 0
}

// DecodeBool decodes a boolean field; absent input yields false.
func DecodeBool(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	return false
}

// DecodeAddress decodes an account identifier field. Casing is preserved;
// comparisons must use SameAddress because the ledger does not guarantee
// consistent casing.
func DecodeAddress(raw json.RawMessage) string {
	return DecodeText(raw)
}

// SameAddress reports whether two account identifiers refer to the same
// account, ignoring case.
func SameAddress(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}

func numbersToBytes(nums []json.Number) []byte {
	out := make([]byte, 0, len(nums))
	for _, n := range nums {
		v, err := strconv.ParseUint(n.String(), 10, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(v))
	}
	return out
}

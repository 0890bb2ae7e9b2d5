package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeTextShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain string", `"Cool Cat #12"`, "Cool Cat #12"},
		{"nested byte wrapper", `{"fields":{"bytes":[72,111,112,101]}}`, "Hope"},
		{"flat byte wrapper", `{"bytes":[72,105]}`, "Hi"},
		{"bare byte array", `[83,117,105]`, "Sui"},
		{"number", `42`, "42"},
		{"boolean", `true`, "true"},
		{"null", `null`, ""},
		{"empty string", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeText(json.RawMessage(tt.raw)))
		})
	}
}

func TestDecodeTextAbsentInput(t *testing.T) {
	assert.Equal(t, "", DecodeText(nil))
	assert.Equal(t, "", DecodeText(json.RawMessage{}))

	var obj ObjectData
	assert.Equal(t, "", DecodeText(obj.Field("missing")))
}

func TestDecodeTextNeverPanics(t *testing.T) {
	garbage := []string{
		`{`, `{"fields":12}`, `{"bytes":"not-an-array"}`, `[1,"x",3]`, `[[1]]`,
	}
	for _, raw := range garbage {
		assert.NotPanics(t, func() {
			DecodeText(json.RawMessage(raw))
		})
	}
}

func TestDecodeU64(t *testing.T) {
	assert.Equal(t, uint64(12340000000), DecodeU64(json.RawMessage(`"12340000000"`)))
	assert.Equal(t, uint64(7), DecodeU64(json.RawMessage(`7`)))
	assert.Equal(t, uint64(0), DecodeU64(nil))
	assert.Equal(t, uint64(0), DecodeU64(json.RawMessage(`null`)))
	assert.Equal(t, uint64(0), DecodeU64(json.RawMessage(`"not a number"`)))
}

func TestDecodeBool(t *testing.T) {
	assert.True(t, DecodeBool(json.RawMessage(`true`)))
	assert.False(t, DecodeBool(json.RawMessage(`false`)))
	assert.False(t, DecodeBool(nil))
	assert.False(t, DecodeBool(json.RawMessage(`"yes"`)))
}

func TestSameAddress(t *testing.T) {
	assert.True(t, SameAddress("0xAbC123", "0xabc123"))
	assert.False(t, SameAddress("0xabc", "0xdef"))
	assert.False(t, SameAddress("", ""))
}

func TestNestedFields(t *testing.T) {
	obj := ObjectData{
		Fields: map[string]json.RawMessage{
			"nft": json.RawMessage(`{"fields":{"name":"Painting"}}`),
			"bad": json.RawMessage(`"just a string"`),
		},
	}

	nested := obj.NestedFields("nft")
	assert.Equal(t, "Painting", DecodeText(nested["name"]))

	assert.Nil(t, obj.NestedFields("bad"))
	assert.Nil(t, obj.NestedFields("missing"))
}

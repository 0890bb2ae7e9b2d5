package ledger

import "encoding/json"

// ObjectData is one on-chain object as returned by the fullnode, reduced to
// the parts the view-model layer consumes. Field values keep their raw JSON
// encoding until they pass through the decoder.
type ObjectData struct {
	ObjectID string
	Type     string
	Fields   map[string]json.RawMessage
}

// Field returns the raw value for a field name, or nil if absent.
func (o *ObjectData) Field(name string) json.RawMessage {
	if o == nil || o.Fields == nil {
		return nil
	}
	return o.Fields[name]
}

// NestedFields unwraps a nested object field ({"fields": {...}}), returning
// nil when the field is absent or not an object. Used for embedded structs
// like the NFT carried inside an auction.
func (o *ObjectData) NestedFields(name string) map[string]json.RawMessage {
	raw := o.Field(name)
	if len(raw) == 0 {
		return nil
	}
	var wrapper struct {
		Fields map[string]json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil
	}
	return wrapper.Fields
}

// EventRecord is one entry from the ledger's append-only event log.
type EventRecord struct {
	TxDigest    string
	Type        string
	TimestampMs int64
	ParsedJSON  map[string]json.RawMessage
}

// EventField returns the raw value for a parsed-event field, or nil if absent.
func (e *EventRecord) EventField(name string) json.RawMessage {
	if e == nil || e.ParsedJSON == nil {
		return nil
	}
	return e.ParsedJSON[name]
}

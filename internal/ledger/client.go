package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Reader is the read side of the ledger: objects, events, balances. The view
// model layer is written against this interface so tests can swap in fakes.
type Reader interface {
	GetObject(ctx context.Context, id string) (*ObjectData, error)
	MultiGetObjects(ctx context.Context, ids []string) ([]ObjectData, error)
	QueryEvents(ctx context.Context, eventType string, limit int) ([]EventRecord, error)
	GetBalance(ctx context.Context, owner string) (uint64, error)
	GetOwnedObjects(ctx context.Context, owner, structType string) ([]ObjectData, error)
	WaitForTransaction(ctx context.Context, digest string) error
}

// Submitter is the write side: pre-signed transaction submission.
type Submitter interface {
	ExecuteTransaction(ctx context.Context, txBytes string, signatures []string) (string, error)
}

// Client talks JSON-RPC to a fullnode.
type Client struct {
	rpcURL     string
	httpClient *http.Client
	log        *logrus.Entry
}

var _ Reader = (*Client)(nil)
var _ Submitter = (*Client)(nil)

// rpcRequest represents a JSON-RPC request
type rpcRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC response
type rpcResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC error
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// NewClient creates a new ledger client
func NewClient(rpcURL string, logger *logrus.Logger) *Client {
	return &Client{
		rpcURL: rpcURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logger.WithField("component", "ledger"),
	}
}

// rpcCall makes a JSON-RPC call to the fullnode and unmarshals the result.
func (c *Client) rpcCall(ctx context.Context, method string, params []interface{}, result interface{}) error {
	payload, err := json.Marshal(rpcRequest{
		Jsonrpc: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rpc call %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read rpc response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc call %s returned status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("failed to decode rpc response: %w", err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}

// objectResponse mirrors the fullnode's object envelope.
type objectResponse struct {
	Data *struct {
		ObjectID string `json:"objectId"`
		Content  *struct {
			DataType string                     `json:"dataType"`
			Type     string                     `json:"type"`
			Fields   map[string]json.RawMessage `json:"fields"`
		} `json:"content"`
	} `json:"data"`
	Error json.RawMessage `json:"error,omitempty"`
}

func (r *objectResponse) toObjectData() *ObjectData {
	if r.Data == nil || r.Data.Content == nil {
		return nil
	}
	return &ObjectData{
		ObjectID: r.Data.ObjectID,
		Type:     r.Data.Content.Type,
		Fields:   r.Data.Content.Fields,
	}
}

var showContent = map[string]interface{}{"showContent": true}

// GetObject fetches a single object with its content.
func (c *Client) GetObject(ctx context.Context, id string) (*ObjectData, error) {
	var resp objectResponse
	if err := c.rpcCall(ctx, "sui_getObject", []interface{}{id, showContent}, &resp); err != nil {
		return nil, err
	}
	obj := resp.toObjectData()
	if obj == nil {
		return nil, fmt.Errorf("object %s has no content", id)
	}
	return obj, nil
}

// MultiGetObjects fetches a batch of objects with their content. Entries that
// came back without content (deleted or pruned objects) are dropped; callers
// get the rest of the batch.
func (c *Client) MultiGetObjects(ctx context.Context, ids []string) ([]ObjectData, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var resp []objectResponse
	if err := c.rpcCall(ctx, "sui_multiGetObjects", []interface{}{ids, showContent}, &resp); err != nil {
		return nil, err
	}
	objects := make([]ObjectData, 0, len(resp))
	for _, entry := range resp {
		if obj := entry.toObjectData(); obj != nil {
			objects = append(objects, *obj)
		}
	}
	return objects, nil
}

// QueryEvents returns up to limit events of the given type, newest first.
func (c *Client) QueryEvents(ctx context.Context, eventType string, limit int) ([]EventRecord, error) {
	params := []interface{}{
		map[string]interface{}{"MoveEventType": eventType},
		nil, // cursor
		limit,
		true, // descending
	}
	var resp struct {
		Data []struct {
			ID struct {
				TxDigest string `json:"txDigest"`
			} `json:"id"`
			Type        string                     `json:"type"`
			ParsedJSON  map[string]json.RawMessage `json:"parsedJson"`
			TimestampMs string                     `json:"timestampMs"`
		} `json:"data"`
	}
	if err := c.rpcCall(ctx, "suix_queryEvents", params, &resp); err != nil {
		return nil, err
	}
	events := make([]EventRecord, 0, len(resp.Data))
	for _, ev := range resp.Data {
		events = append(events, EventRecord{
			TxDigest:    ev.ID.TxDigest,
			Type:        ev.Type,
			TimestampMs: parseInt64(ev.TimestampMs),
			ParsedJSON:  ev.ParsedJSON,
		})
	}
	return events, nil
}

// GetBalance returns the owner's native-coin balance in smallest units.
func (c *Client) GetBalance(ctx context.Context, owner string) (uint64, error) {
	var resp struct {
		TotalBalance string `json:"totalBalance"`
	}
	if err := c.rpcCall(ctx, "suix_getBalance", []interface{}{owner}, &resp); err != nil {
		return 0, err
	}
	balance, err := strconv.ParseUint(resp.TotalBalance, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed balance %q for %s: %w", resp.TotalBalance, owner, err)
	}
	return balance, nil
}

// GetOwnedObjects returns the owner's objects of one struct type.
func (c *Client) GetOwnedObjects(ctx context.Context, owner, structType string) ([]ObjectData, error) {
	params := []interface{}{
		owner,
		map[string]interface{}{
			"filter":  map[string]interface{}{"StructType": structType},
			"options": showContent,
		},
	}
	var resp struct {
		Data []objectResponse `json:"data"`
	}
	if err := c.rpcCall(ctx, "suix_getOwnedObjects", params, &resp); err != nil {
		return nil, err
	}
	objects := make([]ObjectData, 0, len(resp.Data))
	for _, entry := range resp.Data {
		if obj := entry.toObjectData(); obj != nil {
			objects = append(objects, *obj)
		}
	}
	return objects, nil
}

// WaitForTransaction polls until the digest is visible on the node, so a
// read issued afterwards cannot race the write it is meant to observe.
// The caller bounds the wait through ctx.
func (c *Client) WaitForTransaction(ctx context.Context, digest string) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		err := c.rpcCall(ctx, "sui_getTransactionBlock", []interface{}{digest, map[string]interface{}{}}, nil)
		if err == nil {
			return nil
		}
		c.log.WithField("digest", digest).Debugf("transaction not yet visible: %v", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for transaction %s: %w", digest, ctx.Err())
		case <-ticker.C:
		}
	}
}

// ExecuteTransaction submits pre-signed transaction bytes and returns the
// resulting digest. Signing stays with the caller's wallet; the service never
// holds user keys.
func (c *Client) ExecuteTransaction(ctx context.Context, txBytes string, signatures []string) (string, error) {
	params := []interface{}{
		txBytes,
		signatures,
		map[string]interface{}{"showEffects": true},
		"WaitForLocalExecution",
	}
	var resp struct {
		Digest string `json:"digest"`
	}
	if err := c.rpcCall(ctx, "sui_executeTransactionBlock", params, &resp); err != nil {
		return "", err
	}
	if resp.Digest == "" {
		return "", fmt.Errorf("ledger accepted transaction but returned no digest")
	}
	return resp.Digest, nil
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

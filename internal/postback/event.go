package postback

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Params is the flattened raw parameter set of one inbound postback,
// regardless of whether it arrived via query string, JSON body, or form body.
type Params map[string]string

// Networks are inconsistent about field names; each canonical field has an
// ordered alias list and the first non-empty value wins.
var (
	subjectAliases     = []string{"subid", "sub_id", "sub1", "uid", "email", "key", "pubkey"}
	offerIDAliases     = []string{"offer_id", "offerid", "campaign_id", "offer"}
	transactionAliases = []string{"tx_id", "transaction", "txid"}
	payoutAliases      = []string{"payout"}
)

// Event is the normalized form of one postback delivery.
type Event struct {
	Subject string
	OfferID string
	TxID    string
	Payout  *decimal.Decimal
	Raw     Params
}

const maxBodyBytes = 64 << 10

// ParamsFromRequest flattens an inbound request into Params. Query string
// parameters take priority over body fields of the same name. A JSON object
// body is accepted, as is a form-encoded one; a raw body that merely looks
// form-encoded (contains "=") is decoded the same way.
func ParamsFromRequest(r *http.Request) (Params, error) {
	params := Params{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	if r.Body == nil || r.Method == http.MethodGet {
		return params, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return params, nil
	}

	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "application/json"):
		mergeJSONBody(params, body)
	default:
		if strings.Contains(string(body), "=") {
			mergeFormBody(params, string(body))
		}
	}
	return params, nil
}

func mergeJSONBody(params Params, body []byte) {
	decoder := json.NewDecoder(strings.NewReader(string(body)))
	decoder.UseNumber()
	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return
	}
	for key, value := range fields {
		if _, exists := params[key]; exists {
			continue
		}
		if s, ok := stringifyField(value); ok {
			params[key] = s
		}
	}
}

func mergeFormBody(params Params, body string) {
	values, err := url.ParseQuery(body)
	if err != nil {
		return
	}
	for key, vals := range values {
		if _, exists := params[key]; exists {
			continue
		}
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
}

func stringifyField(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	case nil:
		return "", false
	default:
		return "", false
	}
}

// Normalize resolves the alias tables against raw params and produces an
// Event. Values are trimmed; empty strings count as absent. A non-numeric
// payout is dropped rather than rejected.
func Normalize(raw Params) Event {
	ev := Event{
		Subject: firstNonEmpty(raw, subjectAliases),
		OfferID: firstNonEmpty(raw, offerIDAliases),
		TxID:    firstNonEmpty(raw, transactionAliases),
		Raw:     raw,
	}
	if payout := firstNonEmpty(raw, payoutAliases); payout != "" {
		if amount, err := decimal.NewFromString(payout); err == nil {
			ev.Payout = &amount
		}
	}
	return ev
}

func firstNonEmpty(raw Params, keys []string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(raw[key]); value != "" {
			return value
		}
	}
	return ""
}

// JSON renders the raw parameter set for jsonb storage. Key order follows
// encoding/json map ordering, not arrival order.
func (p Params) JSON() json.RawMessage {
	if len(p) == 0 {
		return json.RawMessage(`{}`)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}

package postback

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNormalize_SubjectAliases(t *testing.T) {
	for _, alias := range []string{"subid", "sub_id", "sub1", "uid", "email", "key", "pubkey"} {
		ev := Normalize(Params{alias: "a@b.com"})
		if ev.Subject != "a@b.com" {
			t.Fatalf("alias %s: got subject %q", alias, ev.Subject)
		}
	}
}

func TestNormalize_AliasPriority(t *testing.T) {
	ev := Normalize(Params{
		"email":   "second@b.com",
		"subid":   "first@b.com",
		"offer":   "low",
		"offerid": "high",
	})
	if ev.Subject != "first@b.com" {
		t.Fatalf("expected subid to win, got %q", ev.Subject)
	}
	if ev.OfferID != "high" {
		t.Fatalf("expected offerid to win over offer, got %q", ev.OfferID)
	}
}

func TestNormalize_TrimsAndSkipsEmpty(t *testing.T) {
	ev := Normalize(Params{
		"subid": "  ",
		"uid":   " user-1 ",
		"tx_id": "",
		"txid":  "T9",
	})
	if ev.Subject != "user-1" {
		t.Fatalf("expected trimmed fallback alias, got %q", ev.Subject)
	}
	if ev.TxID != "T9" {
		t.Fatalf("expected empty tx_id to be skipped, got %q", ev.TxID)
	}
}

func TestNormalize_Payout(t *testing.T) {
	ev := Normalize(Params{"subid": "u", "payout": "1.50"})
	if ev.Payout == nil || ev.Payout.String() != "1.5" {
		t.Fatalf("expected payout 1.5, got %v", ev.Payout)
	}

	ev = Normalize(Params{"subid": "u", "payout": "free"})
	if ev.Payout != nil {
		t.Fatalf("expected non-numeric payout to be dropped, got %v", ev.Payout)
	}
}

func TestParamsFromRequest_QueryWinsOverBody(t *testing.T) {
	body := strings.NewReader(`{"subid":"body@b.com","payout":2.5}`)
	req := httptest.NewRequest("POST", "/postback?subid=query@b.com", body)
	req.Header.Set("Content-Type", "application/json")

	params, err := ParamsFromRequest(req)
	if err != nil {
		t.Fatalf("parse request: %v", err)
	}
	if params["subid"] != "query@b.com" {
		t.Fatalf("expected query precedence, got %q", params["subid"])
	}
	if params["payout"] != "2.5" {
		t.Fatalf("expected json number as string, got %q", params["payout"])
	}
}

func TestParamsFromRequest_FormBody(t *testing.T) {
	body := strings.NewReader("subid=form%40b.com&offer_id=42")
	req := httptest.NewRequest("POST", "/postback", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	params, err := ParamsFromRequest(req)
	if err != nil {
		t.Fatalf("parse request: %v", err)
	}
	if params["subid"] != "form@b.com" || params["offer_id"] != "42" {
		t.Fatalf("unexpected params: %v", params)
	}
}

func TestParamsFromRequest_RawBodyDecodedAsForm(t *testing.T) {
	body := strings.NewReader("subid=raw&tx_id=T1")
	req := httptest.NewRequest("POST", "/postback", body)

	params, err := ParamsFromRequest(req)
	if err != nil {
		t.Fatalf("parse request: %v", err)
	}
	if params["tx_id"] != "T1" {
		t.Fatalf("expected raw body decoded as form, got %v", params)
	}
}

func TestParamsJSON(t *testing.T) {
	if got := string(Params(nil).JSON()); got != "{}" {
		t.Fatalf("expected empty object, got %s", got)
	}
	if got := string(Params{"a": "1"}.JSON()); got != `{"a":"1"}` {
		t.Fatalf("unexpected json: %s", got)
	}
}

package postback

import (
	"strings"
	"testing"
	"time"
)

func TestDedupKey_TransactionIDWins(t *testing.T) {
	ev := Event{Subject: "a@b.com", OfferID: "42", TxID: "T1"}
	key := DedupKey(ev, time.Now(), time.Hour)
	if key != "T1" {
		t.Fatalf("expected transaction id key, got %q", key)
	}
}

func TestDedupKey_SubjectOfferFallback(t *testing.T) {
	ev := Event{Subject: "a@b.com", OfferID: "42"}
	key := DedupKey(ev, time.Now(), time.Hour)
	if key != "a%40b%2Ecom_42" {
		t.Fatalf("unexpected fallback key %q", key)
	}
}

func TestDedupKey_TimeBucketFallback(t *testing.T) {
	ev := Event{Subject: "a@b.com"}
	now := time.Date(2025, 9, 2, 10, 42, 17, 0, time.UTC)
	key := DedupKey(ev, now, time.Hour)
	other := DedupKey(ev, now.Add(10*time.Minute), time.Hour)
	if key != other {
		t.Fatalf("keys within one bucket differ: %q vs %q", key, other)
	}
	next := DedupKey(ev, now.Add(time.Hour), time.Hour)
	if key == next {
		t.Fatalf("keys across buckets should differ")
	}
}

func TestDedupKey_UnderscoreInValuesStaysUnambiguous(t *testing.T) {
	now := time.Now()
	first := DedupKey(Event{Subject: "a_b", OfferID: "c"}, now, time.Hour)
	second := DedupKey(Event{Subject: "a", OfferID: "b_c"}, now, time.Hour)
	if first == second {
		t.Fatalf("distinct subject/offer pairs derived the same key %q", first)
	}
	if first != "a%5Fb_c" {
		t.Fatalf("unexpected escaped key %q", first)
	}
}

func TestDedupKey_Deterministic(t *testing.T) {
	ev := Event{Subject: "user one", OfferID: "off.er/42", TxID: ""}
	now := time.Now()
	first := DedupKey(ev, now, time.Hour)
	second := DedupKey(ev, now, time.Hour)
	if first != second {
		t.Fatalf("derivation is not deterministic: %q vs %q", first, second)
	}
	if strings.ContainsAny(first, "./ ") {
		t.Fatalf("key contains reserved characters: %q", first)
	}
}

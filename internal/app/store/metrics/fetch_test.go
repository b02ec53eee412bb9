package metricsstore

import (
	"context"
	"errors"
	"testing"
)

func TestFetch_PartialFailure(t *testing.T) {
	boom := errors.New("server selection timeout")
	counters := []counter{
		{"ok", "OK", func(context.Context) (int64, error) { return 7, nil }},
		{"broken", "Broken", func(context.Context) (int64, error) { return 0, boom }},
	}

	cards, err := fetch(context.Background(), counters)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if len(cards) != 2 || cards[0].Value != 7 || cards[1].Value != 0 {
		t.Errorf("cards = %+v", cards)
	}
	if cards[1].Key != "broken" || cards[1].Label != "Broken" {
		t.Errorf("failed card lost its identity: %+v", cards[1])
	}
}

func TestFetch_AllSucceed(t *testing.T) {
	counters := []counter{
		{"a", "A", func(context.Context) (int64, error) { return 1, nil }},
		{"b", "B", func(context.Context) (int64, error) { return 2, nil }},
	}
	cards, err := fetch(context.Background(), counters)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if cards[0].Value != 1 || cards[1].Value != 2 {
		t.Errorf("cards = %+v", cards)
	}
}

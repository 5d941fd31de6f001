package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyJSONUsesTwoDecimals(t *testing.T) {
	raw, err := json.Marshal(NewMoneyFromDecimal(decimal.RequireFromString("12.345")))
	if err != nil {
		t.Fatalf("marshal money failed: %v", err)
	}
	if string(raw) != `"12.35"` {
		t.Fatalf("unexpected money json: %s", raw)
	}
}

func TestMoneyUnmarshalAcceptsStringAndNumber(t *testing.T) {
	var fromString, fromNumber Money
	if err := json.Unmarshal([]byte(`"250"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if err := json.Unmarshal([]byte(`199.999`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if fromString.String() != "250.00" || fromNumber.String() != "200.00" {
		t.Fatalf("unexpected values: %s %s", fromString, fromNumber)
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, ok := ParseOrderStatus(" Picked_Up ")
	if !ok || status != OrderStatusPickedUp {
		t.Fatalf("expected picked_up, got %q ok=%v", status, ok)
	}
	if _, ok := ParseOrderStatus("shipped"); ok {
		t.Fatalf("unknown status should not parse")
	}
	if !OrderStatusCancelled.IsTerminal() || OrderStatusReady.IsTerminal() {
		t.Fatalf("unexpected terminal flags")
	}
}

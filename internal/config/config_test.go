package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestDecodeDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Decode(v)
	if err != nil {
		t.Fatalf("decode defaults failed: %v", err)
	}
	if cfg.Order.FreeDeliveryThreshold != 199 {
		t.Fatalf("free delivery threshold want 199 got %v", cfg.Order.FreeDeliveryThreshold)
	}
	if cfg.Delivery.FallbackEarnings != 30 {
		t.Fatalf("fallback earnings want 30 got %v", cfg.Delivery.FallbackEarnings)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr())
	}
	if cfg.Queue.Queues["critical"] != 5 {
		t.Fatalf("unexpected queue weights: %+v", cfg.Queue.Queues)
	}
}

func TestDecodeFromYAML(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	raw := `
order:
  delivery_fee: 25
  free_delivery_threshold: 500
delivery:
  default_radius_km: 3
  max_radius_km: 10
`
	if err := v.ReadConfig(strings.NewReader(raw)); err != nil {
		t.Fatalf("read yaml failed: %v", err)
	}
	cfg, err := Decode(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Order.DeliveryFee != 25 || cfg.Order.FreeDeliveryThreshold != 500 {
		t.Fatalf("unexpected order config: %+v", cfg.Order)
	}
	if cfg.Delivery.DefaultRadiusKM != 3 {
		t.Fatalf("unexpected radius: %v", cfg.Delivery.DefaultRadiusKM)
	}
}

func TestValidateRejectsRadiusAboveMax(t *testing.T) {
	cfg := &Config{Delivery: DeliveryConfig{DefaultRadiusKM: 30, MaxRadiusKM: 10}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidateRejectsNegativeFee(t *testing.T) {
	cfg := &Config{Order: OrderConfig{DeliveryFee: -1}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

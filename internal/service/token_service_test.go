package service

import (
	"errors"
	"testing"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/config"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{SecretKey: "test-secret", ExpireHours: 2, Issuer: "orderwala"})
	token, expiresAt, err := svc.Generate(Actor{UserID: 8, Role: models.ActorVendor, VendorID: 3})
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if time.Until(expiresAt) <= time.Hour {
		t.Fatalf("unexpected expiry: %v", expiresAt)
	}
	actor, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if actor.UserID != 8 || actor.Role != models.ActorVendor || actor.VendorID != 3 {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestTokenServiceRejects(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1})
	if _, _, err := svc.Generate(Actor{UserID: 1, Role: models.ActorSystem}); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("system role token should be rejected, got %v", err)
	}
	if _, _, err := svc.Generate(Actor{Role: models.ActorCustomer}); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("missing user should be rejected, got %v", err)
	}

	token, _, err := svc.Generate(Actor{UserID: 4, Role: models.ActorCustomer})
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	other := NewTokenService(config.JWTConfig{SecretKey: "other-secret"})
	if _, err := other.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong secret should be rejected, got %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expired token should be rejected, got %v", err)
	}

	if _, err := svc.Parse("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("garbage token should be rejected, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
)

func seedDeliveredOrder(t *testing.T, env *testEnv, partnerID uint, status models.OrderStatus, deliveredAt time.Time, earnings int64) {
	t.Helper()
	var count int64
	env.db.Model(&models.Order{}).Count(&count)
	order := &models.Order{
		OrderNo:           fmt.Sprintf("SEED%04d", count+1),
		CustomerID:        7,
		VendorID:          env.vendor.ID,
		DeliveryPartnerID: &partnerID,
		Status:            status,
		PaymentMethod:     "cod",
		PaymentStatus:     models.PaymentStatusCompleted,
		DeliveryEarnings:  models.NewMoneyFromInt(earnings),
		DeliveredAt:       &deliveredAt,
	}
	if err := env.db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
}

func TestEarningsSummaryWindows(t *testing.T) {
	env := newTestEnv(t)
	now := time.Date(2026, 3, 15, 15, 0, 0, 0, time.UTC)
	env.earnings.now = func() time.Time { return now }
	env.earnings.location = time.UTC

	seedDeliveredOrder(t, env, 300, models.OrderStatusDelivered, time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC), 40)
	seedDeliveredOrder(t, env, 300, models.OrderStatusDelivered, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), 30)
	seedDeliveredOrder(t, env, 300, models.OrderStatusDelivered, time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC), 50)
	seedDeliveredOrder(t, env, 300, models.OrderStatusDelivered, time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC), 20)
	seedDeliveredOrder(t, env, 301, models.OrderStatusDelivered, time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC), 100)
	seedDeliveredOrder(t, env, 300, models.OrderStatusOnTheWay, time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC), 60)

	summary, err := env.earnings.Summary(context.Background(), partnerActor(300))
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	checks := []struct {
		name   string
		window EarningsWindow
		amount string
		count  int
	}{
		{"today", summary.Today, "40.00", 1},
		{"week", summary.Week, "70.00", 2},
		{"month", summary.Month, "120.00", 3},
		{"all time", summary.AllTime, "140.00", 4},
	}
	for _, check := range checks {
		if check.window.Earnings.String() != check.amount || check.window.Deliveries != check.count {
			t.Fatalf("%s: expected %s/%d, got %s/%d", check.name, check.amount, check.count, check.window.Earnings, check.window.Deliveries)
		}
	}
}

func TestDailyEarningsFillsEmptyDays(t *testing.T) {
	env := newTestEnv(t)
	now := time.Date(2026, 3, 15, 15, 0, 0, 0, time.UTC)
	env.earnings.now = func() time.Time { return now }
	env.earnings.location = time.UTC

	seedDeliveredOrder(t, env, 300, models.OrderStatusDelivered, time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC), 40)
	seedDeliveredOrder(t, env, 300, models.OrderStatusDelivered, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), 35)
	seedDeliveredOrder(t, env, 300, models.OrderStatusDelivered, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), 30)
	seedDeliveredOrder(t, env, 300, models.OrderStatusDelivered, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), 99)

	daily, err := env.earnings.Daily(context.Background(), partnerActor(300))
	if err != nil {
		t.Fatalf("daily failed: %v", err)
	}
	if len(daily) != 7 {
		t.Fatalf("expected 7 days, got %d", len(daily))
	}
	if daily[0].Date != "2026-03-09" || daily[6].Date != "2026-03-15" {
		t.Fatalf("unexpected date range: %s..%s", daily[0].Date, daily[6].Date)
	}
	if daily[6].Earnings.String() != "75.00" || daily[6].Deliveries != 2 {
		t.Fatalf("unexpected today bucket: %+v", daily[6])
	}
	if daily[5].Earnings.String() != "30.00" || daily[0].Earnings.String() != "0.00" {
		t.Fatalf("unexpected buckets: %+v", daily)
	}
}

func TestEarningsRequiresPartner(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.earnings.Summary(context.Background(), customerActor(7)); !errors.Is(err, ErrActorNotAllowed) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestEarningsAfterDeliveryFlow(t *testing.T) {
	env := newTestEnv(t)
	order := env.placeOrder(t, 7)
	env.deliverOrder(t, order.ID, 300)

	summary, err := env.earnings.Summary(context.Background(), partnerActor(300))
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.Today.Deliveries != 1 || summary.AllTime.Earnings.String() != "30.00" {
		t.Fatalf("unexpected summary after delivery: %+v", summary)
	}
}

package service

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/constants"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
)

func TestHaversineKM(t *testing.T) {
	// 孟买到浦那约 120 公里
	got := haversineKM(19.0760, 72.8777, 18.5204, 73.8567)
	if math.Abs(got-120) > 5 {
		t.Fatalf("unexpected distance: %.2f", got)
	}
	if haversineKM(10, 10, 10, 10) != 0 {
		t.Fatalf("same point should be zero")
	}
}

func TestConcurrentAcceptHasSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	order := env.placeOrder(t, 7)
	env.advanceTo(t, order.ID, models.OrderStatusReady)

	const partners = 4
	var wg sync.WaitGroup
	winners := make(chan uint, partners)
	conflicts := make(chan error, partners)
	for i := 0; i < partners; i++ {
		wg.Add(1)
		go func(partnerID uint) {
			defer wg.Done()
			accepted, err := env.delivery.Accept(partnerActor(partnerID), order.ID)
			if err != nil {
				conflicts <- err
				return
			}
			winners <- *accepted.DeliveryPartnerID
		}(uint(300 + i))
	}
	wg.Wait()
	close(winners)
	close(conflicts)

	var winnerIDs []uint
	for id := range winners {
		winnerIDs = append(winnerIDs, id)
	}
	if len(winnerIDs) != 1 {
		t.Fatalf("expected exactly one winner, got %v", winnerIDs)
	}
	for err := range conflicts {
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("losers should receive a conflict, got %v", err)
		}
	}

	stored, _ := env.orderRepo.GetByID(order.ID)
	if !stored.AssignedTo(winnerIDs[0]) || stored.AssignedAt == nil {
		t.Fatalf("stored order not assigned to winner")
	}
	if stored.Status != models.OrderStatusReady {
		t.Fatalf("accept must not change status, got %s", stored.Status)
	}
}

func TestAcceptRequiresReadyUnassignedOrder(t *testing.T) {
	env := newTestEnv(t)
	order := env.placeOrder(t, 7)

	if _, err := env.delivery.Accept(partnerActor(300), order.ID); !errors.Is(err, ErrOrderNotReady) {
		t.Fatalf("pending order cannot be accepted, got %v", err)
	}
	if _, err := env.delivery.Accept(partnerActor(300), 9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := env.delivery.Accept(customerActor(7), order.ID); !errors.Is(err, ErrActorNotAllowed) {
		t.Fatalf("customer cannot accept, got %v", err)
	}

	env.advanceTo(t, order.ID, models.OrderStatusReady)
	accepted, err := env.delivery.Accept(partnerActor(300), order.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.DeliveryEarnings.String() != "30.00" {
		t.Fatalf("free-delivery order should use fallback earnings, got %s", accepted.DeliveryEarnings)
	}
	if _, err := env.delivery.Accept(partnerActor(301), order.ID); !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("second accept should report already assigned, got %v", err)
	}

	events := env.notifier.snapshot()
	last := events[len(events)-1]
	if last.Type != constants.NotificationTypeOrder || last.UserID != 7 {
		t.Fatalf("unexpected assignment notification: %+v", last)
	}
}

func TestAcceptUsesDeliveryFeeAsEarnings(t *testing.T) {
	env := newTestEnv(t)
	order, err := env.orders.CreateOrder(CreateOrderInput{
		CustomerID:      7,
		VendorID:        env.vendor.ID,
		Items:           []CreateOrderItem{{ProductID: env.milk.ID, Quantity: 1}},
		DeliveryAddress: defaultAddress(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	env.advanceTo(t, order.ID, models.OrderStatusReady)
	accepted, err := env.delivery.Accept(partnerActor(300), order.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.DeliveryEarnings.String() != "40.00" {
		t.Fatalf("expected delivery fee as earnings, got %s", accepted.DeliveryEarnings)
	}
}

func TestAdvanceRequiresAssignedPartner(t *testing.T) {
	env := newTestEnv(t)
	order := env.placeOrder(t, 7)
	env.advanceTo(t, order.ID, models.OrderStatusReady)
	if _, err := env.delivery.Accept(partnerActor(300), order.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if _, err := env.delivery.Advance(partnerActor(301), order.ID, DeliveryActionPickup, ""); !errors.Is(err, ErrNotAssignedPartner) {
		t.Fatalf("other partner should be forbidden, got %v", err)
	}
	if _, err := env.delivery.Advance(partnerActor(300), order.ID, DeliveryActionDelivered, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cannot deliver before pickup, got %v", err)
	}
	if _, err := env.delivery.Advance(partnerActor(300), order.ID, "teleport", ""); !errors.Is(err, ErrDeliveryActionInvalid) {
		t.Fatalf("unknown action should be rejected, got %v", err)
	}
	picked, err := env.delivery.Perform(partnerActor(300), DeliveryActionInput{OrderID: order.ID, Action: DeliveryActionPickup})
	if err != nil || picked.Status != models.OrderStatusPickedUp || picked.PickedUpAt == nil {
		t.Fatalf("pickup failed: %v", err)
	}
}

func TestParseDeliveryAction(t *testing.T) {
	for _, raw := range []string{"accept", " PICKUP ", "on_the_way", "delivered"} {
		if _, ok := ParseDeliveryAction(raw); !ok {
			t.Fatalf("expected %q to parse", raw)
		}
	}
	if _, ok := ParseDeliveryAction("cancel"); ok {
		t.Fatalf("cancel is not a delivery action")
	}
}

func TestNearbyFiltersAndSortsByPickupDistance(t *testing.T) {
	env := newTestEnv(t)
	nearVendor := &models.Vendor{OwnerUserID: 501, Name: "Corner Store", Latitude: 19.1000, Longitude: 72.9000, IsActive: true}
	farVendor := &models.Vendor{OwnerUserID: 502, Name: "Pune Greens", Latitude: 18.5204, Longitude: 73.8567, IsActive: true}
	for _, vendor := range []*models.Vendor{nearVendor, farVendor} {
		if err := env.db.Create(vendor).Error; err != nil {
			t.Fatalf("create vendor failed: %v", err)
		}
	}
	nearProduct := env.createProduct(t, nearVendor.ID, "Eggs", 80, 10)
	farProduct := env.createProduct(t, farVendor.ID, "Grapes", 90, 10)

	place := func(vendorID, productID uint) *models.Order {
		order, err := env.orders.CreateOrder(CreateOrderInput{
			CustomerID:      7,
			VendorID:        vendorID,
			Items:           []CreateOrderItem{{ProductID: productID, Quantity: 1}},
			DeliveryAddress: defaultAddress(),
		})
		if err != nil {
			t.Fatalf("create order failed: %v", err)
		}
		return order
	}
	secondClosest := place(nearVendor.ID, nearProduct.ID)
	closest := place(env.vendor.ID, env.milk.ID)
	place(farVendor.ID, farProduct.ID)
	assigned := env.placeOrder(t, 8)
	env.advanceTo(t, assigned.ID, models.OrderStatusReady)
	if _, err := env.delivery.Accept(partnerActor(300), assigned.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	nearby, err := env.delivery.Nearby(NearbyQuery{Latitude: 19.0800, Longitude: 72.8800})
	if err != nil {
		t.Fatalf("nearby failed: %v", err)
	}
	if len(nearby) != 2 {
		t.Fatalf("expected 2 nearby orders, got %d: %+v", len(nearby), nearby)
	}
	if nearby[0].OrderID != closest.ID || nearby[1].OrderID != secondClosest.ID {
		t.Fatalf("unexpected order: %d, %d", nearby[0].OrderID, nearby[1].OrderID)
	}
	first := nearby[0]
	if first.PickupDistanceKM <= 0 || first.DeliveryDistanceKM <= 0 {
		t.Fatalf("expected distances to be computed: %+v", first)
	}
	if math.Abs(first.TotalDistanceKM-(first.PickupDistanceKM+first.DeliveryDistanceKM)) > 0.02 {
		t.Fatalf("total distance should be pickup + delivery: %+v", first)
	}
	if first.EstimatedEarnings.String() != "40.00" || first.VendorName != "Fresh Mart" {
		t.Fatalf("unexpected nearby details: %+v", first)
	}

	wide, err := env.delivery.Nearby(NearbyQuery{Latitude: 19.0800, Longitude: 72.8800, RadiusKM: 500})
	if err != nil {
		t.Fatalf("nearby failed: %v", err)
	}
	if len(wide) != 2 {
		t.Fatalf("radius should be clamped to the configured maximum, got %d orders", len(wide))
	}

	if _, err := env.delivery.Nearby(NearbyQuery{Latitude: 120, Longitude: 72}); !errors.Is(err, ErrLocationInvalid) {
		t.Fatalf("expected invalid location, got %v", err)
	}
}

func TestListAssignedOrders(t *testing.T) {
	env := newTestEnv(t)
	active := env.placeOrder(t, 7)
	env.advanceTo(t, active.ID, models.OrderStatusReady)
	if _, err := env.delivery.Accept(partnerActor(300), active.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	done := env.placeOrder(t, 7)
	env.deliverOrder(t, done.ID, 300)

	orders, total, err := env.delivery.ListAssigned(partnerActor(300), true, 1, 20)
	if err != nil || total != 1 || orders[0].ID != active.ID {
		t.Fatalf("expected only the active order, total=%d err=%v", total, err)
	}
	_, total, err = env.delivery.ListAssigned(partnerActor(300), false, 1, 20)
	if err != nil || total != 2 {
		t.Fatalf("expected both orders, total=%d err=%v", total, err)
	}
}

package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/constants"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/repository"
)

func TestMergeCreateOrderItems(t *testing.T) {
	merged, err := mergeCreateOrderItems([]CreateOrderItem{
		{ProductID: 2, Quantity: 1},
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if len(merged) != 2 || merged[0].ProductID != 2 || merged[0].Quantity != 4 || merged[1].ProductID != 1 {
		t.Fatalf("unexpected merged items: %+v", merged)
	}
	if _, err := mergeCreateOrderItems(nil); !errors.Is(err, ErrOrderItemsEmpty) {
		t.Fatalf("expected empty items error, got %v", err)
	}
	if _, err := mergeCreateOrderItems([]CreateOrderItem{{ProductID: 1, Quantity: 0}}); !errors.Is(err, ErrOrderItemInvalid) {
		t.Fatalf("expected invalid item error, got %v", err)
	}
}

func TestFormatOrderNo(t *testing.T) {
	if got := formatOrderNo(42); got != "OW00000042" {
		t.Fatalf("unexpected order no: %s", got)
	}
}

func TestCreateOrderAppliesPromoAndWaivesDeliveryFee(t *testing.T) {
	env := newTestEnv(t)
	promo := env.createPromo(t, &models.PromoCode{
		Code:          "SAVE10",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: models.NewMoneyFromInt(10),
		MaxDiscount:   models.NewMoneyFromInt(20),
		UsageLimit:    10,
	})

	order, err := env.orders.CreateOrder(CreateOrderInput{
		CustomerID: 7,
		VendorID:   env.vendor.ID,
		Items: []CreateOrderItem{
			{ProductID: env.apple.ID, Quantity: 2},
			{ProductID: env.milk.ID, Quantity: 1},
		},
		PaymentMethod:   "COD",
		PromoCode:       "save10",
		DeliveryAddress: defaultAddress(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Subtotal.String() != "250.00" || order.DeliveryFee.String() != "0.00" {
		t.Fatalf("unexpected subtotal/fee: %s/%s", order.Subtotal, order.DeliveryFee)
	}
	if order.Discount.String() != "20.00" || order.Total.String() != "230.00" {
		t.Fatalf("unexpected discount/total: %s/%s", order.Discount, order.Total)
	}
	if order.Status != models.OrderStatusPending || order.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("unexpected initial status: %s/%s", order.Status, order.PaymentStatus)
	}
	if order.PaymentMethod != constants.PaymentMethodCOD {
		t.Fatalf("expected normalized payment method, got %s", order.PaymentMethod)
	}
	if order.PromoCodeID == nil || *order.PromoCodeID != promo.ID || order.PromoCode != "SAVE10" {
		t.Fatalf("expected promo to be recorded on the order")
	}
	if order.OrderNo != "OW00000001" {
		t.Fatalf("unexpected order no: %s", order.OrderNo)
	}

	if got := env.stockOf(t, env.apple.ID); got != 8 {
		t.Fatalf("expected apple stock 8, got %d", got)
	}
	if got := env.stockOf(t, env.milk.ID); got != 4 {
		t.Fatalf("expected milk stock 4, got %d", got)
	}
	stored, _ := env.promoRepo.GetByCode("SAVE10")
	if stored.UsageCount != 1 {
		t.Fatalf("expected promo usage 1, got %d", stored.UsageCount)
	}

	full, err := env.orderRepo.GetByID(order.ID)
	if err != nil || full == nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if len(full.Items) != 2 || full.Items[0].Name != "Apple" || full.Items[0].LineTotal.String() != "200.00" {
		t.Fatalf("unexpected item snapshots: %+v", full.Items)
	}
	if len(full.StatusHistory) != 1 || full.StatusHistory[0].Status != models.OrderStatusPending {
		t.Fatalf("expected initial history entry, got %+v", full.StatusHistory)
	}

	events := env.notifier.snapshot()
	if len(events) != 1 || events[0].UserID != 7 || events[0].OrderReference != order.OrderNo {
		t.Fatalf("unexpected notifications: %+v", events)
	}
}

func TestCreateOrderChargesDeliveryFeeBelowThreshold(t *testing.T) {
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
	if order.DeliveryFee.String() != "40.00" || order.Total.String() != "90.00" {
		t.Fatalf("unexpected fee/total: %s/%s", order.DeliveryFee, order.Total)
	}
	if order.PaymentMethod != constants.PaymentMethodCOD {
		t.Fatalf("expected default payment method cod, got %s", order.PaymentMethod)
	}
}

func TestCreateOrderInsufficientStockLeavesStockUntouched(t *testing.T) {
	env := newTestEnv(t)
	scarce := env.createProduct(t, env.vendor.ID, "Saffron", 300, 1)

	_, err := env.orders.CreateOrder(CreateOrderInput{
		CustomerID: 7,
		VendorID:   env.vendor.ID,
		Items: []CreateOrderItem{
			{ProductID: env.apple.ID, Quantity: 1},
			{ProductID: scarce.ID, Quantity: 2},
		},
		DeliveryAddress: defaultAddress(),
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) || stockErr.ProductID != scarce.ID || stockErr.Available != 1 || stockErr.Requested != 2 {
		t.Fatalf("expected error naming the short product, got %+v", stockErr)
	}
	if stockErr.Error() != "Insufficient stock for Saffron: requested 2, available 1" {
		t.Fatalf("unexpected message: %s", stockErr.Error())
	}
	if got := env.stockOf(t, env.apple.ID); got != 10 {
		t.Fatalf("apple stock should be untouched, got %d", got)
	}
	if got := env.stockOf(t, scarce.ID); got != 1 {
		t.Fatalf("saffron stock should be untouched, got %d", got)
	}
	_, total, _ := env.orderRepo.List(repository.OrderListFilter{})
	if total != 0 {
		t.Fatalf("no order should be created, got %d", total)
	}
}

func TestCreateOrderMergesDuplicateItemsForStockCheck(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.orders.CreateOrder(CreateOrderInput{
		CustomerID: 7,
		VendorID:   env.vendor.ID,
		Items: []CreateOrderItem{
			{ProductID: env.milk.ID, Quantity: 3},
			{ProductID: env.milk.ID, Quantity: 3},
		},
		DeliveryAddress: defaultAddress(),
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected merged quantity to exceed stock, got %v", err)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	otherVendor := &models.Vendor{OwnerUserID: 501, Name: "Other", IsActive: true}
	if err := env.db.Create(otherVendor).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	foreign := env.createProduct(t, otherVendor.ID, "Bread", 40, 10)
	hidden := env.createProduct(t, env.vendor.ID, "Hidden", 40, 10)
	if err := env.db.Model(hidden).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	base := func() CreateOrderInput {
		return CreateOrderInput{
			CustomerID:      7,
			VendorID:        env.vendor.ID,
			Items:           []CreateOrderItem{{ProductID: env.apple.ID, Quantity: 1}},
			DeliveryAddress: defaultAddress(),
		}
	}
	cases := []struct {
		name   string
		mutate func(*CreateOrderInput)
		want   error
	}{
		{"missing vendor", func(in *CreateOrderInput) { in.VendorID = 9999 }, ErrVendorNotFound},
		{"empty items", func(in *CreateOrderInput) { in.Items = nil }, ErrOrderItemsEmpty},
		{"missing address", func(in *CreateOrderInput) { in.DeliveryAddress.Line = " " }, ErrDeliveryAddressEmpty},
		{"unknown product", func(in *CreateOrderInput) { in.Items[0].ProductID = 9999 }, ErrProductNotFound},
		{"product of another vendor", func(in *CreateOrderInput) { in.Items[0].ProductID = foreign.ID }, ErrProductVendorMismatch},
		{"inactive product", func(in *CreateOrderInput) { in.Items[0].ProductID = hidden.ID }, ErrProductNotAvailable},
		{"bad payment method", func(in *CreateOrderInput) { in.PaymentMethod = "barter" }, ErrPaymentMethodInvalid},
		{"unknown promo", func(in *CreateOrderInput) { in.PromoCode = "GHOST" }, ErrPromoNotFound},
		{"missing customer", func(in *CreateOrderInput) { in.CustomerID = 0 }, ErrActorNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := base()
			tc.mutate(&input)
			if _, err := env.orders.CreateOrder(input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if err := env.db.Model(env.vendor).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate vendor failed: %v", err)
	}
	if _, err := env.orders.CreateOrder(base()); !errors.Is(err, ErrVendorInactive) {
		t.Fatalf("expected inactive vendor error, got %v", err)
	}
}

func TestCreateOrderPromoUsageLimitEnforced(t *testing.T) {
	env := newTestEnv(t)
	env.createPromo(t, &models.PromoCode{
		Code:          "ONCE",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: models.NewMoneyFromInt(25),
		UsageLimit:    1,
	})
	input := CreateOrderInput{
		CustomerID:      7,
		VendorID:        env.vendor.ID,
		Items:           []CreateOrderItem{{ProductID: env.apple.ID, Quantity: 1}},
		PromoCode:       "ONCE",
		DeliveryAddress: defaultAddress(),
	}
	first, err := env.orders.CreateOrder(input)
	if err != nil {
		t.Fatalf("first order failed: %v", err)
	}
	if first.Discount.String() != "25.00" || first.Total.String() != "115.00" {
		t.Fatalf("unexpected discount/total: %s/%s", first.Discount, first.Total)
	}
	if _, err := env.orders.CreateOrder(input); !errors.Is(err, ErrPromoUsageLimit) {
		t.Fatalf("expected usage limit on second order, got %v", err)
	}
	if got := env.stockOf(t, env.apple.ID); got != 9 {
		t.Fatalf("rejected order must not consume stock, got %d", got)
	}
}

func TestCreateOrderFixedPromoNeverExceedsSubtotal(t *testing.T) {
	env := newTestEnv(t)
	env.createPromo(t, &models.PromoCode{
		Code:          "BIG300",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: models.NewMoneyFromInt(300),
	})
	order, err := env.orders.CreateOrder(CreateOrderInput{
		CustomerID:      7,
		VendorID:        env.vendor.ID,
		Items:           []CreateOrderItem{{ProductID: env.apple.ID, Quantity: 1}},
		PromoCode:       "BIG300",
		DeliveryAddress: defaultAddress(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	// 固定减免以小计为上限，配送费照收
	if order.Subtotal.String() != "100.00" || order.Discount.String() != "100.00" ||
		order.DeliveryFee.String() != "40.00" || order.Total.String() != "40.00" {
		t.Fatalf("unexpected amounts: subtotal=%s discount=%s fee=%s total=%s",
			order.Subtotal, order.Discount, order.DeliveryFee, order.Total)
	}
}

func TestPreviewOrderDoesNotMutate(t *testing.T) {
	env := newTestEnv(t)
	env.createPromo(t, &models.PromoCode{
		Code:          "SAVE10",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: models.NewMoneyFromInt(10),
		MaxDiscount:   models.NewMoneyFromInt(20),
	})
	preview, err := env.orders.PreviewOrder(CreateOrderInput{
		VendorID:        env.vendor.ID,
		Items:           []CreateOrderItem{{ProductID: env.apple.ID, Quantity: 2}, {ProductID: env.milk.ID, Quantity: 1}},
		PromoCode:       "SAVE10",
		DeliveryAddress: defaultAddress(),
	})
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if preview.Total.String() != "230.00" || preview.Promo == nil || len(preview.Items) != 2 {
		t.Fatalf("unexpected preview: %+v", preview)
	}
	if got := env.stockOf(t, env.apple.ID); got != 10 {
		t.Fatalf("preview must not reserve stock, got %d", got)
	}
	stored, _ := env.promoRepo.GetByCode("SAVE10")
	if stored.UsageCount != 0 {
		t.Fatalf("preview must not consume promo usage")
	}
}

func TestOrderNumbersAreSequential(t *testing.T) {
	env := newTestEnv(t)
	first := env.placeOrder(t, 7)
	second := env.placeOrder(t, 8)
	if first.OrderNo != "OW00000001" || second.OrderNo != "OW00000002" {
		t.Fatalf("unexpected order numbers: %s %s", first.OrderNo, second.OrderNo)
	}
}

func TestGetAndListOrdersRespectActorScope(t *testing.T) {
	env := newTestEnv(t)
	mine := env.placeOrder(t, 7)
	env.placeOrder(t, 8)

	if _, err := env.orders.GetOrder(customerActor(7), mine.ID); err != nil {
		t.Fatalf("owner should see order: %v", err)
	}
	if _, err := env.orders.GetOrder(customerActor(8), mine.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other customer should be forbidden, got %v", err)
	}
	if _, err := env.orders.GetOrder(adminActor(), 9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if got, err := env.orders.GetOrderByNo(vendorActor(env.vendor.ID), mine.OrderNo); err != nil || got.ID != mine.ID {
		t.Fatalf("vendor lookup by order no failed: %v", err)
	}

	orders, total, err := env.orders.ListOrders(customerActor(7), repository.OrderListFilter{Page: 1, PageSize: 10})
	if err != nil || total != 1 || len(orders) != 1 || orders[0].ID != mine.ID {
		t.Fatalf("customer list should only include own orders: total=%d err=%v", total, err)
	}
	_, total, err = env.orders.ListOrders(vendorActor(env.vendor.ID), repository.OrderListFilter{})
	if err != nil || total != 2 {
		t.Fatalf("vendor should see both orders: total=%d err=%v", total, err)
	}
	if _, _, err := env.orders.ListOrders(Actor{Role: models.ActorVendor}, repository.OrderListFilter{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("vendor without store should be rejected, got %v", err)
	}
}

// placeConcurrently 并发下单，返回成功订单与失败错误
func (env *testEnv) placeConcurrently(t *testing.T, n int, input CreateOrderInput) ([]*models.Order, []error) {
	t.Helper()
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		placed []*models.Order
		failed []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(customerID uint) {
			defer wg.Done()
			req := input
			req.CustomerID = customerID
			order, err := env.orders.CreateOrder(req)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, err)
				return
			}
			placed = append(placed, order)
		}(uint(100 + i))
	}
	wg.Wait()
	return placed, failed
}

func TestConcurrentCreateOrderNeverOversells(t *testing.T) {
	env := newTestEnv(t)
	rice := env.createProduct(t, env.vendor.ID, "Rice", 60, 5)

	placed, failed := env.placeConcurrently(t, 8, CreateOrderInput{
		VendorID:        env.vendor.ID,
		Items:           []CreateOrderItem{{ProductID: rice.ID, Quantity: 2}},
		DeliveryAddress: defaultAddress(),
	})
	if len(placed) != 2 || len(failed) != 6 {
		t.Fatalf("expected 2 placed and 6 failed, got %d/%d", len(placed), len(failed))
	}
	for _, err := range failed {
		if !errors.Is(err, ErrInsufficientStock) {
			t.Fatalf("losers should be short on stock, got %v", err)
		}
	}
	reserved := 0
	for _, order := range placed {
		for _, item := range order.Items {
			reserved += item.Quantity
		}
	}
	if got := env.stockOf(t, rice.ID); got != 1 || 5-got != reserved {
		t.Fatalf("stock %d does not match reserved quantity %d", got, reserved)
	}
	var count int64
	if err := env.db.Model(&models.Order{}).Count(&count).Error; err != nil || count != 2 {
		t.Fatalf("expected 2 stored orders, got %d err=%v", count, err)
	}
}

func TestConcurrentCreateOrderRespectsPromoLimit(t *testing.T) {
	env := newTestEnv(t)
	rice := env.createProduct(t, env.vendor.ID, "Rice", 60, 5)
	env.createPromo(t, &models.PromoCode{
		Code:          "LAST2",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: models.NewMoneyFromInt(10),
		UsageLimit:    2,
	})

	placed, failed := env.placeConcurrently(t, 12, CreateOrderInput{
		VendorID:        env.vendor.ID,
		Items:           []CreateOrderItem{{ProductID: rice.ID, Quantity: 1}},
		PromoCode:       "LAST2",
		DeliveryAddress: defaultAddress(),
	})
	if len(placed) != 2 || len(failed) != 10 {
		t.Fatalf("expected 2 placed and 10 failed, got %d/%d", len(placed), len(failed))
	}
	for _, err := range failed {
		if !errors.Is(err, ErrPromoUsageLimit) {
			t.Fatalf("losers should hit the usage limit, got %v", err)
		}
	}
	// 被拒订单的库存扣减随事务回滚
	if got := env.stockOf(t, rice.ID); got != 3 {
		t.Fatalf("expected stock 3, got %d", got)
	}
	promo, err := env.promoRepo.GetByCode("LAST2")
	if err != nil || promo == nil || promo.UsageCount != 2 {
		t.Fatalf("expected usage count 2, got %+v err=%v", promo, err)
	}
}

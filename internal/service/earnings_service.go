package service

import (
	"context"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/cache"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/logger"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	earningsScopeSummary = "summary"
	earningsScopeDaily   = "daily"
	dailyEarningsDays    = 7
)

var earningsCacheScopes = []string{earningsScopeSummary, earningsScopeDaily}

// EarningsWindow 单个时间窗口的收入
type EarningsWindow struct {
	Earnings   models.Money `json:"earnings"`
	Deliveries int          `json:"deliveries"`
}

// EarningsSummary 骑手收入汇总
type EarningsSummary struct {
	PartnerID uint           `json:"partner_id"`
	Today     EarningsWindow `json:"today"`
	Week      EarningsWindow `json:"week"`
	Month     EarningsWindow `json:"month"`
	AllTime   EarningsWindow `json:"all_time"`
}

// DailyEarnings 按日收入
type DailyEarnings struct {
	Date       string       `json:"date"`
	Earnings   models.Money `json:"earnings"`
	Deliveries int          `json:"deliveries"`
}

// EarningsService 骑手收入统计
type EarningsService struct {
	orderRepo repository.OrderRepository
	cacheTTL  time.Duration
	location  *time.Location
	now       func() time.Time
}

// NewEarningsService 创建收入统计服务
func NewEarningsService(orderRepo repository.OrderRepository, cacheTTL time.Duration) *EarningsService {
	return &EarningsService{
		orderRepo: orderRepo,
		cacheTTL:  cacheTTL,
		location:  time.Local,
		now:       time.Now,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type earningsAccumulator struct {
	total decimal.Decimal
	count int
}

func (a *earningsAccumulator) add(amount decimal.Decimal) {
	a.total = a.total.Add(amount)
	a.count++
}

func (a earningsAccumulator) window() EarningsWindow {
	return EarningsWindow{Earnings: models.NewMoneyFromDecimal(a.total), Deliveries: a.count}
}

// Summary 今日、近 7 天、近 1 个月与累计收入
func (s *EarningsService) Summary(ctx context.Context, partner Actor) (*EarningsSummary, error) {
	if partner.Role != models.ActorDelivery || partner.UserID == 0 {
		return nil, ErrActorNotAllowed
	}
	key := cache.PartnerEarningsKey(partner.UserID, earningsScopeSummary)
	var cached EarningsSummary
	if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	orders, err := s.orderRepo.ListDelivered(repository.DeliveredOrderFilter{PartnerID: partner.UserID})
	if err != nil {
		return nil, internalError("list delivered orders failed", err)
	}
	summary := summarizeEarnings(partner.UserID, orders, s.now().In(s.location))
	if err := cache.SetJSON(ctx, key, summary, s.cacheTTL); err != nil {
		logger.Warnw("partner_earnings_cache_set_failed", "partner_id", partner.UserID, "error", err)
	}
	return summary, nil
}

// Daily 近 7 个自然日的按日收入，按日期升序
func (s *EarningsService) Daily(ctx context.Context, partner Actor) ([]DailyEarnings, error) {
	if partner.Role != models.ActorDelivery || partner.UserID == 0 {
		return nil, ErrActorNotAllowed
	}
	key := cache.PartnerEarningsKey(partner.UserID, earningsScopeDaily)
	var cached []DailyEarnings
	if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	now := s.now().In(s.location)
	from := startOfDay(now).AddDate(0, 0, -(dailyEarningsDays - 1))
	orders, err := s.orderRepo.ListDelivered(repository.DeliveredOrderFilter{
		PartnerID:     partner.UserID,
		DeliveredFrom: &from,
	})
	if err != nil {
		return nil, internalError("list delivered orders failed", err)
	}
	daily := dailyEarnings(orders, now, dailyEarningsDays)
	if err := cache.SetJSON(ctx, key, daily, s.cacheTTL); err != nil {
		logger.Warnw("partner_earnings_cache_set_failed", "partner_id", partner.UserID, "error", err)
	}
	return daily, nil
}

// summarizeEarnings 按送达时间归入各窗口
func summarizeEarnings(partnerID uint, orders []models.Order, now time.Time) *EarningsSummary {
	today := startOfDay(now)
	weekFrom := now.AddDate(0, 0, -7)
	monthFrom := now.AddDate(0, -1, 0)

	var todayAcc, weekAcc, monthAcc, allAcc earningsAccumulator
	for _, order := range orders {
		if order.DeliveredAt == nil {
			continue
		}
		at := order.DeliveredAt.In(now.Location())
		amount := order.DeliveryEarnings.Decimal
		allAcc.add(amount)
		if !at.Before(monthFrom) {
			monthAcc.add(amount)
		}
		if !at.Before(weekFrom) {
			weekAcc.add(amount)
		}
		if !at.Before(today) {
			todayAcc.add(amount)
		}
	}
	return &EarningsSummary{
		PartnerID: partnerID,
		Today:     todayAcc.window(),
		Week:      weekAcc.window(),
		Month:     monthAcc.window(),
		AllTime:   allAcc.window(),
	}
}

// dailyEarnings 生成连续 days 天的明细，无收入的日期补零
func dailyEarnings(orders []models.Order, now time.Time, days int) []DailyEarnings {
	if days <= 0 {
		return []DailyEarnings{}
	}
	first := startOfDay(now).AddDate(0, 0, -(days - 1))
	buckets := make([]earningsAccumulator, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		index[first.AddDate(0, 0, i).Format("2006-01-02")] = i
	}
	for _, order := range orders {
		if order.DeliveredAt == nil {
			continue
		}
		idx, ok := index[order.DeliveredAt.In(now.Location()).Format("2006-01-02")]
		if !ok {
			continue
		}
		buckets[idx].add(order.DeliveryEarnings.Decimal)
	}
	result := make([]DailyEarnings, 0, days)
	for i := 0; i < days; i++ {
		window := buckets[i].window()
		result = append(result, DailyEarnings{
			Date:       first.AddDate(0, 0, i).Format("2006-01-02"),
			Earnings:   window.Earnings,
			Deliveries: window.Deliveries,
		})
	}
	return result
}

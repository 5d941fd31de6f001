package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/cache"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/constants"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/logger"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/repository"

	"gorm.io/gorm"
)

// RatingInput 订单评价输入
type RatingInput struct {
	OrderID          uint
	ProductRating    *int // 统一应用到全部商品
	ProductFeedback  string
	Items            []ProductRatingInput
	DeliveryRating   *int
	DeliveryFeedback string
}

// ProductRatingInput 单个商品评分
type ProductRatingInput struct {
	ProductID uint
	Rating    int
	Comment   string
}

// RatingResult 评价结果
type RatingResult struct {
	Order   *models.Order   `json:"order"`
	Reviews []models.Review `json:"reviews"`
}

// PartnerRating 骑手评分
type PartnerRating struct {
	PartnerID    uint    `json:"partner_id"`
	Average      float64 `json:"average"`
	TotalRatings int64   `json:"total_ratings"`
}

// RatingService 评分服务
type RatingService struct {
	orderRepo   repository.OrderRepository
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	vendorRepo  repository.VendorRepository
	cacheTTL    time.Duration
	now         func() time.Time
}

// NewRatingService 创建评分服务
func NewRatingService(
	orderRepo repository.OrderRepository,
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	vendorRepo repository.VendorRepository,
	cacheTTL time.Duration,
) *RatingService {
	return &RatingService{
		orderRepo:   orderRepo,
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		vendorRepo:  vendorRepo,
		cacheTTL:    cacheTTL,
		now:         time.Now,
	}
}

// clampRating 评分限制在 [1,5]
func clampRating(value int) int {
	if value < constants.RatingMin {
		return constants.RatingMin
	}
	if value > constants.RatingMax {
		return constants.RatingMax
	}
	return value
}

func roundAverage(value float64) float64 {
	return math.Round(value*100) / 100
}

// RecordRating 记录订单评价并刷新商品、商家评分聚合
func (s *RatingService) RecordRating(actor Actor, input RatingInput) (*RatingResult, error) {
	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, internalError("load order failed", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !actor.IsCustomerOf(order) {
		return nil, ErrOrderNotOwned
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, ErrOrderNotDelivered
	}

	ratings, err := collectProductRatings(order, input)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 && input.DeliveryRating == nil {
		return nil, ErrRatingEmpty
	}

	now := s.now()
	reviews := make([]models.Review, 0, len(ratings))
	for _, rating := range ratings {
		reviews = append(reviews, models.Review{
			UserID:    order.CustomerID,
			ProductID: rating.ProductID,
			VendorID:  order.VendorID,
			OrderID:   order.ID,
			Rating:    rating.Rating,
			Comment:   rating.Comment,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	updates := map[string]interface{}{"rated_at": now}
	if overall, ok := overallRating(input, ratings); ok {
		updates["rating"] = overall
		updates["review"] = strings.TrimSpace(input.ProductFeedback)
	}
	var deliveryRating *int
	if input.DeliveryRating != nil {
		value := clampRating(*input.DeliveryRating)
		deliveryRating = &value
		updates["delivery_rating"] = value
		updates["delivery_feedback"] = strings.TrimSpace(input.DeliveryFeedback)
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		reviewRepo := s.reviewRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		for i := range reviews {
			if err := reviewRepo.Upsert(&reviews[i]); err != nil {
				return err
			}
		}
		for _, review := range reviews {
			agg, err := reviewRepo.AggregateByProduct(review.ProductID)
			if err != nil {
				return err
			}
			agg.Average = roundAverage(agg.Average)
			if err := productRepo.UpdateRatingAggregate(review.ProductID, agg); err != nil {
				return err
			}
		}
		if len(reviews) > 0 {
			agg, err := reviewRepo.AggregateByVendor(order.VendorID)
			if err != nil {
				return err
			}
			agg.Average = roundAverage(agg.Average)
			if err := s.vendorRepo.WithTx(tx).UpdateRatingAggregate(order.VendorID, agg); err != nil {
				return err
			}
		}
		return s.orderRepo.WithTx(tx).UpdateRating(order.ID, updates)
	})
	if err != nil {
		logger.Errorw("order_rating_failed", "order_id", order.ID, "error", err)
		return nil, internalError("record rating failed", err)
	}

	if value, ok := updates["rating"].(int); ok {
		order.Rating = &value
		order.Review = updates["review"].(string)
	}
	if deliveryRating != nil {
		order.DeliveryRating = deliveryRating
		order.DeliveryFeedback = updates["delivery_feedback"].(string)
		if order.DeliveryPartnerID != nil {
			if err := cache.InvalidatePartnerRating(context.Background(), *order.DeliveryPartnerID); err != nil {
				logger.Warnw("partner_rating_cache_invalidate_failed", "partner_id", *order.DeliveryPartnerID, "error", err)
			}
		}
	}
	order.RatedAt = &now

	logger.Infow("order_rated",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"product_ratings", len(reviews),
		"delivery_rated", deliveryRating != nil,
	)
	return &RatingResult{Order: order, Reviews: reviews}, nil
}

// collectProductRatings 逐项评分优先，否则将整体评分应用到订单内全部商品
func collectProductRatings(order *models.Order, input RatingInput) ([]ProductRatingInput, error) {
	inOrder := make(map[uint]struct{}, len(order.Items))
	for _, item := range order.Items {
		inOrder[item.ProductID] = struct{}{}
	}

	if len(input.Items) > 0 {
		seen := make(map[uint]int, len(input.Items))
		out := make([]ProductRatingInput, 0, len(input.Items))
		for _, item := range input.Items {
			if _, ok := inOrder[item.ProductID]; !ok {
				return nil, ErrRatingItemInvalid
			}
			rating := ProductRatingInput{
				ProductID: item.ProductID,
				Rating:    clampRating(item.Rating),
				Comment:   strings.TrimSpace(item.Comment),
			}
			if idx, ok := seen[item.ProductID]; ok {
				out[idx] = rating
				continue
			}
			seen[item.ProductID] = len(out)
			out = append(out, rating)
		}
		return out, nil
	}

	if input.ProductRating == nil {
		return nil, nil
	}
	value := clampRating(*input.ProductRating)
	comment := strings.TrimSpace(input.ProductFeedback)
	out := make([]ProductRatingInput, 0, len(order.Items))
	seen := make(map[uint]struct{}, len(order.Items))
	for _, item := range order.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		out = append(out, ProductRatingInput{ProductID: item.ProductID, Rating: value, Comment: comment})
	}
	return out, nil
}

// overallRating 订单整体评分：显式给出时直接使用，否则取逐项评分的四舍五入均值
func overallRating(input RatingInput, ratings []ProductRatingInput) (int, bool) {
	if input.ProductRating != nil {
		return clampRating(*input.ProductRating), true
	}
	if len(ratings) == 0 {
		return 0, false
	}
	sum := 0
	for _, rating := range ratings {
		sum += rating.Rating
	}
	return clampRating(int(math.Round(float64(sum) / float64(len(ratings))))), true
}

// PartnerRating 骑手评分，由订单配送评分实时聚合并缓存
func (s *RatingService) PartnerRating(ctx context.Context, partnerID uint) (*PartnerRating, error) {
	if partnerID == 0 {
		return nil, ErrActorNotAllowed
	}
	if state, hit, err := cache.GetPartnerRating(ctx, partnerID); err == nil && hit {
		return &PartnerRating{PartnerID: partnerID, Average: state.Average, TotalRatings: state.TotalRatings}, nil
	}
	agg, err := s.orderRepo.AggregateDeliveryRating(partnerID)
	if err != nil {
		return nil, internalError("aggregate delivery rating failed", err)
	}
	rating := &PartnerRating{
		PartnerID:    partnerID,
		Average:      roundAverage(agg.Average),
		TotalRatings: agg.Count,
	}
	if err := cache.SetPartnerRating(ctx, &cache.PartnerRatingState{
		PartnerID:    partnerID,
		Average:      rating.Average,
		TotalRatings: rating.TotalRatings,
	}, s.cacheTTL); err != nil {
		logger.Warnw("partner_rating_cache_set_failed", "partner_id", partnerID, "error", err)
	}
	return rating, nil
}

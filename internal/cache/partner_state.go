package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/constants"
)

// PartnerRatingState 骑手评分快照
type PartnerRatingState struct {
	PartnerID    uint    `json:"partner_id"`
	Average      float64 `json:"average"`
	TotalRatings int64   `json:"total_ratings"`
	UpdatedAt    int64   `json:"updated_at"`
}

func partnerRatingKey(partnerID uint) string {
	return fmt.Sprintf("%s:%d", constants.CacheKeyPartnerRating, partnerID)
}

// PartnerEarningsKey 骑手收入缓存键，scope 区分汇总与按日明细
func PartnerEarningsKey(partnerID uint, scope string) string {
	return fmt.Sprintf("%s:%d:%s", constants.CacheKeyPartnerEarnings, partnerID, scope)
}

// GetPartnerRating 读取骑手评分快照
func GetPartnerRating(ctx context.Context, partnerID uint) (*PartnerRatingState, bool, error) {
	if partnerID == 0 {
		return nil, false, nil
	}
	var state PartnerRatingState
	hit, err := GetJSON(ctx, partnerRatingKey(partnerID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetPartnerRating 写入骑手评分快照
func SetPartnerRating(ctx context.Context, state *PartnerRatingState, ttl time.Duration) error {
	if state == nil || state.PartnerID == 0 || ttl <= 0 {
		return nil
	}
	if state.UpdatedAt == 0 {
		state.UpdatedAt = time.Now().Unix()
	}
	return SetJSON(ctx, partnerRatingKey(state.PartnerID), state, ttl)
}

// InvalidatePartnerRating 删除骑手评分快照
func InvalidatePartnerRating(ctx context.Context, partnerID uint) error {
	if partnerID == 0 {
		return nil
	}
	return Del(ctx, partnerRatingKey(partnerID))
}

// InvalidatePartnerEarnings 删除骑手收入缓存
func InvalidatePartnerEarnings(ctx context.Context, partnerID uint, scopes ...string) error {
	if partnerID == 0 || len(scopes) == 0 {
		return nil
	}
	keys := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		keys = append(keys, PartnerEarningsKey(partnerID, scope))
	}
	return Del(ctx, keys...)
}

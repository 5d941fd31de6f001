package service

import (
	"errors"
	"strings"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/config"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid 令牌无效
var ErrTokenInvalid = errors.New("token invalid")

// ActorClaims JWT 声明
type ActorClaims struct {
	UserID   uint   `json:"user_id"`
	Role     string `json:"role"`
	VendorID uint   `json:"vendor_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenService 签发与解析操作者令牌
type TokenService struct {
	cfg config.JWTConfig
	now func() time.Time
}

// NewTokenService 创建令牌服务
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{cfg: cfg, now: time.Now}
}

// Generate 生成 JWT Token
func (s *TokenService) Generate(actor Actor) (string, time.Time, error) {
	if actor.UserID == 0 || !isTokenRole(actor.Role) {
		return "", time.Time{}, ErrTokenInvalid
	}
	if actor.Role == models.ActorVendor && actor.VendorID == 0 {
		return "", time.Time{}, ErrTokenInvalid
	}
	if strings.TrimSpace(s.cfg.SecretKey) == "" {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}
	now := s.now()
	hours := s.cfg.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	expiresAt := now.Add(time.Duration(hours) * time.Hour)

	claims := ActorClaims{
		UserID:   actor.UserID,
		Role:     string(actor.Role),
		VendorID: actor.VendorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse 解析 JWT Token 并还原操作者
func (s *TokenService) Parse(tokenString string) (Actor, error) {
	if strings.TrimSpace(s.cfg.SecretKey) == "" {
		return Actor{}, ErrTokenInvalid
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		return Actor{}, errors.Join(ErrTokenInvalid, err)
	}
	claims, ok := token.Claims.(*ActorClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return Actor{}, ErrTokenInvalid
	}
	role := models.ActorRole(strings.ToLower(strings.TrimSpace(claims.Role)))
	if !isTokenRole(role) {
		return Actor{}, ErrTokenInvalid
	}
	actor := Actor{UserID: claims.UserID, Role: role}
	if role == models.ActorVendor {
		if claims.VendorID == 0 {
			return Actor{}, ErrTokenInvalid
		}
		actor.VendorID = claims.VendorID
	}
	return actor, nil
}

// 系统角色只在进程内使用，不签发令牌
func isTokenRole(role models.ActorRole) bool {
	switch role {
	case models.ActorCustomer, models.ActorVendor, models.ActorAdmin, models.ActorDelivery:
		return true
	}
	return false
}

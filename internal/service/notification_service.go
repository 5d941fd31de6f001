package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/cache"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/constants"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/logger"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/metrics"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/models"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/queue"
)

var notificationTemplateVarPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

const notificationDedupeTTL = 10 * time.Minute

// Notifier 通知事件发布接口
type Notifier interface {
	Publish(payload queue.NotificationPayload) error
}

// NotificationDispatcher 通知最终投递通道
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, payload queue.NotificationPayload) error
}

// LogNotificationDispatcher 以日志形式投递
type LogNotificationDispatcher struct{}

// Dispatch 写入结构化日志
func (LogNotificationDispatcher) Dispatch(_ context.Context, payload queue.NotificationPayload) error {
	logger.Infow("notification_dispatched",
		"user_id", payload.UserID,
		"type", payload.Type,
		"order_id", payload.OrderID,
		"order_reference", payload.OrderReference,
		"title", payload.Title,
		"message", payload.Message,
	)
	return nil
}

type notificationTemplate struct {
	Title string
	Body  string
}

// 订单状态通知文案
var orderStatusTemplates = map[models.OrderStatus]notificationTemplate{
	models.OrderStatusPending:   {Title: "Order placed", Body: "Your order {{order_no}} has been placed and is waiting for the store to confirm"},
	models.OrderStatusConfirmed: {Title: "Order confirmed", Body: "Your order {{order_no}} has been confirmed by the store"},
	models.OrderStatusPreparing: {Title: "Order being prepared", Body: "The store is preparing your order {{order_no}}"},
	models.OrderStatusReady:     {Title: "Order ready", Body: "Your order {{order_no}} is packed and waiting for pickup"},
	models.OrderStatusPickedUp:  {Title: "Order picked up", Body: "Your order {{order_no}} has been picked up"},
	models.OrderStatusOnTheWay:  {Title: "Order on the way", Body: "Your order {{order_no}} is on the way"},
	models.OrderStatusDelivered: {Title: "Order delivered", Body: "Your order {{order_no}} has been delivered"},
	models.OrderStatusCancelled: {Title: "Order cancelled", Body: "Your order {{order_no}} has been cancelled"},
}

var assignmentTemplate = notificationTemplate{
	Title: "Delivery partner assigned",
	Body:  "A delivery partner has accepted your order {{order_no}}",
}

// NotificationService 通知中心服务
type NotificationService struct {
	queueClient *queue.Client
	dispatcher  NotificationDispatcher
}

// NewNotificationService 创建通知中心服务
func NewNotificationService(queueClient *queue.Client, dispatcher NotificationDispatcher) *NotificationService {
	if dispatcher == nil {
		dispatcher = LogNotificationDispatcher{}
	}
	return &NotificationService{queueClient: queueClient, dispatcher: dispatcher}
}

// Publish 队列启用时入队，否则同步投递
func (s *NotificationService) Publish(payload queue.NotificationPayload) error {
	if s == nil {
		return nil
	}
	if err := validateNotification(payload); err != nil {
		return err
	}
	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueNotification(payload); err != nil {
			metrics.RecordNotification(payload.Type, "failed")
			return err
		}
		metrics.RecordNotification(payload.Type, "queued")
		return nil
	}
	metrics.RecordNotification(payload.Type, "inline")
	return s.Dispatch(context.Background(), payload)
}

// Dispatch 处理通知分发任务，重复投递会被去重
func (s *NotificationService) Dispatch(ctx context.Context, payload queue.NotificationPayload) error {
	if s == nil {
		return nil
	}
	if err := validateNotification(payload); err != nil {
		return err
	}
	acquired, err := cache.SetNX(ctx, buildNotificationDedupeKey(payload), "1", notificationDedupeTTL)
	if err != nil {
		logger.Warnw("notification_dedupe_failed", "order_id", payload.OrderID, "error", err)
	} else if !acquired {
		return nil
	}
	return s.dispatcher.Dispatch(ctx, payload)
}

func validateNotification(payload queue.NotificationPayload) error {
	if payload.UserID == 0 || strings.TrimSpace(payload.Type) == "" {
		return newError(KindValidation, "notification recipient and type are required")
	}
	return nil
}

func buildNotificationDedupeKey(payload queue.NotificationPayload) string {
	signature := fmt.Sprintf("%d|%s|%d|%s|%s",
		payload.UserID,
		strings.ToLower(strings.TrimSpace(payload.Type)),
		payload.OrderID,
		payload.Status,
		payload.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	hash := sha1.Sum([]byte(signature))
	return "notification:dedupe:" + hex.EncodeToString(hash[:])
}

func renderNotificationTemplate(template string, variables map[string]interface{}) string {
	template = strings.TrimSpace(template)
	if template == "" {
		return ""
	}
	return notificationTemplateVarPattern.ReplaceAllStringFunc(template, func(matched string) string {
		submatch := notificationTemplateVarPattern.FindStringSubmatch(matched)
		if len(submatch) != 2 {
			return matched
		}
		value, ok := variables[strings.TrimSpace(submatch[1])]
		if !ok {
			return ""
		}
		return strings.TrimSpace(fmt.Sprintf("%v", value))
	})
}

func orderTemplateVariables(order *models.Order) map[string]interface{} {
	return map[string]interface{}{
		"order_no": order.OrderNo,
		"status":   string(order.Status),
		"total":    order.Total.String(),
	}
}

// buildStatusNotification 订单状态变更通知
func buildStatusNotification(order *models.Order, now time.Time) queue.NotificationPayload {
	template := orderStatusTemplates[order.Status]
	variables := orderTemplateVariables(order)
	return queue.NotificationPayload{
		UserID:         order.CustomerID,
		Type:           constants.NotificationTypeOrderUpdate,
		Title:          renderNotificationTemplate(template.Title, variables),
		Message:        renderNotificationTemplate(template.Body, variables),
		OrderID:        order.ID,
		OrderReference: order.OrderNo,
		Status:         string(order.Status),
		CreatedAt:      now,
	}
}

// buildAssignmentNotification 骑手接单通知
func buildAssignmentNotification(order *models.Order, now time.Time) queue.NotificationPayload {
	variables := orderTemplateVariables(order)
	return queue.NotificationPayload{
		UserID:         order.CustomerID,
		Type:           constants.NotificationTypeOrder,
		Title:          renderNotificationTemplate(assignmentTemplate.Title, variables),
		Message:        renderNotificationTemplate(assignmentTemplate.Body, variables),
		OrderID:        order.ID,
		OrderReference: order.OrderNo,
		Status:         string(order.Status),
		CreatedAt:      now,
	}
}

// publishNotification 发布失败只记录日志，不影响主流程
func publishNotification(notifier Notifier, payload queue.NotificationPayload) {
	if notifier == nil {
		return
	}
	if err := notifier.Publish(payload); err != nil {
		logger.Warnw("notification_publish_failed",
			"user_id", payload.UserID,
			"type", payload.Type,
			"order_id", payload.OrderID,
			"error", err,
		)
	}
}

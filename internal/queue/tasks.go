package queue

import (
	"encoding/json"
	"time"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskNotificationDispatch 通知投递任务
	TaskNotificationDispatch = constants.TaskNotificationDispatch
	// TaskOrderConfirmTimeout 商家确认超时任务
	TaskOrderConfirmTimeout = constants.TaskOrderConfirmTimeout
)

// NotificationPayload 通知事件载荷
type NotificationPayload struct {
	UserID         uint      `json:"user_id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	OrderID        uint      `json:"order_id"`
	OrderReference string    `json:"order_reference"`
	Status         string    `json:"status,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// OrderConfirmTimeoutPayload 商家确认超时任务载荷
type OrderConfirmTimeoutPayload struct {
	OrderID uint `json:"order_id"`
	Version int  `json:"version"` // 入队时的订单版本
}

// NewNotificationTask 创建通知投递任务
func NewNotificationTask(payload NotificationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationDispatch, body), nil
}

// NewOrderConfirmTimeoutTask 创建确认超时任务
func NewOrderConfirmTimeoutTask(payload OrderConfirmTimeoutPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmTimeout, body), nil
}

package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/logger"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/provider"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/queue"
	"github.com/rishavthakurer-maker/orderwala-sub001/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskNotificationDispatch, c.handleNotificationDispatch)
	mux.HandleFunc(queue.TaskOrderConfirmTimeout, c.handleOrderConfirmTimeout)
}

func (c *Consumer) handleNotificationDispatch(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_notification_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.NotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_notification_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 || payload.Type == "" {
		logger.Debugw("worker_notification_skip_invalid_payload",
			"user_id", payload.UserID,
			"type", payload.Type,
			"order_reference", payload.OrderReference,
		)
		return nil
	}
	if c.Container == nil || c.NotificationService == nil {
		logger.Warnw("worker_notification_skip_service_nil", "order_reference", payload.OrderReference)
		return nil
	}
	if err := c.NotificationService.Dispatch(ctx, payload); err != nil {
		if errors.Is(err, service.ErrValidation) {
			logger.Debugw("worker_notification_skip_rejected", "order_reference", payload.OrderReference, "error", err)
			return nil
		}
		logger.Warnw("worker_notification_dispatch_failed",
			"user_id", payload.UserID,
			"order_reference", payload.OrderReference,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderConfirmTimeout(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_confirm_timeout_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderConfirmTimeoutPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirm_timeout_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_confirm_timeout_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.Container == nil || c.OrderService == nil {
		logger.Warnw("worker_order_confirm_timeout_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderService.CancelIfUnconfirmed(payload.OrderID, payload.Version)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			logger.Debugw("worker_order_confirm_timeout_skip_not_found", "order_id", payload.OrderID)
			return nil
		default:
			logger.Warnw("worker_order_confirm_timeout_cancel_failed", "order_id", payload.OrderID, "error", err)
			return err
		}
	}
	if order == nil {
		logger.Debugw("worker_order_confirm_timeout_skip_progressed", "order_id", payload.OrderID, "version", payload.Version)
		return nil
	}
	logger.Infow("worker_order_confirm_timeout_cancelled", "order_id", order.ID, "order_no", order.OrderNo)
	return nil
}

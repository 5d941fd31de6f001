package queue

import (
	"encoding/json"
	"testing"

	"github.com/rishavthakurer-maker/orderwala-sub001/internal/config"
)

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("disabled client should not be enabled")
	}
	if err := client.EnqueueNotification(NotificationPayload{UserID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
	if err := client.EnqueueOrderConfirmTimeout(OrderConfirmTimeoutPayload{OrderID: 1}, 0); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatalf("nil client should not be enabled")
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("unexpected concurrency: %d", cfg.Concurrency)
	}
	if cfg.Queues[DefaultQueue] != 1 || cfg.Queues[CriticalQueue] != 5 {
		t.Fatalf("default queue missing: %+v", cfg.Queues)
	}

	opt, cfg = BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2, Concurrency: 3, Queues: map[string]int{CriticalQueue: 5}})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 3 || cfg.Queues[CriticalQueue] != 5 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}

func TestNotificationTaskPayload(t *testing.T) {
	task, err := NewNotificationTask(NotificationPayload{UserID: 7, Type: "order_update", OrderReference: "OW00000001"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskNotificationDispatch {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	var decoded NotificationPayload
	if err := json.Unmarshal(task.Payload(), &decoded); err != nil {
		t.Fatalf("decode payload failed: %v", err)
	}
	if decoded.UserID != 7 || decoded.OrderReference != "OW00000001" {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

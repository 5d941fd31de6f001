package constants

// 队列与任务常量
const (
	QueueDefault             = "default"
	QueueCritical            = "critical"
	TaskNotificationDispatch = "notification:dispatch"
	TaskOrderConfirmTimeout  = "order:confirm_timeout"
)

// 通知事件类型
const (
	NotificationTypeOrderUpdate = "order_update"
	NotificationTypeOrder       = "order"
)

// 上下文键
const (
	ContextKeyRequestID = "request_id"
	ContextKeyActor     = "actor"
)

// 计数器名称
const (
	CounterOrderNo = "order_no"
)

// 订单号格式
const (
	OrderNoPrefix = "OW"
	OrderNoDigits = 8
)

// 缓存键前缀
const (
	CacheKeyPartnerRating   = "partner:rating"
	CacheKeyPartnerEarnings = "partner:earnings"
)

// 限流键前缀
const (
	RateLimitOrderCreate    = "rate:order_create"
	RateLimitDeliveryAction = "rate:delivery_action"
)

// 支付方式
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
	PaymentMethodUPI    = "upi"
)

// 评分边界
const (
	RatingMin = 1
	RatingMax = 5
)

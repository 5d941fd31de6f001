package i18n

var messages = map[string]map[string]string{
	LocaleEnUS: {
		"error.bad_request":               "Invalid request",
		"error.unauthorized":              "Please sign in first",
		"error.token_invalid":             "Invalid token",
		"error.auth_header_missing":       "Authorization header is missing",
		"error.auth_header_invalid":       "Authorization header is malformed",
		"error.forbidden":                 "You do not have permission to perform this action",
		"error.too_many_requests":         "Too many requests, please try again later",
		"error.rate_limited":              "Too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable":    "Rate limiter is unavailable",
		"error.internal":                  "Something went wrong, please try again",
		"error.authz_failed":              "Permission check failed",
		"error.not_found":                 "Resource not found",
		"error.order_id_invalid":          "Invalid order id",
		"error.order_not_found":           "Order not found",
		"error.vendor_not_found":          "Store not found",
		"error.product_not_found":         "Product not found",
		"error.promo_not_found":           "Promo code not found",
		"error.vendor_inactive":           "This store is not accepting orders right now",
		"error.product_not_available":     "Product is not available",
		"error.product_vendor_mismatch":   "Product does not belong to this store",
		"error.order_items_empty":         "Please add at least one item",
		"error.order_item_invalid":        "Order item is invalid",
		"error.delivery_address_required": "Delivery address is required",
		"error.payment_method_invalid":    "Payment method is not supported",
		"error.status_invalid":            "Order status is invalid",
		"error.delivery_action_invalid":   "Delivery action is invalid",
		"error.location_invalid":          "Location is invalid",
		"error.rating_required":           "Please provide a rating",
		"error.rating_item_invalid":       "Rated product is not part of this order",
		"error.order_not_delivered":       "Only delivered orders can be rated",
		"error.promo_invalid":             "Promo code is invalid",
		"error.promo_not_started":         "Promo code is not active yet",
		"error.promo_expired":             "Promo code has expired",
		"error.promo_usage_limit":         "Promo code usage limit reached",
		"error.promo_min_order":           "Minimum order amount not met",
		"error.order_already_assigned":    "Order is already assigned",
		"error.order_not_ready":           "Order is not ready for pickup",
		"error.order_conflict":            "Order was updated by someone else, please refresh",
		"error.order_unassigned":          "Order has no delivery partner yet",
		"error.order_not_owned":           "Order does not belong to you",
		"error.actor_not_allowed":         "You are not allowed to update this order",
		"error.order_not_assigned":        "Order is not assigned to you",
		"error.order_create_failed":       "Failed to create order",
		"error.order_fetch_failed":        "Failed to fetch orders",
		"error.order_update_failed":       "Failed to update order",
		"error.delivery_failed":           "Failed to process delivery action",
		"error.earnings_fetch_failed":     "Failed to fetch earnings",
		"error.rating_failed":             "Failed to submit rating",
		"error.promo_validate_failed":     "Failed to validate promo code",
		"error.role_invalid":              "Role is invalid",
	},
	LocaleZhCN: {
		"error.bad_request":               "请求参数错误",
		"error.unauthorized":              "请先登录",
		"error.token_invalid":             "无效的令牌",
		"error.auth_header_missing":       "缺少认证信息",
		"error.auth_header_invalid":       "认证信息格式错误",
		"error.forbidden":                 "无权执行该操作",
		"error.too_many_requests":         "请求过于频繁，请稍后再试",
		"error.rate_limited":              "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable":    "限流服务不可用",
		"error.internal":                  "服务异常，请稍后重试",
		"error.authz_failed":              "权限校验失败",
		"error.not_found":                 "资源不存在",
		"error.order_id_invalid":          "订单 ID 无效",
		"error.order_not_found":           "订单不存在",
		"error.vendor_not_found":          "商家不存在",
		"error.product_not_found":         "商品不存在",
		"error.promo_not_found":           "优惠码不存在",
		"error.vendor_inactive":           "商家暂停接单",
		"error.product_not_available":     "商品不可购买",
		"error.product_vendor_mismatch":   "商品不属于该商家",
		"error.order_items_empty":         "请至少选择一件商品",
		"error.order_item_invalid":        "订单项无效",
		"error.delivery_address_required": "请填写配送地址",
		"error.payment_method_invalid":    "不支持的支付方式",
		"error.status_invalid":            "订单状态无效",
		"error.delivery_action_invalid":   "配送操作无效",
		"error.location_invalid":          "位置信息无效",
		"error.rating_required":           "请填写评分",
		"error.rating_item_invalid":       "评价的商品不在该订单中",
		"error.order_not_delivered":       "订单送达后才能评价",
		"error.promo_invalid":             "优惠码无效",
		"error.promo_not_started":         "优惠码尚未生效",
		"error.promo_expired":             "优惠码已过期",
		"error.promo_usage_limit":         "优惠码使用次数已达上限",
		"error.promo_min_order":           "未达到优惠码最低消费金额",
		"error.order_already_assigned":    "订单已被接单",
		"error.order_not_ready":           "订单尚未待取货",
		"error.order_conflict":            "订单已被更新，请刷新后重试",
		"error.order_unassigned":          "订单尚未分配骑手",
		"error.order_not_owned":           "无权访问该订单",
		"error.actor_not_allowed":         "无权变更该订单状态",
		"error.order_not_assigned":        "该订单不是由你配送",
		"error.order_create_failed":       "创建订单失败",
		"error.order_fetch_failed":        "获取订单失败",
		"error.order_update_failed":       "更新订单失败",
		"error.delivery_failed":           "配送操作失败",
		"error.earnings_fetch_failed":     "获取收入失败",
		"error.rating_failed":             "提交评价失败",
		"error.promo_validate_failed":     "校验优惠码失败",
		"error.role_invalid":              "角色无效",
	},
}

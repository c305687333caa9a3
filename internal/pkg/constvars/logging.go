package constvars

const (
	LoggingRequestIDKey          = "request_id"
	LoggingRequestKey            = "request"
	LoggingMethodKey             = "method"
	LoggingEndpointKey           = "endpoint"
	LoggingRemoteAddrKey         = "remote_addr"
	LoggingUserAgentKey          = "user_agent"
	LoggingQueryKey              = "query"
	LoggingStatusCodeKey         = "status_code"
	LoggingDurationKey           = "duration"
	LoggingSuccessKey            = "success"
	LoggingConsultationIDKey     = "consultation_id"
	LoggingOrderIDKey            = "razorpay_order_id"
	LoggingPaymentIDKey          = "razorpay_payment_id"
	LoggingUserIDKey             = "user_id"
	LoggingEventKey              = "event"
	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
	LoggingQueueNameKey          = "queue_name"
	LoggingChannelNameKey        = "channel_name"
	LoggingPageKey               = "page"
	LoggingPageSizeKey           = "page_size"
)

package constvars

const (
	MIMEApplicationJSON            = "application/json"
	MIMEApplicationJSONCharsetUTF8 = "application/json; charset=utf-8"
)

const (
	StatusOK       = 200
	StatusCreated  = 201
	StatusAccepted = 202

	StatusBadRequest      = 400
	StatusUnauthorized    = 401
	StatusPaymentRequired = 402
	StatusForbidden       = 403
	StatusNotFound        = 404
	StatusConflict        = 409
	StatusGone            = 410

	StatusInternalServerError = 500
	StatusBadGateway          = 502
	StatusGatewayTimeout      = 504
)

const (
	HeaderContentType       = "Content-Type"
	HeaderAccept            = "Accept"
	HeaderAuthorization     = "Authorization"
	HeaderXRequestID        = "X-Request-Id"
	HeaderRazorpaySignature = "X-Razorpay-Signature"
)

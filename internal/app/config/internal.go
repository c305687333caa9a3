package config

type InternalConfig struct {
	App      App
	JWT      AppJWT
	RabbitMQ AppRabbitMQ
	Razorpay AppRazorpay
	Agora    AppAgora
}

type App struct {
	Env                       string
	Port                      string
	Version                   string
	Address                   string
	BaseUrl                   string
	EndpointPrefix            string
	MaxRequests               int
	MaxTimeRequestsPerSeconds int
	ShutdownTimeoutInSeconds  int
	PlatformFeePercent        int64
}

type AppJWT struct {
	Secret string
}

type AppRabbitMQ struct {
	NotificationQueue string
}

type AppRazorpay struct {
	KeyID             string
	KeySecret         string
	WebhookSecret     string
	BaseUrl           string
	TimeoutInSeconds  int
	MaxRequestsPerSec int
}

type AppAgora struct {
	AppID          string
	AppCertificate string
}

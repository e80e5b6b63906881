package constants

// Пути health, ready и API классной комнаты.
const (
	PathHealth = "/health"
	PathReady  = "/ready"

	PathReadiness     = "/api/classroom/readiness"
	PathSessionWindow = "/api/classroom/session"
	PathStream        = "/api/classroom/stream"
	PathStreamWS      = "/ws/classroom"

	PathECPayCheckout = "/api/payments/ecpay/checkout"
	PathECPayCallback = "/api/payments/ecpay/callback"
	PathECPayOrder    = "/api/payments/ecpay/orders/:trade_no"
)

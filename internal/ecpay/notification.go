package ecpay

import (
	"time"

	"github.com/psds-microservice/classroom-service/internal/model"
)

// rtnCodeSuccess is ECPay's RtnCode for a paid order.
const rtnCodeSuccess = "1"

// AckOK acknowledges a callback. The gateway requires this exact body with HTTP 200.
const AckOK = "1|OK"

// AckFailure formats a rejection body.
func AckFailure(reason string) string {
	return "0|" + reason
}

// NewNotification extracts the payment result from verified callback params.
func NewNotification(params Params, receivedAt time.Time) model.PaymentNotification {
	fields := params.Strings()
	delete(fields, CheckMacValueKey)
	return model.PaymentNotification{
		MerchantTradeNo: fields["MerchantTradeNo"],
		TradeNo:         fields["TradeNo"],
		RtnCode:         fields["RtnCode"],
		RtnMsg:          fields["RtnMsg"],
		Paid:            fields["RtnCode"] == rtnCodeSuccess,
		ReceivedAt:      receivedAt.UnixMilli(),
		Fields:          fields,
	}
}

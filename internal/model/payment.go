package model

// CheckoutRequest is the request body for POST /api/payments/ecpay/checkout.
type CheckoutRequest struct {
	TotalAmount int    `json:"totalAmount"`
	ItemName    string `json:"itemName"`
	TradeDesc   string `json:"tradeDesc"`
	CourseID    string `json:"courseId,omitempty"`
}

// CheckoutResponse carries the signed form the browser posts to the gateway.
type CheckoutResponse struct {
	Action string            `json:"action"`
	Params map[string]string `json:"params"`
}

// PaymentNotification is what the callback persists for an order.
type PaymentNotification struct {
	MerchantTradeNo string            `json:"merchantTradeNo"`
	TradeNo         string            `json:"tradeNo"`
	RtnCode         string            `json:"rtnCode"`
	RtnMsg          string            `json:"rtnMsg"`
	Paid            bool              `json:"paid"`
	ReceivedAt      int64             `json:"receivedAt"`
	Fields          map[string]string `json:"fields"`
}

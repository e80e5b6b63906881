package ecpay

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/psds-microservice/classroom-service/internal/errs"
)

// Stage endpoints and the public test merchant.
const (
	StageCheckoutURL = "https://payment-stage.ecpay.com.tw/Cashier/AioCheckOut/V5"
	TestMerchantID   = "2000132"
	TestHashKey      = "5294y06JbISpM5x9"
	TestHashIV       = "v77hoKGq4kWxNNIS"
)

const (
	tradeDateLayout    = "2006/01/02 15:04:05"
	maxMerchantTradeNo = 20
	defaultTradeDesc   = "classroom course"
)

// ECPay expects merchant local time (UTC+8).
var taipei = time.FixedZone("UTC+8", 8*60*60)

// Config is the merchant configuration.
type Config struct {
	MerchantID    string
	HashKey       string
	HashIV        string
	CheckoutURL   string
	ReturnURL     string
	ClientBackURL string
}

// Order is what the buyer pays for.
type Order struct {
	TotalAmount int
	ItemName    string
	TradeDesc   string
	CustomField string
}

// Client builds signed checkout forms and verifies callbacks.
type Client struct {
	cfg        Config
	signer     *Signer
	now        func() time.Time
	newTradeNo func() string
}

// NewClient creates a client; an empty CheckoutURL defaults to the stage gateway.
func NewClient(cfg Config) *Client {
	if cfg.CheckoutURL == "" {
		cfg.CheckoutURL = StageCheckoutURL
	}
	return &Client{
		cfg:        cfg,
		signer:     NewSigner(cfg.HashKey, cfg.HashIV),
		now:        time.Now,
		newTradeNo: NewMerchantTradeNo,
	}
}

// Signer returns the client's signer.
func (c *Client) Signer() *Signer { return c.signer }

// BuildCheckout returns the gateway URL and the signed AIO form fields.
func (c *Client) BuildCheckout(order Order) (string, map[string]string, error) {
	if order.TotalAmount <= 0 {
		return "", nil, errs.ErrInvalidAmount
	}
	if strings.TrimSpace(order.ItemName) == "" {
		return "", nil, errs.ErrItemRequired
	}
	desc := order.TradeDesc
	if strings.TrimSpace(desc) == "" {
		desc = defaultTradeDesc
	}
	params := Params{
		"MerchantID":        c.cfg.MerchantID,
		"MerchantTradeNo":   c.newTradeNo(),
		"MerchantTradeDate": c.now().In(taipei).Format(tradeDateLayout),
		"PaymentType":       "aio",
		"TotalAmount":       order.TotalAmount,
		"TradeDesc":         desc,
		"ItemName":          order.ItemName,
		"ReturnURL":         c.cfg.ReturnURL,
		"ChoosePayment":     "ALL",
		"EncryptType":       1,
	}
	if c.cfg.ClientBackURL != "" {
		params["ClientBackURL"] = c.cfg.ClientBackURL
	}
	if order.CustomField != "" {
		params["CustomField1"] = order.CustomField
	}
	c.signer.Sign(params)
	return c.cfg.CheckoutURL, params.Strings(), nil
}

// NewMerchantTradeNo returns a 20-character uppercase alphanumeric trade number.
func NewMerchantTradeNo() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return id[:maxMerchantTradeNo]
}

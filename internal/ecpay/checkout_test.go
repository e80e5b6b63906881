package ecpay

import (
	"errors"
	"testing"
	"time"

	"github.com/psds-microservice/classroom-service/internal/errs"
)

func testClient() *Client {
	c := NewClient(Config{
		MerchantID: TestMerchantID,
		HashKey:    TestHashKey,
		HashIV:     TestHashIV,
		ReturnURL:  "https://classroom.example.com/api/payments/ecpay/callback",
	})
	c.now = func() time.Time { return time.Date(2026, 3, 1, 16, 30, 0, 0, time.UTC) }
	c.newTradeNo = func() string { return "TN20260301000000001" }
	return c
}

func TestBuildCheckout(t *testing.T) {
	c := testClient()
	action, params, err := c.BuildCheckout(Order{TotalAmount: 1200, ItemName: "Guitar 1:1", CustomField: "course-9"})
	if err != nil {
		t.Fatalf("build checkout: %v", err)
	}
	if action != StageCheckoutURL {
		t.Fatalf("expected stage url, got %q", action)
	}

	want := map[string]string{
		"MerchantID":        TestMerchantID,
		"MerchantTradeNo":   "TN20260301000000001",
		"MerchantTradeDate": "2026/03/02 00:30:00",
		"PaymentType":       "aio",
		"TotalAmount":       "1200",
		"TradeDesc":         defaultTradeDesc,
		"ItemName":          "Guitar 1:1",
		"ChoosePayment":     "ALL",
		"EncryptType":       "1",
		"CustomField1":      "course-9",
	}
	for k, v := range want {
		if params[k] != v {
			t.Fatalf("expected %s=%q, got %q", k, v, params[k])
		}
	}
	if _, ok := params["ClientBackURL"]; ok {
		t.Fatal("expected no ClientBackURL when unset")
	}

	p := Params{}
	for k, v := range params {
		p[k] = v
	}
	if !c.Signer().Verify(p) {
		t.Fatal("expected checkout params to verify")
	}
}

func TestBuildCheckoutValidation(t *testing.T) {
	c := testClient()
	if _, _, err := c.BuildCheckout(Order{TotalAmount: 0, ItemName: "x"}); !errors.Is(err, errs.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, _, err := c.BuildCheckout(Order{TotalAmount: 10, ItemName: "  "}); !errors.Is(err, errs.ErrItemRequired) {
		t.Fatalf("expected ErrItemRequired, got %v", err)
	}
}

func TestNewMerchantTradeNo(t *testing.T) {
	no := NewMerchantTradeNo()
	if len(no) != maxMerchantTradeNo {
		t.Fatalf("expected %d chars, got %d (%q)", maxMerchantTradeNo, len(no), no)
	}
	for _, r := range no {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
			t.Fatalf("unexpected character %q in %q", r, no)
		}
	}
	if no == NewMerchantTradeNo() {
		t.Fatal("expected unique trade numbers")
	}
}

func TestNewNotification(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	n := NewNotification(Params{
		"MerchantTradeNo": "JV123",
		"TradeNo":         "2401011234567890",
		"RtnCode":         "1",
		"RtnMsg":          "Succeeded",
		CheckMacValueKey:  "ABC",
	}, at)
	if !n.Paid || n.MerchantTradeNo != "JV123" || n.TradeNo != "2401011234567890" {
		t.Fatalf("unexpected notification %+v", n)
	}
	if _, ok := n.Fields[CheckMacValueKey]; ok {
		t.Fatal("expected CheckMacValue to be dropped from fields")
	}
	if n.ReceivedAt != 1700000000000 {
		t.Fatalf("expected receivedAt 1700000000000, got %d", n.ReceivedAt)
	}
	if AckFailure("bad") != "0|bad" {
		t.Fatalf("unexpected failure ack %q", AckFailure("bad"))
	}
}

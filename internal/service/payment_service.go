package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/psds-microservice/classroom-service/internal/ecpay"
	"github.com/psds-microservice/classroom-service/internal/errs"
	"github.com/psds-microservice/classroom-service/internal/model"
	"github.com/psds-microservice/classroom-service/internal/store"
	"go.uber.org/zap"
)

// PaymentServicer — интерфейс для handler.
type PaymentServicer interface {
	Checkout(ctx context.Context, req model.CheckoutRequest) (model.CheckoutResponse, error)
	HandleCallback(ctx context.Context, params ecpay.Params) string
	Notification(ctx context.Context, merchantTradeNo string) (model.PaymentNotification, error)
}

// PaymentService signs ECPay checkouts and records verified callbacks.
type PaymentService struct {
	client *ecpay.Client
	store  store.RecordStore
	log    *zap.Logger
	now    func() time.Time
}

// NewPaymentService creates a payment service.
func NewPaymentService(client *ecpay.Client, st store.RecordStore, log *zap.Logger) *PaymentService {
	return &PaymentService{client: client, store: st, log: log, now: time.Now}
}

// Checkout builds the signed gateway form for an order.
func (s *PaymentService) Checkout(ctx context.Context, req model.CheckoutRequest) (model.CheckoutResponse, error) {
	if err := ctx.Err(); err != nil {
		return model.CheckoutResponse{}, err
	}
	action, params, err := s.client.BuildCheckout(ecpay.Order{
		TotalAmount: req.TotalAmount,
		ItemName:    req.ItemName,
		TradeDesc:   req.TradeDesc,
		CustomField: req.CourseID,
	})
	if err != nil {
		return model.CheckoutResponse{}, err
	}
	s.log.Info("ecpay checkout created",
		zap.String("merchant_trade_no", params["MerchantTradeNo"]),
		zap.Int("total_amount", req.TotalAmount))
	return model.CheckoutResponse{Action: action, Params: params}, nil
}

// HandleCallback verifies a gateway notification and returns the body ECPay expects.
// Anything but "1|OK" makes the gateway retry later.
func (s *PaymentService) HandleCallback(ctx context.Context, params ecpay.Params) string {
	if !s.client.Signer().Verify(params) {
		s.log.Warn("ecpay callback rejected",
			zap.String("merchant_trade_no", ecpay.FormatValue(params["MerchantTradeNo"])),
			zap.Error(errs.ErrSignatureCheck))
		return ecpay.AckFailure(errs.ErrSignatureCheck.Error())
	}
	n := ecpay.NewNotification(params, s.now())
	if strings.TrimSpace(n.MerchantTradeNo) == "" {
		s.log.Warn("ecpay callback without MerchantTradeNo")
		return ecpay.AckFailure("MerchantTradeNo is required")
	}
	payload, err := json.Marshal(n)
	if err == nil {
		err = s.store.Save(ctx, store.KindPayment, n.MerchantTradeNo, payload)
	}
	if err != nil {
		s.log.Error("ecpay callback not persisted", zap.String("merchant_trade_no", n.MerchantTradeNo), zap.Error(err))
		return ecpay.AckFailure("temporarily unavailable")
	}
	s.log.Info("ecpay callback accepted",
		zap.String("merchant_trade_no", n.MerchantTradeNo),
		zap.String("trade_no", n.TradeNo),
		zap.String("rtn_code", n.RtnCode),
		zap.Bool("paid", n.Paid))
	return ecpay.AckOK
}

// Notification returns the last recorded callback for an order.
func (s *PaymentService) Notification(ctx context.Context, merchantTradeNo string) (model.PaymentNotification, error) {
	data, err := s.store.Load(ctx, store.KindPayment, merchantTradeNo)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.PaymentNotification{}, err
		}
		return model.PaymentNotification{}, fmt.Errorf("load payment: %w", err)
	}
	var n model.PaymentNotification
	if err := json.Unmarshal(data, &n); err != nil {
		return model.PaymentNotification{}, fmt.Errorf("decode payment: %w", err)
	}
	return n, nil
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	apperrors "github.com/vinitha-rv/library-backend/common/errors"
	"github.com/vinitha-rv/library-backend/common/logger"
	"github.com/vinitha-rv/library-backend/models"
	awspkg "github.com/vinitha-rv/library-backend/pkg/aws"
	"github.com/vinitha-rv/library-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService records standalone payments that are not tied to stock or
// an account.
type PaymentService struct {
	payments repository.PaymentRepo
	metrics  MetricsRecorder
}

func NewPaymentService(payments repository.PaymentRepo, metrics MetricsRecorder) *PaymentService {
	return &PaymentService{payments: payments, metrics: metrics}
}

func (s *PaymentService) RecordPayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResponse, error) {
	if req.Amount == nil || *req.Amount < 0 {
		return nil, apperrors.BadRequest("Invalid payment amount.")
	}
	if !req.Method.Valid() {
		return nil, apperrors.BadRequest("Invalid payment method.")
	}

	p := &models.Payment{
		Amount:      *req.Amount,
		Method:      req.Method,
		Status:      models.StatusSuccess,
		PaymentDate: time.Now().UTC(),
	}

	switch req.Method {
	case models.MethodCard:
		if blank(req.Name) || blank(req.CardNumber) || blank(req.Expiry) || blank(req.CVV) {
			return nil, apperrors.BadRequest("Card details are required.")
		}
		p.CardholderName = strings.TrimSpace(req.Name)
		p.Last4Digits = lastFourDigits(req.CardNumber)
		p.CardExpiry = strings.TrimSpace(req.Expiry)
		p.TransactionID = newTransactionID()
	case models.MethodUPI:
		if blank(req.UPIID) {
			return nil, apperrors.BadRequest("UPI ID is required.")
		}
		p.UPIID = strings.TrimSpace(req.UPIID)
		p.TransactionID = newTransactionID()
	case models.MethodCOD:
		p.Status = models.StatusPendingDelivery
	}

	if err := s.payments.Create(ctx, p); err != nil {
		return nil, apperrors.Internal("Payment failed", err)
	}

	recordAsync(s.metrics, countPoint(awspkg.MetricPaymentsRecorded, map[string]string{"Method": string(p.Method)}))
	logger.Info(ctx, "Payment recorded", zap.String("payment_id", p.ID.Hex()), zap.String("method", string(p.Method)))

	return &models.PaymentResponse{
		Message:   "Payment processed successfully.",
		PaymentID: p.ID.Hex(),
		Status:    p.Status,
	}, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, apperrors.BadRequest("Invalid payment ID.")
	}
	p, err := s.payments.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Payment not found.")
	}
	if err != nil {
		return nil, apperrors.Internal("Error fetching payment", err)
	}
	return p, nil
}

// lastFourDigits keeps only the final four digits of a card number,
// ignoring spaces and dashes.
func lastFourDigits(cardNumber string) string {
	digits := make([]rune, 0, len(cardNumber))
	for _, r := range cardNumber {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}

func newTransactionID() string {
	return "TXN-" + uuid.NewString()
}

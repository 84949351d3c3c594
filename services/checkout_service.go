package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vinitha-rv/library-backend/cache"
	apperrors "github.com/vinitha-rv/library-backend/common/errors"
	"github.com/vinitha-rv/library-backend/common/logger"
	"github.com/vinitha-rv/library-backend/config"
	"github.com/vinitha-rv/library-backend/database"
	"github.com/vinitha-rv/library-backend/models"
	awspkg "github.com/vinitha-rv/library-backend/pkg/aws"
	"github.com/vinitha-rv/library-backend/repository"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// totalTolerance is the largest accepted gap between the declared and computed totals.
var totalTolerance = decimal.NewFromFloat(0.01)

const checkoutFailedMessage = "Server error during payment processing. Please try again."

type CheckoutConfig struct {
	ShippingFee decimal.Decimal
	TotalPolicy string
}

// CheckoutService turns a cart into a payment record, reserving stock and
// pricing every line from the catalog.
type CheckoutService struct {
	books    repository.BookRepo
	payments repository.PaymentRepo
	tx       database.TxRunner
	cache    cache.CatalogCache
	events   EventPublisher
	metrics  MetricsRecorder
	cfg      CheckoutConfig
}

func NewCheckoutService(
	books repository.BookRepo,
	payments repository.PaymentRepo,
	tx database.TxRunner,
	c cache.CatalogCache,
	events EventPublisher,
	metrics MetricsRecorder,
	cfg CheckoutConfig,
) *CheckoutService {
	if c == nil {
		c = cache.NoopCatalogCache{}
	}
	if events == nil {
		events = NoopEventPublisher{}
	}
	if cfg.TotalPolicy == "" {
		cfg.TotalPolicy = config.TotalPolicyLenient
	}
	return &CheckoutService{
		books:    books,
		payments: payments,
		tx:       tx,
		cache:    c,
		events:   events,
		metrics:  metrics,
		cfg:      cfg,
	}
}

type pricedItem struct {
	bookID primitive.ObjectID
	title  string
	qty    int
	price  float64
}

func (s *CheckoutService) Checkout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResponse, error) {
	resp, err := s.checkout(ctx, req)
	if err != nil && apperrors.StatusOf(err) < 500 {
		recordAsync(s.metrics, countPoint(awspkg.MetricCheckoutsRejected, map[string]string{"Method": string(req.Method)}))
	}
	return resp, err
}

func (s *CheckoutService) checkout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResponse, error) {
	userID, ok := parseObjectID(req.UserID)
	if !ok {
		return nil, apperrors.BadRequest("Invalid or missing User ID.")
	}
	if !req.Method.Valid() {
		return nil, apperrors.BadRequest("Invalid or missing payment method.")
	}
	if len(req.Books) == 0 {
		return nil, apperrors.BadRequest("No books specified for purchase.")
	}
	if req.TotalAmount <= 0 {
		return nil, apperrors.BadRequest("Invalid total amount.")
	}

	items, subtotal, err := s.priceItems(ctx, req.Books)
	if err != nil {
		return nil, err
	}

	if err := checkMethodFields(req); err != nil {
		return nil, err
	}

	total := subtotal.Add(s.cfg.ShippingFee).Round(2)
	declared := decimal.NewFromFloat(req.TotalAmount)
	if total.Sub(declared).Abs().GreaterThan(totalTolerance) {
		if s.cfg.TotalPolicy == config.TotalPolicyStrict {
			return nil, apperrors.BadRequest("Total amount mismatch.")
		}
		logger.Warn(ctx, "Declared total deviates from computed total",
			zap.String("declared", declared.String()),
			zap.String("computed", total.String()))
	}

	payment := buildCheckoutPayment(userID, req, items, total)

	var applied []pricedItem
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		// the driver may retry this function; start from a clean slate each time
		applied = applied[:0]
		for _, it := range items {
			if err := s.books.DecrementStock(txCtx, it.bookID, it.qty); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return s.stockError(txCtx, it)
				}
				return err
			}
			applied = append(applied, it)
		}
		return s.payments.Create(txCtx, payment)
	})
	if err != nil {
		if !s.tx.Atomic() {
			s.releaseStock(ctx, applied)
		}
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Internal(checkoutFailedMessage, err)
	}

	s.afterCommit(ctx, payment, req.UserID)

	return &models.CheckoutResponse{
		Message:     fmt.Sprintf("✅ %s order successfully recorded!", strings.ToUpper(string(req.Method))),
		PaymentID:   payment.ID.Hex(),
		Status:      payment.Status,
		TotalAmount: payment.Amount,
	}, nil
}

// priceItems validates each line in order and prices it from the catalog.
func (s *CheckoutService) priceItems(ctx context.Context, lines []models.CheckoutItem) ([]pricedItem, decimal.Decimal, error) {
	items := make([]pricedItem, 0, len(lines))
	subtotal := decimal.Zero

	for _, line := range lines {
		bookID, ok := parseObjectID(line.BookID)
		if !ok || line.Quantity <= 0 {
			return nil, decimal.Zero, apperrors.BadRequest("Invalid book item in purchase list.")
		}
		book, err := s.books.FindByID(ctx, bookID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, decimal.Zero, apperrors.NotFound(fmt.Sprintf("Book with ID %s not found.", line.BookID))
		}
		if err != nil {
			return nil, decimal.Zero, apperrors.Internal(checkoutFailedMessage, err)
		}
		if book.Stock < line.Quantity {
			return nil, decimal.Zero, insufficientStock(book.Title, book.Stock, line.Quantity)
		}

		items = append(items, pricedItem{bookID: bookID, title: book.Title, qty: line.Quantity, price: book.Price})
		subtotal = subtotal.Add(decimal.NewFromFloat(book.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return items, subtotal, nil
}

func checkMethodFields(req models.CheckoutRequest) error {
	switch req.Method {
	case models.MethodCard:
		if blank(req.Name) || blank(req.CardNumber) || blank(req.Expiry) || blank(req.CVV) {
			return apperrors.BadRequest("All card fields (name, number, expiry, cvv) are required for card payment.")
		}
	case models.MethodUPI:
		if blank(req.UPIID) {
			return apperrors.BadRequest("UPI ID is required for UPI payment.")
		}
	}
	return nil
}

func buildCheckoutPayment(userID primitive.ObjectID, req models.CheckoutRequest, items []pricedItem, total decimal.Decimal) *models.Payment {
	lines := make([]models.LineItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, models.LineItem{BookID: it.bookID, Quantity: it.qty, PriceAtPurchase: it.price})
	}

	p := &models.Payment{
		ID:          primitive.NewObjectID(),
		UserID:      &userID,
		Books:       lines,
		Amount:      total.InexactFloat64(),
		Method:      req.Method,
		Status:      models.StatusPaid,
		PaymentDate: time.Now().UTC(),
	}
	switch req.Method {
	case models.MethodCard:
		p.CardholderName = strings.TrimSpace(req.Name)
		p.Last4Digits = lastFourDigits(req.CardNumber)
		p.CardExpiry = strings.TrimSpace(req.Expiry)
		p.TransactionID = newTransactionID()
	case models.MethodUPI:
		p.UPIID = strings.TrimSpace(req.UPIID)
		p.TransactionID = newTransactionID()
	case models.MethodCOD:
		p.Status = models.StatusCODToCollect
	}
	return p
}

// stockError re-reads the book so the message reports what is left now.
func (s *CheckoutService) stockError(ctx context.Context, it pricedItem) error {
	book, err := s.books.FindByID(ctx, it.bookID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(fmt.Sprintf("Book with ID %s not found.", it.bookID.Hex()))
	}
	if err != nil {
		return apperrors.Internal(checkoutFailedMessage, err)
	}
	return insufficientStock(book.Title, book.Stock, it.qty)
}

// releaseStock undoes decrements when the store could not roll them back.
func (s *CheckoutService) releaseStock(ctx context.Context, applied []pricedItem) {
	if len(applied) == 0 {
		return
	}
	bg := context.WithoutCancel(ctx)
	for _, it := range applied {
		if err := s.books.IncrementStock(bg, it.bookID, it.qty); err != nil {
			logger.Error(ctx, "Failed to release reserved stock", err,
				zap.String("book_id", it.bookID.Hex()),
				zap.Int("quantity", it.qty))
		}
	}
	recordAsync(s.metrics, countPoint(awspkg.MetricStockCompensations, nil))
}

func (s *CheckoutService) afterCommit(ctx context.Context, p *models.Payment, userID string) {
	s.cache.Invalidate(ctx)

	event := models.CheckoutEvent{
		EventType:   EventCheckoutCompleted,
		PaymentID:   p.ID.Hex(),
		UserID:      userID,
		Items:       p.Books,
		TotalAmount: p.Amount,
		Method:      p.Method,
		Status:      p.Status,
		Timestamp:   p.PaymentDate,
	}
	if err := s.events.PublishCheckoutCompleted(ctx, event); err != nil {
		logger.Error(ctx, "Failed to publish checkout event", err, zap.String("payment_id", event.PaymentID))
	}

	sold := 0
	for _, li := range p.Books {
		sold += li.Quantity
	}
	dims := map[string]string{"Method": string(p.Method)}
	recordAsync(s.metrics,
		countPoint(awspkg.MetricCheckoutsCompleted, dims),
		valuePoint(awspkg.MetricCheckoutRevenue, p.Amount, dims),
		valuePoint(awspkg.MetricBooksSold, float64(sold), nil),
	)

	logger.Info(ctx, "Checkout recorded",
		zap.String("payment_id", event.PaymentID),
		zap.String("method", string(p.Method)),
		zap.Float64("amount", p.Amount))
}

func insufficientStock(title string, available, requested int) error {
	return apperrors.BadRequest(fmt.Sprintf("Not enough stock for book: %s. Available: %d, Requested: %d", title, available, requested))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

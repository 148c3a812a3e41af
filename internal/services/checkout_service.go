package services

import (
	"context"
	"errors"
	"fmt"

	"ecocreds/internal/checkout"
	"ecocreds/internal/loyalty"
	"ecocreds/internal/models"
	"ecocreds/internal/repositories/interfaces"
	"ecocreds/internal/utils"
	"ecocreds/pkg/logger"
	"ecocreds/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrDuplicateCheckout is returned when a commit with the same
	// reference is already in flight or completed.
	ErrDuplicateCheckout = errors.New("checkout already processed")

	// ErrPaymentFailed wraps gateway failures during commit.
	ErrPaymentFailed = errors.New("payment failed")
)

type CheckoutService interface {
	// Quote prices the user's current cart. Pure read: nothing is
	// reserved or consumed.
	Quote(ctx context.Context, userID primitive.ObjectID, sel checkout.Selections) (*checkout.Quote, error)

	// Commit turns a quote into a paid order. The reference deduplicates
	// retries; all state changes happen in one transaction.
	Commit(ctx context.Context, userID primitive.ObjectID, request *CommitRequest) (*models.Order, error)

	GetOrder(ctx context.Context, userID primitive.ObjectID, orderID primitive.ObjectID) (*models.Order, error)
	ListOrders(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Order, int64, error)
}

type CommitRequest struct {
	Reference       string `json:"reference" validate:"omitempty,checkout_reference"`
	OffsetSelected  bool   `json:"offset_selected"`
	RequestedPoints int64  `json:"requested_points" validate:"minor_units"`
	PaymentMethodID string `json:"payment_method_id"`
}

type checkoutService struct {
	cartRepo     interfaces.CartRepository
	loyaltyRepo  interfaces.LoyaltyRepository
	creditRepo   interfaces.CreditRepository
	orderRepo    interfaces.OrderRepository
	activityRepo interfaces.ActivityRepository
	productRepo  interfaces.ProductRepository
	txRunner     TxRunner
	cache        CacheService
	provider     payment.Provider
	notifier     Notifier
	cfg          checkout.Config
	currency     string
	logger       *logger.Logger
}

func NewCheckoutService(
	cartRepo interfaces.CartRepository,
	loyaltyRepo interfaces.LoyaltyRepository,
	creditRepo interfaces.CreditRepository,
	orderRepo interfaces.OrderRepository,
	activityRepo interfaces.ActivityRepository,
	productRepo interfaces.ProductRepository,
	txRunner TxRunner,
	cache CacheService,
	provider payment.Provider,
	notifier Notifier,
	cfg checkout.Config,
	currency string,
	logger *logger.Logger,
) CheckoutService {
	return &checkoutService{
		cartRepo:     cartRepo,
		loyaltyRepo:  loyaltyRepo,
		creditRepo:   creditRepo,
		orderRepo:    orderRepo,
		activityRepo: activityRepo,
		productRepo:  productRepo,
		txRunner:     txRunner,
		cache:        cache,
		provider:     provider,
		notifier:     notifier,
		cfg:          cfg,
		currency:     currency,
		logger:       logger,
	}
}

func (s *checkoutService) Quote(ctx context.Context, userID primitive.ObjectID, sel checkout.Selections) (*checkout.Quote, error) {
	lines, account, credits, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	quote, err := checkout.ComputeQuote(lines, account, credits, sel, s.cfg)
	if err != nil {
		return nil, err
	}

	s.logger.LogCheckoutEvent(userID, utils.EventQuoteComputed, "", quote.Total, s.currency)

	return quote, nil
}

func (s *checkoutService) Commit(ctx context.Context, userID primitive.ObjectID, request *CommitRequest) (*models.Order, error) {
	reference := request.Reference
	if reference == "" {
		reference = utils.GenerateCheckoutReference()
	}

	// Dedup guard: the first commit with a reference wins; retries get the
	// already-created order back.
	dedupKey := utils.CacheCheckoutDedup + reference
	acquired, err := s.cache.SetNX(ctx, dedupKey, userID.Hex(), utils.CheckoutDedupTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire dedup guard: %w", err)
	}
	if !acquired {
		if existing, err := s.orderRepo.GetByReference(ctx, reference); err == nil {
			return existing, nil
		}
		return nil, ErrDuplicateCheckout
	}

	order, err := s.commit(ctx, userID, reference, request)
	if err != nil {
		// Release the guard so the client can retry after a failure
		s.cache.Delete(ctx, dedupKey)
		return nil, err
	}

	return order, nil
}

func (s *checkoutService) commit(ctx context.Context, userID primitive.ObjectID, reference string, request *CommitRequest) (*models.Order, error) {
	lines, account, credits, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	sel := checkout.Selections{
		OffsetSelected:  request.OffsetSelected,
		RequestedPoints: request.RequestedPoints,
	}

	quote, err := checkout.ComputeQuote(lines, account, credits, sel, s.cfg)
	if err != nil {
		return nil, err
	}

	// Quoting clamps an oversized points request; committing rejects it.
	// A mismatch here means the balance shrank since the client quoted.
	if request.RequestedPoints > quote.AppliedPoints {
		return nil, checkout.ErrInvalidRedemption
	}

	creditByID := make(map[string]models.FlatCredit, len(credits))
	for _, c := range credits {
		creditByID[c.ID.Hex()] = c
	}
	if err := checkout.ValidateForCommit(quote, account, creditByID); err != nil {
		return nil, err
	}

	// Charge before mutating state; a declined card leaves everything
	// untouched.
	var paymentID string
	if quote.Total > 0 {
		resp, err := s.provider.ProcessPayment(ctx, &payment.PaymentRequest{
			PaymentMethodID: request.PaymentMethodID,
			Amount:          quote.Total,
			Currency:        s.currency,
			Description:     "EcoCreds order " + reference,
			CustomerID:      userID.Hex(),
			Reference:       reference,
		})
		if err != nil {
			s.logger.LogPaymentEvent(reference, utils.EventOrderFailed, quote.Total, s.currency)
			return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
		paymentID = resp.TransactionID
		s.logger.LogPaymentEvent(reference, "payment_captured", quote.Total, s.currency)
	}

	appliedCreditIDs := make([]primitive.ObjectID, 0, len(quote.AppliedCredits))
	for _, applied := range quote.AppliedCredits {
		id, err := primitive.ObjectIDFromHex(applied.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid credit id in quote: %w", err)
		}
		appliedCreditIDs = append(appliedCreditIDs, id)
	}

	order := &models.Order{
		UserID:           userID,
		Reference:        reference,
		Lines:            lines,
		Subtotal:         quote.Subtotal,
		DeliveryFee:      quote.DeliveryFee,
		OffsetFee:        quote.OffsetFee,
		OffsetSelected:   request.OffsetSelected,
		DiscountTotal:    quote.DiscountTotal(),
		AppliedCreditIDs: appliedCreditIDs,
		AppliedPoints:    quote.AppliedPoints,
		PointsEarned:     quote.PointsEarned,
		Total:            quote.Total,
		TotalCO2:         quote.TotalCO2,
		Currency:         s.currency,
		PaymentID:        paymentID,
		Status:           models.OrderStatusPaid,
	}

	previousTier := account.CurrentTier

	// Everything below succeeds or fails as one unit: order row, credit
	// consumption, points mutation, stock and cart.
	txErr := s.txRunner.RunTransaction(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Create(txCtx, order); err != nil {
			if errors.Is(err, interfaces.ErrDuplicateReference) {
				return ErrDuplicateCheckout
			}
			return err
		}

		for _, creditID := range appliedCreditIDs {
			if err := s.creditRepo.MarkUsed(txCtx, creditID, order.ID); err != nil {
				if errors.Is(err, interfaces.ErrCreditUnavailable) {
					return checkout.ErrStaleInstrument
				}
				return err
			}
		}

		if quote.AppliedPoints > 0 {
			if err := loyalty.ApplyDelta(account, -quote.AppliedPoints); err != nil {
				return checkout.ErrInvalidRedemption
			}
		}
		if quote.PointsEarned > 0 {
			if err := loyalty.ApplyDelta(account, quote.PointsEarned); err != nil {
				return err
			}
		}
		if quote.AppliedPoints > 0 || quote.PointsEarned > 0 {
			if err := s.loyaltyRepo.Save(txCtx, account); err != nil {
				return err
			}
		}

		for _, line := range lines {
			if err := s.productRepo.DecrementStock(txCtx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		if err := s.cartRepo.Clear(txCtx, userID); err != nil {
			return err
		}

		return s.recordCommitActivities(txCtx, userID, order, quote)
	})
	if txErr != nil {
		// The charge already went through; give the money back
		if paymentID != "" {
			s.refundAfterFailure(ctx, paymentID, reference, quote.Total)
		}
		return nil, txErr
	}

	s.logger.LogCheckoutEvent(userID, utils.EventOrderPlaced, reference, order.Total, s.currency)

	s.notifyCommitted(userID, order, account, previousTier)

	return order, nil
}

// snapshot loads the cart lines, loyalty account and available credits that
// a quote or commit runs against.
func (s *checkoutService) snapshot(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, *models.LoyaltyAccount, []models.FlatCredit, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	account, err := s.loyaltyRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	available, err := s.creditRepo.GetAvailableByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	credits := make([]models.FlatCredit, 0, len(available))
	for _, c := range available {
		credits = append(credits, *c)
	}

	return cart.Lines, account, credits, nil
}

func (s *checkoutService) recordCommitActivities(ctx context.Context, userID primitive.ObjectID, order *models.Order, quote *checkout.Quote) error {
	activities := []*models.Activity{
		{
			UserID:      userID,
			Type:        models.ActivityOrderPlaced,
			Amount:      order.Total,
			Reference:   order.Reference,
			Description: fmt.Sprintf("Order placed, %d items, %s", len(order.Lines), utils.FormatMinorUnits(order.Total, order.Currency)),
		},
	}

	if quote.AppliedPoints > 0 {
		activities = append(activities, &models.Activity{
			UserID:    userID,
			Type:      models.ActivityPointsRedeemed,
			Points:    -quote.AppliedPoints,
			Reference: order.Reference,
		})
	}
	if quote.PointsEarned > 0 {
		activities = append(activities, &models.Activity{
			UserID:    userID,
			Type:      models.ActivityPointsEarned,
			Points:    quote.PointsEarned,
			Reference: order.Reference,
		})
	}
	for _, applied := range quote.AppliedCredits {
		activities = append(activities, &models.Activity{
			UserID:    userID,
			Type:      models.ActivityCreditUsed,
			Amount:    applied.Value,
			Reference: applied.Code,
		})
	}

	for _, activity := range activities {
		if err := s.activityRepo.Create(ctx, activity); err != nil {
			return err
		}
	}

	return nil
}

func (s *checkoutService) refundAfterFailure(ctx context.Context, paymentID, reference string, amount int64) {
	_, err := s.provider.RefundPayment(ctx, &payment.RefundRequest{
		TransactionID: paymentID,
		Amount:        amount,
		Currency:      s.currency,
		Reason:        "order commit failed",
	})
	if err != nil {
		// Needs manual reconciliation; log loudly
		s.logger.WithError(err).WithField("reference", reference).Error("refund after failed commit did not go through")
		return
	}
	s.logger.LogPaymentEvent(reference, "payment_refunded", amount, s.currency)
}

func (s *checkoutService) notifyCommitted(userID primitive.ObjectID, order *models.Order, account *models.LoyaltyAccount, previousTier string) {
	if s.notifier == nil {
		return
	}

	s.notifier.SendUserNotification(userID, utils.EventOrderPlaced, map[string]interface{}{
		"reference":       order.Reference,
		"total":           order.Total,
		"currency":        order.Currency,
		"currency_symbol": utils.GetCurrencySymbol(order.Currency),
	})

	if order.AppliedPoints > 0 {
		s.notifier.SendUserNotification(userID, utils.EventPointsRedeemed, map[string]interface{}{
			"points":  order.AppliedPoints,
			"balance": account.PointBalance,
		})
	}
	if order.PointsEarned > 0 {
		s.notifier.SendUserNotification(userID, utils.EventPointsEarned, map[string]interface{}{
			"points":  order.PointsEarned,
			"balance": account.PointBalance,
			"tier":    account.CurrentTier,
		})
	}
	if account.CurrentTier != previousTier {
		s.notifier.SendUserNotification(userID, utils.EventTierChanged, map[string]interface{}{
			"previous_tier": previousTier,
			"current_tier":  account.CurrentTier,
		})
	}
}

func (s *checkoutService) GetOrder(ctx context.Context, userID primitive.ObjectID, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, interfaces.ErrNotFound
	}
	return order, nil
}

func (s *checkoutService) ListOrders(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	return s.orderRepo.ListByUser(ctx, userID, params)
}

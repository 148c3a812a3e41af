package checkout

import (
	"errors"

	"ecocreds/internal/models"
)

var (
	// ErrInvalidCart signals an empty cart or a malformed line.
	ErrInvalidCart = errors.New("cart is empty or malformed")
	// ErrInvalidRedemption signals a points request that exceeds the
	// redeemable cap of min(point balance, remaining payable).
	ErrInvalidRedemption = errors.New("requested points exceed redeemable cap")
	// ErrStaleInstrument signals a flat credit that was already consumed.
	ErrStaleInstrument = errors.New("flat credit has already been used")
)

// Config holds the checkout business constants. All currency values are in
// minor units.
type Config struct {
	FreeDeliveryThreshold int64 `json:"free_delivery_threshold"`
	FlatDeliveryFee       int64 `json:"flat_delivery_fee"`
	OffsetFeeAmount       int64 `json:"offset_fee_amount"`
	PointsPerHundred      int64 `json:"points_per_hundred"`
	OffsetBonusPoints     int64 `json:"offset_bonus_points"`
	// StackCredits switches from the default best-single-coupon policy to
	// applying every eligible credit.
	StackCredits bool `json:"stack_credits"`
}

// Selections carries the caller's choices for a quote.
type Selections struct {
	OffsetSelected  bool  `json:"offset_selected"`
	RequestedPoints int64 `json:"requested_points"`
}

type AppliedCredit struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Value int64  `json:"value"`
}

// Quote is the computed, not-yet-committed result of a checkout calculation.
type Quote struct {
	Subtotal         int64           `json:"subtotal"`
	DeliveryFee      int64           `json:"delivery_fee"`
	OffsetFee        int64           `json:"offset_fee"`
	PreDiscountTotal int64           `json:"pre_discount_total"`
	AppliedCredits   []AppliedCredit `json:"applied_credits"`
	AppliedPoints    int64           `json:"applied_points"`
	PointsEarned     int64           `json:"points_earned"`
	Total            int64           `json:"total"`
	TotalCO2         float64         `json:"total_co2"` // kg
}

// DiscountTotal is the sum of all applied flat credits and redeemed points.
func (q *Quote) DiscountTotal() int64 {
	return q.creditValue() + q.AppliedPoints
}

func (q *Quote) creditValue() int64 {
	var v int64
	for _, c := range q.AppliedCredits {
		v += c.Value
	}
	return v
}

// ComputeQuote prices a cart against a consistent snapshot of the account's
// point balance and unused flat credits. It is pure: no I/O, deterministic
// for the same inputs.
//
// The points request is clamped to min(balance, remaining after credits);
// the strict ErrInvalidRedemption check belongs to ValidateForCommit, which
// runs against a fresh snapshot before the commit transaction.
func ComputeQuote(lines []models.CartLine, account *models.LoyaltyAccount, credits []models.FlatCredit, sel Selections, cfg Config) (*Quote, error) {
	if len(lines) == 0 {
		return nil, ErrInvalidCart
	}
	if sel.RequestedPoints < 0 {
		return nil, ErrInvalidRedemption
	}

	var subtotal int64
	var totalCO2 float64
	for _, line := range lines {
		if line.Quantity < 1 || line.UnitPrice < 0 {
			return nil, ErrInvalidCart
		}
		subtotal += line.UnitPrice * line.Quantity
		totalCO2 += line.CO2PerUnit * float64(line.Quantity)
	}

	deliveryFee := cfg.FlatDeliveryFee
	if subtotal > cfg.FreeDeliveryThreshold {
		deliveryFee = 0
	}

	var offsetFee int64
	if sel.OffsetSelected {
		offsetFee = cfg.OffsetFeeAmount
	}

	preDiscount := subtotal + deliveryFee + offsetFee

	for _, c := range credits {
		if c.Status != models.CreditStatusAvailable {
			return nil, ErrStaleInstrument
		}
	}

	applied := selectCredits(credits, subtotal, preDiscount, cfg.StackCredits)

	var creditValue int64
	appliedOut := make([]AppliedCredit, 0, len(applied))
	for _, c := range applied {
		creditValue += c.Value
		appliedOut = append(appliedOut, AppliedCredit{
			ID:    c.ID.Hex(),
			Code:  c.Code,
			Value: c.Value,
		})
	}

	remaining := preDiscount - creditValue

	redeemCap := remaining
	if account == nil {
		redeemCap = 0
	} else if account.PointBalance < redeemCap {
		redeemCap = account.PointBalance
	}

	appliedPoints := sel.RequestedPoints
	if appliedPoints > redeemCap {
		appliedPoints = redeemCap
	}

	total := remaining - appliedPoints
	if total < 0 {
		total = 0
	}

	earned := subtotal / 100 * cfg.PointsPerHundred
	if sel.OffsetSelected {
		earned += cfg.OffsetBonusPoints
	}

	return &Quote{
		Subtotal:         subtotal,
		DeliveryFee:      deliveryFee,
		OffsetFee:        offsetFee,
		PreDiscountTotal: preDiscount,
		AppliedCredits:   appliedOut,
		AppliedPoints:    appliedPoints,
		PointsEarned:     earned,
		Total:            total,
		TotalCO2:         totalCO2,
	}, nil
}

// selectCredits picks the credits to apply. Default policy is best single
// coupon: the eligible credit with the greatest value, ties broken by
// earliest issue date. Stacking applies every eligible credit in value
// order, never letting the running discount exceed the payable amount.
func selectCredits(credits []models.FlatCredit, subtotal, preDiscount int64, stack bool) []models.FlatCredit {
	var eligible []models.FlatCredit
	for _, c := range credits {
		if c.MinOrderValue <= subtotal && c.Value <= preDiscount {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	if !stack {
		best := eligible[0]
		for _, c := range eligible[1:] {
			if c.Value > best.Value || (c.Value == best.Value && c.IssuedAt.Before(best.IssuedAt)) {
				best = c
			}
		}
		return []models.FlatCredit{best}
	}

	// Largest first so small credits fill the remainder.
	ordered := make([]models.FlatCredit, len(eligible))
	copy(ordered, eligible)
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j].Value > ordered[i].Value ||
				(ordered[j].Value == ordered[i].Value && ordered[j].IssuedAt.Before(ordered[i].IssuedAt)) {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}

	var out []models.FlatCredit
	var running int64
	for _, c := range ordered {
		if running+c.Value > preDiscount {
			continue
		}
		running += c.Value
		out = append(out, c)
	}
	return out
}

// ValidateForCommit re-checks a quote against a fresh snapshot taken at
// commit time. It rejects with ErrStaleInstrument if any applied credit is
// no longer available, and with ErrInvalidRedemption if the quote's points
// now exceed min(balance, remaining after credits).
func ValidateForCommit(quote *Quote, account *models.LoyaltyAccount, credits map[string]models.FlatCredit) error {
	var creditValue int64
	for _, applied := range quote.AppliedCredits {
		current, ok := credits[applied.ID]
		if !ok || current.Status != models.CreditStatusAvailable {
			return ErrStaleInstrument
		}
		creditValue += applied.Value
	}

	redeemCap := quote.PreDiscountTotal - creditValue
	if account.PointBalance < redeemCap {
		redeemCap = account.PointBalance
	}
	if quote.AppliedPoints > redeemCap {
		return ErrInvalidRedemption
	}
	return nil
}

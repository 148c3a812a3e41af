package config

import "ecocreds/internal/checkout"

// CheckoutConfig holds the business constants for quote computation. All
// currency amounts are minor units.
type CheckoutConfig struct {
	FreeDeliveryThreshold int64 `yaml:"free_delivery_threshold"`
	FlatDeliveryFee       int64 `yaml:"flat_delivery_fee"`
	OffsetFeeAmount       int64 `yaml:"offset_fee_amount"`
	PointsPerHundred      int64 `yaml:"points_per_hundred"`
	OffsetBonusPoints     int64 `yaml:"offset_bonus_points"`
	StackCredits          bool  `yaml:"stack_credits"`
	ListingSoldBonus      int64 `yaml:"listing_sold_bonus"`
}

func loadCheckoutConfig() *CheckoutConfig {
	return &CheckoutConfig{
		FreeDeliveryThreshold: getEnvAsInt64("CHECKOUT_FREE_DELIVERY_THRESHOLD", 50000),
		FlatDeliveryFee:       getEnvAsInt64("CHECKOUT_FLAT_DELIVERY_FEE", 4900),
		OffsetFeeAmount:       getEnvAsInt64("CHECKOUT_OFFSET_FEE_AMOUNT", 1900),
		PointsPerHundred:      getEnvAsInt64("CHECKOUT_POINTS_PER_HUNDRED", 1),
		OffsetBonusPoints:     getEnvAsInt64("CHECKOUT_OFFSET_BONUS_POINTS", 5),
		StackCredits:          getEnvAsBool("CHECKOUT_STACK_CREDITS", false),
		ListingSoldBonus:      getEnvAsInt64("MARKETPLACE_LISTING_SOLD_BONUS", 25),
	}
}

// LedgerConfig maps the section to the checkout package's config type.
func (c *CheckoutConfig) LedgerConfig() checkout.Config {
	return checkout.Config{
		FreeDeliveryThreshold: c.FreeDeliveryThreshold,
		FlatDeliveryFee:       c.FlatDeliveryFee,
		OffsetFeeAmount:       c.OffsetFeeAmount,
		PointsPerHundred:      c.PointsPerHundred,
		OffsetBonusPoints:     c.OffsetBonusPoints,
		StackCredits:          c.StackCredits,
	}
}

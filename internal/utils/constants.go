package utils

import "time"

// Application Constants
const (
	AppName    = "EcoCreds"
	AppVersion = "1.0.0"

	// Default values
	DefaultCurrency = "USD"
	DefaultTimeZone = "UTC"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 8
	PasswordMaxLength  = 128

	// Credits
	CreditCodeLength    = 10
	DefaultCreditExpiry = 90 * 24 * time.Hour

	// Checkout
	CheckoutDedupTTL = 24 * time.Hour

	// Rate Limiting
	DefaultRateLimit = 100
	LoginRateLimit   = 5

	// Marketplace
	MaxListingTitleLength       = 120
	MaxListingDescriptionLength = 2000
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusFailed  = "failed"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrUserNotFound       = "user not found"
	ErrUserExists         = "user already exists"
	ErrInvalidToken       = "invalid token"
	ErrTokenExpired       = "token expired"
	ErrInvalidInput       = "invalid input"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrNotFound           = "not found"
	ErrConflict           = "conflict"
	ErrValidationFailed   = "validation failed"
	ErrPaymentFailed      = "payment failed"
	ErrCartEmpty          = "cart is empty"
	ErrCreditNotFound     = "credit not found"
	ErrOrderNotFound      = "order not found"
)

// Cache Keys
const (
	CacheUserPrefix     = "user:"
	CacheProductPrefix  = "product:"
	CacheCreditPrefix   = "credit:"
	CacheLoyaltyPrefix  = "loyalty:"
	CacheListingPrefix  = "listing:"
	CacheRateLimitKey   = "rate_limit:"
	CacheCheckoutDedup  = "checkout_dedup:"
	CacheSessionPrefix  = "session:"
)

// Event Types
const (
	EventUserRegistered = "user_registered"
	EventUserLogin      = "user_login"
	EventQuoteComputed  = "quote_computed"
	EventOrderPlaced    = "order_placed"
	EventOrderFailed    = "order_failed"
	EventPointsEarned   = "points_earned"
	EventPointsRedeemed = "points_redeemed"
	EventTierChanged    = "tier_changed"
	EventCreditIssued   = "credit_issued"
	EventCreditUsed     = "credit_used"
	EventListingSold    = "listing_sold"
)

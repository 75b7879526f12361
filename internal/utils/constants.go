package utils

import "time"

// Application Constants
const (
	AppName    = "Descuentia"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage = "en"
	DefaultCurrency = "EUR"
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

	// Discovery Constants
	DefaultSearchRadiusKm   = 2.0  // user-side radius when none chosen
	MaxSearchRadiusKm       = 50.0 // kilometers
	DefaultVisibilityRadius = 5.0  // merchant-side radius when unset
	FeaturedPromotionsLimit = 10
	DiscoveryCacheTTL       = 2 * time.Minute

	// Coupon Constants
	CouponValidityDays     = 30
	CouponRandomCodeLength = 6
	CouponExpiryWarning    = 24 * time.Hour

	// File Upload
	MaxImageSize       = 5 * 1024 * 1024 // 5MB
	ThumbnailMaxWidth  = 400
	ThumbnailMaxHeight = 400

	// Rate Limiting
	DefaultRateLimit = 100
	LoginRateLimit   = 5
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
	ErrFileUploadFailed   = "file upload failed"
	ErrPaymentFailed      = "payment failed"
	ErrPromotionNotFound  = "promotion not found"
	ErrBusinessNotFound   = "business not found"
	ErrCouponNotFound     = "coupon not found"
	ErrPlanLimitReached   = "active promotion limit reached for current plan"
)

// Cache Keys
const (
	CacheUserPrefix      = "user:"
	CacheBusinessPrefix  = "business:"
	CachePromotionPrefix = "promotion:"
	CacheCouponPrefix    = "coupon:"
	CacheDiscoveryPrefix = "discovery:"
	CacheFeaturedKey     = "promotions:featured"
	CacheRateLimitPrefix = "rate_limit:"
	CacheSessionPrefix   = "session:"
)

// File Types
var (
	AllowedImageTypes = []string{"jpg", "jpeg", "png", "gif", "webp"}
)

// Geographic Constants
const (
	EarthRadiusKM = 6371.0
)

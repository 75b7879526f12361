package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon codes are the one externally visible serialization contract:
// COUPON-{8 hex promo prefix}-{8 hex user prefix}-{base36 ms timestamp}-{6 char base36 random}.
var couponCodePattern = regexp.MustCompile(`(?i)^COUPON-[a-f0-9]{8}-[a-f0-9]{8}-[a-z0-9]+-[a-z0-9]+$`)

const base36Chars = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateCouponCode builds a unique redemption code for a claim. The promo
// and user prefixes come from the ObjectID hex, so they are always lowercase hex.
func GenerateCouponCode(promotionID, userID primitive.ObjectID) string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)
	random := strings.ToUpper(generateRandom(CouponRandomCodeLength, base36Chars))
	return fmt.Sprintf("COUPON-%s-%s-%s-%s",
		promotionID.Hex()[:8], userID.Hex()[:8], timestamp, random)
}

// IsValidCouponCode checks the code format without any I/O. Malformed codes
// are rejected before a persistence round-trip.
func IsValidCouponCode(code string) bool {
	return couponCodePattern.MatchString(code)
}

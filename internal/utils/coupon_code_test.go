package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateCouponCode_RoundTripsValidator(t *testing.T) {
	promoID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	for i := 0; i < 50; i++ {
		code := GenerateCouponCode(promoID, userID)
		assert.True(t, IsValidCouponCode(code), "generated code must pass the validator: %s", code)
	}
}

func TestGenerateCouponCode_Structure(t *testing.T) {
	promoID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	code := GenerateCouponCode(promoID, userID)
	parts := strings.Split(code, "-")

	require.Len(t, parts, 5)
	assert.Equal(t, "COUPON", parts[0])
	assert.Equal(t, promoID.Hex()[:8], parts[1])
	assert.Equal(t, userID.Hex()[:8], parts[2])
	assert.Len(t, parts[4], CouponRandomCodeLength)
	// random segment is uppercased base36
	assert.Equal(t, strings.ToUpper(parts[4]), parts[4])
}

func TestIsValidCouponCode(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{"well formed", "COUPON-a1b2c3d4-e5f6a7b8-kx92a1-ZT4QJ2", true},
		{"lowercase prefix accepted", "coupon-a1b2c3d4-e5f6a7b8-kx92a1-zt4qj2", true},
		{"missing prefix", "a1b2c3d4-e5f6a7b8-kx92a1-ZT4QJ2", false},
		{"short promo prefix", "COUPON-a1b2-e5f6a7b8-kx92a1-ZT4QJ2", false},
		{"non-hex promo prefix", "COUPON-z1z2z3z4-e5f6a7b8-kx92a1-ZT4QJ2", false},
		{"missing segments", "COUPON-a1b2c3d4-e5f6a7b8", false},
		{"empty", "", false},
		{"garbage", "not a coupon code", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidCouponCode(tt.code))
		})
	}
}

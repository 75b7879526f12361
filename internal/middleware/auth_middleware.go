package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alexcolls/descuentia/internal/utils"
)

// AuthRequired validates the bearer token and sets user context
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_type", claims.UserType)
		c.Set("user_email", claims.Email)
		if claims.BusinessID != nil {
			c.Set("business_id", *claims.BusinessID)
		}

		c.Next()
	}
}

// OptionalAuth sets user context when a valid bearer token is present but
// never rejects the request. Used on public endpoints that personalize for
// logged-in users.
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" || tokenString == authHeader {
			c.Next()
			return
		}

		if claims, err := utils.ValidateToken(tokenString, jwtSecret); err == nil {
			c.Set("user_id", claims.UserID)
			c.Set("user_type", claims.UserType)
			c.Set("user_email", claims.Email)
			if claims.BusinessID != nil {
				c.Set("business_id", *claims.BusinessID)
			}
		}

		c.Next()
	}
}

// MerchantRequired ensures the authenticated user is a merchant
func MerchantRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userType, exists := c.Get("user_type")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User type not found"})
			c.Abort()
			return
		}

		userTypeStr, ok := userType.(string)
		if !ok || userTypeStr != "merchant" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Merchant access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ConsumerRequired ensures the authenticated user is a consumer
func ConsumerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userType, exists := c.Get("user_type")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User type not found"})
			c.Abort()
			return
		}

		userTypeStr, ok := userType.(string)
		if !ok || userTypeStr != "consumer" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Consumer access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

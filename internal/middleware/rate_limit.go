package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"veena_crackers_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

const (
	// Limites par endpoint
	CheckoutMaxAttempts = 5
	APIMaxRequests      = 100 // Par minute pour les endpoints généraux

	// Durées de cooldown
	CheckoutCooldown = 10 * time.Minute
	APICooldown      = 1 * time.Minute
)

// CheckoutRateLimit limite les soumissions de commande par numéro de téléphone
func CheckoutRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Lire le body sans le consommer
		bodyBytes, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		phone := extractPhone(bodyBytes)
		if phone == "" {
			// Pas de téléphone lisible : la validation s'en chargera
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:checkout:%s", phone)
		count, err := incrementRateLimit(c.Request.Context(), key, CheckoutCooldown)
		if err != nil {
			c.Next()
			return
		}

		if count > CheckoutMaxAttempts {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Trop de commandes soumises, merci de réessayer plus tard",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// APIRateLimit limite le débit global par adresse IP
func APIRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:api:%s", c.ClientIP())
		count, err := incrementRateLimit(c.Request.Context(), key, APICooldown)
		if err != nil {
			c.Next()
			return
		}

		if count > APIMaxRequests {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Trop de requêtes"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func incrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := database.Redis.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func extractPhone(body []byte) string {
	var probe struct {
		Customer struct {
			Phone string `json:"phone"`
		} `json:"customer"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	return probe.Customer.Phone
}

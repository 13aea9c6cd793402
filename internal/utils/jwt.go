package utils

import (
	"os"
	"time"

	"veena_crackers_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateAdminJWT signe un token de session admin avec expiration.
// Remplace l'ancien flag isAdmin global : chaque mutation console exige
// un token valide et non expiré.
func GenerateAdminJWT(admin models.AdminUser) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}

	claims := jwt.MapClaims{
		"user_id": admin.ID,
		"email":   admin.Email,
		"role":    admin.Role,
		"exp":     time.Now().Add(12 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

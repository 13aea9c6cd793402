package models

import "time"

// AdminUser est un compte staff de la console. Le mot de passe est haché
// en Argon2id ; la session est un JWT signé avec expiration (pas de flag global).
type AdminUser struct {
	ID           string    `json:"id" db:"admin_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

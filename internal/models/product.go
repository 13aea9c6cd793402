package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Product est une entrée du catalogue de feux d'artifice.
// DiscountPct est une remise en pourcentage ; DiscountedRate est le prix
// unitaire dérivé que le panier fige au moment de l'ajout.
type Product struct {
	ID          gocql.UUID `json:"id" db:"product_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Category    string     `json:"category" db:"category"`
	Price       float64    `json:"price" db:"price"`
	DiscountPct float64    `json:"discountPct" db:"discount_pct"`
	ImageURLs   []string   `json:"image_urls" db:"image_urls"`
	Tags        []string   `json:"tags" db:"tags"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// DiscountedRate retourne le prix unitaire après remise catalogue.
func (p Product) DiscountedRate() float64 {
	rate := p.Price * (1 - p.DiscountPct/100)
	if rate < 0 {
		return 0
	}
	return rate
}

// UnitDiscount retourne la remise par unité en valeur absolue.
func (p Product) UnitDiscount() float64 {
	return p.Price - p.DiscountedRate()
}

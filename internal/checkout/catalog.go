package checkout

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// ScyllaCatalog lit les prix vivants dans le keyspace products.
type ScyllaCatalog struct {
	session *gocql.Session
}

func NewScyllaCatalog(session *gocql.Session) *ScyllaCatalog {
	return &ScyllaCatalog{session: session}
}

func (c *ScyllaCatalog) PriceOf(ctx context.Context, productID string) (float64, float64, error) {
	parsed, err := uuid.Parse(productID)
	if err != nil {
		return 0, 0, fmt.Errorf("id produit invalide: %v", err)
	}

	var price, discountPct float64
	err = c.session.Query(`SELECT price, discount_pct FROM products WHERE product_id = ?`,
		gocql.UUID(parsed)).WithContext(ctx).Scan(&price, &discountPct)
	if err != nil {
		return 0, 0, err
	}

	unitDiscount := price * discountPct / 100
	return price, unitDiscount, nil
}

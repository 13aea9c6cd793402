package models

// CartItem est un article de panier stocké en JSON dans Redis.
// Les anciens clients envoient qty/price, les nouveaux quantity/unitPrice :
// les deux paires de champs sont acceptées et normalisées par le package orders.
type CartItem struct {
	ProductID string  `json:"productId"`
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity,omitempty"`
	Qty       int     `json:"qty,omitempty"`
	UnitPrice float64 `json:"unitPrice,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Discount  float64 `json:"discount,omitempty"`
	ImageURL  string  `json:"imageUrl,omitempty"`
}

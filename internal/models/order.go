package models

import "time"

// Statuts de livraison d'une commande
const (
	StatusPending    = "Pending"
	StatusDispatched = "Dispatched"
	StatusDelivered  = "Delivered"
)

// Types de paiement (étiquette posée manuellement, aucun paiement en ligne)
const (
	TypeToPay = "TO-PAY"
	TypePaid  = "PAID"
)

// Order est le schéma unifié de commande, partagé entre le checkout client
// et la console admin. DocumentID est attribué par le store ; OrderID est
// l'identifiant lisible (VEE-YYYYMMDD-HHMMSS-XXX), généré une seule fois à la création.
type Order struct {
	DocumentID   string      `json:"id" db:"doc_id"`
	OrderID      string      `json:"orderId" db:"order_id"`
	CustomerName string      `json:"customerName" db:"customer_name"`
	Phone        string      `json:"phone" db:"phone"`
	Email        string      `json:"email" db:"email"`
	Address      string      `json:"address" db:"address"`
	Place        string      `json:"place" db:"place"`
	Status       string      `json:"status" db:"status"`
	Type         string      `json:"type" db:"type"`
	Transport    string      `json:"transport" db:"transport"`
	Discount     float64     `json:"discount" db:"discount"`
	Total        float64     `json:"total" db:"total"`
	NetAmount    float64     `json:"netAmount" db:"net_amount"`
	TotalAmount  float64     `json:"totalAmount" db:"total_amount"`
	Items        []OrderItem `json:"items" db:"items"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	DeliveryDate time.Time   `json:"deliveryDate" db:"delivery_date"`
	// Version monotone : une écriture dont la version de base est périmée est rejetée
	Version int64 `json:"version" db:"version"`
}

// OrderItem est une ligne de commande.
// FinalPrice = max(0, UnitPrice - Discount), Total = Quantity * FinalPrice.
type OrderItem struct {
	ProductID  string  `json:"productId"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	Discount   float64 `json:"discount"`
	FinalPrice float64 `json:"finalPrice"`
	Total      float64 `json:"total"`
}

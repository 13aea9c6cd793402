package orders

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"veena_crackers_back_end/internal/models"
)

// Schéma unifié de commande Veena Crackers : construction, calculs dérivés
// et validation. Aucune écriture ici, le package est purement en mémoire.

var (
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
	emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// ValidPhone : exactement 10 chiffres ASCII.
func ValidPhone(phone string) bool { return phoneRe.MatchString(phone) }

// ValidEmail : motif basique local@domaine.tld.
func ValidEmail(email string) bool { return emailRe.MatchString(email) }

// GenerateOrderID génère un identifiant lisible VEE-YYYYMMDD-HHMMSS-XXX
// (XXX = 3 chiffres aléatoires). Pas d'unicité garantie à la même seconde :
// la clé primaire reste le document id attribué par le store.
func GenerateOrderID(now time.Time) string {
	return fmt.Sprintf("VEE-%s-%s-%03d",
		now.Format("20060102"),
		now.Format("150405"),
		rand.Intn(1000))
}

// Customer regroupe les champs du formulaire de checkout.
// Address et Place sont optionnels.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Place   string `json:"place"`
}

// Options de construction d'une commande. Les zéros donnent les défauts :
// statut Pending, type TO-PAY, livraison à J+3, remise globale nulle.
type Options struct {
	Discount     float64
	Transport    string
	Type         string
	Status       string
	DeliveryDate time.Time
}

// ProcessItems normalise les formes hétérogènes du panier (qty/quantity,
// price/unitPrice) vers le schéma OrderItem canonique. Une remise manquante
// vaut zéro, un prix final négatif est ramené à zéro.
func ProcessItems(raw []models.CartItem) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(raw))
	for _, it := range raw {
		quantity := it.Quantity
		if quantity == 0 {
			quantity = it.Qty
		}
		if quantity == 0 {
			quantity = 1
		}

		unitPrice := it.UnitPrice
		if unitPrice == 0 {
			unitPrice = it.Price
		}

		discount := it.Discount
		finalPrice := unitPrice - discount
		if finalPrice < 0 {
			finalPrice = 0
		}

		productID := it.ProductID
		if productID == "" {
			productID = it.ID
		}

		items = append(items, models.OrderItem{
			ProductID:  productID,
			Name:       it.Name,
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			Discount:   discount,
			FinalPrice: finalPrice,
			Total:      float64(quantity) * finalPrice,
		})
	}
	return items
}

// CalculateTotals calcule les agrégats financiers :
// total = Σ lignes, netAmount = max(0, total - remise globale),
// totalAmount = netAmount (distinct pour accueillir taxes/transport plus tard).
func CalculateTotals(items []models.OrderItem, overallDiscount float64) (total, netAmount, totalAmount float64) {
	for _, it := range items {
		total += it.Total
	}
	netAmount = total - overallDiscount
	if netAmount < 0 {
		netAmount = 0
	}
	return total, netAmount, netAmount
}

// BuildOrder assemble une commande validable à partir du formulaire client et
// du panier. Construction pure : rien n'est écrit, le DocumentID reste vide.
func BuildOrder(customer Customer, cartItems []models.CartItem, opts Options) models.Order {
	now := time.Now()

	items := ProcessItems(cartItems)

	discount := opts.Discount
	if discount < 0 {
		discount = 0
	}
	total, netAmount, totalAmount := CalculateTotals(items, discount)

	status := opts.Status
	if status == "" {
		status = models.StatusPending
	}
	orderType := opts.Type
	if orderType == "" {
		orderType = models.TypeToPay
	}
	deliveryDate := opts.DeliveryDate
	if deliveryDate.IsZero() {
		deliveryDate = now.Add(3 * 24 * time.Hour)
	}

	return models.Order{
		OrderID:      GenerateOrderID(now),
		CustomerName: customer.Name,
		Phone:        customer.Phone,
		Email:        customer.Email,
		Address:      customer.Address,
		Place:        customer.Place,
		Status:       status,
		Type:         orderType,
		Transport:    opts.Transport,
		Discount:     discount,
		Total:        total,
		NetAmount:    netAmount,
		TotalAmount:  totalAmount,
		Items:        items,
		CreatedAt:    now,
		DeliveryDate: deliveryDate,
	}
}

// Validate vérifie tous les invariants du schéma et retourne la liste
// complète des violations, jamais seulement la première.
func Validate(order models.Order) (bool, []string) {
	var errs []string

	if order.OrderID == "" {
		errs = append(errs, "l'identifiant de commande est requis")
	}
	if order.CustomerName == "" {
		errs = append(errs, "le nom du client est requis")
	}
	if !phoneRe.MatchString(order.Phone) {
		errs = append(errs, "un numéro de téléphone à 10 chiffres est requis")
	}
	if !emailRe.MatchString(order.Email) {
		errs = append(errs, "une adresse email valide est requise")
	}

	if len(order.Items) == 0 {
		errs = append(errs, "au moins un article est requis")
	} else {
		for i, it := range order.Items {
			if it.ProductID == "" {
				errs = append(errs, fmt.Sprintf("article %d: identifiant produit requis", i+1))
			}
			if it.Name == "" {
				errs = append(errs, fmt.Sprintf("article %d: nom du produit requis", i+1))
			}
			if it.Quantity <= 0 {
				errs = append(errs, fmt.Sprintf("article %d: quantité invalide", i+1))
			}
			if it.UnitPrice < 0 {
				errs = append(errs, fmt.Sprintf("article %d: prix unitaire négatif", i+1))
			}
			if it.Discount < 0 {
				errs = append(errs, fmt.Sprintf("article %d: remise négative", i+1))
			}
			if it.FinalPrice > it.UnitPrice {
				errs = append(errs, fmt.Sprintf("article %d: prix final supérieur au prix unitaire", i+1))
			}
		}
	}

	if order.Status != "" && !IsValidStatus(order.Status) {
		errs = append(errs, "statut invalide: doit être Pending, Dispatched ou Delivered")
	}
	if order.Type != "" && order.Type != models.TypeToPay && order.Type != models.TypePaid {
		errs = append(errs, "type invalide: doit être TO-PAY ou PAID")
	}

	if order.Discount < 0 {
		errs = append(errs, "la remise globale ne peut pas être négative")
	}
	if order.Total < 0 {
		errs = append(errs, "le total ne peut pas être négatif")
	}
	if order.NetAmount < 0 {
		errs = append(errs, "le montant net ne peut pas être négatif")
	}
	if order.TotalAmount < 0 {
		errs = append(errs, "le montant final ne peut pas être négatif")
	}

	return len(errs) == 0, errs
}

// ValidateOrError retourne une *ValidationError si la commande viole au moins
// un invariant, nil sinon.
func ValidateOrError(order models.Order) error {
	if ok, errs := Validate(order); !ok {
		return &ValidationError{Errors: errs}
	}
	return nil
}

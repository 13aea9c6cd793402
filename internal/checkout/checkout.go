package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"

	"veena_crackers_back_end/internal/models"
	"veena_crackers_back_end/internal/orders"
	"veena_crackers_back_end/internal/store"
)

// Catalog expose le prix catalogue courant d'un produit, pour re-valider
// les prix figés dans le panier juste avant d'accepter la commande.
type Catalog interface {
	PriceOf(ctx context.Context, productID string) (unitPrice, unitDiscount float64, err error)
}

// Idempotency réserve une clé de requête générée côté client : un double
// clic rejoue la même clé et retombe sur la commande déjà créée au lieu
// d'en produire une seconde.
type Idempotency interface {
	// Reserve retourne (orderID déjà créé, réservation fraîche, erreur).
	Reserve(ctx context.Context, requestID string) (string, bool, error)
	// Commit associe l'orderID créé à la réservation.
	Commit(ctx context.Context, requestID, orderID string) error
}

// ErrSubmissionInFlight : une soumission porteuse de la même clé est encore
// en cours, on ne crée rien de plus.
var ErrSubmissionInFlight = errors.New("une soumission identique est déjà en cours")

// Service transforme un panier en commande soumise. Catalog et Idempotency
// sont optionnels (nil = contrôle désactivé).
type Service struct {
	store       store.OrderStore
	catalog     Catalog
	idempotency Idempotency
}

func NewService(s store.OrderStore, catalog Catalog, idem Idempotency) *Service {
	return &Service{store: s, catalog: catalog, idempotency: idem}
}

// Result est la réponse d'une soumission réussie : l'orderId est durable,
// le client peut s'y référer.
type Result struct {
	OrderID    string       `json:"orderId"`
	DocumentID string       `json:"id"`
	Order      models.Order `json:"order"`
	Replayed   bool         `json:"replayed,omitempty"`
}

// Submit valide le formulaire et le panier, construit la commande, la
// re-valide, puis l'écrit en UNE écriture atomique. Tout échec laisse le
// store intact : aucune commande partielle n'existe jamais.
func (s *Service) Submit(ctx context.Context, customer orders.Customer, cart []models.CartItem, opts orders.Options, requestID string) (Result, error) {
	// Contrôles de formulaire en premier : mêmes règles que Validate,
	// remontés avant tout travail pour réafficher le formulaire
	if errs := checkForm(customer, cart); len(errs) > 0 {
		return Result{}, &orders.ValidationError{Errors: errs}
	}

	// Re-validation des prix contre le catalogue vivant : un prix qui a
	// dérivé depuis l'ajout au panier rejette la commande
	if s.catalog != nil {
		if errs := s.checkPrices(ctx, cart); len(errs) > 0 {
			return Result{}, &orders.ValidationError{Errors: errs}
		}
	}

	// Suppression des doublons côté serveur (clé de requête client)
	if s.idempotency != nil && requestID != "" {
		existing, fresh, err := s.idempotency.Reserve(ctx, requestID)
		if err != nil {
			return Result{}, &orders.TransportError{Op: "idempotency", Err: err}
		}
		if !fresh {
			if existing == "" {
				return Result{}, ErrSubmissionInFlight
			}
			return Result{OrderID: existing, Replayed: true}, nil
		}
	}

	order := orders.BuildOrder(customer, cart, opts)
	if err := orders.ValidateOrError(order); err != nil {
		return Result{}, err
	}

	docID, err := s.store.Create(ctx, order)
	if err != nil {
		return Result{}, err
	}
	order.DocumentID = docID
	order.Version = 1

	if s.idempotency != nil && requestID != "" {
		// Échec non bloquant : la commande existe, la clé expirera seule
		if err := s.idempotency.Commit(ctx, requestID, order.OrderID); err != nil {
			fmt.Println("⚠️ Enregistrement clé d'idempotence impossible:", err)
		}
	}

	return Result{OrderID: order.OrderID, DocumentID: docID, Order: order}, nil
}

// checkForm reproduit la validation du formulaire de checkout :
// nom requis, téléphone à 10 chiffres, email, panier non vide.
func checkForm(customer orders.Customer, cart []models.CartItem) []string {
	var errs []string
	if customer.Name == "" {
		errs = append(errs, "le nom du client est requis")
	}
	if !orders.ValidPhone(customer.Phone) {
		errs = append(errs, "un numéro de téléphone à 10 chiffres est requis")
	}
	if !orders.ValidEmail(customer.Email) {
		errs = append(errs, "une adresse email valide est requise")
	}
	if len(cart) == 0 {
		errs = append(errs, "le panier est vide")
	}
	return errs
}

// checkPrices compare les prix figés dans le panier aux prix catalogue.
func (s *Service) checkPrices(ctx context.Context, cart []models.CartItem) []string {
	var errs []string
	for _, it := range cart {
		productID := it.ProductID
		if productID == "" {
			productID = it.ID
		}
		if productID == "" {
			continue
		}

		livePrice, liveDiscount, err := s.catalog.PriceOf(ctx, productID)
		if err != nil {
			errs = append(errs, fmt.Sprintf("produit %s introuvable au catalogue", it.Name))
			continue
		}

		cartPrice := it.UnitPrice
		if cartPrice == 0 {
			cartPrice = it.Price
		}
		if math.Abs(cartPrice-livePrice) > 0.009 || math.Abs(it.Discount-liveDiscount) > 0.009 {
			errs = append(errs, fmt.Sprintf(
				"le prix de %s a changé (%.2f → %.2f), merci de re-valider le panier",
				it.Name, cartPrice, livePrice))
		}
	}
	return errs
}

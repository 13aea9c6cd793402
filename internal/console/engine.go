package console

import (
	"context"
	"strings"
	"sync"

	"veena_crackers_back_end/internal/models"
	"veena_crackers_back_end/internal/orders"
	"veena_crackers_back_end/internal/store"
)

// Engine est la vue temps réel de la console admin sur la collection des
// commandes. Un seul abonnement au store ; chaque push remplace l'ensemble
// de travail en bloc (pas de diff incrémental). Les mutations ne touchent
// jamais l'état local : la vue se rafraîchit au prochain instantané.
type Engine struct {
	store store.OrderStore

	mu     sync.RWMutex
	orders []models.Order
	ready  bool

	unsubscribe func()
}

// Counters sont les agrégats recalculés sur l'ensemble NON filtré.
type Counters struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Dispatched int `json:"dispatched"`
	Delivered  int `json:"delivered"`
}

func NewEngine(s store.OrderStore) *Engine {
	return &Engine{store: s}
}

// Start souscrit à la collection. À appeler une seule fois.
func (e *Engine) Start(ctx context.Context) error {
	unsub, err := e.store.Subscribe(ctx, func(snapshot []models.Order) {
		e.mu.Lock()
		e.orders = snapshot
		e.ready = true
		e.mu.Unlock()
	})
	if err != nil {
		return err
	}
	e.unsubscribe = unsub
	return nil
}

// Stop se désabonne du store.
func (e *Engine) Stop() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// Ready indique si le premier instantané est arrivé.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ready
}

// Orders retourne une copie de l'ensemble de travail courant.
func (e *Engine) Orders() []models.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cp := make([]models.Order, len(e.orders))
	copy(cp, e.orders)
	return cp
}

// FilterByStatus garde les commandes au statut demandé ("all" = tout).
// Idempotent : filtrer deux fois donne le même résultat qu'une fois.
func FilterByStatus(list []models.Order, status string) []models.Order {
	if status == "" || status == "all" {
		return list
	}
	filtered := make([]models.Order, 0, len(list))
	for _, o := range list {
		if o.Status == status {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// Search garde les commandes dont AU MOINS UN champ contient le terme
// (insensible à la casse) : nom, téléphone, orderId, document id, adresse,
// lieu, transporteur, type de paiement ou email.
func Search(list []models.Order, term string) []models.Order {
	if term == "" {
		return list
	}
	needle := strings.ToLower(term)

	filtered := make([]models.Order, 0, len(list))
	for _, o := range list {
		haystacks := []string{
			o.CustomerName, o.Phone, o.OrderID, o.DocumentID,
			o.Address, o.Place, o.Transport, o.Type, o.Email,
		}
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), needle) {
				filtered = append(filtered, o)
				break
			}
		}
	}
	return filtered
}

// View applique filtre de statut ET recherche sur l'ensemble courant.
func (e *Engine) View(status, term string) []models.Order {
	return Search(FilterByStatus(e.Orders(), status), term)
}

// Counters recalcule les compteurs sur l'ensemble non filtré.
func (e *Engine) Counters() Counters {
	e.mu.RLock()
	defer e.mu.RUnlock()

	c := Counters{Total: len(e.orders)}
	for _, o := range e.orders {
		switch o.Status {
		case models.StatusPending:
			c.Pending++
		case models.StatusDispatched:
			c.Dispatched++
		case models.StatusDelivered:
			c.Delivered++
		}
	}
	return c
}

// SetStatus fait avancer le statut. La machine à états est vérifiée ICI,
// côté serveur, avant toute écriture : Pending → Dispatched → Delivered
// uniquement, sinon InvalidTransitionError et la commande reste intacte.
func (e *Engine) SetStatus(ctx context.Context, docID, newStatus string) error {
	current, err := e.store.Get(ctx, docID)
	if err != nil {
		return err
	}
	if err := orders.CheckTransition(current.Status, newStatus); err != nil {
		return err
	}
	return e.store.Update(ctx, docID, map[string]interface{}{
		store.FieldStatus: newStatus,
	}, current.Version)
}

// SetTransport change le transporteur, toujours légal.
func (e *Engine) SetTransport(ctx context.Context, docID, carrier string) error {
	current, err := e.store.Get(ctx, docID)
	if err != nil {
		return err
	}
	return e.store.Update(ctx, docID, map[string]interface{}{
		store.FieldTransport: carrier,
	}, current.Version)
}

// SetPaymentType bascule TO-PAY ↔ PAID, sans restriction de transition.
func (e *Engine) SetPaymentType(ctx context.Context, docID, paymentType string) error {
	if !orders.IsValidType(paymentType) {
		return &orders.ValidationError{Errors: []string{"type invalide: doit être TO-PAY ou PAID"}}
	}
	current, err := e.store.Get(ctx, docID)
	if err != nil {
		return err
	}
	return e.store.Update(ctx, docID, map[string]interface{}{
		store.FieldType: paymentType,
	}, current.Version)
}

// Dispatch groupe l'expédition (statut + transporteur) en UNE écriture,
// pour ne jamais laisser observer un état à moitié appliqué.
func (e *Engine) Dispatch(ctx context.Context, docID, carrier string) error {
	current, err := e.store.Get(ctx, docID)
	if err != nil {
		return err
	}
	if err := orders.CheckTransition(current.Status, models.StatusDispatched); err != nil {
		return err
	}
	return e.store.Update(ctx, docID, map[string]interface{}{
		store.FieldStatus:    models.StatusDispatched,
		store.FieldTransport: carrier,
	}, current.Version)
}

// Remove supprime définitivement la commande, sans fenêtre d'annulation.
func (e *Engine) Remove(ctx context.Context, docID string) error {
	return e.store.Delete(ctx, docID)
}

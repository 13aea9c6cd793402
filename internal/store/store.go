package store

import (
	"context"

	"veena_crackers_back_end/internal/models"
)

// OrderStore est le contrat du magasin de documents de commandes.
// Toutes les opérations sont bloquantes et respectent le contexte ; toute
// panne distante est enveloppée dans *orders.TransportError et remontée
// telle quelle à l'appelant.
//
// Subscribe pousse l'instantané COMPLET de la collection à chaque changement,
// au moins une fois (fan-out éventuellement cohérent, jamais de diff).
type OrderStore interface {
	// Create écrit la commande en une seule écriture atomique et retourne
	// le document id attribué. Aucune persistance partielle des articles.
	Create(ctx context.Context, order models.Order) (string, error)

	// Update applique un groupe de champs en une écriture. baseVersion est la
	// version lue par l'appelant : si elle est périmée, l'écriture échoue avec
	// orders.ErrVersionConflict au lieu d'un last-write-wins silencieux.
	Update(ctx context.Context, docID string, fields map[string]interface{}, baseVersion int64) error

	// Delete supprime définitivement la commande (pas de corbeille).
	Delete(ctx context.Context, docID string) error

	// Get retourne la commande ou orders.ErrOrderNotFound.
	Get(ctx context.Context, docID string) (models.Order, error)

	// List retourne l'instantané courant complet de la collection.
	List(ctx context.Context) ([]models.Order, error)

	// Subscribe enregistre un abonné qui reçoit l'instantané complet après
	// chaque changement (et une première fois à l'abonnement). Retourne la
	// fonction de désabonnement.
	Subscribe(ctx context.Context, onChange func(snapshot []models.Order)) (func(), error)
}

// Champs acceptés par Update. Un groupe logique (ex: expédier avec un
// transporteur) est passé en UNE écriture, jamais en écritures séquentielles.
const (
	FieldStatus    = "status"
	FieldTransport = "transport"
	FieldType      = "type"
)

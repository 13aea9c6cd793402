package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"veena_crackers_back_end/internal/models"
	"veena_crackers_back_end/internal/orders"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Canal Redis de synchronisation : chaque écriture publie une notification,
// chaque abonné relit la collection complète et pousse l'instantané.
const syncChannel = "orders:sync"

// ScyllaStore persiste les commandes dans le keyspace orders de ScyllaDB et
// diffuse les changements via Redis pub/sub. Le contrôle de version passe par
// des LWT (IF version = ?) : pas de last-write-wins silencieux entre sessions.
type ScyllaStore struct {
	session *gocql.Session
	redis   *redis.Client
}

func NewScyllaStore(session *gocql.Session, rdb *redis.Client) *ScyllaStore {
	return &ScyllaStore{session: session, redis: rdb}
}

const orderColumns = `doc_id, order_id, customer_name, phone, email, address, place,
	status, type, transport, discount, total, net_amount, total_amount, items,
	created_at, delivery_date, version`

func (s *ScyllaStore) Create(ctx context.Context, order models.Order) (string, error) {
	docID := uuid.New().String()

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return "", &orders.TransportError{Op: "create", Err: err}
	}

	// Une seule écriture : jamais de liste d'articles persistée à moitié
	err = s.session.Query(`INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		docID, order.OrderID, order.CustomerName, order.Phone, order.Email,
		order.Address, order.Place, order.Status, order.Type, order.Transport,
		order.Discount, order.Total, order.NetAmount, order.TotalAmount,
		string(itemsJSON), order.CreatedAt, order.DeliveryDate, int64(1)).
		WithContext(ctx).Exec()
	if err != nil {
		return "", &orders.TransportError{Op: "create", Err: err}
	}

	s.publish(ctx, "created")
	return docID, nil
}

func (s *ScyllaStore) Update(ctx context.Context, docID string, fields map[string]interface{}, baseVersion int64) error {
	if len(fields) == 0 {
		return nil
	}

	// Groupe de champs appliqué en UNE écriture conditionnelle
	assignments := make([]string, 0, len(fields)+1)
	values := make([]interface{}, 0, len(fields)+2)
	for field, value := range fields {
		switch field {
		case FieldStatus, FieldTransport, FieldType:
			assignments = append(assignments, field+" = ?")
			values = append(values, value)
		default:
			return &orders.TransportError{Op: "update", Err: fmt.Errorf("champ non modifiable: %s", field)}
		}
	}
	assignments = append(assignments, "version = ?")
	values = append(values, baseVersion+1, docID, baseVersion)

	applied, err := s.session.Query(
		`UPDATE orders SET `+strings.Join(assignments, ", ")+` WHERE doc_id = ? IF version = ?`,
		values...).WithContext(ctx).ScanCAS()
	if err != nil {
		return &orders.TransportError{Op: "update", Err: err}
	}
	if !applied {
		// LWT refusé : commande disparue ou version périmée
		if _, err := s.Get(ctx, docID); err != nil {
			return err
		}
		return orders.ErrVersionConflict
	}

	s.publish(ctx, "updated")
	return nil
}

func (s *ScyllaStore) Delete(ctx context.Context, docID string) error {
	applied, err := s.session.Query(`DELETE FROM orders WHERE doc_id = ? IF EXISTS`, docID).
		WithContext(ctx).ScanCAS()
	if err != nil {
		return &orders.TransportError{Op: "delete", Err: err}
	}
	if !applied {
		return orders.ErrOrderNotFound
	}

	s.publish(ctx, "deleted")
	return nil
}

func (s *ScyllaStore) Get(ctx context.Context, docID string) (models.Order, error) {
	var order models.Order
	var itemsJSON string

	err := s.session.Query(`SELECT `+orderColumns+` FROM orders WHERE doc_id = ?`, docID).
		WithContext(ctx).Scan(
		&order.DocumentID, &order.OrderID, &order.CustomerName, &order.Phone,
		&order.Email, &order.Address, &order.Place, &order.Status, &order.Type,
		&order.Transport, &order.Discount, &order.Total, &order.NetAmount,
		&order.TotalAmount, &itemsJSON, &order.CreatedAt, &order.DeliveryDate,
		&order.Version)
	if err == gocql.ErrNotFound {
		return models.Order{}, orders.ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, &orders.TransportError{Op: "get", Err: err}
	}

	if err := json.Unmarshal([]byte(itemsJSON), &order.Items); err != nil {
		return models.Order{}, &orders.TransportError{Op: "get", Err: err}
	}
	return order, nil
}

func (s *ScyllaStore) List(ctx context.Context) ([]models.Order, error) {
	iter := s.session.Query(`SELECT ` + orderColumns + ` FROM orders`).WithContext(ctx).Iter()

	var list []models.Order
	var order models.Order
	var itemsJSON string
	for iter.Scan(
		&order.DocumentID, &order.OrderID, &order.CustomerName, &order.Phone,
		&order.Email, &order.Address, &order.Place, &order.Status, &order.Type,
		&order.Transport, &order.Discount, &order.Total, &order.NetAmount,
		&order.TotalAmount, &itemsJSON, &order.CreatedAt, &order.DeliveryDate,
		&order.Version) {
		if err := json.Unmarshal([]byte(itemsJSON), &order.Items); err != nil {
			log.Printf("⚠️ Articles illisibles pour %s: %v", order.DocumentID, err)
			order.Items = nil
		}
		list = append(list, order)
		order = models.Order{}
	}
	if err := iter.Close(); err != nil {
		return nil, &orders.TransportError{Op: "list", Err: err}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// Subscribe relaie le canal Redis : à chaque notification (et une fois au
// démarrage), la collection complète est relue et poussée à l'abonné.
// Livraison au moins une fois, dans un ordre quelconque entre sessions.
func (s *ScyllaStore) Subscribe(ctx context.Context, onChange func([]models.Order)) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)
	pubsub := s.redis.Subscribe(subCtx, syncChannel)

	// Vérifie l'abonnement avant de rendre la main
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		pubsub.Close()
		return nil, &orders.TransportError{Op: "subscribe", Err: err}
	}

	push := func() {
		snapshot, err := s.List(subCtx)
		if err != nil {
			log.Printf("⚠️ Relecture de la collection impossible: %v", err)
			return
		}
		onChange(snapshot)
	}

	go func() {
		push()
		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				push()
			}
		}
	}()

	return func() {
		cancel()
		pubsub.Close()
	}, nil
}

// publish notifie les abonnés. Échec non bloquant : le fan-out est au mieux
// une fois par écriture, la cohérence finale vient de la relecture complète.
func (s *ScyllaStore) publish(ctx context.Context, event string) {
	if err := s.redis.Publish(ctx, syncChannel, event).Err(); err != nil {
		log.Printf("⚠️ Publication %s impossible sur %s: %v", event, syncChannel, err)
	}
}

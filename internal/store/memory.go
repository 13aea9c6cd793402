package store

import (
	"context"
	"sort"
	"sync"

	"veena_crackers_back_end/internal/models"
	"veena_crackers_back_end/internal/orders"

	"github.com/google/uuid"
)

// MemoryStore est l'implémentation en mémoire du contrat OrderStore, avec
// exactement la même sémantique de fan-out que le store Scylla/Redis.
// Utilisée par les tests et par le mode dev (STORE_BACKEND=memory).
type MemoryStore struct {
	mu          sync.Mutex
	docs        map[string]models.Order
	subscribers map[int]func([]models.Order)
	nextSub     int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:        make(map[string]models.Order),
		subscribers: make(map[int]func([]models.Order)),
	}
}

func (s *MemoryStore) Create(ctx context.Context, order models.Order) (string, error) {
	s.mu.Lock()
	docID := uuid.New().String()
	order.DocumentID = docID
	order.Version = 1
	s.docs[docID] = order
	s.mu.Unlock()

	s.notify()
	return docID, nil
}

func (s *MemoryStore) Update(ctx context.Context, docID string, fields map[string]interface{}, baseVersion int64) error {
	s.mu.Lock()
	order, ok := s.docs[docID]
	if !ok {
		s.mu.Unlock()
		return orders.ErrOrderNotFound
	}
	if order.Version != baseVersion {
		s.mu.Unlock()
		return orders.ErrVersionConflict
	}

	for field, value := range fields {
		str, _ := value.(string)
		switch field {
		case FieldStatus:
			order.Status = str
		case FieldTransport:
			order.Transport = str
		case FieldType:
			order.Type = str
		}
	}
	order.Version++
	s.docs[docID] = order
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, docID string) error {
	s.mu.Lock()
	if _, ok := s.docs[docID]; !ok {
		s.mu.Unlock()
		return orders.ErrOrderNotFound
	}
	delete(s.docs, docID)
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, docID string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.docs[docID]
	if !ok {
		return models.Order{}, orders.ErrOrderNotFound
	}
	return order, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, onChange func([]models.Order)) (func(), error) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = onChange
	first := s.snapshotLocked()
	s.mu.Unlock()

	// Premier instantané livré immédiatement, comme onSnapshot
	onChange(first)

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}, nil
}

// snapshotLocked copie la collection triée par date de création décroissante.
func (s *MemoryStore) snapshotLocked() []models.Order {
	snapshot := make([]models.Order, 0, len(s.docs))
	for _, order := range s.docs {
		snapshot = append(snapshot, order)
	}
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].CreatedAt.After(snapshot[j].CreatedAt)
	})
	return snapshot
}

func (s *MemoryStore) notify() {
	s.mu.Lock()
	snapshot := s.snapshotLocked()
	subs := make([]func([]models.Order), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	// Livraison hors verrou : un abonné peut rappeler le store
	for _, fn := range subs {
		fn(snapshot)
	}
}

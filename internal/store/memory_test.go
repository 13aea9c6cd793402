package store

import (
	"context"
	"testing"
	"time"

	"veena_crackers_back_end/internal/models"
	"veena_crackers_back_end/internal/orders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(name string, createdAt time.Time) models.Order {
	o := orders.BuildOrder(orders.Customer{
		Name:  name,
		Phone: "9876543210",
		Email: "client@veenacrackers.in",
	}, []models.CartItem{
		{ProductID: "p1", Name: "Sparkler", Quantity: 2, UnitPrice: 50, Discount: 5},
	}, orders.Options{})
	o.CreatedAt = createdAt
	return o
}

func TestMemoryStore_CreateAssignsIdentityAndVersion(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	docID, err := s.Create(ctx, testOrder("A", time.Now()))
	require.NoError(t, err)
	require.NotEmpty(t, docID)

	got, err := s.Get(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, docID, got.DocumentID)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, "A", got.CustomerName)
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "inconnu")
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
}

func TestMemoryStore_ListSortedNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Now()

	_, err := s.Create(ctx, testOrder("ancien", base.Add(-time.Hour)))
	require.NoError(t, err)
	_, err = s.Create(ctx, testOrder("récent", base))
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "récent", list[0].CustomerName)
	assert.Equal(t, "ancien", list[1].CustomerName)
}

func TestMemoryStore_UpdateAppliesGroupedFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	docID, err := s.Create(ctx, testOrder("A", time.Now()))
	require.NoError(t, err)

	err = s.Update(ctx, docID, map[string]interface{}{
		FieldStatus:    models.StatusDispatched,
		FieldTransport: "VRL",
	}, 1)
	require.NoError(t, err)

	got, err := s.Get(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDispatched, got.Status)
	assert.Equal(t, "VRL", got.Transport)
	assert.Equal(t, int64(2), got.Version)
}

func TestMemoryStore_UpdateStaleVersionRejected(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	docID, err := s.Create(ctx, testOrder("A", time.Now()))
	require.NoError(t, err)

	// Premier écrivain gagne
	require.NoError(t, s.Update(ctx, docID, map[string]interface{}{FieldStatus: models.StatusDispatched}, 1))

	// Second écrivain parti de la même version : rejeté, rien n'est écrit
	err = s.Update(ctx, docID, map[string]interface{}{FieldTransport: "KPN"}, 1)
	assert.ErrorIs(t, err, orders.ErrVersionConflict)

	got, err := s.Get(ctx, docID)
	require.NoError(t, err)
	assert.Empty(t, got.Transport)
	assert.Equal(t, int64(2), got.Version)
}

func TestMemoryStore_UpdateUnknown(t *testing.T) {
	err := NewMemoryStore().Update(context.Background(), "inconnu",
		map[string]interface{}{FieldStatus: models.StatusDispatched}, 1)
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	docID, err := s.Create(ctx, testOrder("A", time.Now()))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, docID))
	_, err = s.Get(ctx, docID)
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)

	assert.ErrorIs(t, s.Delete(ctx, docID), orders.ErrOrderNotFound)
}

func TestMemoryStore_SubscribeDeliversFirstSnapshotImmediately(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Create(ctx, testOrder("A", time.Now()))
	require.NoError(t, err)

	var snapshots [][]models.Order
	unsub, err := s.Subscribe(ctx, func(snap []models.Order) {
		snapshots = append(snapshots, snap)
	})
	require.NoError(t, err)
	defer unsub()

	// Pas besoin d'attendre une mutation : l'état courant arrive tout de suite
	require.Len(t, snapshots, 1)
	assert.Len(t, snapshots[0], 1)
}

func TestMemoryStore_SubscribeFanOutOnEveryMutation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var snapshots [][]models.Order
	unsub, err := s.Subscribe(ctx, func(snap []models.Order) {
		snapshots = append(snapshots, snap)
	})
	require.NoError(t, err)
	defer unsub()

	docID, err := s.Create(ctx, testOrder("A", time.Now()))
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, docID, map[string]interface{}{FieldStatus: models.StatusDispatched}, 1))
	require.NoError(t, s.Delete(ctx, docID))

	// initial + create + update + delete
	require.Len(t, snapshots, 4)
	assert.Empty(t, snapshots[0])
	assert.Len(t, snapshots[1], 1)
	assert.Equal(t, models.StatusDispatched, snapshots[2][0].Status)
	assert.Empty(t, snapshots[3])
}

func TestMemoryStore_UnsubscribeStopsDelivery(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	count := 0
	unsub, err := s.Subscribe(ctx, func([]models.Order) { count++ })
	require.NoError(t, err)
	require.Equal(t, 1, count)

	unsub()

	_, err = s.Create(ctx, testOrder("A", time.Now()))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryStore_MultipleSubscribersSeeSameSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var a, b []models.Order
	unsubA, err := s.Subscribe(ctx, func(snap []models.Order) { a = snap })
	require.NoError(t, err)
	defer unsubA()
	unsubB, err := s.Subscribe(ctx, func(snap []models.Order) { b = snap })
	require.NoError(t, err)
	defer unsubB()

	_, err = s.Create(ctx, testOrder("A", time.Now()))
	require.NoError(t, err)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].DocumentID, b[0].DocumentID)
}

package console

import (
	"context"
	"testing"
	"time"

	"veena_crackers_back_end/internal/models"
	"veena_crackers_back_end/internal/orders"
	"veena_crackers_back_end/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, s store.OrderStore, name, phone, place string) string {
	t.Helper()
	o := orders.BuildOrder(orders.Customer{
		Name:  name,
		Phone: phone,
		Email: "client@veenacrackers.in",
		Place: place,
	}, []models.CartItem{
		{ProductID: "p1", Name: "Sparkler", Quantity: 2, UnitPrice: 50, Discount: 5},
	}, orders.Options{})

	docID, err := s.Create(context.Background(), o)
	require.NoError(t, err)
	return docID
}

func startEngine(t *testing.T, s store.OrderStore) *Engine {
	t.Helper()
	e := NewEngine(s)
	require.NoError(t, e.Start(context.Background()))
	t.Cleanup(e.Stop)
	return e
}

func TestEngine_FirstSnapshotArrivesOnStart(t *testing.T) {
	s := store.NewMemoryStore()
	seedOrder(t, s, "A", "9876543210", "Sivakasi")

	e := startEngine(t, s)

	assert.True(t, e.Ready())
	assert.Len(t, e.Orders(), 1)
}

func TestEngine_SnapshotReplacedWholesale(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	e := startEngine(t, s)

	docA := seedOrder(t, s, "A", "9876543210", "Sivakasi")
	seedOrder(t, s, "B", "9000000000", "Madurai")
	require.Len(t, e.Orders(), 2)

	require.NoError(t, s.Delete(ctx, docA))

	// Pas de diff incrémental : l'ensemble courant reflète exactement le store
	got := e.Orders()
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].CustomerName)
}

func TestFilterByStatus(t *testing.T) {
	list := []models.Order{
		{CustomerName: "A", Status: models.StatusPending},
		{CustomerName: "B", Status: models.StatusDispatched},
		{CustomerName: "C", Status: models.StatusPending},
	}

	pending := FilterByStatus(list, models.StatusPending)
	require.Len(t, pending, 2)

	// Idempotent
	assert.Equal(t, pending, FilterByStatus(pending, models.StatusPending))

	assert.Len(t, FilterByStatus(list, "all"), 3)
	assert.Len(t, FilterByStatus(list, ""), 3)
	assert.Empty(t, FilterByStatus(list, models.StatusDelivered))
}

func TestSearch_MatchesAnyFieldCaseInsensitive(t *testing.T) {
	list := []models.Order{
		{CustomerName: "Arun Kumar", Phone: "9876543210", OrderID: "VEE-20251018-093005-123",
			Place: "Sivakasi", Transport: "VRL", Type: models.TypeToPay, Email: "arun@mail.com"},
		{CustomerName: "Bala", Phone: "9000000000", OrderID: "VEE-20251019-110000-456",
			Place: "Madurai", Transport: "KPN", Type: models.TypePaid, Email: "bala@mail.com"},
	}

	assert.Len(t, Search(list, "arun"), 1)
	assert.Len(t, Search(list, "ARUN"), 1)
	assert.Len(t, Search(list, "9876543210"), 1)
	assert.Len(t, Search(list, "vee-20251019"), 1)
	assert.Len(t, Search(list, "sivakasi"), 1)
	assert.Len(t, Search(list, "kpn"), 1)
	assert.Len(t, Search(list, "paid"), 1)
	assert.Len(t, Search(list, "VEE-"), 2)
	assert.Empty(t, Search(list, "introuvable"))
	assert.Len(t, Search(list, ""), 2)
}

func TestEngine_ViewCombinesFilterAndSearch(t *testing.T) {
	s := store.NewMemoryStore()
	seedOrder(t, s, "Arun", "9876543210", "Sivakasi")
	seedOrder(t, s, "Bala", "9000000000", "Sivakasi")
	e := startEngine(t, s)

	got := e.View(models.StatusPending, "arun")
	require.Len(t, got, 1)
	assert.Equal(t, "Arun", got[0].CustomerName)
}

func TestEngine_CountersComputedOnUnfilteredSet(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	docA := seedOrder(t, s, "A", "9876543210", "Sivakasi")
	seedOrder(t, s, "B", "9000000000", "Madurai")
	e := startEngine(t, s)

	require.NoError(t, e.Dispatch(ctx, docA, "VRL"))

	// La vue est filtrée sur Pending, les compteurs restent globaux
	assert.Len(t, e.View(models.StatusPending, ""), 1)
	c := e.Counters()
	assert.Equal(t, Counters{Total: 2, Pending: 1, Dispatched: 1}, c)
}

func TestEngine_SetStatusEnforcesTransitions(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	docID := seedOrder(t, s, "A", "9876543210", "Sivakasi")
	e := startEngine(t, s)

	// Saut Pending → Delivered interdit, rien n'est écrit
	err := e.SetStatus(ctx, docID, models.StatusDelivered)
	var transitionErr *orders.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)

	got, err := s.Get(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, int64(1), got.Version)

	// Progression légale
	require.NoError(t, e.SetStatus(ctx, docID, models.StatusDispatched))
	require.NoError(t, e.SetStatus(ctx, docID, models.StatusDelivered))

	got, err = s.Get(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, got.Status)
}

func TestEngine_SetStatusUnknownOrder(t *testing.T) {
	e := startEngine(t, store.NewMemoryStore())

	err := e.SetStatus(context.Background(), "inconnu", models.StatusDispatched)
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
}

func TestEngine_SetPaymentType(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	docID := seedOrder(t, s, "A", "9876543210", "Sivakasi")
	e := startEngine(t, s)

	require.NoError(t, e.SetPaymentType(ctx, docID, models.TypePaid))
	got, err := s.Get(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, models.TypePaid, got.Type)

	// Bascule inverse toujours permise
	require.NoError(t, e.SetPaymentType(ctx, docID, models.TypeToPay))

	var vErr *orders.ValidationError
	err = e.SetPaymentType(ctx, docID, "CASH")
	require.ErrorAs(t, err, &vErr)
}

func TestEngine_DispatchGroupsStatusAndTransport(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	docID := seedOrder(t, s, "A", "9876543210", "Sivakasi")
	e := startEngine(t, s)

	require.NoError(t, e.Dispatch(ctx, docID, "VRL"))

	// Une seule écriture : un seul incrément de version
	got, err := s.Get(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDispatched, got.Status)
	assert.Equal(t, "VRL", got.Transport)
	assert.Equal(t, int64(2), got.Version)

	// Déjà expédiée : re-dispatcher échoue
	var transitionErr *orders.InvalidTransitionError
	require.ErrorAs(t, e.Dispatch(ctx, docID, "KPN"), &transitionErr)
}

func TestEngine_Remove(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	docID := seedOrder(t, s, "A", "9876543210", "Sivakasi")
	e := startEngine(t, s)

	require.NoError(t, e.Remove(ctx, docID))
	assert.Empty(t, e.Orders())
	assert.ErrorIs(t, e.Remove(ctx, docID), orders.ErrOrderNotFound)
}

// Deux sessions admin sur le même store : les mises à jour séquentielles
// de l'une convergent chez l'autre via les instantanés complets.
func TestEngine_TwoSessionsConverge(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	docID := seedOrder(t, s, "A", "9876543210", "Sivakasi")

	sessionA := startEngine(t, s)
	sessionB := startEngine(t, s)

	require.NoError(t, sessionA.SetStatus(ctx, docID, models.StatusDispatched))
	require.NoError(t, sessionB.SetStatus(ctx, docID, models.StatusDelivered))

	for _, e := range []*Engine{sessionA, sessionB} {
		got := e.Orders()
		require.Len(t, got, 1)
		assert.Equal(t, models.StatusDelivered, got[0].Status)
	}
}

// Deux admins partis du même instantané : le premier écrit, le second est
// rejeté sur conflit de version au lieu d'écraser en silence.
func TestEngine_ConcurrentWritersVersionConflict(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	docID := seedOrder(t, s, "A", "9876543210", "Sivakasi")
	e := startEngine(t, s)

	stale, err := s.Get(ctx, docID)
	require.NoError(t, err)

	require.NoError(t, e.SetTransport(ctx, docID, "VRL"))

	err = s.Update(ctx, docID, map[string]interface{}{
		store.FieldTransport: "KPN",
	}, stale.Version)
	assert.ErrorIs(t, err, orders.ErrVersionConflict)

	got, err := s.Get(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, "VRL", got.Transport)
}

func TestEngine_StopUnsubscribes(t *testing.T) {
	s := store.NewMemoryStore()
	e := startEngine(t, s)
	e.Stop()

	seedOrder(t, s, "A", "9876543210", "Sivakasi")
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, e.Orders())
}

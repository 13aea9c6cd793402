package checkout

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"veena_crackers_back_end/internal/models"
	"veena_crackers_back_end/internal/orders"
	"veena_crackers_back_end/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderIDPattern = regexp.MustCompile(`^VEE-\d{8}-\d{6}-\d{3}$`)

// fakeCatalog sert les prix depuis une map, comme le catalogue Scylla.
type fakeCatalog struct {
	prices map[string][2]float64 // productID → {unitPrice, unitDiscount}
}

func (f *fakeCatalog) PriceOf(_ context.Context, productID string) (float64, float64, error) {
	p, ok := f.prices[productID]
	if !ok {
		return 0, 0, errors.New("produit inconnu")
	}
	return p[0], p[1], nil
}

// fakeIdempotency reproduit la sémantique Redis SETNX en mémoire.
type fakeIdempotency struct {
	keys map[string]string
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{keys: make(map[string]string)}
}

func (f *fakeIdempotency) Reserve(_ context.Context, requestID string) (string, bool, error) {
	if existing, ok := f.keys[requestID]; ok {
		if existing == pendingPlaceholder {
			return "", false, nil
		}
		return existing, false, nil
	}
	f.keys[requestID] = pendingPlaceholder
	return "", true, nil
}

func (f *fakeIdempotency) Commit(_ context.Context, requestID, orderID string) error {
	f.keys[requestID] = orderID
	return nil
}

func validCustomer() orders.Customer {
	return orders.Customer{
		Name:    "Arun Kumar",
		Phone:   "9876543210",
		Email:   "arun@mail.com",
		Address: "12 Main Road",
		Place:   "Sivakasi",
	}
}

func sparklerCart() []models.CartItem {
	return []models.CartItem{
		{ProductID: "p1", Name: "Sparkler", Quantity: 2, UnitPrice: 50, Discount: 5},
	}
}

func TestSubmit_CreatesOrder(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := NewService(st, nil, nil)

	res, err := svc.Submit(ctx, validCustomer(), sparklerCart(), orders.Options{}, "")
	require.NoError(t, err)

	assert.Regexp(t, orderIDPattern, res.OrderID)
	assert.NotEmpty(t, res.DocumentID)
	assert.False(t, res.Replayed)
	assert.Equal(t, models.StatusPending, res.Order.Status)
	assert.Equal(t, models.TypeToPay, res.Order.Type)
	assert.Equal(t, 90.0, res.Order.Total)
	assert.Equal(t, 90.0, res.Order.NetAmount)

	stored, err := st.Get(ctx, res.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, res.OrderID, stored.OrderID)
	assert.Equal(t, int64(1), stored.Version)
}

func TestSubmit_FormErrorsRejectBeforeAnyWrite(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := NewService(st, nil, nil)

	customer := validCustomer()
	customer.Phone = "123"
	customer.Email = "pas-un-email"

	_, err := svc.Submit(ctx, customer, sparklerCart(), orders.Options{}, "")

	var vErr *orders.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "un numéro de téléphone à 10 chiffres est requis")
	assert.Contains(t, vErr.Errors, "une adresse email valide est requise")

	// Échec = aucune écriture : le panier du client reste intact côté session
	list, err := st.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSubmit_EmptyCartRejected(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), nil, nil)

	_, err := svc.Submit(context.Background(), validCustomer(), nil, orders.Options{}, "")

	var vErr *orders.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "le panier est vide")
}

func TestSubmit_PriceDriftRejected(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	catalog := &fakeCatalog{prices: map[string][2]float64{"p1": {60, 5}}} // le prix a monté
	svc := NewService(st, catalog, nil)

	_, err := svc.Submit(ctx, validCustomer(), sparklerCart(), orders.Options{}, "")

	var vErr *orders.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Errors, 1)
	assert.Contains(t, vErr.Errors[0], "le prix de Sparkler a changé")

	list, err := st.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSubmit_MatchingCatalogPricesAccepted(t *testing.T) {
	catalog := &fakeCatalog{prices: map[string][2]float64{"p1": {50, 5}}}
	svc := NewService(store.NewMemoryStore(), catalog, nil)

	_, err := svc.Submit(context.Background(), validCustomer(), sparklerCart(), orders.Options{}, "")
	assert.NoError(t, err)
}

func TestSubmit_UnknownProductRejected(t *testing.T) {
	catalog := &fakeCatalog{prices: map[string][2]float64{}}
	svc := NewService(store.NewMemoryStore(), catalog, nil)

	_, err := svc.Submit(context.Background(), validCustomer(), sparklerCart(), orders.Options{}, "")

	var vErr *orders.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors[0], "introuvable au catalogue")
}

func TestSubmit_DuplicateKeyReplaysExistingOrder(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := NewService(st, nil, newFakeIdempotency())

	first, err := svc.Submit(ctx, validCustomer(), sparklerCart(), orders.Options{}, "req-1")
	require.NoError(t, err)

	// Double clic : même clé, aucune seconde commande
	second, err := svc.Submit(ctx, validCustomer(), sparklerCart(), orders.Options{}, "req-1")
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.OrderID, second.OrderID)

	list, err := st.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSubmit_InFlightKeyRejected(t *testing.T) {
	idem := newFakeIdempotency()
	idem.keys["req-1"] = pendingPlaceholder // réservation posée, commande pas encore créée

	svc := NewService(store.NewMemoryStore(), nil, idem)

	_, err := svc.Submit(context.Background(), validCustomer(), sparklerCart(), orders.Options{}, "req-1")
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
}

func TestSubmit_DistinctKeysCreateDistinctOrders(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := NewService(st, nil, newFakeIdempotency())

	_, err := svc.Submit(ctx, validCustomer(), sparklerCart(), orders.Options{}, "req-1")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, validCustomer(), sparklerCart(), orders.Options{}, "req-2")
	require.NoError(t, err)

	list, err := st.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSubmit_LegacyCartFieldsNormalized(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), nil, nil)

	res, err := svc.Submit(context.Background(), validCustomer(), []models.CartItem{
		{ID: "p1", Name: "Flower Pot", Qty: 3, Price: 20},
	}, orders.Options{}, "")
	require.NoError(t, err)

	require.Len(t, res.Order.Items, 1)
	assert.Equal(t, 3, res.Order.Items[0].Quantity)
	assert.Equal(t, 20.0, res.Order.Items[0].UnitPrice)
	assert.Equal(t, 60.0, res.Order.Total)
}

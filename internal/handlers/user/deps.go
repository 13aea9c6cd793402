package user

import (
	"veena_crackers_back_end/internal/checkout"
	"veena_crackers_back_end/internal/store"
)

// Dépendances injectées au démarrage par cmd/server.
var (
	Checkout *checkout.Service
	Store    store.OrderStore
)

func Init(s store.OrderStore, svc *checkout.Service) {
	Store = s
	Checkout = svc
}

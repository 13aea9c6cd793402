package main

import (
	"context"
	"log"
	"os"

	"veena_crackers_back_end/internal/checkout"
	"veena_crackers_back_end/internal/config"
	"veena_crackers_back_end/internal/console"
	"veena_crackers_back_end/internal/database"
	"veena_crackers_back_end/internal/handlers/admin"
	"veena_crackers_back_end/internal/handlers/user"
	"veena_crackers_back_end/internal/routes"
	"veena_crackers_back_end/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()

	database.ConnectDatabases()

	orderStore, err := buildOrderStore()
	if err != nil {
		log.Fatalf("❌ Impossible d'initialiser le store de commandes: %v", err)
	}

	// Moteur console : un seul abonnement, instantanés complets
	engine := console.NewEngine(orderStore)
	if err := engine.Start(context.Background()); err != nil {
		log.Fatalf("❌ Abonnement aux commandes impossible: %v", err)
	}
	defer engine.Stop()

	checkoutSvc := buildCheckoutService(orderStore)

	user.Init(orderStore, checkoutSvc)
	admin.Init(orderStore, engine)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("FRONTEND_URL"), "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Session-ID", checkout.IdempotencyHeader},
		AllowCredentials: true,
	}))
	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Veena Crackers lancé sur le port", port)
	r.Run(":" + port)
}

// buildOrderStore choisit le backend : ScyllaDB + Redis en production,
// mémoire pour le dev local (STORE_BACKEND=memory).
func buildOrderStore() (store.OrderStore, error) {
	if os.Getenv("STORE_BACKEND") == "memory" {
		log.Println("⚠️ Store de commandes en mémoire (mode dev)")
		return store.NewMemoryStore(), nil
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}
	return store.NewScyllaStore(session, database.Redis), nil
}

func buildCheckoutService(orderStore store.OrderStore) *checkout.Service {
	var catalog checkout.Catalog
	if session, err := database.GetProductsSession(); err == nil {
		catalog = checkout.NewScyllaCatalog(session)
	} else {
		log.Println("⚠️ Catalogue indisponible, re-validation des prix désactivée")
	}

	return checkout.NewService(orderStore, catalog, checkout.NewRedisIdempotency(database.Redis))
}

package user

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"veena_crackers_back_end/internal/checkout"
	"veena_crackers_back_end/internal/database"
	"veena_crackers_back_end/internal/models"
	"veena_crackers_back_end/internal/orders"
	services "veena_crackers_back_end/internal/service"
	"veena_crackers_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// SubmitOrder transforme le panier de la session en commande.
// Tout échec (validation ou store) préserve le panier tel quel ;
// le panier n'est vidé qu'après l'écriture réussie.
func SubmitOrder(c *gin.Context) {
	session := sessionID(c)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session manquante"})
		return
	}

	var input struct {
		Customer     orders.Customer `json:"customer"`
		Discount     float64         `json:"discount"`
		DeliveryDate time.Time       `json:"deliveryDate"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	// ✅ 1. Récupérer le panier depuis Redis
	ctx := c.Request.Context()
	cartKey := "cart:" + session

	var cartItems []models.CartItem
	if cartData, err := database.Redis.Get(ctx, cartKey).Result(); err == nil && cartData != "" {
		if err := json.Unmarshal([]byte(cartData), &cartItems); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
			return
		}
	}

	// ✅ 2. Soumettre (validation complète + écriture atomique)
	result, err := Checkout.Submit(ctx, input.Customer, cartItems,
		orders.Options{Discount: input.Discount, DeliveryDate: input.DeliveryDate},
		c.GetHeader(checkout.IdempotencyHeader))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	if result.Replayed {
		// Double clic : on renvoie la commande déjà créée, rien de neuf
		c.JSON(http.StatusOK, gin.H{"orderId": result.OrderID, "replayed": true})
		return
	}

	// ✅ 3. Vider le panier, notifier, confirmer — uniquement après succès
	database.Redis.Del(ctx, cartKey)
	publishCart(ctx, session, "cleared")

	go services.IndexOrder(result.Order)
	go utils.SendOrderConfirmation(result.Order)

	log.Printf("✅ Commande créée: %s (%s)", result.OrderID, result.DocumentID)
	c.JSON(http.StatusCreated, gin.H{
		"orderId": result.OrderID,
		"id":      result.DocumentID,
		"order":   result.Order,
	})
}

func respondCheckoutError(c *gin.Context, err error) {
	var vErr *orders.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Commande invalide",
			"errors": vErr.Errors,
		})
		return
	}
	if errors.Is(err, checkout.ErrSubmissionInFlight) {
		c.JSON(http.StatusConflict, gin.H{"error": "Une soumission identique est déjà en cours"})
		return
	}

	var tErr *orders.TransportError
	if errors.As(err, &tErr) {
		log.Printf("❌ Échec écriture commande: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  "La commande n'a pas pu être enregistrée, merci de réessayer",
			"reason": tErr.Error(),
		})
		return
	}

	log.Printf("❌ Échec soumission: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne"})
}

// GetOrder retrouve une commande par son orderId lisible (VEE-...) ou
// par son document id.
func GetOrder(c *gin.Context) {
	ref := c.Param("orderId")

	order, err := findOrder(c.Request.Context(), ref)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erreur récupération commande"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func findOrder(ctx context.Context, ref string) (models.Order, error) {
	if order, err := Store.Get(ctx, ref); err == nil {
		return order, nil
	}

	list, err := Store.List(ctx)
	if err != nil {
		return models.Order{}, err
	}
	for _, order := range list {
		if order.OrderID == ref {
			return order, nil
		}
	}
	return models.Order{}, orders.ErrOrderNotFound
}

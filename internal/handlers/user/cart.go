package user

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"veena_crackers_back_end/internal/database"
	"veena_crackers_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// Le panier vit dans Redis sous cart:<session>, en JSON. Chaque modification
// publie sur le canal cart:<session> pour la synchro temps réel du client.

func sessionID(c *gin.Context) string {
	return c.GetHeader("X-Session-ID")
}

func publishCart(ctx context.Context, session, event string) {
	database.Redis.Publish(ctx, "cart:"+session, event)
}

func GetCart(c *gin.Context) {
	session := sessionID(c)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session manquante"})
		return
	}

	key := "cart:" + session
	data, err := database.Redis.Get(context.Background(), key).Result()
	if err != nil || data == "" {
		c.JSON(http.StatusOK, gin.H{"items": []models.CartItem{}}) // panier vide
		return
	}

	var cart []models.CartItem
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": cart})
}

//
// 🟢 POST /api/cart/add
//
func AddToCart(c *gin.Context) {
	session := sessionID(c)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session manquante"})
		return
	}

	key := "cart:" + session

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	// 🧩 Récupération du produit depuis ScyllaDB : le prix catalogue est
	// figé dans le panier au moment de l'ajout, pas au checkout
	sessionDB, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var product models.Product
	var imageURLs []string
	err = sessionDB.Query(`SELECT product_id, name, price, discount_pct, image_urls
	                     FROM products WHERE product_id = ?`, gocql.UUID(productID)).Scan(
		&product.ID, &product.Name, &product.Price, &product.DiscountPct, &imageURLs)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	// 🖼️ Première image pour l'aperçu panier
	imageURL := ""
	if len(imageURLs) > 0 {
		imageURL = imageURLs[0]
	}

	// 🔹 Création de l'item, prix et remise catalogue du moment
	item := models.CartItem{
		ProductID: input.ProductID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Discount:  product.UnitDiscount(),
		Quantity:  input.Quantity,
		ImageURL:  imageURL,
	}

	// 🧠 Récupère panier actuel depuis Redis
	data, _ := database.Redis.Get(context.Background(), key).Result()
	var cart []models.CartItem
	if data != "" {
		_ = json.Unmarshal([]byte(data), &cart)
	}

	// 🔁 Met à jour ou ajoute l'item
	found := false
	for i := range cart {
		if cart[i].ProductID == item.ProductID {
			cart[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		cart = append(cart, item)
	}

	// 💾 Sauvegarde dans Redis (30 jours)
	jsonData, _ := json.Marshal(cart)
	database.Redis.Set(context.Background(), key, jsonData, 30*24*time.Hour)
	publishCart(context.Background(), session, "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit ajouté au panier",
		"items":   cart,
	})
}

//
// ❌ DELETE /api/cart/:productId
//
func RemoveFromCart(c *gin.Context) {
	session := sessionID(c)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session manquante"})
		return
	}

	productID := c.Param("productId")
	key := "cart:" + session

	data, _ := database.Redis.Get(context.Background(), key).Result()
	if data == "" {
		c.JSON(http.StatusOK, gin.H{"message": "Panier vide"})
		return
	}

	var cart []models.CartItem
	_ = json.Unmarshal([]byte(data), &cart)

	newCart := []models.CartItem{}
	for _, item := range cart {
		if item.ProductID != productID {
			newCart = append(newCart, item)
		}
	}

	jsonData, _ := json.Marshal(newCart)
	database.Redis.Set(context.Background(), key, jsonData, 30*24*time.Hour)
	publishCart(context.Background(), session, "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit supprimé du panier",
		"items":   newCart,
	})
}

//
// 🧹 DELETE /api/cart/clear
//
func ClearCart(c *gin.Context) {
	session := sessionID(c)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session manquante"})
		return
	}

	key := "cart:" + session

	// 🧹 Supprime complètement la clé Redis
	if err := database.Redis.Del(context.Background(), key).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}
	publishCart(context.Background(), session, "cleared")

	c.JSON(http.StatusOK, gin.H{
		"message": "Panier vidé avec succès",
	})
}

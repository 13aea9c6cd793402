package product

import (
	"log"
	"net/http"
	"time"

	"veena_crackers_back_end/internal/database"
	"veena_crackers_back_end/internal/models"
	services "veena_crackers_back_end/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// ListProducts retourne le catalogue actif avec le prix remisé dérivé.
func ListProducts(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT product_id, name, description, category, price,
		discount_pct, image_urls, tags, is_active, created_at, updated_at FROM products`).Iter()

	var list []gin.H
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price,
		&p.DiscountPct, &p.ImageURLs, &p.Tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		if !p.IsActive {
			continue
		}
		list = append(list, gin.H{
			"product":        p,
			"discountedRate": p.DiscountedRate(),
		})
	}
	if err := iter.Close(); err != nil {
		log.Println("❌ Erreur lecture catalogue:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catalogue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": list})
}

// UpsertProduct crée ou met à jour une entrée catalogue (admin), puis
// l'indexe dans Elasticsearch en arrière-plan.
func UpsertProduct(c *gin.Context) {
	var input struct {
		ID          string   `json:"id"`
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Price       float64  `json:"price" binding:"required"`
		DiscountPct float64  `json:"discountPct"`
		ImageURLs   []string `json:"image_urls"`
		Tags        []string `json:"tags"`
		IsActive    *bool    `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}
	if input.Price < 0 || input.DiscountPct < 0 || input.DiscountPct > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix ou remise invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	productID := gocql.TimeUUID()
	if input.ID != "" {
		parsed, err := gocql.ParseUUID(input.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
			return
		}
		productID = parsed
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	now := time.Now()

	err = session.Query(`INSERT INTO products (product_id, name, description, category,
		price, discount_pct, image_urls, tags, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		productID, input.Name, input.Description, input.Category, input.Price,
		input.DiscountPct, input.ImageURLs, input.Tags, isActive, now, now).Exec()
	if err != nil {
		log.Println("❌ Erreur écriture produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement produit"})
		return
	}

	product := models.Product{
		ID: productID, Name: input.Name, Description: input.Description,
		Category: input.Category, Price: input.Price, DiscountPct: input.DiscountPct,
		ImageURLs: input.ImageURLs, Tags: input.Tags, IsActive: isActive,
		CreatedAt: now, UpdatedAt: now,
	}
	go services.IndexProduct(product)

	c.JSON(http.StatusOK, gin.H{"message": "Produit enregistré", "product": product})
}

// DeleteProduct retire une entrée du catalogue (admin).
func DeleteProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM products WHERE product_id = ?`, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}

package admin

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"veena_crackers_back_end/internal/orders"
	"veena_crackers_back_end/internal/services"
	"veena_crackers_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// OrderInvoicePDF génère la facture PDF d'une commande (QR de suivi inclus),
// l'archive dans MinIO et la retourne en téléchargement. L'archivage est
// best-effort : son échec est loggé mais ne bloque pas le téléchargement.
func OrderInvoicePDF(c *gin.Context) {
	docID := c.Param("id")

	order, err := Store.Get(c.Request.Context(), docID)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erreur récupération commande"})
		return
	}

	qr, err := utils.GenerateOrderQR(order.OrderID)
	if err != nil {
		log.Printf("⚠️ QR impossible pour %s: %v", order.OrderID, err)
		qr = ""
	}

	html := utils.BuildInvoiceHTML(order, qr)
	pdf, err := utils.RenderInvoicePDF(html)
	if err != nil {
		log.Printf("❌ Rendu PDF impossible pour %s: %v", order.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Génération de la facture impossible"})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := services.ArchiveInvoicePDF(ctx, order.OrderID, pdf); err != nil {
			log.Printf("⚠️ Archivage facture impossible pour %s: %v", order.OrderID, err)
		}
	}()

	c.Header("Content-Disposition", "attachment; filename=facture_"+order.OrderID+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

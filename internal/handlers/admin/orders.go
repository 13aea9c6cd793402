package admin

import (
	"errors"
	"log"
	"net/http"

	"veena_crackers_back_end/internal/orders"
	services "veena_crackers_back_end/internal/service"
	"veena_crackers_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// ListOrders retourne la vue console : filtre de statut ET recherche
// multi-champs sur l'ensemble de travail temps réel, plus les compteurs
// recalculés sur l'ensemble NON filtré.
func ListOrders(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	term := c.Query("q")

	view := Engine.View(status, term)
	counters := Engine.Counters()

	c.JSON(http.StatusOK, gin.H{
		"orders":   view,
		"counters": counters,
	})
}

// DeepSearchOrders interroge Elasticsearch pour les historiques volumineux.
func DeepSearchOrders(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Terme de recherche manquant"})
		return
	}

	results, err := services.SearchOrders(term)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Recherche indisponible", "reason": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": results})
}

// SetStatus fait avancer le statut d'une commande (machine à états vérifiée
// côté serveur). En cas de succès, notifie le client par email et réindexe.
func SetStatus(c *gin.Context) {
	docID := c.Param("id")

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := Engine.SetStatus(c.Request.Context(), docID, input.Status); err != nil {
		respondOrderError(c, err)
		return
	}

	afterMutation(c, docID, input.Status)
	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour"})
}

// SetTransport change le transporteur, toujours légal.
func SetTransport(c *gin.Context) {
	docID := c.Param("id")

	var input struct {
		Transport string `json:"transport"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := Engine.SetTransport(c.Request.Context(), docID, input.Transport); err != nil {
		respondOrderError(c, err)
		return
	}

	afterMutation(c, docID, "")
	c.JSON(http.StatusOK, gin.H{"message": "Transporteur mis à jour"})
}

// SetType bascule TO-PAY ↔ PAID.
func SetType(c *gin.Context) {
	docID := c.Param("id")

	var input struct {
		Type string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := Engine.SetPaymentType(c.Request.Context(), docID, input.Type); err != nil {
		respondOrderError(c, err)
		return
	}

	afterMutation(c, docID, "")
	c.JSON(http.StatusOK, gin.H{"message": "Type de paiement mis à jour"})
}

// Dispatch groupe statut + transporteur en une seule écriture : personne
// n'observe jamais une expédition à moitié appliquée.
func Dispatch(c *gin.Context) {
	docID := c.Param("id")

	var input struct {
		Transport string `json:"transport" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := Engine.Dispatch(c.Request.Context(), docID, input.Transport); err != nil {
		respondOrderError(c, err)
		return
	}

	afterMutation(c, docID, "Dispatched")
	c.JSON(http.StatusOK, gin.H{"message": "Commande expédiée"})
}

// RemoveOrder supprime définitivement la commande (pas d'annulation).
func RemoveOrder(c *gin.Context) {
	docID := c.Param("id")

	if err := Engine.Remove(c.Request.Context(), docID); err != nil {
		respondOrderError(c, err)
		return
	}

	go services.RemoveOrderIndex(docID)
	c.JSON(http.StatusOK, gin.H{"message": "Commande supprimée"})
}

// afterMutation relit la commande puis réindexe et notifie, en arrière-plan.
// Best-effort : ces effets ne conditionnent jamais la réponse.
func afterMutation(c *gin.Context, docID, newStatus string) {
	order, err := Store.Get(c.Request.Context(), docID)
	if err != nil {
		log.Printf("⚠️ Relecture post-mutation impossible pour %s: %v", docID, err)
		return
	}

	go services.IndexOrder(order)
	if newStatus != "" {
		go utils.SendOrderStatusEmail(order, newStatus)
	}
}

// respondOrderError mappe la taxonomie d'erreurs du domaine vers HTTP.
// Dans tous les cas la ligne affichée reste inchangée : la vue ne bouge
// qu'au prochain instantané poussé par le store.
func respondOrderError(c *gin.Context, err error) {
	var transitionErr *orders.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
		return
	}

	var vErr *orders.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "errors": vErr.Errors})
		return
	}

	if errors.Is(err, orders.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable (supprimée par une autre session ?)"})
		return
	}

	if errors.Is(err, orders.ErrVersionConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Commande modifiée par une autre session, merci de réessayer"})
		return
	}

	var tErr *orders.TransportError
	if errors.As(err, &tErr) {
		log.Printf("❌ Erreur store: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Opération impossible", "reason": tErr.Error()})
		return
	}

	log.Printf("❌ Erreur inattendue: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne"})
}

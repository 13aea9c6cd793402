package user

import (
	"log"
	"net/http"
	"time"

	"veena_crackers_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// TrackOrderWS pousse au client l'état de SA commande à chaque changement
// de la collection : les modifications faites par le staff (statut,
// transporteur) convergent vers la vue du client encore ouverte.
func TrackOrderWS(c *gin.Context) {
	orderRef := c.Param("orderId")
	if orderRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de commande manquant"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	updates := make(chan []models.Order, 8)
	unsubscribe, err := Store.Subscribe(c.Request.Context(), func(snapshot []models.Order) {
		select {
		case updates <- snapshot:
		default:
			// Abonné lent : le prochain instantané complet rattrapera tout
		}
	})
	if err != nil {
		log.Printf("❌ Abonnement impossible: %v", err)
		return
	}
	defer unsubscribe()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Suivi de commande activé",
	})

	for {
		select {
		case snapshot := <-updates:
			var payload map[string]interface{}

			found := false
			for _, order := range snapshot {
				if order.OrderID == orderRef || order.DocumentID == orderRef {
					payload = map[string]interface{}{
						"type":  "order_updated",
						"order": order,
					}
					found = true
					break
				}
			}
			if !found {
				// Supprimée par le staff : la vue cliente doit le refléter
				payload = map[string]interface{}{"type": "order_deleted"}
			}

			if err := conn.WriteJSON(payload); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package admin

import (
	"log"
	"net/http"
	"time"

	"veena_crackers_back_end/internal/console"
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

// OrdersWebSocket pousse l'instantané COMPLET de la collection à la console
// à chaque changement, avec les compteurs recalculés sur l'ensemble non
// filtré. La console remplace sa liste en bloc, aucun diff.
func OrdersWebSocket(c *gin.Context) {
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
			// Console lente : l'instantané suivant est complet de toute façon
		}
	})
	if err != nil {
		log.Printf("❌ Abonnement impossible: %v", err)
		return
	}
	defer unsubscribe()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Synchronisation commandes activée",
	})

	for {
		select {
		case snapshot := <-updates:
			counters := countStatuses(snapshot)
			payload := map[string]interface{}{
				"type":     "orders_snapshot",
				"orders":   snapshot,
				"counters": counters,
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

func countStatuses(snapshot []models.Order) console.Counters {
	counters := console.Counters{Total: len(snapshot)}
	for _, order := range snapshot {
		switch order.Status {
		case models.StatusPending:
			counters.Pending++
		case models.StatusDispatched:
			counters.Dispatched++
		case models.StatusDelivered:
			counters.Delivered++
		}
	}
	return counters
}

package routes

import (
	"veena_crackers_back_end/internal/handlers/admin"
	"veena_crackers_back_end/internal/handlers/product"
	"veena_crackers_back_end/internal/handlers/user"
	"veena_crackers_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// Catalogue (public)
	api.GET("/products", product.ListProducts)

	// Panier (session client)
	api.GET("/cart", user.GetCart)
	api.POST("/cart/add", user.AddToCart)
	api.DELETE("/cart/clear", user.ClearCart)
	api.DELETE("/cart/:productId", user.RemoveFromCart)

	// Checkout + suivi client
	api.POST("/checkout", middleware.CheckoutRateLimit(), user.SubmitOrder)
	api.GET("/orders/:orderId", user.GetOrder)

	// Authentification staff
	api.POST("/admin/login", admin.Login)

	// Console admin : token signé + rôle admin obligatoires
	adm := api.Group("/admin")
	adm.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adm.GET("/orders", admin.ListOrders)
		adm.GET("/orders/search", admin.DeepSearchOrders)
		adm.PATCH("/orders/:id/status", admin.SetStatus)
		adm.PATCH("/orders/:id/transport", admin.SetTransport)
		adm.PATCH("/orders/:id/type", admin.SetType)
		adm.POST("/orders/:id/dispatch", admin.Dispatch)
		adm.DELETE("/orders/:id", admin.RemoveOrder)
		adm.GET("/orders/:id/invoice", admin.OrderInvoicePDF)

		adm.POST("/products", product.UpsertProduct)
		adm.DELETE("/products/:id", product.DeleteProduct)
	}

	// WebSockets temps réel
	r.GET("/ws/track/:orderId", user.TrackOrderWS)
	r.GET("/ws/admin/orders", middleware.AuthRequired(), middleware.RequireAdmin, admin.OrdersWebSocket)
}

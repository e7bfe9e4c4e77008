package router

import (
	"myShopHub/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupAuthRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	auth := api.Group("/auth")

	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)
	auth.POST("/google", handler.GoogleLogin)

	auth.POST("/logout", handler.Logout, authRequired)
	auth.GET("/profile", handler.GetProfile, authRequired)
	auth.PUT("/update-profile", handler.UpdateProfile, authRequired)
	auth.DELETE("/delete", handler.DeleteAccount, authRequired)
	auth.GET("/emails", handler.RegisteredEmails, authRequired)
}

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	users := api.Group("/users", authRequired, adminOnly)

	users.GET("", handler.GetAllUsers)
	users.PUT("/:id", handler.UpdateUser)
	users.DELETE("/:id", handler.DeleteUser)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts)
	products.GET("/categories", handler.GetCategories)
	products.GET("/:id", handler.GetProductByID)
	products.POST("", handler.CreateProduct, authRequired, adminOnly)
	products.PUT("/:id", handler.UpdateProduct, authRequired, adminOnly)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, adminOnly)
}

func SetOrdersRoutes(api *echo.Group, ordersHandler *rest.OrdersHandler, paymentsHandler *rest.PaymentsHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	orders := api.Group("/orders", authRequired)

	orders.POST("/create", ordersHandler.CreateOrder)
	orders.GET("/user", ordersHandler.GetUserOrders)
	orders.POST("/:id/pay", paymentsHandler.PayOrder)

	orders.GET("", ordersHandler.GetAllOrders, adminOnly)
	orders.PUT("/:id/status", ordersHandler.UpdateOrderStatus, adminOnly)
	orders.DELETE("/:id", ordersHandler.DeleteOrder, adminOnly)
}

func SetWebhookHandler(api *echo.Group, webhookHandler *rest.WebhookController) {
	webhook := api.Group("/webhook")
	webhook.POST("/xendit", webhookHandler.HandleWebhook)
}

func SetReviewRoutes(api *echo.Group, handler *rest.ReviewHandler, authRequired echo.MiddlewareFunc) {
	reviews := api.Group("/reviews")

	reviews.GET("/product/:productId", handler.GetProductReviews)
	reviews.GET("/stats/:productId", handler.GetReviewStats)
	reviews.POST("", handler.CreateReview, authRequired)
	reviews.PUT("/:id", handler.UpdateReview, authRequired)
	reviews.DELETE("/:id", handler.DeleteReview, authRequired)
}

func SetAdminRoutes(api *echo.Group, adminHandler *rest.AdminHandler, emailHandler *rest.EmailHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin", authRequired, adminOnly)
	admin.GET("/stats", adminHandler.GetStats)
	admin.GET("/orders/export", adminHandler.ExportOrders)

	email := api.Group("/email", authRequired, adminOnly)
	email.POST("/test", emailHandler.SendTestEmail)
}

func SetChatRoutes(e *echo.Echo, handler *rest.ChatHandler) {
	e.GET("/ws/chat", handler.Connect)
}

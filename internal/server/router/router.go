package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockpilot/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", handler.Health)

	api := r.Group("/api")
	{
		api.POST("/session", handler.Login)
		api.GET("/session", handler.CurrentSession)
		api.DELETE("/session", handler.Logout)

		api.GET("/products", handler.ListProducts)
		api.POST("/products", handler.CreateProduct)
		api.PUT("/products/:id", handler.UpdateProduct)
		api.DELETE("/products/:id", handler.DeleteProduct)
		api.POST("/products/import", handler.ImportProducts)
		api.GET("/products/export", handler.ExportProducts)
		api.POST("/scan", handler.Scan)

		api.GET("/movements", handler.ListMovements)
		api.POST("/movements", handler.RegisterMovement)
		api.DELETE("/movements", handler.PurgeMovements)

		api.GET("/cart", handler.Cart)
		api.DELETE("/cart", handler.ClearCart)
		api.POST("/cart/items", handler.AddCartItem)
		api.DELETE("/cart/items/:index", handler.RemoveCartItem)
		api.POST("/checkout", handler.Checkout)

		api.GET("/settings", handler.Settings)
		api.PUT("/settings", handler.SaveSettings)
		api.GET("/users", handler.ListUsers)
		api.POST("/users", handler.CreateUser)
		api.DELETE("/users/:id", handler.DeleteUser)

		reports := api.Group("/reports")
		reports.GET("/inventory-value", handler.InventoryValue)
		reports.GET("/dashboard", handler.Dashboard)
		reports.GET("/finance", handler.Finance)
		reports.GET("/charts", handler.Charts)
		reports.GET("/history", handler.History)
		reports.GET("/daily-cut", handler.DailyCut)
		reports.GET("/daily-cut.pdf", handler.DailyCutPDF)
		reports.POST("/close-day", handler.CloseDay)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

package main

import (
	"fmt"
	"log"
	"time"

	"ecoharvest-api/internal/auth"
	"ecoharvest-api/internal/config"
	"ecoharvest-api/internal/database"
	"ecoharvest-api/internal/handlers"
	"ecoharvest-api/internal/logger"
	"ecoharvest-api/internal/middleware"
	"ecoharvest-api/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatal("failed to build logger: ", err)
	}
	defer zlog.Sync()

	db, err := database.Connect(cfg.Database.DSN, zlog)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("schema migration failed", zap.Error(err))
	}
	zlog.Info("database schema synced")

	st := store.New(db)
	jwtm := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	productHandler := handlers.NewProductHandler(st, zlog)
	mediaHandler := handlers.NewMediaHandler(st, zlog)
	batchHandler := handlers.NewBatchHandler(st, zlog)
	orderHandler := handlers.NewOrderHandler(st, zlog)
	cartHandler := handlers.NewCartHandler(st, zlog)
	reportHandler := handlers.NewReportHandler(st, zlog)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(zlog))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-api-key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })

	// --- PUBLIC CATALOG ---
	r.GET("/api/products", productHandler.List)
	r.GET("/api/products/:id", productHandler.Get)
	r.GET("/api/categories", productHandler.ListCategories)
	r.GET("/api/product-images/:productId", mediaHandler.ListImages)
	r.GET("/api/product-certifications/:productId", mediaHandler.ListCertifications)

	// --- AGENT ROUTES ---
	// The AI agent service authenticates with a pre-shared key and names the
	// user it acts for; same cart semantics as the session routes.
	agent := r.Group("/api/agent")
	agent.Use(middleware.AgentAuth(cfg.Auth.AgentAPIKey))
	{
		agent.GET("/cart", cartHandler.AgentGet)
		agent.POST("/cart/items", cartHandler.AgentAddItem)
	}

	// --- AUTHENTICATED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.Auth(jwtm))
	{
		// CUSTOMER
		api.POST("/orders", orderHandler.Create)
		api.GET("/orders", orderHandler.List)
		api.GET("/orders/:id", orderHandler.Get)

		api.GET("/cart", cartHandler.Get)
		api.POST("/cart/items", cartHandler.AddItem)
		api.PATCH("/cart/items/:id", cartHandler.UpdateItem)
		api.DELETE("/cart/items/:id", cartHandler.RemoveItem)
		api.DELETE("/cart", cartHandler.Clear)

		// STAFF & ADMIN: inventory intake
		staff := api.Group("/")
		staff.Use(middleware.RequireRole("admin", "staff"))
		{
			staff.POST("/import-receipts", batchHandler.CreateReceipt)
			staff.GET("/import-receipts", batchHandler.ListReceipts)
			staff.GET("/import-receipts/:id", batchHandler.GetReceipt)
			staff.PATCH("/import-receipts/:id", batchHandler.UpdateReceipt)

			staff.POST("/batches", batchHandler.CreateBatch)
			staff.GET("/batches", batchHandler.ListBatches)
			staff.GET("/batches/:id", batchHandler.GetBatch)
			staff.PATCH("/batches/:id", batchHandler.UpdateBatch)

			staff.POST("/batch-documents", batchHandler.AddDocument)
			staff.GET("/batch-documents/:batchId", batchHandler.ListDocuments)
			staff.DELETE("/batch-documents/:id", batchHandler.DeleteDocument)
		}

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/products", productHandler.Create)
			admin.PATCH("/products/:id", productHandler.Update)
			admin.DELETE("/products/:id", productHandler.Delete)
			admin.POST("/categories", productHandler.CreateCategory)
			admin.POST("/categories/:id/sub", productHandler.CreateSubCategory)

			admin.POST("/product-images", mediaHandler.AddImage)
			admin.DELETE("/product-images/:id", mediaHandler.DeleteImage)
			admin.POST("/product-certifications", mediaHandler.AddCertification)
			admin.DELETE("/product-certifications/:id", mediaHandler.DeleteCertification)

			admin.DELETE("/import-receipts/:id", batchHandler.DeleteReceipt)
			admin.DELETE("/batches/:id", batchHandler.DeleteBatch)

			admin.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
			admin.PATCH("/orders/payments/:orderId/status", orderHandler.UpdatePaymentStatus)
			admin.DELETE("/orders/:id", orderHandler.Delete)

			admin.GET("/reports", reportHandler.GetSalesReport)
			admin.GET("/reports/valuation", reportHandler.GetStockValuation)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zlog.Fatal("server failed to start", zap.Error(err))
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"charity-auction/internal/auth"
	"charity-auction/internal/config"
	"charity-auction/internal/groq"
	"charity-auction/internal/handlers"
	"charity-auction/internal/ipfs"
	"charity-auction/internal/ledger"
	"charity-auction/internal/services"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.Server.JWTSecret)

	// Initialize clients
	ledgerClient := ledger.NewClient(cfg.Ledger.RPCURL, logger)
	groqClient := groq.NewClient(cfg.Assistant.APIKey, cfg.Assistant.Model)
	gateway := ipfs.NewGateway(cfg.IPFS.GatewayURL, cfg.IPFS.FetchTimeout, logger)

	// Initialize services
	builder := services.NewViewModelBuilder(cfg.IPFS.GatewayURL, cfg.Sync.BidHistoryLimit, logger)
	syncService := services.NewSyncService(ledgerClient, builder, cfg, logger)
	txService := services.NewTxService(ledgerClient, syncService, cfg, logger)
	assistantService := services.NewAssistantService(groqClient, logger)
	auditService := services.NewAuditService(gateway, groqClient, logger)

	// Initialize handlers
	assistantHandler := handlers.NewAssistantHandler(assistantService, logger)
	auditHandler := handlers.NewAuditHandler(auditService, logger)
	auctionHandler := handlers.NewAuctionHandler(syncService, logger)
	charityHandler := handlers.NewCharityHandler(syncService, logger)
	proposalHandler := handlers.NewProposalHandler(syncService, logger)
	profileHandler := handlers.NewProfileHandler(syncService, logger)
	transactionHandler := handlers.NewTransactionHandler(txService, logger)
	adminHandler := handlers.NewAdminHandler(syncService, cfg.Server.AdminAddress, logger)

	// Warm the list caches so first page loads hit a fresh snapshot
	stopWarmers := syncService.WarmUp()
	defer stopWarmers()
	logger.Info("View-model sync started")

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if cfg.Server.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.Server.FrontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Wallet-Address"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Liveness endpoints
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Sui Charity AI Server is running!")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Admin authentication (public)
	router.POST("/auth/admin", adminHandler.Login)

	// Assistant routes
	router.POST("/api/chat", assistantHandler.Chat)
	router.POST("/api/generate-description", assistantHandler.GenerateDescription)
	router.POST("/api/verify-charity", auditHandler.VerifyCharity)

	// Read API over the synced view models
	router.GET("/api/auctions", auctionHandler.GetAuctions)
	router.GET("/api/auctions/:id", auctionHandler.GetAuctionByID)
	router.GET("/api/auctions/:id/bids", auctionHandler.GetAuctionBids)
	router.GET("/api/charities", charityHandler.GetCharities)
	router.GET("/api/charities/:id", charityHandler.GetCharityByID)
	router.GET("/api/proposals/pending", proposalHandler.GetPendingProposals)
	router.GET("/api/profile/:address", profileHandler.GetProfile)
	router.GET("/api/balance/:address", profileHandler.GetBalance)

	// Transaction API
	router.POST("/api/transactions/build", transactionHandler.Build)
	router.POST("/api/transactions/submit", transactionHandler.Submit)
	router.POST("/api/transactions/:digest/confirm", transactionHandler.Confirm)

	// Admin routes (protected)
	admin := router.Group("/api/admin")
	admin.Use(auth.RequireAdmin())
	{
		admin.GET("/charities", adminHandler.GetCharityQueues)
		admin.GET("/proposals", adminHandler.GetProposals)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CryptoBacktester/config"
	"CryptoBacktester/internal/handlers"
	"CryptoBacktester/internal/models"
	"CryptoBacktester/internal/operations/backtest"
	"CryptoBacktester/internal/operations/binance"
	"CryptoBacktester/internal/operations/price"
	"CryptoBacktester/internal/repositories"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Setup database
	db := setupDatabase(cfg.Database)

	// Initialize repositories
	priceRepo := repositories.NewPriceRepository(db)
	backtestRepo := repositories.NewBacktestRepository(db)

	// Initialize price pipeline
	client := binance.NewBinanceClient(cfg.Exchange.APIKey, cfg.Exchange.SecretKey)
	fetcher := price.NewPriceFetcher(client)
	recorder := price.NewPriceRecorder(priceRepo)
	history := price.NewHistoryService(fetcher, recorder, priceRepo)

	// Initialize backtest engine
	engine := backtest.NewEngine(history)

	// Setup HTTP server
	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	handlers.NewBacktestHandler(engine, backtestRepo).Register(router)
	handlers.NewPriceHandler(history).Register(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Backtest API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	// Handle shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Println("Forced shutdown:", err)
	}
	log.Println("Shutdown complete")
}

func setupDatabase(dbConfig config.DatabaseConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto migrate database schemas
	if err := db.AutoMigrate(&models.Price{}, &models.BacktestRun{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	return db
}

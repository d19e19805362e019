package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/probatefin/advancement-engine/internal/config"
	"github.com/probatefin/advancement-engine/internal/repository"
	"github.com/probatefin/advancement-engine/internal/service"
)

func main() {
	log.Println("Starting statement scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	loanRepo := repository.NewLoanRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	statementService := service.NewStatementService(loanRepo, transactionRepo, redisClient, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Nightly refresh of cached statements for all unsettled loans
	_, err = c.AddFunc(cfg.Scheduler.StatementRefreshSpec, func() {
		log.Println("Running nightly statement refresh job...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		refreshed, err := statementService.RefreshStatements(ctx)
		if err != nil {
			log.Printf("Statement refresh job failed: %v", err)
			return
		}
		log.Printf("Statement refresh job finished, %d loans refreshed", refreshed)
	})
	if err != nil {
		log.Fatalf("Error scheduling statement refresh job: %v", err)
	}

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

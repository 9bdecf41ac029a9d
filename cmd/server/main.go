package main

import (
	"context"
	"flag"
	"log"

	"coursely/internal/catalog"
	"coursely/internal/config"
	"coursely/internal/enrollment"
	"coursely/internal/firebase"
	"coursely/internal/instructor"
	"coursely/internal/payments"
	"coursely/internal/progress"
	"coursely/internal/repository"
	"coursely/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using the environment as-is")
	}
	cfg := config.NewFromEnv()

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, cfg.FirebaseCredentialsFile)
	if err != nil {
		log.Fatalf("error initializing Firebase: %v\n", err)
	}
	defer app.Close()

	repo := repository.NewFirebaseRepository(app)
	paymentsClient := payments.NewClient(payments.Config{
		APIKey:        cfg.StripeAPIKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		Currency:      cfg.Currency,
		SuccessURL:    cfg.CheckoutSuccessURL,
		CancelURL:     cfg.CheckoutCancelURL,
	})

	server.Start(&server.Services{
		Config:     cfg,
		Repo:       repo,
		Catalog:    catalog.NewService(repo, repo),
		Tracker:    progress.NewTracker(repo, repo, repo),
		Ledger:     enrollment.NewLedger(repo, repo, repo),
		Instructor: instructor.NewService(repo, repo, repo),
		Payments:   paymentsClient,
	})
}

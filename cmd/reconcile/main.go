package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/CuraLedger-Health/subscription-service/internal/db"
	"github.com/CuraLedger-Health/subscription-service/internal/messaging"
	"github.com/CuraLedger-Health/subscription-service/internal/subscription"
)

func main() {
	log.Println("Subscription Reconciliation Job - Starting")

	// Connect to database
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Publisher is optional for a reporting job
	var publisher messaging.PublisherInterface
	if p, err := messaging.NewPublisher(); err != nil {
		log.Printf("Warning: failed to connect to RabbitMQ: %v", err)
		log.Println("Findings will be logged only")
	} else {
		publisher = p
		defer p.Close()
	}

	reconciler := subscription.NewReconciler(database, publisher)

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Check how many subscriptions are missing their payment audit row
	count, err := reconciler.CountOrphans(ctx)
	if err != nil {
		log.Fatalf("Failed to count orphan subscriptions: %v", err)
	}

	log.Printf("Found %d subscriptions without a transaction record", count)

	if count == 0 {
		log.Println("Nothing to reconcile. Exiting.")
		os.Exit(0)
	}

	orphans, err := reconciler.FindOrphans(ctx)
	if err != nil {
		log.Fatalf("Failed to list orphan subscriptions: %v", err)
	}

	// The on-chain details needed to rebuild a transaction row are not stored
	// locally, so findings are reported for manual follow-up.
	reconciler.Report(ctx, orphans)

	log.Printf("✓ Reconciliation completed: %d findings reported", len(orphans))
	log.Println("Reconciliation Job - Finished")
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CuraLedger-Health/subscription-service/internal/attestation"
	"github.com/CuraLedger-Health/subscription-service/internal/auth"
	"github.com/CuraLedger-Health/subscription-service/internal/db"
	httpserver "github.com/CuraLedger-Health/subscription-service/internal/http"
	"github.com/CuraLedger-Health/subscription-service/internal/messaging"
	"github.com/CuraLedger-Health/subscription-service/internal/pricing"
	"github.com/CuraLedger-Health/subscription-service/internal/telemetry"
	"github.com/CuraLedger-Health/subscription-service/internal/wallet"
)

func main() {
	log.Println("subscription-service starting")

	ctx := context.Background()

	// Initialize OpenTelemetry (fails gracefully if collector unavailable)
	telemetryProvider, err := telemetry.InitProvider(ctx, telemetry.LoadConfig())
	if err != nil {
		log.Printf("Warning: failed to initialize telemetry: %v", err)
		log.Println("Service will continue without telemetry")
	}
	if telemetryProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
				log.Printf("Warning: telemetry shutdown error: %v", err)
			}
		}()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Printf("Warning: failed to initialize metrics: %v", err)
		metrics = nil
	}

	// Connect to database
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Connect to RabbitMQ (events are best-effort; a nil publisher disables them)
	publisher, err := messaging.NewPublisher()
	if err != nil {
		log.Printf("Warning: failed to connect to RabbitMQ: %v", err)
		log.Println("Service will continue without event publishing")
		publisher = nil
	}
	if publisher != nil {
		defer publisher.Close()
	}

	// Token verification against the hosted auth realm
	authCfg := auth.LoadConfig()
	jwks, err := auth.NewJWKS(authCfg.JWKSURL, 15*time.Minute)
	if err != nil {
		log.Fatalf("Failed to load JWKS from %s: %v", authCfg.JWKSURL, err)
	}
	defer jwks.Close()
	verifier := auth.NewVerifier(authCfg, jwks)

	permissionsFile := os.Getenv("PERMISSIONS_FILE")
	if permissionsFile == "" {
		permissionsFile = "permissions.yml"
	}
	perms, err := auth.LoadPermissions(permissionsFile)
	if err != nil {
		log.Fatalf("Failed to load permissions from %s: %v", permissionsFile, err)
	}
	log.Printf("✓ Loaded permissions for %d roles", len(perms))

	// Wallet bridge, price oracle and attestation service
	walletCfg := wallet.LoadConfig()
	provider := wallet.NewRPCProvider(walletCfg)
	session := wallet.NewSession(provider)

	// Pick up an already-authorized wallet account, if any
	restoreCtx, cancelRestore := context.WithTimeout(ctx, 10*time.Second)
	if err := session.Restore(restoreCtx); err != nil {
		log.Printf("Warning: could not restore wallet session: %v", err)
	}
	cancelRestore()

	rates := pricing.NewClient(pricing.LoadConfig())
	attester := attestation.NewClient(attestation.LoadConfig())

	router := httpserver.SetupRouter(database, verifier, perms, publisherOrNil(publisher),
		provider, session, rates, attester, metrics, walletCfg.TreasuryAddress)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      httpserver.CORSMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("✓ subscription-service listening on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: server shutdown error: %v", err)
	}
	log.Println("✓ Server stopped")
}

// A nil *messaging.Publisher must become a nil interface, not a non-nil
// interface wrapping a nil pointer.
func publisherOrNil(p *messaging.Publisher) messaging.PublisherInterface {
	if p == nil {
		return nil
	}
	return p
}

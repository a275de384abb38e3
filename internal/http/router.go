package http

import (
	"database/sql"
	"net/http"

	"github.com/CuraLedger-Health/subscription-service/internal/attestation"
	"github.com/CuraLedger-Health/subscription-service/internal/auth"
	"github.com/CuraLedger-Health/subscription-service/internal/messaging"
	"github.com/CuraLedger-Health/subscription-service/internal/pricing"
	"github.com/CuraLedger-Health/subscription-service/internal/professionals"
	"github.com/CuraLedger-Health/subscription-service/internal/records"
	"github.com/CuraLedger-Health/subscription-service/internal/subscription"
	"github.com/CuraLedger-Health/subscription-service/internal/telemetry"
	"github.com/CuraLedger-Health/subscription-service/internal/wallet"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// SetupRouter initializes all routes for the application
func SetupRouter(
	db *sql.DB,
	verifier *auth.Verifier,
	perms auth.Permissions,
	publisher messaging.PublisherInterface,
	provider wallet.Provider,
	session *wallet.Session,
	rates *pricing.Client,
	attester attestation.ClientInterface,
	metrics *telemetry.Metrics,
	treasuryAddress string,
) *mux.Router {
	// Initialize records components (app users and their medical records)
	recordsRepo := records.NewRepository(db, publisher)
	recordsService := records.NewService(recordsRepo)
	recordsHandler := records.NewHandler(recordsService)

	// Initialize professional directory components
	professionalsRepo := professionals.NewRepository(db, publisher)
	professionalsService := professionals.NewService(professionalsRepo)
	professionalsHandler := professionals.NewHandler(professionalsService)

	// Initialize subscription components
	subscriptionRepo := subscription.NewRepository(db, publisher)
	subscriptionService := subscription.NewService(subscriptionRepo, rates)
	workflow := subscription.NewWorkflow(session, provider, rates, subscriptionRepo, attester, publisher, metricsOrNil(metrics), treasuryAddress)
	subscriptionHandler := subscription.NewHandler(subscriptionService, workflow, recordsService)

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("subscription-service"))

	authn := auth.MiddlewareWithMetrics(verifier, metricsOrNilAuth(metrics))
	require := func(permission string) func(http.Handler) http.Handler {
		return auth.RequirePermissionWithMetrics(permission, perms, metricsOrNilPerm(metrics))
	}

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"subscription-service"}`))
	}).Methods("GET")

	// Plan catalog is public: the pricing page renders before login
	r.HandleFunc("/plans", subscriptionHandler.ListPlans).Methods("GET")

	// Subscription routes
	r.Handle("/subscriptions",
		authn(require("subscription:create")(
			http.HandlerFunc(subscriptionHandler.Subscribe),
		)),
	).Methods("POST")

	r.Handle("/subscriptions",
		authn(require("subscription:view")(
			http.HandlerFunc(subscriptionHandler.ListMySubscriptions),
		)),
	).Methods("GET")

	// App user routes
	r.Handle("/users",
		authn(require("user:create")(
			http.HandlerFunc(recordsHandler.CreateUser),
		)),
	).Methods("POST")

	r.Handle("/users",
		authn(require("user:view")(
			http.HandlerFunc(recordsHandler.ListUsers),
		)),
	).Methods("GET")

	r.Handle("/users/me",
		authn(require("user:view")(
			http.HandlerFunc(recordsHandler.GetCurrentUser),
		)),
	).Methods("GET")

	// Medical record routes
	r.Handle("/records",
		authn(require("record:create")(
			http.HandlerFunc(recordsHandler.CreateRecord),
		)),
	).Methods("POST")

	r.Handle("/records",
		authn(require("record:view")(
			http.HandlerFunc(recordsHandler.ListRecords),
		)),
	).Methods("GET")

	r.Handle("/records/{id}",
		authn(require("record:update")(
			http.HandlerFunc(recordsHandler.UpdateRecord),
		)),
	).Methods("PUT")

	// Professional directory routes
	r.Handle("/professionals",
		authn(require("professional:create")(
			http.HandlerFunc(professionalsHandler.CreateProfessional),
		)),
	).Methods("POST")

	r.Handle("/professionals",
		authn(require("professional:view")(
			http.HandlerFunc(professionalsHandler.ListProfessionals),
		)),
	).Methods("GET")

	r.Handle("/professionals/{id}",
		authn(require("professional:view")(
			http.HandlerFunc(professionalsHandler.GetProfessional),
		)),
	).Methods("GET")

	r.Handle("/professionals/{id}",
		authn(require("professional:update")(
			http.HandlerFunc(professionalsHandler.UpdateProfessional),
		)),
	).Methods("PUT")

	r.Handle("/professionals/{id}",
		authn(require("professional:delete")(
			http.HandlerFunc(professionalsHandler.DeleteProfessional),
		)),
	).Methods("DELETE")

	return r
}

// The *telemetry.Metrics value may be nil; the middleware interfaces expect a
// typed nil in that case, not a non-nil interface wrapping a nil pointer.
func metricsOrNil(m *telemetry.Metrics) subscription.MetricsRecorder {
	if m == nil {
		return nil
	}
	return m
}

func metricsOrNilAuth(m *telemetry.Metrics) auth.MetricsRecorder {
	if m == nil {
		return nil
	}
	return m
}

func metricsOrNilPerm(m *telemetry.Metrics) auth.PermissionMetricsRecorder {
	if m == nil {
		return nil
	}
	return m
}

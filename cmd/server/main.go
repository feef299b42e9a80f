package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"spotshare/internal/api"
	"spotshare/internal/auth"
	"spotshare/internal/repository"
	"spotshare/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v82"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	bookingRepo := repository.NewBookingRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobRepository(db)

	stripeSvc := service.NewStripeService()
	senderSvc := service.NewSenderService()
	bookingSvc := service.NewBookingService(bookingRepo, spaceRepo, userRepo, stripeSvc, senderSvc)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo)
	authSvc := service.NewAuthService(userRepo)
	jobSvc := service.NewJobService(jobRepo)

	authHandler := api.NewAuthHandler(authSvc)
	bookingHandler := api.NewBookingHandler(bookingSvc)
	availabilityHandler := api.NewAvailabilityHandler(availabilitySvc, spaceRepo)
	webhookHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), bookingSvc, stripeSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/spaces/{id}/availability", availabilityHandler.GetMonth).Methods("GET")
	r.HandleFunc("/api/spaces/{id}/quote", bookingHandler.GetQuote).Methods("GET")
	r.HandleFunc("/api/stripe/webhook", webhookHandler.HandleWebhook).Methods("POST")

	// Authenticated endpoints
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(auth.Middleware)
	protected.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")
	protected.HandleFunc("/bookings", bookingHandler.ListBookings).Methods("GET")
	protected.HandleFunc("/bookings/{id}", bookingHandler.GetBooking).Methods("GET")
	protected.HandleFunc("/bookings/{id}", bookingHandler.UpdateBooking).Methods("PUT")
	protected.HandleFunc("/bookings/{id}", bookingHandler.CancelBooking).Methods("DELETE")
	protected.HandleFunc("/spaces/{id}/bookings", bookingHandler.ListSpaceBookings).Methods("GET")
	protected.HandleFunc("/spaces/{id}/availability", availabilityHandler.ReplaceMonth).Methods("POST")
	protected.HandleFunc("/spaces/{id}/availability/day", availabilityHandler.ToggleDay).Methods("PUT")
	protected.HandleFunc("/spaces/{id}/availability/hour", availabilityHandler.ToggleHour).Methods("PUT")

	c := cron.New()
	c.AddFunc("@every 10m", func() {
		if err := jobSvc.CompleteElapsedBookings(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.AddFunc("@every 1h", func() {
		cutoff := time.Now().UTC().Add(-24 * time.Hour)
		deleted, err := jobSvc.PurgeStalePendingBookings(cutoff)
		if err != nil {
			log.Printf("Cron Job error purging pending bookings: %v", err)
			return
		}
		if deleted > 0 {
			log.Printf("Cron Job: purged %d stale pending bookings", deleted)
		}
	})
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{os.Getenv("FRONTEND_BASE_URL"), "http://localhost:3000"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

// main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"peakgear/booking"
	"peakgear/config"
	"peakgear/controllers"
	"peakgear/middleware"
	"peakgear/routes"
	"peakgear/store"
	"peakgear/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// Connect to MongoDB
	client := utils.ConnectDB(cfg.MongoURI)
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	storage := store.NewMongoStorage(client, cfg.DBName)
	if err := storage.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	if err := storage.SeedProducts(context.Background()); err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	emailService := utils.NewEmailService(cfg.PostmarkToken, cfg.EmailSender)
	validate := validator.New()

	bookingService := booking.NewService(storage, booking.Config{
		StandardDeliveryFee: cfg.StandardDeliveryFee,
		ExtendedDeliveryFee: cfg.ExtendedDeliveryFee,
	})

	// Initialize middleware and controllers
	sessionAuth := middleware.NewSessionAuth(storage)
	authController := controllers.NewAuthController(storage, emailService, cfg, validate)
	productController := controllers.NewProductController(storage, bookingService, validate)
	bookingController := controllers.NewBookingController(storage, bookingService, emailService, validate)
	waiverController := controllers.NewWaiverController(storage)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, sessionAuth, authController, productController, bookingController, waiverController)

	slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}

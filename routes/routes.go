package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"peakgear/controllers"
	"peakgear/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	auth *middleware.SessionAuth,
	authController *controllers.AuthController,
	productController *controllers.ProductController,
	bookingController *controllers.BookingController,
	waiverController *controllers.WaiverController,
) {
	// Public auth routes
	router.HandleFunc("/api/register", authController.Register).Methods("POST")
	router.HandleFunc("/api/login", authController.Login).Methods("POST")
	router.HandleFunc("/api/logout", authController.Logout).Methods("POST")
	router.HandleFunc("/api/auth/forgot-password", authController.ForgotPassword).Methods("POST")
	router.HandleFunc("/api/auth/reset-password", authController.ResetPassword).Methods("POST")
	router.Handle("/api/auth/user",
		auth.RequireAuth(http.HandlerFunc(authController.CurrentUser))).Methods("GET")

	// Public catalog routes
	router.HandleFunc("/api/products/{id}/availability", productController.Availability).Methods("GET")
	router.HandleFunc("/api/products", productController.List).Methods("GET")
	router.HandleFunc("/api/products/{id}", productController.GetByID).Methods("GET")

	// Admin product management
	adminProducts := router.PathPrefix("/api/products").Subrouter()
	adminProducts.Use(auth.RequireAdmin)
	adminProducts.HandleFunc("", productController.Create).Methods("POST")
	adminProducts.HandleFunc("/{id}", productController.Update).Methods("PUT")
	adminProducts.HandleFunc("/{id}", productController.Delete).Methods("DELETE")

	// Booking routes
	bookings := router.PathPrefix("/api/bookings").Subrouter()
	bookings.Use(auth.RequireAuth)
	bookings.HandleFunc("", bookingController.Create).Methods("POST")
	bookings.HandleFunc("", bookingController.ListOwn).Methods("GET")
	bookings.HandleFunc("/{id}", bookingController.Update).Methods("PUT")

	// Simulated payment checkout
	checkout := router.PathPrefix("/api/checkout").Subrouter()
	checkout.Use(auth.RequireAuth)
	checkout.HandleFunc("", bookingController.Checkout).Methods("POST")

	// Waiver routes
	waivers := router.PathPrefix("/api/waivers").Subrouter()
	waivers.Use(auth.RequireAuth)
	waivers.HandleFunc("/check", waiverController.Check).Methods("GET")
	waivers.HandleFunc("", waiverController.Sign).Methods("POST")

	// Admin listings
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(auth.RequireAdmin)
	admin.HandleFunc("/products", productController.AdminList).Methods("GET")
	admin.HandleFunc("/bookings", bookingController.AdminList).Methods("GET")
}

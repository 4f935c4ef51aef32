package httpserver

import "github.com/go-chi/cors"

// corsMiddleware allows any origin to call the scoring endpoint — it is a
// public, payment-gated resource, not a credentialed one — while still
// advertising the payment proof headers clients need to set.
var corsMiddleware = cors.New(cors.Options{
	AllowedOrigins:   []string{"*"},
	AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
	AllowedHeaders:   []string{"Content-Type", "Payment-Signature", "X-Payment"},
	AllowCredentials: false,
	MaxAge:           300,
}).Handler

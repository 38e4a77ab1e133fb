package middleware

import (
	"github.com/go-chi/cors"
)

// NewCORS creates the CORS middleware for the given allowed origins.
// Content-Disposition is exposed so browsers can read the CSV export filename.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		ExposedHeaders:   []string{"Content-Type", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

package api

import (
	"net/http"

	"github.com/rs/cors"
)

const corsMaxAgeSeconds = 86400

// NewCORS builds the cross-origin policy used by the dashboard page.
// Preflight requests are answered with 204.
func NewCORS(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:       origins,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type"},
		ExposedHeaders:       []string{requestIDHeader},
		MaxAge:               corsMaxAgeSeconds,
		OptionsSuccessStatus: http.StatusNoContent,
	})
}

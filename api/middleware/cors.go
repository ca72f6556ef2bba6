package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
	"https://web.telegram.org",
	"https://webk.telegram.org",
	"https://webz.telegram.org",
}

// CORS returns middleware that applies the Mini App's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Telegram-Init-Data", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

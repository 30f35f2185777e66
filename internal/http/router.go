package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/swaggo/swag"

	// регистрирует сгенерированную OpenAPI документацию
	_ "github.com/lumiforge/vidlinkgen-backend/docs"
)

// SetupRouter creates and configures HTTP router
func SetupRouter(server *Server, resolver IdentityResolver, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(CORSMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(log))
	r.Use(middleware.Recoverer)

	r.Get("/health", server.Health)
	r.Get("/openapi.json", serveOpenAPI)

	requireAuth := AuthMiddleware(resolver)
	optionalAuth := OptionalAuthMiddleware(resolver)

	// Access gate, токен необязателен
	r.Route("/v/{shortId}", func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/", server.ViewLink)
		r.With(ContentTypeMiddleware).Post("/", server.UnlockLink)
	})

	// Страница аналитики ссылки
	r.With(requireAuth).Get("/analytics/{linkId}", server.LinkAnalytics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(ContentTypeMiddleware).Post("/register", server.Register)
			r.With(ContentTypeMiddleware).Post("/login", server.Login)
			r.With(ContentTypeMiddleware).Post("/refresh", server.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.With(ContentTypeMiddleware).Post("/logout", server.Logout)
				r.Get("/profile", server.GetProfile)
				r.Post("/community", server.JoinCommunity)
			})
		})

		r.Get("/plans", server.ListPlans)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/links", func(r chi.Router) {
				r.Get("/", server.ListLinks)
				r.With(ContentTypeMiddleware).Post("/", server.CreateLink)
				r.With(MultipartMiddleware).Post("/upload", server.UploadLink)

				r.Route("/{linkId}", func(r chi.Router) {
					r.Get("/", server.GetLink)
					r.With(ContentTypeMiddleware).Put("/", server.UpdateLink)
					r.Delete("/", server.DeleteLink)
					r.With(MultipartMiddleware).Put("/upload", server.ReplaceUpload)
				})
			})

			r.Get("/analytics/summary", server.AnalyticsSummary)
			r.Get("/analytics/{linkId}", server.LinkAnalytics)

			r.Route("/support/tickets", func(r chi.Router) {
				r.Get("/", server.ListMyTickets)
				r.With(ContentTypeMiddleware).Post("/", server.CreateTicket)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Get("/users", server.ListUsers)
				r.With(ContentTypeMiddleware).Post("/users/{userId}/premium", server.AssignPremium)
				r.Delete("/users/{userId}/premium", server.RevokePremium)
				r.Post("/users/{userId}/premium/extend", server.ExtendPremium)
				r.Get("/tickets", server.ListTickets)
				r.With(ContentTypeMiddleware).Put("/tickets/{ticketId}/status", server.UpdateTicketStatus)
				r.Get("/summary", server.FleetSummary)
				r.Get("/audit-logs", server.GetAuditLogs)
			})
		})
	})

	return r
}

// serveOpenAPI отдает зарегистрированную swag документацию
func serveOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusNotFound, "OpenAPI documentation not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

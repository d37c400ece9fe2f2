package routes

import (
	"net/http"

	"github.com/emilianozm24/baloncesto-api/handlers"
	"github.com/emilianozm24/baloncesto-api/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes wires the full REST surface under /api plus the
// websocket endpoint. Everything under /api sits behind the
// authenticator except the auth flows themselves.
func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	auth *middleware.Authenticator,
	resolver *middleware.Resolver,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/create-account", authHandler.CreateAccount)
			r.Post("/confirm-account", authHandler.ConfirmAccount)
			r.Post("/login", authHandler.Login)
			r.Post("/request-code", authHandler.RequestConfirmationCode)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/validate-token", authHandler.ValidateToken)
			r.Post("/update-password/{token}", authHandler.UpdatePasswordWithToken)

			r.Group(func(r chi.Router) {
				r.Use(auth.Handler)
				r.Get("/user", authHandler.GetCurrentUser)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/update-role/{userID}", authHandler.UpdateRole)
				})
			})
		})

		r.Route("/tournaments", func(r chi.Router) {
			r.Use(auth.Handler)

			r.Get("/", tournamentHandler.List)
			r.With(middleware.RequireAdmin).Post("/", tournamentHandler.Create)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Use(resolver.TournamentCtx)

				r.Get("/", tournamentHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Use(middleware.RequireTournamentOwner)

					r.Put("/", tournamentHandler.Update)
					r.Delete("/", tournamentHandler.Delete)
				})

				r.Route("/teams", func(r chi.Router) {
					r.Get("/", teamHandler.ListByTournament)

					r.With(middleware.RequireAdmin, middleware.RequireTournamentOwner).
						Post("/", teamHandler.Create)

					r.Route("/{teamID}", func(r chi.Router) {
						r.Use(resolver.TeamCtx)
						r.Use(middleware.RequireTeamInTournament)

						r.Get("/", teamHandler.Get)

						r.Group(func(r chi.Router) {
							r.Use(middleware.RequireAdmin)
							r.Use(middleware.RequireTournamentOwner)

							r.Put("/", teamHandler.Update)
							r.Delete("/", teamHandler.Delete)
						})
					})
				})

				r.Route("/matches", func(r chi.Router) {
					r.Get("/", matchHandler.ListByTournament)

					r.With(middleware.RequireAdmin, middleware.RequireTournamentOwner).
						Post("/", matchHandler.Create)

					r.Route("/{matchID}", func(r chi.Router) {
						r.Use(resolver.MatchCtx)
						r.Use(middleware.RequireMatchInTournament)

						r.Get("/", matchHandler.Get)

						r.Group(func(r chi.Router) {
							r.Use(middleware.RequireAdmin)
							r.Use(middleware.RequireTournamentOwner)

							r.Put("/", matchHandler.Update)
							r.Patch("/status", matchHandler.UpdateStatus)
							r.Delete("/", matchHandler.Delete)
						})
					})
				})
			})
		})

		// Player routes hang off the team directly; the tournament scope
		// travels with the team row.
		r.Route("/teams/{teamID}/players", func(r chi.Router) {
			r.Use(auth.Handler)
			r.Use(resolver.TeamCtx)

			r.Get("/", playerHandler.ListByTeam)
			r.Get("/pdf", playerHandler.RenderRoster)

			r.With(middleware.RequireAdmin, resolver.TeamTournamentCtx, middleware.RequireTournamentOwner).
				Post("/", playerHandler.Create)

			r.Route("/{playerID}", func(r chi.Router) {
				r.Use(resolver.PlayerCtx)
				r.Use(middleware.RequirePlayerInTeam)

				r.Get("/", playerHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Use(resolver.TeamTournamentCtx)
					r.Use(middleware.RequireTournamentOwner)

					r.Put("/", playerHandler.Update)
					r.Delete("/", playerHandler.Delete)
				})
			})
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}

package routes

import (
	"net/http"

	_ "github.com/Dosada05/tournament-brackets/docs"
	"github.com/Dosada05/tournament-brackets/handlers"
	"github.com/Dosada05/tournament-brackets/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Tournament *handlers.TournamentHandler
	Roster     *handlers.RosterHandler
	Team       *handlers.TeamHandler
	Bracket    *handlers.BracketHandler
	WebSocket  *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
}

func SetupRoutes(router chi.Router, opts Options, h Handlers) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты для просмотра турниров
		r.Get("/", h.Tournament.ListHandler)
		r.With(moderatorOnly(opts)...).Post("/", h.Tournament.CreateHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", h.Tournament.GetByIDHandler)
			r.Get("/roster", h.Roster.GetRoster)
			r.Get("/teams", h.Team.GetTeams)
			r.Get("/bracket", h.Bracket.GetBracket)
			r.Get("/bracket/preview", h.Bracket.Preview)
			r.Get("/bracket/summary", h.Bracket.Summary)

			// Защищенные маршруты только для модераторов
			r.Group(func(r chi.Router) {
				r.Use(moderatorOnly(opts)...)

				r.Patch("/", h.Tournament.UpdateHandler)
				r.Delete("/", h.Tournament.DeleteHandler)
				r.Post("/clone", h.Tournament.CloneHandler)
				r.Patch("/status", h.Tournament.UpdateStatusHandler)

				r.Post("/roster/{list}", h.Roster.AddEntrant)
				r.Patch("/roster/{list}/reorder", h.Roster.Reorder)
				r.Delete("/roster/{list}/{entrantID}", h.Roster.RemoveEntrant)
				r.Patch("/entrants/{entrantID}", h.Roster.Rename)
				r.Patch("/entrants/{entrantID}/move", h.Roster.Move)
				r.Patch("/entrants/{entrantID}/eligibility", h.Roster.SetEligibility)
				r.Post("/registrations", h.Roster.AddRegistration)
				r.Delete("/registrations/{ref}", h.Roster.RemoveRegistration)

				r.Post("/teams", h.Team.AddTeam)
				r.Patch("/teams/{teamID}", h.Team.RenameTeam)
				r.Delete("/teams/{teamID}", h.Team.RemoveTeam)
				r.Post("/teams/assign", h.Team.Assign)
				r.Post("/teams/swap", h.Team.Swap)
				r.Post("/teams/unassign", h.Team.Unassign)
				r.Post("/teams/substitute", h.Team.Substitute)
				r.Post("/teams/regenerate", h.Team.RegenerateAll)

				r.Post("/bracket/generate", h.Bracket.Generate)
				r.Post("/bracket/regenerate", h.Bracket.Regenerate)
				r.Post("/bracket/export", h.Bracket.Export)
				r.Put("/bracket/matches/{matchID}/slots/{slot}", h.Bracket.SetSlot)
				r.Post("/bracket/matches/swap-slots", h.Bracket.SwapSlots)
				r.Post("/bracket/matches/{matchID}/winner", h.Bracket.SetWinner)
				r.Post("/bracket/matches/{matchID}/dropout", h.Bracket.Dropout)
				r.Post("/bracket/matches/{matchID}/swap-winner", h.Bracket.SwapWinner)
				r.Post("/bracket/matches/{matchID}/clear-winner", h.Bracket.ClearWinner)
			})
		})
	})
}

func moderatorOnly(opts Options) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.Authenticate(opts.JWTSecret),
		middleware.Authorize(middleware.RoleModerator, middleware.RoleAdmin),
	}
}

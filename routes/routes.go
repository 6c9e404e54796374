package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/paddleup/pickleplay/handlers"
	"github.com/paddleup/pickleplay/middleware"
)

type Handlers struct {
	Waitlist  *handlers.WaitlistHandler
	Schedule  *handlers.ScheduleHandler
	User      *handlers.UserHandler
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(h Handlers, jwtSecret string, allowedOrigins []string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Schedule generation is stateless and unauthenticated.
	router.Route("/schedule", func(r chi.Router) {
		r.Post("/round-robin/singles", h.Schedule.GenerateSingles)
		r.Post("/round-robin/individual", h.Schedule.GenerateIndividual)
		r.Post("/round-robin/teams", h.Schedule.GenerateTeams)
		r.Post("/standings", h.Schedule.CalculateStandings)
	})

	router.Route("/tournaments/{tournamentID}", func(r chi.Router) {
		r.Get("/capacity", h.Waitlist.GetTournamentCapacity)
		r.Get("/waitlist", h.Waitlist.ListTournamentWaitlist)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Post("/register", h.Waitlist.RegisterForTournament)
			r.Post("/waitlist", h.Waitlist.JoinTournamentWaitlist)
			r.Get("/waitlist/position", h.Waitlist.GetTournamentWaitlistPosition)
			r.Post("/waitlist/accept", h.Waitlist.AcceptTournamentSpot)
			r.Post("/waitlist/decline", h.Waitlist.DeclineTournamentSpot)
			r.Post("/waitlist/process", h.Waitlist.ProcessTournamentWaitlist)
			r.Post("/waitlist/reorder", h.Waitlist.ReorderTournamentWaitlist)
		})
	})

	router.Route("/leagues/{leagueID}", func(r chi.Router) {
		r.Get("/capacity", h.Waitlist.GetLeagueCapacity)
		r.Get("/waitlist", h.Waitlist.ListLeagueWaitlist)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Post("/waitlist", h.Waitlist.JoinLeagueWaitlist)
			r.Get("/waitlist/position", h.Waitlist.GetLeagueWaitlistPosition)
			r.Post("/waitlist/process", h.Waitlist.ProcessLeagueWaitlist)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Get("/users/me", h.User.GetMe)
		r.Put("/users/me/avatar", h.User.UploadAvatar)
		r.Get("/ws/notifications", h.WebSocket.ServeNotifications)
	})

	return router
}

package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/udesh117/hackathon-system/handlers"
	"github.com/udesh117/hackathon-system/middleware"
	"github.com/udesh117/hackathon-system/models"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Judge        *handlers.JudgeHandler
	Team         *handlers.TeamHandler
	Submission   *handlers.SubmissionHandler
	Assignment   *handlers.AssignmentHandler
	Evaluation   *handlers.EvaluationHandler
	Leaderboard  *handlers.LeaderboardHandler
	Announcement *handlers.AnnouncementHandler
	Dashboard    *handlers.DashboardHandler
	Websocket    *handlers.WebsocketHandler
}

func InitRoutes(h Handlers, jwtSecret []byte) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(middleware.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	adminOnly := middleware.Authorize(string(models.RoleAdmin))
	judgeOnly := middleware.Authorize(string(models.RoleJudge))
	participantOnly := middleware.Authorize(string(models.RoleParticipant))

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/ws", h.Websocket.Serve)

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Get("/leaderboard", h.Leaderboard.Get)
	router.Get("/announcements", h.Announcement.List)

	// Any signed-in user.
	router.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/teams/{teamID}", h.Team.GetByID)
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(participantOnly)

		r.Post("/teams", h.Team.Create)
		r.Post("/teams/{teamID}/join", h.Team.Join)
		r.Get("/teams/mine", h.Team.GetMine)
		r.Post("/teams/{teamID}/logo", h.Team.UploadLogo)

		r.Get("/submissions/mine", h.Submission.GetMine)
		r.Put("/submissions/draft", h.Submission.SaveDraft)
		r.Post("/submissions/submit", h.Submission.Submit)
		r.Post("/submissions/artifact", h.Submission.UploadArtifact)
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(judgeOnly)

		r.Get("/judge/assignments", h.Assignment.ListMine)
		r.Get("/judge/teams/{teamID}/submission", h.Submission.GetForTeam)
		r.Get("/judge/teams/{teamID}/evaluation", h.Evaluation.Get)
		r.Put("/judge/teams/{teamID}/evaluation/draft", h.Evaluation.SaveDraft)
		r.Post("/judge/teams/{teamID}/evaluation/submit", h.Evaluation.Submit)
		r.Put("/judge/teams/{teamID}/evaluation", h.Evaluation.Update)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)

		r.Get("/dashboard", h.Dashboard.GetStats)

		r.Post("/judges", h.Judge.Create)
		r.Get("/judges", h.Judge.List)
		r.Patch("/judges/{judgeID}/active", h.Judge.SetActive)
		r.Delete("/judges/{judgeID}", h.Judge.Delete)

		r.Get("/teams", h.Team.List)
		r.Patch("/teams/{teamID}/status", h.Team.SetStatus)

		r.Post("/assignments", h.Assignment.Assign)
		r.Post("/assignments/reassign", h.Assignment.Reassign)
		r.Get("/assignments/matrix", h.Assignment.ListMatrix)
		r.Post("/assignments/auto-balance", h.Assignment.AutoBalance)

		r.Patch("/evaluations/{judgeID}/{teamID}/lock", h.Evaluation.SetLocked)

		r.Get("/leaderboard", h.Leaderboard.GetAdmin)
		r.Patch("/leaderboard/publish", h.Leaderboard.SetPublished)

		r.Post("/announcements", h.Announcement.Create)
		r.Get("/announcements", h.Announcement.ListAdmin)
		r.Delete("/announcements/{announcementID}", h.Announcement.Delete)
	})

	return router
}

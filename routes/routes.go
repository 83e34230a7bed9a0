package routes

import (
	"github.com/Aidana07/volunteer-hub/handlers"
	"github.com/Aidana07/volunteer-hub/middleware"
	"github.com/Aidana07/volunteer-hub/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	User          *handlers.UserHandler
	Event         *handlers.EventHandler
	Team          *handlers.TeamHandler
	Registration  *handlers.RegistrationHandler
	Evaluation    *handlers.EvaluationHandler
	Participation *handlers.ParticipationHandler
	Notification  *handlers.NotificationHandler
	Invite        *handlers.InviteHandler
	Dashboard     *handlers.DashboardHandler
	WebSocket     *handlers.WebSocketHandler
}

func SetupRoutes(router *chi.Mux, h Handlers, jwtSecret string, corsAllowedOrigin string) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	allowedOrigins := []string{"*"}
	if corsAllowedOrigin != "" {
		allowedOrigins = []string{corsAllowedOrigin}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))

	// Public
	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)
	router.Get("/auth/confirm-email", h.Auth.ConfirmEmail)
	router.Post("/auth/forgot-password", h.Auth.ForgotPassword)
	router.Post("/auth/reset-password", h.Auth.ResetPassword)

	router.Route("/events", func(r chi.Router) {
		r.Get("/", h.Event.ListEvents)
		r.Get("/{id}", h.Event.GetEvent)
		r.Get("/{eventID}/teams", h.Team.ListTeamsByEvent)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))

			r.Post("/", h.Event.CreateEvent)
			r.Put("/{id}", h.Event.UpdateEvent)
			r.Patch("/{id}/status", h.Event.ChangeStatus)
			r.Post("/{id}/image", h.Event.UploadImage)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/{eventID}/registrations", h.Registration.ListByEvent)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{id}", h.Team.GetTeam)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", h.Team.CreateTeam)
			r.Post("/{id}/members", h.Team.AddMember)
			r.Delete("/{id}/members/{userID}", h.Team.RemoveMember)
			r.Post("/{id}/invites", h.Invite.CreateInvite)
			r.Get("/{id}/evaluations", h.Evaluation.ListByTeam)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/me", h.User.GetCurrentUser)
		r.Put("/me", h.User.UpdateProfile)
		r.Post("/me/avatar", h.User.UploadAvatar)
		r.Get("/me/participations", h.Participation.GetMyParticipations)
		r.Get("/me/evaluations", h.Evaluation.ListMine)

		r.Get("/users/{id}", h.User.GetUser)

		r.Post("/registrations", h.Registration.Register)
		r.Delete("/registrations/{id}", h.Registration.Cancel)

		r.Delete("/memberships/{membershipID}", h.Team.LeaveTeam)

		r.Post("/evaluations", h.Evaluation.Evaluate)

		r.Post("/invites/accept", h.Invite.AcceptInvite)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notification.List)
			r.Get("/unread-count", h.Notification.UnreadCount)
			r.Patch("/{id}/read", h.Notification.MarkRead)
			r.Patch("/read-all", h.Notification.MarkAllRead)
		})

		r.Get("/ws/user", h.WebSocket.ServeUserWs)
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.Authorize(models.RoleAdmin))

		r.Get("/admin/dashboard", h.Dashboard.GetStats)
	})

	// Event streams are public; dashboards can watch without logging in.
	router.Get("/ws/events/{eventID}", h.WebSocket.ServeEventWs)
}

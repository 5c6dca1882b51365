package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/racedaynz/jockeyfinder/handlers"
	"github.com/racedaynz/jockeyfinder/middleware"
	"github.com/racedaynz/jockeyfinder/models"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	meetingHandler *handlers.MeetingHandler,
	attendanceHandler *handlers.AttendanceHandler,
	requestHandler *handlers.RideRequestHandler,
	adminHandler *handlers.AdminHandler,
	syncHandler *handlers.SyncHandler,
	wsHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/auth/signup", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/meetings", func(r chi.Router) {
		// Browsing the calendar is public; the roster needs a caller
		// identity so the requestable flag can be computed.
		r.Get("/", meetingHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Get("/{meetingID}/roster", meetingHandler.Roster)
			r.Put("/{meetingID}/attendance", attendanceHandler.MarkAttending)
			r.Delete("/{meetingID}/attendance", attendanceHandler.ClearAttendance)
		})
	})

	router.Route("/requests", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Post("/", requestHandler.Create)
		r.Post("/{requestID}/respond", requestHandler.Respond)
		r.Get("/incoming", requestHandler.ListIncoming)
		r.Get("/outgoing", requestHandler.ListOutgoing)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.Authorize(string(models.RoleAdmin)))

		r.Get("/verifications", adminHandler.ListPendingVerifications)
		r.Put("/profiles/{userID}/status", adminHandler.ReviewProfile)
		r.Put("/documents/{documentID}/status", adminHandler.ReviewDocument)
		r.Get("/requests", requestHandler.ListAll)
		r.Get("/sync", syncHandler.Sync)
	})

	router.Get("/ws/meetings/{meetingID}", wsHandler.ServeWs)
}

package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/clockwise-hr/attendance-backend-go/internal/config"
	"github.com/clockwise-hr/attendance-backend-go/internal/handler/http/middleware"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg config.AppConfig,
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	correctionHandler CorrectionHandler,
	leaveHandler LeaveHandler,
	calendarHandler CalendarHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/punch-in", attendanceHandler.PunchIn)
				r.Post("/punch-out", attendanceHandler.PunchOut)
				r.Post("/breaks/start", attendanceHandler.StartBreak)
				r.Post("/breaks/end", attendanceHandler.EndBreak)
				r.Get("/my", attendanceHandler.GetMyAttendance)
				r.Get("/my/{date}", attendanceHandler.GetDay)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/override", attendanceHandler.Override)
					r.Post("/reset", attendanceHandler.Reset)
				})
			})

			r.Route("/corrections", func(r chi.Router) {
				r.Post("/", correctionHandler.Submit)
				r.Get("/my", correctionHandler.ListMine)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/pending", correctionHandler.ListPending)
					r.Post("/{id}/approve", correctionHandler.Approve)
					r.Post("/{id}/reject", correctionHandler.Reject)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Get("/validate", leaveHandler.Validate)
				r.Post("/requests", leaveHandler.Submit)
				r.Get("/requests/my", leaveHandler.ListMine)
				r.Get("/balances/my", leaveHandler.MyBalance)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/requests/pending", leaveHandler.ListPending)
					r.Post("/requests/{id}/approve", leaveHandler.Approve)
					r.Post("/requests/{id}/reject", leaveHandler.Reject)
					r.Post("/balances/adjust", leaveHandler.AdjustBalance)
					r.Get("/policies", leaveHandler.ListPolicies)
					r.Put("/policies", leaveHandler.UpsertPolicy)
				})
			})

			r.Route("/calendar", func(r chi.Router) {
				r.Get("/holidays", calendarHandler.ListHolidays)
				r.Get("/days/{date}", calendarHandler.GetDayKind)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/holidays", calendarHandler.CreateHoliday)
					r.Delete("/holidays/{id}", calendarHandler.DeleteHoliday)
					r.Put("/settings", calendarHandler.UpdateSetting)
				})
			})

			r.Get("/notifications/my", notificationHandler.ListMine)

			// Admin only job triggers
			r.Route("/jobs", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/accrual/run", leaveHandler.RunAccrual)
				r.Post("/carry-forward/run", leaveHandler.RunCarryForward)
			})
		})
	})
	return r
}

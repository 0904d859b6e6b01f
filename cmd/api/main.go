package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/clockwise-hr/attendance-backend-go/internal/config"
	appHTTP "github.com/clockwise-hr/attendance-backend-go/internal/handler/http"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/cron"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/jwt"
	"github.com/clockwise-hr/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/clockwise-hr/attendance-backend-go/internal/service/attendance"
	calendarService "github.com/clockwise-hr/attendance-backend-go/internal/service/calendar"
	correctionService "github.com/clockwise-hr/attendance-backend-go/internal/service/correction"
	"github.com/clockwise-hr/attendance-backend-go/internal/service/jobs"
	leaveService "github.com/clockwise-hr/attendance-backend-go/internal/service/leave"
	notificationService "github.com/clockwise-hr/attendance-backend-go/internal/service/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.Connect(context.Background(), database.Config{DSN: cfg.DatabaseURL()})
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	breakRepo := postgresql.NewBreakRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	leavePolicyRepo := postgresql.NewLeavePolicyRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveAccrualRepo := postgresql.NewLeaveAccrualRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	settingRepo := postgresql.NewSettingRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	txManager := postgresql.NewTxManager(db)
	jwtService := jwt.NewJWTService(cfg.JWT.Secret)

	clock := calendarService.NewClock(cfg.Attendance)
	resolver := calendarService.NewResolver(settingRepo, holidayRepo, cfg.Attendance)
	notifier := notificationService.NewNotificationService(notificationRepo)
	defer notifier.Stop()

	attendanceSvc := attendanceService.NewAttendanceService(
		txManager,
		attendanceRepo,
		breakRepo,
		auditRepo,
		leaveRequestRepo,
		employeeRepo,
		settingRepo,
		clock,
		resolver,
		notifier,
		cfg.Attendance,
	)
	correctionSvc := correctionService.NewCorrectionService(
		txManager,
		correctionRepo,
		attendanceRepo,
		breakRepo,
		auditRepo,
		employeeRepo,
		settingRepo,
		clock,
		resolver,
		notifier,
		cfg.Attendance,
	)
	requestSvc := leaveService.NewRequestService(
		txManager,
		leaveRequestRepo,
		leavePolicyRepo,
		leaveBalanceRepo,
		employeeRepo,
		clock,
		notifier,
	)
	balanceSvc := leaveService.NewBalanceService(txManager, leaveBalanceRepo, leavePolicyRepo, clock)
	accrualSvc := leaveService.NewAccrualService(txManager, leavePolicyRepo, leaveBalanceRepo, leaveAccrualRepo, employeeRepo)

	scheduler := cron.NewScheduler()
	jobs.New(attendanceSvc, accrualSvc, employeeRepo, clock, cfg.Attendance).Register(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	correctionHandler := appHTTP.NewCorrectionHandler(correctionSvc)
	leaveHandler := appHTTP.NewLeaveHandler(requestSvc, balanceSvc, accrualSvc, leavePolicyRepo)
	calendarHandler := appHTTP.NewCalendarHandler(holidayRepo, settingRepo, resolver)
	notificationHandler := appHTTP.NewNotificationHandler(notificationRepo)

	router := appHTTP.NewRouter(
		cfg.App,
		jwtService,
		attendanceHandler,
		correctionHandler,
		leaveHandler,
		calendarHandler,
		notificationHandler,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	_ = server.Close()
}

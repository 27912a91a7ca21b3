package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/storecrew/timeclock/internal/config"
	appHTTP "github.com/storecrew/timeclock/internal/handler/http"
	"github.com/storecrew/timeclock/internal/pkg/cron"
	"github.com/storecrew/timeclock/internal/pkg/database"
	"github.com/storecrew/timeclock/internal/pkg/jwt"
	"github.com/storecrew/timeclock/internal/pkg/sse"
	"github.com/storecrew/timeclock/internal/repository/boltdb"
	"github.com/storecrew/timeclock/internal/repository/postgresql"
	eligibilityService "github.com/storecrew/timeclock/internal/service/eligibility"
	sessionService "github.com/storecrew/timeclock/internal/service/session"
	"github.com/storecrew/timeclock/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	ledger, err := boltdb.NewLedger(cfg.Ledger.Path)
	if err != nil {
		log.Fatal("Failed to open attendance ledger:", err)
	}
	defer ledger.Close()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	journal := postgresql.NewPunchJournal(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()
	authenticator := upstream.NewAuthenticator(cfg.Upstream)

	eligibilitySvc := eligibilityService.NewEligibilityService(ledger)
	sessionSvc := sessionService.NewSessionService(
		authenticator,
		JWTService,
		cfg.Upstream,
		cfg.Kiosk,
		hostname,
		ledger,
		journal,
		eligibilitySvc,
		hub,
	)

	sessionHandler := appHTTP.NewSessionHandler(sessionSvc, JWTService)
	attendanceHandler := appHTTP.NewAttendanceHandler(sessionSvc)
	journalHandler := appHTTP.NewJournalHandler(journal, ledger, cfg.Ledger.RetentionDays)
	eventsHandler := appHTTP.NewEventsHandler(hub, JWTService)

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		sessionHandler,
		attendanceHandler,
		journalHandler,
		eventsHandler,
	)

	scheduler := cron.NewScheduler()
	kioskJobs := cron.NewKioskJobs(ledger, cfg.Ledger.RetentionDays, sessionSvc, hub)
	kioskJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Time clock agent running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}

package main

import (
	"fmt"
	"net/http"

	"github.com/presencehq/presence-backend-go/internal/config"
	appHTTP "github.com/presencehq/presence-backend-go/internal/handler/http"
	"github.com/presencehq/presence-backend-go/internal/pkg/database"
	"github.com/presencehq/presence-backend-go/internal/pkg/jwt"
	"github.com/presencehq/presence-backend-go/internal/repository/postgresql"
	absenceService "github.com/presencehq/presence-backend-go/internal/service/absence"
	serviceAuth "github.com/presencehq/presence-backend-go/internal/service/auth"
	"github.com/presencehq/presence-backend-go/internal/service/compliance"
	leaveService "github.com/presencehq/presence-backend-go/internal/service/leave"
	punchService "github.com/presencehq/presence-backend-go/internal/service/punch"
	reportService "github.com/presencehq/presence-backend-go/internal/service/report"
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

	userDirectory := postgresql.NewUserDirectory(db)
	teamDirectory := postgresql.NewTeamDirectory(db)
	slotStore := postgresql.NewSlotStore(db)
	punchRepo := postgresql.NewPunchRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	absenceRepo := postgresql.NewAbsenceRepository(db)
	leaveAccountRepo := postgresql.NewLeaveAccountRepository(db)
	leaveLedgerRepo := postgresql.NewLeaveLedgerRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	complianceEngine := compliance.NewEngine(userDirectory, teamDirectory, slotStore, reportRepo)
	authSvc := serviceAuth.NewAuthService(userDirectory, JWTService)
	punchSvc := punchService.NewPunchService(punchRepo, userDirectory, complianceEngine)
	ledgerSvc := leaveService.NewLedgerService(leaveAccountRepo, leaveLedgerRepo, absenceRepo)
	absenceSvc := absenceService.NewAbsenceService(absenceRepo, userDirectory, teamDirectory, ledgerSvc)
	reportSvc := reportService.NewReportService(reportRepo)

	authHandler := appHTTP.NewAuthHandler(JWTService, authSvc)
	punchHandler := appHTTP.NewPunchHandler(punchSvc)
	absenceHandler := appHTTP.NewAbsenceHandler(absenceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(ledgerSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		JWTService,
		authHandler,
		punchHandler,
		absenceHandler,
		leaveHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}

package routes

import (
	"IPDLedger/cache"
	"IPDLedger/config"
	"IPDLedger/controllers"
	"IPDLedger/handlers"
	"IPDLedger/middlewares"
	"IPDLedger/repositories"
	"IPDLedger/services"
	"IPDLedger/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Services holds the wired application services shared by the HTTP server and the scheduler.
type Services struct {
	Ledger     *services.LedgerService
	BedCharges *services.BedChargeService
	Admissions *services.AdmissionService
	Finalize   *services.FinalizeService
	Patients   *services.PatientService
	Wards      *services.WardService
	Users      *services.UserService
}

// NewServices builds repositories and services. A nil notifier disables bill emails.
func NewServices(cfg *config.AppConfig, log zerolog.Logger, db *gorm.DB, cache *cache.Cache, locker services.Locker, tokens services.TokenGenerator, notifier services.BillNotifier) *Services {
	admissionRepo := repositories.NewAdmissionRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db, cache, log)
	billRepo := repositories.NewBillRepository(db, cache, log)
	patientRepo := repositories.NewPatientRepository(db, cache, log)
	wardRepo := repositories.NewWardRepository(db)
	userRepo := repositories.NewUserRepository(db)

	return &Services{
		Ledger:     services.NewLedgerService(admissionRepo, ledgerRepo),
		BedCharges: services.NewBedChargeService(admissionRepo, ledgerRepo, locker, cfg.Location(), log),
		Admissions: services.NewAdmissionService(admissionRepo, patientRepo),
		Finalize:   services.NewFinalizeService(admissionRepo, billRepo, notifier, log),
		Patients:   services.NewPatientService(patientRepo),
		Wards:      services.NewWardService(wardRepo),
		Users:      services.NewUserService(userRepo, tokens),
	}
}

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cfg *config.AppConfig, log zerolog.Logger, svc *Services, tokens *utils.TokenIssuer) http.Handler {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.LoggingMiddleware(log))
	router.Use(middlewares.CorsMiddleware(middlewares.DefaultCorsConfig(cfg.CORSOrigins)))
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	auth := middlewares.TokenAuthMiddleware(tokens)

	controllers.SetupRootRoute(router)
	controllers.NewAuthController(handlers.NewAuthHandler(svc.Users), auth).RegisterRoutes(router)
	controllers.SetupPatientRoutes(router, auth, handlers.NewPatientHandler(svc.Patients))
	controllers.SetupWardRoutes(router, auth, handlers.NewWardHandler(svc.Wards))
	controllers.SetupLedgerRoutes(router, auth,
		handlers.NewLedgerHandler(svc.Ledger, svc.BedCharges),
		handlers.NewAdmissionHandler(svc.Admissions),
		handlers.NewBillHandler(svc.Finalize),
	)

	return router
}

package main

import (
	"IPDLedger/cache"
	"IPDLedger/config"
	"IPDLedger/database"
	"IPDLedger/jobs"
	"IPDLedger/logging"
	"IPDLedger/models"
	"IPDLedger/routes"
	"IPDLedger/services"
	"IPDLedger/utils"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger.Fatal().Err(err).Msg("command failed")
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ipd-ledger",
		Short:         "Inpatient admission ledger and billing service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(bedChargeCmd())
	return rootCmd
}

// app carries the connections shared by every command.
type app struct {
	cfg    *config.AppConfig
	log    zerolog.Logger
	db     *gorm.DB
	redis  *redis.Client
	tokens *utils.TokenIssuer
	svc    *routes.Services
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LogLevel, cfg.IsDevelopment())

	db, err := database.InitDB(ctx, cfg.DBURL, cfg.IsDevelopment(), log)
	if err != nil {
		return nil, err
	}

	redisClient, err := database.NewRedisClient(database.DefaultRedisConfig(cfg.RedisAddress), log)
	if err != nil {
		return nil, err
	}

	ledgerCache, err := cache.NewCache(redisClient)
	if err != nil {
		return nil, err
	}

	tokens, err := utils.NewTokenIssuer(cfg.SymmetricKey)
	if err != nil {
		return nil, err
	}

	var notifier services.BillNotifier
	if cfg.SMTPConfigured() {
		notifier = utils.NewBillMailer(utils.MailConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
		})
	} else {
		log.Info().Msg("SMTP not configured, bill emails disabled")
	}

	locker := database.NewRedisLocker(redisClient, log)
	svc := routes.NewServices(cfg, log, db, ledgerCache, locker, tokens, notifier)

	return &app{cfg: cfg, log: log, db: db, redis: redisClient, tokens: tokens, svc: svc}, nil
}

func (a *app) close() {
	if err := a.redis.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close Redis client")
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the nightly bed charge scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			return a.serve()
		},
	}
}

func (a *app) serve() error {
	scheduler := jobs.NewScheduler(a.cfg.Location(), a.log)
	if err := scheduler.AddBedChargeJob(a.cfg.BedChargeCron, jobs.NewBedChargeJob(a.svc.BedCharges, a.log)); err != nil {
		return err
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:           ":" + a.cfg.Port,
		Handler:        routes.SetupRoutes(a.cfg, a.log, a.svc, a.tokens),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	serverErr := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		a.log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-c:
	case runErr = <-serverErr:
		a.log.Error().Err(runErr).Msg("Server failed")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	a.log.Info().Msg("Shutting down server...")
	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	wg.Wait()
	a.svc.Finalize.Wait()
	a.log.Info().Msg("Server exited gracefully")
	return runErr
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and seed roles and permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			adminEmail, _ := cmd.Flags().GetString("admin-email")
			adminPassword, _ := cmd.Flags().GetString("admin-password")

			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := database.Migrate(a.db); err != nil {
				return err
			}
			a.log.Info().Msg("Migration complete")

			if adminEmail == "" {
				return nil
			}
			user, err := a.svc.Users.CreateUser(cmd.Context(), services.CreateUserInput{
				Username: "admin",
				Email:    adminEmail,
				Password: adminPassword,
				Role:     models.RoleAdmin,
			})
			if err != nil {
				return err
			}
			a.log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("Initial admin created")
			return nil
		},
	}
	cmd.Flags().String("admin-email", "", "Create the first ADMIN user with this email")
	cmd.Flags().String("admin-password", "", "Password for the first ADMIN user")
	return cmd
}

func bedChargeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bed-charge",
		Short: "Post today's bed charges once and print the per admission results",
		RunE: func(cmd *cobra.Command, args []string) error {
			admissionID, _ := cmd.Flags().GetString("admission")

			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			results, err := a.svc.BedCharges.PostDailyCharges(cmd.Context(), models.SystemActor, admissionID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{"results": results})
		},
	}
	cmd.Flags().String("admission", "", "Charge only this admission (default: every ACTIVE admission)")
	return cmd
}

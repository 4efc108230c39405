package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	_ "time/tzdata"

	"github.com/tooba16/real-states/internal/app"
	"github.com/tooba16/real-states/internal/config"
	"github.com/tooba16/real-states/internal/repositories"
	"github.com/tooba16/real-states/internal/services"
	"github.com/tooba16/real-states/internal/utils"
)

// The binary is the background side of the engine: it connects to the
// database, optionally seeds development fixtures, and runs the hold
// expiry sweep on a schedule. The lifecycle operations themselves are a
// library surface consumed by the transport layer in front of it.
func main() {
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.AppName)

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize inventory engine:", err)
	}
	defer application.Close()

	tenantRepo := repositories.NewTenantRepository(application.DB)
	projRepo := repositories.NewProjectRepository(application.DB)
	unitRepo := repositories.NewUnitRepository(application.DB)
	assignRepo := repositories.NewAssignmentRepository(application.DB)

	if cfg.SeedDevData {
		if err := app.SeedDevData(context.Background(), tenantRepo, projRepo, unitRepo); err != nil {
			utils.Logger.Fatal("Failed to seed dev data:", err)
		}
	}

	consentService := services.NewConsentService(assignRepo, unitRepo, projRepo)
	reservationService := services.NewReservationService(cfg, unitRepo, projRepo, consentService)

	c := cron.New(cron.WithLocation(time.UTC))
	_, err = c.AddFunc(cfg.ExpirySweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.LockTimeout)
		defer cancel()
		if _, err := reservationService.ExpireHolds(ctx, time.Now().UTC()); err != nil {
			utils.Logger.WithError(err).Error("Failed to sweep expired holds")
		}
	})
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule hold expiry sweep")
	}

	c.Start()
	utils.Logger.Infof("%s running; hold expiry sweep scheduled (%s)", cfg.AppName, cfg.ExpirySweepSchedule)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	utils.Logger.Info("Shutting down...")
	<-c.Stop().Done()
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nordhaul/pickup-coordinator/internal/audit"
	"github.com/nordhaul/pickup-coordinator/internal/cache"
	"github.com/nordhaul/pickup-coordinator/internal/config"
	"github.com/nordhaul/pickup-coordinator/internal/handlers"
	infraRepo "github.com/nordhaul/pickup-coordinator/internal/infra/repository"
	"github.com/nordhaul/pickup-coordinator/internal/middleware"
	"github.com/nordhaul/pickup-coordinator/internal/outlook"
	"github.com/nordhaul/pickup-coordinator/internal/qr"
	"github.com/nordhaul/pickup-coordinator/internal/storage"
	ucPickup "github.com/nordhaul/pickup-coordinator/internal/usecase/pickup"
	ucSync "github.com/nordhaul/pickup-coordinator/internal/usecase/sync"
	"github.com/nordhaul/pickup-coordinator/internal/waybill"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) error {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	pickupRepo := infraRepo.NewPickupGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	syncCache := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	uploader := storage.NewUploader(cfg)

	qrGenerator := qr.NewGenerator(cfg.PublicURL)
	waybillGenerator, err := waybill.NewGenerator(cfg.PDFStoragePath)
	if err != nil {
		return err
	}

	var feed outlook.Feed
	if cfg.GraphTenantID != "" && cfg.GraphClientID != "" && cfg.GraphClientSecret != "" {
		feed = outlook.NewClient(cfg)
	} else {
		logrus.Warn("calendar sync disabled: MS Graph credentials not configured")
	}

	// ======================================================
	// USE CASES — PICKUPS
	// ======================================================
	createUC := ucPickup.NewCreatePickup(pickupRepo, auditDispatcher)
	verifyUC := ucPickup.NewVerifyPickup(pickupRepo)
	reserveUC := ucPickup.NewReservePickup(pickupRepo, auditDispatcher)
	startLoadingUC := ucPickup.NewStartLoading(pickupRepo, auditDispatcher)
	confirmLoadedUC := ucPickup.NewConfirmLoaded(pickupRepo, qrGenerator, waybillGenerator, auditDispatcher)
	confirmLoadingUC := ucPickup.NewConfirmLoading(pickupRepo, auditDispatcher)
	markCompletedUC := ucPickup.NewMarkCompleted(pickupRepo, auditDispatcher)
	generateDocUC := ucPickup.NewGenerateDocument(pickupRepo, waybillGenerator, auditDispatcher)
	listUC := ucPickup.NewListPickups(pickupRepo)
	listTodayUC := ucPickup.NewListToday(pickupRepo)
	statsUC := ucPickup.NewStats(pickupRepo)

	// ======================================================
	// USE CASES — CALENDAR SYNC
	// ======================================================
	syncUC := ucSync.NewSyncCalendar(pickupRepo, feed, syncCache, auditDispatcher)
	syncStatusUC := ucSync.NewSyncStatus(pickupRepo, syncCache)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)

	driverHandler := handlers.NewDriverHandler(
		verifyUC,
		reserveUC,
		startLoadingUC,
		confirmLoadedUC,
		confirmLoadingUC,
		generateDocUC,
		markCompletedUC,
		listUC,
		listTodayUC,
		pickupRepo,
	)

	adminHandler := handlers.NewAdminHandler(
		createUC,
		listUC,
		listTodayUC,
		confirmLoadingUC,
		generateDocUC,
		markCompletedUC,
		statsUC,
		pickupRepo,
		uploader,
	)

	syncHandler := handlers.NewSyncHandler(syncUC, syncStatusUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// DRIVER TERMINAL (no auth: the yard gate tablet)
		// ------------------------------
		driver := api.Group("/driver")
		{
			driver.GET("/check/:referenceNumber", driverHandler.Check)
			driver.POST("/reserve", driverHandler.Reserve)
			driver.POST("/start-loading/:id", driverHandler.StartLoading)
			driver.POST("/confirm-loaded/:id", driverHandler.ConfirmLoaded)
			driver.POST("/confirm-loading/:id", driverHandler.ConfirmLoading)
			driver.GET("/pickups", driverHandler.ListAll)
			driver.GET("/pickups/today", driverHandler.ListToday)
			driver.GET("/pickup/:id/pdf", driverHandler.DownloadDocument)
			driver.GET("/qr/:id", driverHandler.GetQR)
		}

		api.GET("/verify/:id", driverHandler.Verify)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// ADMIN (JWT)
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg))
		{
			admin.POST("/pickups", adminHandler.Create)
			admin.GET("/pickups", adminHandler.List)
			admin.GET("/pickups/today", adminHandler.ListToday)
			admin.GET("/pickups/stats", adminHandler.Stats)
			admin.GET("/pickups/:id", adminHandler.Get)
			admin.POST("/pickups/:id/confirm-loading", adminHandler.ConfirmLoading)
			admin.POST("/pickups/:id/generate-pdf", adminHandler.GenerateDocument)
			admin.GET("/pickups/:id/pdf", adminHandler.DownloadDocument)
			admin.POST("/pickups/:id/photo", adminHandler.UploadPhoto)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}

		// ------------------------------
		// CALENDAR SYNC (JWT)
		// ------------------------------
		sync := api.Group("/sync")
		sync.Use(middleware.AuthMiddleware(cfg))
		{
			sync.POST("/outlook", syncHandler.SyncOutlook)
			sync.GET("/status", syncHandler.Status)
		}
	}

	return nil
}

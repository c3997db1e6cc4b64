package app

import (
	"database/sql"

	"leavehub/internal/balance"
	"leavehub/internal/employee"
	"leavehub/internal/filestore"
	"leavehub/internal/holiday"
	"leavehub/internal/leave"
	"leavehub/internal/messaging/kafka"
	"leavehub/internal/middleware"
	"leavehub/internal/notification"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L().Named("app")

	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewService(employeeRepo, rdb)
	holidayService := holiday.NewService(holidayRepo, rdb)
	balanceService := balance.NewService(balanceRepo)
	notificationService := notification.NewService(notificationRepo, employeeService)
	leaveService := leave.NewService(
		db,
		leaveRepo,
		balanceRepo,
		notificationRepo,
		notificationService,
		holidayService,
		outboxRepo,
	)

	// Attachment uploads are optional; without a bucket the sign endpoint
	// still responds, just with an error.
	fileStore, err := filestore.NewGCSStore()
	if err != nil {
		logger.Warn("attachment store unavailable", zap.Error(err))
		fileStore = filestore.NewUnavailableStore()
	}

	// --- Handlers ---
	holidayHandler := holiday.NewHandler(holidayService)
	balanceHandler := balance.NewHandler(balanceService)
	notificationHandler := notification.NewHandler(notificationService)
	leaveHandler := leave.NewHandler(leaveService, fileStore, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.ContextLogger(zap.L()))
	{
		leave.RegisterRoutes(api, leaveHandler, rdb)
		holiday.RegisterRoutes(api, holidayHandler)
		balance.RegisterRoutes(api, balanceHandler)
		notification.RegisterRoutes(api, notificationHandler)
	}

	return nil
}

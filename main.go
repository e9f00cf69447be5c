package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub/config"
	courseControllers "learnhub/controllers/course"
	notificationControllers "learnhub/controllers/notification"
	tutorControllers "learnhub/controllers/tutor"
	uploadControllers "learnhub/controllers/upload"
	"learnhub/database"
	"learnhub/logger"
	"learnhub/realtime"
	"learnhub/realtime/bus"
	authRoutes "learnhub/routers/authRoutes"
	courseRoutes "learnhub/routers/courseRoutes"
	notificationRoutes "learnhub/routers/notificationRoutes"
	tutorRoutes "learnhub/routers/tutorRoutes"
	uploadRoutes "learnhub/routers/uploadRoutes"
	"learnhub/services/mail"
	"learnhub/services/notification"
	"learnhub/services/storage"
	"learnhub/services/tutor"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

const (
	presignTTL     = 15 * time.Minute
	uploadClientTO = 10 * time.Minute
)

func main() {
	cfg := config.LoadConfig()

	appLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLog.Sync()
	logger.AppLogger = appLog

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectDb(cfg)
	if err != nil {
		appLog.Fatal("database connection failed", "driver", cfg.DBDriver, "error", err)
	}
	appLog.Info("database connected", "driver", cfg.DBDriver)

	hub := realtime.NewHub(appLog)
	if cfg.RedisAddr != "" {
		redisBus, err := bus.NewRedisBus(appLog, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			appLog.Warn("redis bus unavailable; realtime stays local", "addr", cfg.RedisAddr, "error", err)
		} else if err := hub.UseBus(ctx, redisBus); err != nil {
			appLog.Warn("redis forwarder failed; realtime stays local", "error", err)
			_ = redisBus.Close()
		} else {
			defer redisBus.Close()
			appLog.Info("realtime bus enabled", "channel", cfg.RedisChannel)
		}
	}

	var mailer mail.Mailer
	switch {
	case cfg.SendgridKey != "":
		mailer = mail.NewSendgridMailer(cfg.SendgridKey, cfg.AppName, cfg.MailFrom)
	case !cfg.IsProduction():
		mailer = mail.NewConsoleMailer(appLog)
	}

	notifications := notification.NewService(db, hub, mailer, cfg.AppName, appLog)

	var presigner storage.Presigner
	if cfg.StorageDriver == "gcs" {
		gcs, err := storage.NewGCSPresigner(ctx, cfg.GCSBucket, presignTTL, cfg.UploadMaxBytes)
		if err != nil {
			appLog.Fatal("gcs presigner setup failed", "bucket", cfg.GCSBucket, "error", err)
		}
		defer gcs.Close()
		presigner = gcs
	} else {
		local := storage.NewLocalPresigner(cfg.PublicBaseURL, cfg.UploadSecret, presignTTL)
		uploadControllers.Local = local
		presigner = local
	}
	storageService := storage.NewService(db, presigner, appLog)
	uploader := storage.NewUploadClient(cfg.InternalAPIURL, uploadClientTO)

	tutorControllers.Actions = tutor.NewActions(db, notifications, hub, uploader, appLog)
	courseControllers.Notifier = notifications
	courseControllers.Rooms = hub
	notificationControllers.Service = notifications
	notificationControllers.Hub = hub
	uploadControllers.Storage = storageService

	scheduler, err := utils.InitializeRetentionScheduler(&utils.RetentionJob{
		DB:            db,
		Notifications: notifications,
		RetentionDays: cfg.NotificationRetentionDays,
		Log:           appLog,
	})
	if err != nil {
		appLog.Fatal("retention scheduler setup failed", "error", err)
	}
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:   cfg.AppName,
		BodyLimit: int(cfg.UploadMaxBytes) + 1<<20,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	tutorRoutes.SetupTutorRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	uploadRoutes.SetupUploadRoutes(app, cfg.UploadDir)

	go func() {
		<-ctx.Done()
		appLog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			appLog.Error("shutdown failed", "error", err)
		}
	}()

	appLog.Info("server is running", "port", cfg.Port, "storage", cfg.StorageDriver)
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.Error("server stopped", "error", err)
	}
}

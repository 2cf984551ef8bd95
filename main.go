package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"resort-backend/config"
	"resort-backend/controllers"
	"resort-backend/notify"
	"resort-backend/routes"
	"resort-backend/services"
	"resort-backend/store"
)

func openStore(ctx context.Context, cfg config.App) (store.RoomStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		rdb, err := config.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisStore(rdb, cfg.RoomsKey), func() { rdb.Close() }, nil
	case config.BackendMySQL:
		db, err := config.ConnectDatabase()
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return store.NewGormStore(db), closeDB, nil
	default:
		return store.NewFileStore(filepath.Join(cfg.DataDir, "rooms.json")), func() {}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	roomStore, closeStore, err := openStore(rootCtx, cfg)
	if err != nil {
		log.Fatalf("❌ %s store failed: %v", cfg.StoreBackend, err)
	}
	defer closeStore()
	log.Printf("✅ room store ready (%s)", cfg.StoreBackend)

	mailer := notify.NewMailer(notify.SMTPConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		Username:   cfg.SMTPUser,
		Password:   cfg.SMTPPass,
		FromName:   cfg.SMTPFromName,
		SkipVerify: cfg.SMTPSkipVerify,
	})
	if cfg.ReceiverEmail == "" {
		log.Println("⚠️  RECEIVER_EMAIL not set; staff notifications will be dropped")
	}
	dispatcher := notify.NewDispatcher(mailer, cfg.ReceiverEmail, cfg.ResortName)

	var (
		events  notify.Publisher
		workers sync.WaitGroup
	)
	switch cfg.NotifyQueue {
	case config.QueueAMQP:
		amqpCfg := notify.AMQPConfig{
			URL:        cfg.RabbitURL,
			Exchange:   cfg.NotifyExchange,
			Queue:      cfg.NotifyQueueName,
			DeadLetter: cfg.NotifyExchange + ".dlx",
			Prefetch:   cfg.NotifyWorkers,
		}
		pub, err := notify.NewAMQPPublisher(amqpCfg)
		if err != nil {
			log.Fatalf("❌ rabbitmq publisher: %v", err)
		}
		defer pub.Close()
		consumer := notify.NewAMQPConsumer(amqpCfg, dispatcher)
		if err := consumer.Connect(); err != nil {
			log.Fatalf("❌ rabbitmq consumer: %v", err)
		}
		defer consumer.Close()
		workers.Add(1)
		go func() {
			defer workers.Done()
			if err := consumer.Run(rootCtx); err != nil {
				log.Printf("❌ notification consumer stopped: %v", err)
			}
		}()
		events = pub
	default:
		queue := notify.NewQueue(dispatcher, notify.QueueConfig{
			Workers:     cfg.NotifyWorkers,
			MaxAttempts: cfg.NotifyAttempts,
			Backoff:     cfg.NotifyBackoff,
		})
		workers.Add(1)
		go func() {
			defer workers.Done()
			queue.Run(rootCtx)
		}()
		events = queue
	}
	log.Printf("✅ notifications via %s queue", cfg.NotifyQueue)

	auth, err := services.NewAuthService(cfg.AdminPin, cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("❌ admin auth: %v", err)
	}

	clock := services.Clock{Location: cfg.Location()}
	rules := services.BookingRules{
		RejectPastCheckIn:           cfg.RejectPastCheckIn,
		RequireCheckInToday:         cfg.RequireCheckInToday,
		RequireCheckOutAfterCheckIn: cfg.RequireCheckOutAfterCheckIn,
	}

	bookingService := services.NewBookingService(roomStore, events, rules, clock)
	statusService := services.NewStatusService(roomStore, events)
	reminderService := services.NewReminderService(roomStore, events, clock)
	menuService := services.NewMenuService(cfg.DataDir)
	contactService := services.NewContactService(mailer, cfg.ReceiverEmail)

	router := routes.SetupRouter(routes.Controllers{
		Rooms:     controllers.NewRoomController(roomStore, bookingService, statusService),
		Menu:      controllers.NewMenuController(menuService),
		Auth:      controllers.NewAuthController(auth, cfg.CookieSecure),
		Contact:   controllers.NewContactController(contactService),
		Reminders: controllers.NewReminderController(reminderService),
	}, auth, cfg.AllowedOrigins())

	if cfg.ReminderInterval > 0 {
		workers.Add(1)
		go func() {
			defer workers.Done()
			runReminders(rootCtx, reminderService, cfg.ReminderInterval)
		}()
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	// stop background work only after handlers have finished publishing
	stop()
	workers.Wait()
	log.Println("✅ Server stopped gracefully")
}

// runReminders scans for same-day checkouts on a fixed interval.
func runReminders(ctx context.Context, svc *services.ReminderService, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.ScheduledReminders(ctx); err != nil {
				log.Printf("⚠️  checkout reminder scan failed: %v", err)
			}
		}
	}
}

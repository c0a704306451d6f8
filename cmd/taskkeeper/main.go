package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-keeper/internal/bot"
	"task-keeper/internal/config"
	"task-keeper/internal/repository"
	"task-keeper/internal/service"
	"task-keeper/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	states := repository.NewStateRepository(db)

	board := store.NewBoard()
	board.ReplaceState(states.Load(ctx))

	persister := repository.NewPersister(states, repository.DefaultDebounce)
	board.OnChange(persister.Enqueue)
	defer persister.Flush()

	taskSvc := service.NewTaskService(board, states)
	reminderSvc := service.NewReminderService(board)

	telegramBot, err := bot.New(cfg.TelegramToken, taskSvc, reminderSvc, &cfg)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	// Launch counts as a foreground event: run a pass before anything else.
	telegramBot.NotifySeriesReminders(taskSvc.Tick(time.Now()))

	scheduler := service.NewSchedulerService(time.Local)
	if err := scheduler.ScheduleDailyAt([]string{cfg.MorningReminder, cfg.EveningReminder}, func() {
		telegramBot.SendDigest(time.Now())
	}); err != nil {
		log.Fatalf("schedule reminders: %v", err)
	}
	if err := scheduler.ScheduleEvery(cfg.TickInterval, func() {
		telegramBot.NotifySeriesReminders(taskSvc.Tick(time.Now()))
	}); err != nil {
		log.Fatalf("schedule tick: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("[info] task keeper started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("[info] shutdown complete")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/infra/config"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// botFactory builds the Telegram sender; the real one calls getMe.
type botFactory func(token string, log *logrus.Logger) (telegram.Sender, error)

func main() {
	fmt.Println("Homework Status Bot starting...")

	pollScheduler, err := setup(config.Load, newTelebot)
	if err != nil {
		logger.Log.Fatalf("FATAL: %v", err)
	}
	pollScheduler.Start(context.Background())

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	logger.Log.Info("Shutting down application...")
	pollScheduler.Stop()
	logger.Log.Info("Application shut down gracefully.")
}

// setup wires the application. Configuration is loaded first, so missing
// tokens stop the process before any network call is made.
func setup(load func() (*config.AppConfig, error), newBot botFactory) (*scheduler.PollScheduler, error) {
	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("could not load application configuration: %w", err)
	}
	logger.Init(cfg)
	log := logger.Get()

	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Chat ID: %d, Schedule: %s",
		cfg.LogLevel, cfg.Environment, cfg.TelegramChatID, cfg.PollSchedule)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	practicumClient := practicum.NewClient(httpClient, cfg.PracticumEndpoint, cfg.PracticumToken, log)
	log.Info("Practicum API client initialized.")

	bot, err := newBot(cfg.TelegramToken, log)
	if err != nil {
		return nil, err
	}
	telegramClient := telegram.NewTelebotAdapter(bot)

	statusService := app.NewStatusService(practicumClient, telegramClient, cfg.TelegramChatID, cfg.Lookback, log)
	return scheduler.NewPollScheduler(statusService, cfg.PollSchedule, log)
}

func newTelebot(token string, log *logrus.Logger) (telegram.Sender, error) {
	bot, err := telegram.NewBot(token, false, func(err error, c telebot.Context) {
		log.WithError(err).Error("telebot error")
	})
	if err != nil {
		return nil, err
	}
	log.Infof("Telegram bot @%s initialized.", bot.Me.Username)
	return bot, nil
}

// Package main contains the entrypoint for the Telegram bot application.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/mkorneev/tarobot/internal/bot"
	"github.com/mkorneev/tarobot/internal/bot/handlers"
	"github.com/mkorneev/tarobot/internal/bot/tasks"
	"github.com/mkorneev/tarobot/internal/config"
	"github.com/mkorneev/tarobot/internal/database"
	"github.com/mkorneev/tarobot/internal/gemini"
	"github.com/mkorneev/tarobot/internal/logger"
	"github.com/mkorneev/tarobot/internal/prompts"
	"github.com/mkorneev/tarobot/internal/report"
	"github.com/mkorneev/tarobot/internal/telegram"
	"github.com/mkorneev/tarobot/internal/translations"
	"github.com/mkorneev/tarobot/internal/vox"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// analytics and AI clients, bot, scheduler), handles graceful shutdown, and
// returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)
	if err := store.Ping(ctx); err != nil {
		log.Error("Database ping failed", "path", cfg.Database.Path, "error", err)
		return 1
	}

	voxClient := vox.NewClient(cfg.Vox.Token, log,
		vox.WithBaseURL(cfg.Vox.BaseURL),
		vox.WithTimeout(cfg.Vox.Timeout),
	)
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := voxClient.Ping(pingCtx); err != nil {
		// Readings degrade to the fallback model while the API is down.
		log.Warn("Analytics API ping failed", "error", err)
	}
	cancelPing()

	geminiClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	pipeline := report.NewPipeline(voxClient, geminiClient, log)

	phrases, err := translations.Load(log)
	if err != nil {
		log.Error("Failed to load phrase catalogs", "error", err)
		return 1
	}
	promptSet, err := prompts.Load()
	if err != nil {
		log.Error("Failed to load prompt templates", "error", err)
		return 1
	}

	hDeps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Store:     store,
		Reporter:  pipeline,
		Prompts:   promptSet,
		Phrases:   phrases,
		States:    handlers.NewChatStates(),
		Questions: handlers.NewQuestionCache(),
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	// Retrieve bot info and store it in the config for runtime use.
	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	tDeps := tasks.TaskDeps{
		Logger:   log,
		Config:   cfg,
		Store:    store,
		Bot:      tg,
		Reporter: pipeline,
		Prompts:  promptSet,
		Phrases:  phrases,
	}
	sched := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	app := bot.NewBot(log, cfg, db, store, pipeline, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}

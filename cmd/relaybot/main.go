package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gratefultolord/meme_relay_bot/internal/bot"
	"github.com/gratefultolord/meme_relay_bot/internal/config"
	"github.com/gratefultolord/meme_relay_bot/internal/db"
	"github.com/gratefultolord/meme_relay_bot/internal/files"
	"github.com/gratefultolord/meme_relay_bot/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.New(cfg)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer database.Close()

	if err := database.RunMigrations(ctx); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Error creating telegram bot: %v", err)
	}
	botAPI.Debug = cfg.BotDebug

	if cfg.ChannelID == nil {
		log.Printf("CHANNEL_ID is not set - submissions will be rejected")
	}

	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
	}

	mediaRepo := db.NewMediaRepository(database.Conn)
	fileService := files.NewFileService(botAPI, botAPI.Token)

	botService := bot.New(
		botAPI,
		botAPI.Self.UserName,
		cfg.ChannelID,
		bot.NewStateTracker(cfg.ConversationTimeout),
		bot.NewTokenMapper(),
		fileService,
		mediaRepo,
		logger,
	)

	log.Printf("Bot started as @%s", botAPI.Self.UserName)

	botService.Start(ctx)

	log.Printf("Bot stopped")
}

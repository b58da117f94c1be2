package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/example/tutorbot/internal/ai"
	"github.com/example/tutorbot/internal/bot"
	"github.com/example/tutorbot/internal/config"
	"github.com/example/tutorbot/internal/database"
	"github.com/example/tutorbot/internal/scheduler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := database.Connect(cfg.DBType, cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to create bot API: %v", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	llm := ai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.Temperature)
	repo := database.NewUserProfileRepository()
	refresher := scheduler.NewRefresher(ai.NewVocabQuestionExtractor(llm),
		rand.New(rand.NewSource(time.Now().UnixNano())))

	b := bot.New(api, repo, bot.Extractors{
		Keywords:     ai.NewKeywordExtractor(llm),
		Questions:    ai.NewQuestionExtractor(llm),
		Definitions:  ai.NewDefinitionExtractor(llm),
		Translations: ai.NewTranslationExtractor(llm),
		Tutor:        ai.NewAskAnythingExtractor(llm),
	}, refresher, bot.Options{
		KeywordsPerPage: cfg.KeywordsPerPage,
		KeywordsPerRow:  cfg.KeywordsPerRow,
	})

	sched := scheduler.New(b, repo, refresher)
	if err := sched.Start(cfg.ReminderHour); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()
		api.StopReceivingUpdates()
	}()

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)

	log.Println("Bot started. Press Ctrl+C to stop.")
	b.Run(ctx, updates)
	log.Println("Bot stopped")
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-finance-agent/internal/agent/config"
	delivery "golang-finance-agent/internal/agent/delivery/http"
	"golang-finance-agent/internal/agent/delivery/telegram"
	_ "golang-finance-agent/internal/agent/docs"
	"golang-finance-agent/internal/agent/repository"
	"golang-finance-agent/internal/agent/service"
	"golang-finance-agent/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the finance agent service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Finance Agent Service", logger.Field("name", cfg.App.Name))

	// Initialize repositories
	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
	}
	aiRepo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI repository", logger.ErrorField(err))
	}
	searchRepo := repository.NewDuckDuckGoRepository(cfg, appLogger)
	marketRepo, err := repository.NewYahooFinanceRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Yahoo Finance repository", logger.ErrorField(err))
	}
	chartRepo := repository.NewChartRepository()

	// Initialize services
	sessions := service.NewSessionManager(cfg.Session.TTL)
	agent := service.NewQueryAgent(aiRepo, searchRepo, marketRepo, chartRepo, appLogger)

	// Optionally start the Telegram bot
	if cfg.Telegram.Enabled {
		bot, err := telegram.NewBot(cfg.Telegram.BotToken, agent, sessions, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram bot", logger.ErrorField(err))
		}
		go bot.Run(ctx)
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	queryHandler := delivery.NewQueryHandler(agent, sessions, appLogger)
	apiV1 := e.Group("/api/v1")
	queryHandler.RegisterRoutes(apiV1)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Finance Agent API
// @version 1.0
// @description Natural-language financial Q&A: stock data, charts, and sentiment analysis.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "agent-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing agent-service CLI: %s\n", err)
		os.Exit(1)
	}
}

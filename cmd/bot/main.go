package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rfrbot/roles-for-reactions/internal/api"
	"github.com/rfrbot/roles-for-reactions/internal/biz/usecase"
	"github.com/rfrbot/roles-for-reactions/internal/conf"
	"github.com/rfrbot/roles-for-reactions/internal/data"
	"github.com/rfrbot/roles-for-reactions/internal/infra/discord"
	"github.com/rfrbot/roles-for-reactions/internal/server"
	"github.com/rfrbot/roles-for-reactions/internal/service"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize repository layer
	monitorRepo, err := data.NewMonitorRepo(cfg.Store.Backend, cfg.Store.FilePath, cfg.Store.DBPath)
	if err != nil {
		log.Fatalf("Failed to create monitor repository: %v", err)
	}
	defer monitorRepo.Close()

	// Initialize Discord client
	client, err := discord.NewClient(cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord client: %v", err)
	}

	// Initialize usecase layer. A store that exists but cannot be read is
	// fatal to startup.
	ctx := context.Background()
	monitorUC := usecase.NewMonitorUsecase(monitorRepo)
	if err := monitorUC.Load(ctx); err != nil {
		log.Fatalf("Failed to load monitor store: %v", err)
	}
	fmt.Printf("[Bot] Monitor store loaded (%s backend, %d monitors)\n",
		cfg.Store.Backend, len(monitorUC.Snapshot()))

	interviewUC := usecase.NewInterviewUsecase(client, monitorUC, cfg.Replies.ToReplyTexts(), cfg.PersistBeforePost)
	resolverUC := usecase.NewResolverUsecase(client, monitorUC)

	// Initialize service layer
	svc := service.NewRolesService(interviewUC, resolverUC, cfg.Debug)

	// Initialize admin API server
	var apiServer *api.Server
	if cfg.API.Port > 0 {
		apiServer = api.NewServer(monitorUC, interviewUC, cfg.API.Port)
		go func() {
			if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
				fmt.Printf("[Bot] API server error: %v\n", err)
			}
		}()
		fmt.Printf("[Bot] Admin API started on port %d\n", cfg.API.Port)
	}

	// Initialize server
	srv := server.NewDiscordServer(client, svc, cfg.Discord.CommandPrefix, cfg.Debug)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("Starting roles-for-reactions bot...")
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	<-sigCh
	fmt.Println("\nShutting down...")
	srv.Stop()
	if apiServer != nil {
		apiServer.Stop()
	}
}

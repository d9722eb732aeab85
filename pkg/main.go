package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	pkg "github.com/kingtroga/health-takeaways/pkg/internal"
	"github.com/kingtroga/health-takeaways/pkg/internal/cache"
	"github.com/kingtroga/health-takeaways/pkg/internal/database"
	"github.com/kingtroga/health-takeaways/pkg/internal/grpc"
	"github.com/kingtroga/health-takeaways/pkg/internal/http"
	"github.com/kingtroga/health-takeaways/pkg/internal/media"
	"github.com/kingtroga/health-takeaways/pkg/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.GreenString(" _   _            _ _   _     _____     _                                    \n| | | | ___  __ _| | |_| |__ |_   _|_ _| | _____  __ ___      ____ _ _   _ ___ \n| |_| |/ _ \\/ _` | | __| '_ \\  | |/ _` | |/ / _ \\/ _` \\ \\ /\\ / / _` | | | / __|\n|  _  |  __/ (_| | | |_| | | | | | (_| |   <  __/ (_| |\\ V  V / (_| | |_| \\__ \\\n|_| |_|\\___|\\__,_|_|\\__|_| |_| |_|\\__,_|_|\\_\\___|\\__,_| \\_/\\_/ \\__,_|\\__, |___/\n                                                                    |___/     "))
	fmt.Printf("%s v%s\n", color.New(color.FgHiGreen).Add(color.Bold).Sprintf("HealthTakeaways"), pkg.AppVersion)
	fmt.Printf("The health tips publishing service\n")
	color.HiBlack("=====================================================\n")

	// Load secrets from .env when present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("An error occurred when loading .env file.")
	}

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("TAKEAWAYS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("bind", "0.0.0.0:8000")
	viper.SetDefault("grpc_bind", "0.0.0.0:7000")
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("security.session_ttl", 14*24*time.Hour)
	viper.SetDefault("media.driver", "local")
	viper.SetDefault("media.max_size", media.DefaultMaxSize)
	viper.SetDefault("cache.summary_ttl", 5*time.Minute)
	viper.SetDefault("content.page_size", services.DefaultPageSize)
	viper.SetDefault("content.detect_language", true)
	viper.SetDefault("cron.cleanup", "@every 60m")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	if len(viper.GetString("security.session_secret")) == 0 {
		log.Fatal().Msg("The security.session_secret setting is required to sign sessions.")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Initialize cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Initialize media storage
	if store, err := media.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing media storage.")
	} else {
		media.S = store
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	if _, err := quartz.AddFunc(viper.GetString("cron.cleanup"), services.DoAutoDatabaseCleanup); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when scheduling database cleanup.")
	}
	quartz.Start()

	// Server
	server := http.NewServer()
	go server.Listen()

	grpcServer := grpc.NewGrpc()
	go grpcServer.Listen()
	grpcServer.MarkServing()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	grpcServer.Stop()
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down server...")
	}
	quartz.Stop()
}

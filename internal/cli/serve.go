package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/mkovac00/travelshare-backend/internal/auth"
	"github.com/mkovac00/travelshare-backend/internal/config"
	"github.com/mkovac00/travelshare-backend/internal/domain"
	"github.com/mkovac00/travelshare-backend/internal/dynamo"
	"github.com/mkovac00/travelshare-backend/internal/httpserver"
	"github.com/mkovac00/travelshare-backend/internal/media"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "serve",
		Short:         "Start the HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), rootOpts)
		},
	}
}

func serve(ctx context.Context, rootOpts *RootOptions) error {
	logger := newLogger(rootOpts)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	store := dynamo.New(dynamodb.NewFromConfig(awsCfg), cfg.Tables)
	mediaStore := media.NewS3Store(s3.NewFromConfig(awsCfg), cfg.MediaBucket)
	tokens := auth.NewJWTIssuer(cfg.JWTSecret, time.Hour)

	services := httpserver.Services{
		Accounts:   domain.NewAccountService(store, auth.BcryptHasher{}, tokens),
		Users:      domain.NewUserService(store),
		Posts:      domain.NewPostService(store, store, mediaStore, logger),
		Graph:      domain.NewGraphService(store, store, logger),
		Engagement: domain.NewEngagementService(store),
		Timeline:   domain.NewTimelineService(store, store, store),
	}

	server := httpserver.NewServer(cfg, services, mediaStore, tokens, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server exited with error", "error", err)
		}
	}()

	logger.Info("server started", "port", cfg.Port)

	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shut down http server: %w", err)
	}

	return nil
}

// The mediareaper Lambda consumes the posts table stream and releases the
// images behind removed posts.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mkovac00/travelshare-backend/internal/media"
	"github.com/mkovac00/travelshare-backend/internal/stream"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	bucket := os.Getenv("TRAVELSHARE_MEDIA_BUCKET")
	if bucket == "" {
		fmt.Fprintln(os.Stderr, "error: TRAVELSHARE_MEDIA_BUCKET is required")
		os.Exit(1)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load aws config: %v\n", err)
		os.Exit(1)
	}

	mediaStore := media.NewS3Store(s3.NewFromConfig(awsCfg), bucket)
	handler := stream.NewHandler(mediaStore, logger)

	lambda.Start(handler.HandleRecordRemoved)
}

// Package stream provides the DynamoDB Streams handler that releases media
// blobs behind deleted posts.
package stream

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
)

// MediaReleaser removes a stored media blob by its reference.
type MediaReleaser interface {
	Release(ctx context.Context, ref string) error
}

// Handler processes post table stream events and releases orphaned images.
// It backstops the best-effort release done in the delete path, so every
// operation here must be idempotent.
type Handler struct {
	media  MediaReleaser
	logger *slog.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(media MediaReleaser, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		media:  media,
		logger: logger,
	}
}

// HandleRecordRemoved processes post table stream events. This function is
// designed to be used as an AWS Lambda handler.
func (h *Handler) HandleRecordRemoved(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	if record.EventName != "REMOVE" {
		return nil
	}

	image := getStringAttr(record.Change.OldImage, "image")
	if image == "" {
		return nil
	}

	postID := getStringAttr(record.Change.OldImage, "id")
	h.logger.Info("releasing image for removed post",
		"postID", postID,
		"image", image,
	)

	// Releasing an already-gone blob succeeds, so a failure here is a
	// store problem worth retrying.
	return h.media.Release(ctx, image)
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok {
		return v.String()
	}
	return ""
}

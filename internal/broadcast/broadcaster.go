package broadcast

import (
	"context"

	"github.com/rxtech-lab/argo-streamer/internal/types"
)

// Channel names used on the push transport.
const (
	ChannelPrices        = "prices"
	ChannelPredictions   = "predictions"
	ChannelNotifications = "notifications"
)

// Broadcaster fans results out to connected front-end clients.
type Broadcaster interface {
	// PublishPrice forwards a raw tick on the prices channel.
	PublishPrice(ctx context.Context, tick types.TickMessage) error
	// PublishPrediction forwards a prediction or the unavailable sentinel.
	PublishPrediction(ctx context.Context, prediction string) error
	// Notify delivers a message on the private channel of one user.
	Notify(ctx context.Context, userID string, message string) error
}

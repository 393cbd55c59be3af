package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/akwasiboateng/campus-market/internal/core/events"
	"github.com/akwasiboateng/campus-market/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish sample sync events to the in-process bus for debugging subscribers`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a sample event",
	Long: `Publish a sample event of the given type to the event bus. Known sync
event types get a representative payload; anything else is published as a
generic event with the --data message.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishSampleEvent(args[0])
	},
}

var eventData string

func publishSampleEvent(eventType string) {
	log := logger.LoggerWrapper()

	eventBus := events.NewEventBus(log)
	eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		log.Info("debug handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	event := sampleEvent(eventType)
	log.Info("publishing sample event", "event_type", eventType, "event_id", event.EventID())

	if err := eventBus.PublishSync(context.Background(), event); err != nil {
		log.Error("failed to publish event", "error", err)
		return
	}

	log.Info("sample event published successfully")
}

// sampleEvent builds a representative payload for the known sync event types
// so subscriber code can be exercised without a live run.
func sampleEvent(eventType string) events.Event {
	switch eventType {
	case events.EventTypePaymentSynced:
		return events.NewPaymentSyncedEvent(1, "ps_ref_sample", 1, 1, "success", true)
	case events.EventTypePayoutSynced:
		return events.NewPayoutSyncedEvent(1, "TRF_sample", 1, "success", true)
	case events.EventTypeSyncCompleted:
		return events.NewSyncCompletedEvent("sample-run", "transactions", 10, 3, 2, 1, 0)
	default:
		return events.BaseEvent{
			ID:        fmt.Sprintf("sample-%d", time.Now().Unix()),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"message": eventData,
				"source":  "cli-command",
			},
		}
	}
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "payload message for generic events")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}

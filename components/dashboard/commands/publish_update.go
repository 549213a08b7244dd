package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/sustainatrend/trendboard/pkg/realtime"
)

// PublishUpdateInput carries a realtime event to broadcast.
type PublishUpdateInput struct {
	Event  string                  `json:"event"`
	Update realtime.PropertyUpdate `json:"update"`
}

// Publisher delivers envelopes to connected clients.
type Publisher interface {
	Publish(ctx context.Context, env realtime.Envelope) error
}

// PublishUpdateCommand wraps the live hub so ingestion pipelines and admin
// tooling can push property updates without linking the transport layer.
type PublishUpdateCommand struct {
	publisher Publisher
	telemetry Telemetry
}

// NewPublishUpdateCommand creates the command.
func NewPublishUpdateCommand(publisher Publisher, telemetry Telemetry) *PublishUpdateCommand {
	return &PublishUpdateCommand{publisher: publisher, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[PublishUpdateInput] = (*PublishUpdateCommand)(nil)

// Execute encodes the update and publishes it.
func (c *PublishUpdateCommand) Execute(ctx context.Context, msg PublishUpdateInput) error {
	if c.publisher == nil {
		return errors.New("publish command requires publisher")
	}
	if msg.Event == "" {
		return errors.New("publish command requires event type")
	}
	env, err := realtime.NewEnvelope(msg.Event, msg.Update)
	if err != nil {
		return err
	}
	if err := c.publisher.Publish(ctx, env); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.realtime.publish", map[string]any{
		"event":       msg.Event,
		"property_id": msg.Update.PropertyID,
	})
	return nil
}

// PublishAlertInput carries a sustainability alert to broadcast.
type PublishAlertInput struct {
	Alert realtime.Alert `json:"alert"`
}

// PublishAlertCommand broadcasts alerts to every connected client.
type PublishAlertCommand struct {
	publisher Publisher
	telemetry Telemetry
}

// NewPublishAlertCommand creates the command.
func NewPublishAlertCommand(publisher Publisher, telemetry Telemetry) *PublishAlertCommand {
	return &PublishAlertCommand{publisher: publisher, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[PublishAlertInput] = (*PublishAlertCommand)(nil)

// Execute encodes the alert and publishes it.
func (c *PublishAlertCommand) Execute(ctx context.Context, msg PublishAlertInput) error {
	if c.publisher == nil {
		return errors.New("publish command requires publisher")
	}
	if msg.Alert.Title == "" {
		return errors.New("publish command requires alert title")
	}
	env, err := realtime.NewEnvelope(realtime.EventSustainabilityAlert, msg.Alert)
	if err != nil {
		return err
	}
	if err := c.publisher.Publish(ctx, env); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.realtime.alert", map[string]any{
		"severity": msg.Alert.Severity,
	})
	return nil
}

package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/buyer-lead-service/internal/config"
	"github.com/spec-kit/buyer-lead-service/internal/events"
	"github.com/spec-kit/buyer-lead-service/internal/persistence"
)

// NotificationService fans lead lifecycle events out to the log and, when
// configured, to a Redis channel for downstream consumers.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	redis      *persistence.Redis
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, redis *persistence.Redis, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		redis:      redis,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventLeadCreated, n.handleLeadCreated)
	n.dispatcher.Subscribe(events.EventLeadUpdated, n.handleLeadUpdated)
	n.dispatcher.Subscribe(events.EventLeadsImported, n.handleLeadsImported)
}

func (n *NotificationService) handleLeadCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("LeadCreated", zap.String("buyer_id", event.BuyerID), zap.Any("payload", event.Payload))
	n.publishToChannel(ctx, event)
	return nil
}

func (n *NotificationService) handleLeadUpdated(ctx context.Context, event events.Event) error {
	n.logger.Info("LeadUpdated", zap.String("buyer_id", event.BuyerID), zap.Any("payload", event.Payload))
	n.publishToChannel(ctx, event)
	return nil
}

func (n *NotificationService) handleLeadsImported(ctx context.Context, event events.Event) error {
	n.logger.Info("LeadsImported", zap.String("owner_id", event.OwnerID), zap.Any("payload", event.Payload))
	n.publishToChannel(ctx, event)
	return nil
}

// publishToChannel pushes the event JSON onto the configured Redis channel.
// Delivery is best-effort; a publish failure never fails the mutation that
// produced the event.
func (n *NotificationService) publishToChannel(ctx context.Context, event events.Event) {
	if n.redis == nil || n.redis.Client == nil || strings.TrimSpace(n.cfg.EventChannel) == "" {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("marshal event", zap.Error(err))
		return
	}
	if err := n.redis.Client.Publish(ctx, n.cfg.EventChannel, payload).Err(); err != nil {
		n.logger.Warn("publish event to redis",
			zap.String("channel", n.cfg.EventChannel),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}

package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/ecomarche-risk-service/internal/product"
	"github.com/fekuna/ecomarche-risk-service/pkg/broker"
	"github.com/fekuna/ecomarche-risk-service/pkg/logger"
)

// SaleListener consumes till sale events and keeps product stock current.
type SaleListener struct {
	consumer *broker.KafkaConsumer
	uc       product.UseCase
	logger   logger.Logger
}

func NewSaleListener(consumer *broker.KafkaConsumer, uc product.UseCase, logger logger.Logger) *SaleListener {
	return &SaleListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *SaleListener) Start(ctx context.Context) {
	l.logger.Info("Starting Sale Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Sale Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type SaleRecordedEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   SalePayload `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type SalePayload struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	SoldAt    time.Time `json:"sold_at"`
}

func (l *SaleListener) processMessage(ctx context.Context, value []byte) {
	var event SaleRecordedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "SaleRecorded" {
		return
	}

	l.logger.Info("Processing SaleRecorded event",
		zap.String("event_id", event.EventID),
		zap.String("product_id", event.Payload.ProductID),
	)

	if err := l.uc.RecordSale(ctx, event.Payload.ProductID, event.Payload.Quantity); err != nil {
		l.logger.Error("Failed to record sale",
			zap.String("event_id", event.EventID),
			zap.String("product_id", event.Payload.ProductID),
			zap.Error(err),
		)
	}
}

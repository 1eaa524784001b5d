package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/segmentio/kafka-go"
)

// StockEventPublisher publica eventos de stock derivados de la bitácora.
// Es un canal de salida best-effort: una falla se registra y jamás afecta la
// mutación que originó el evento.
type StockEventPublisher struct {
	writer *kafka.Writer
}

// NewStockEventPublisher construye el publicador.
func NewStockEventPublisher(brokers []string, topic string) *StockEventPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &StockEventPublisher{writer: writer}
}

// stockEvent payload JSON del evento.
type stockEvent struct {
	Type          string    `json:"type"` // stock.<actionType>
	ItemID        string    `json:"itemId,omitempty"`
	ItemName      string    `json:"itemName"`
	Quantity      string    `json:"quantity"`
	FromWarehouse string    `json:"fromWarehouse,omitempty"`
	ToWarehouse   string    `json:"toWarehouse,omitempty"`
	UserID        string    `json:"userId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publish serializa la entrada de bitácora como evento, con key por nombre de
// ítem para preservar el orden por llave en la partición.
func (p *StockEventPublisher) Publish(ctx context.Context, log *entity.ActionLog) error {
	event := stockEvent{
		Type:          "stock." + log.ActionType,
		ItemID:        log.ItemID,
		ItemName:      log.ItemName,
		Quantity:      log.Quantity.String(),
		FromWarehouse: log.FromWarehouse,
		ToWarehouse:   log.ToWarehouse,
		UserID:        log.UserID,
		Timestamp:     log.Timestamp,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal stock event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(log.ItemName),
		Value: payload,
		Time:  log.Timestamp,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("write stock event to kafka: %w", err)
	}
	return nil
}

// Close cierra el writer.
func (p *StockEventPublisher) Close() error {
	return p.writer.Close()
}

package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"fintrack/internal/core"
)

// MessageKind distinguishes the two event types on the sync queue.
type MessageKind string

const (
	KindUpsert MessageKind = "upsert"
	KindDelete MessageKind = "delete"
)

// TransactionMessage is the sync event published for every transaction
// write. Upserts carry only id and version; the worker fetches the row
// from the database. Deletes carry a snapshot because the row is gone
// by the time the worker sees the message.
type TransactionMessage struct {
	Kind    MessageKind `json:"kind"`
	ID      int64       `json:"id"`
	Version int64       `json:"version,omitempty"`

	Date        time.Time `json:"date,omitempty"`
	Description string    `json:"description,omitempty"`
	Amount      string    `json:"amount,omitempty"`
	Category    string    `json:"category,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// NewUpsertMessage builds the event for a created or updated transaction.
func NewUpsertMessage(id, version int64) *TransactionMessage {
	return &TransactionMessage{
		Kind:      KindUpsert,
		ID:        id,
		Version:   version,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeleteMessage builds the event for a deleted transaction from its
// last stored snapshot.
func NewDeleteMessage(t core.Transaction) *TransactionMessage {
	return &TransactionMessage{
		Kind:        KindDelete,
		ID:          t.ID,
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount.String(),
		Category:    string(t.Category),
		Timestamp:   time.Now().UTC(),
	}
}

// Transaction reconstructs the snapshot carried by a delete message.
func (m *TransactionMessage) Transaction() (core.Transaction, error) {
	amount, err := core.ParseMoney(m.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("message amount %q: %w", m.Amount, err)
	}
	return core.Transaction{
		ID:          m.ID,
		Description: m.Description,
		Amount:      amount,
		Date:        m.Date,
		Category:    core.Category(m.Category),
	}, nil
}

// ToJSON converts the message to JSON bytes.
func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionMessageFromJSON decodes and validates a message.
func TransactionMessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Kind {
	case KindUpsert, KindDelete:
	default:
		return nil, fmt.Errorf("unknown message kind %q", msg.Kind)
	}
	if msg.ID == 0 {
		return nil, fmt.Errorf("message missing transaction id")
	}
	return &msg, nil
}

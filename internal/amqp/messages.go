package amqp

import (
	"encoding/json"
	"time"
)

// Transaction event operations.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// TransactionEventMessage tells the worker that one category month changed
// and its budget snapshot needs recomputing. It carries coordinates only;
// the worker fetches the actual figures from the database.
type TransactionEventMessage struct {
	UserID    int64     `json:"user_id"`
	Category  string    `json:"category"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionEventMessage creates an event for one category month.
func NewTransactionEventMessage(userID int64, category string, month, year int, op string) *TransactionEventMessage {
	return &TransactionEventMessage{
		UserID:    userID,
		Category:  category,
		Month:     month,
		Year:      year,
		Op:        op,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventMessageFromJSON creates a message from JSON bytes
func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package amqp

import (
	"encoding/json"
	"time"
)

// TransactionsImportedMessage announces that a batch of transactions landed
// in storage. It carries only identifiers; the worker reloads the user's
// history from the database before analyzing.
type TransactionsImportedMessage struct {
	UserID    int64     `json:"user_id"`
	BatchID   string    `json:"batch_id"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionsImportedMessage(userID int64, batchID string, count int) *TransactionsImportedMessage {
	return &TransactionsImportedMessage{
		UserID:    userID,
		BatchID:   batchID,
		Count:     count,
		Timestamp: time.Now(),
	}
}

func (m *TransactionsImportedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionsImportedMessageFromJSON(data []byte) (*TransactionsImportedMessage, error) {
	var msg TransactionsImportedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Ledger operations carried by LedgerChangedMessage.
const (
	OpCreated  = "created"
	OpDeleted  = "deleted"
	OpReplaced = "replaced"
	OpRenewed  = "renewed"
)

// Ledger entities carried by LedgerChangedMessage.
const (
	EntityTransaction  = "transaction"
	EntitySubscription = "subscription"
	EntitySavingPlan   = "saving_plan"
	EntityProfile      = "profile"
)

// LedgerChangedMessage announces a committed write. Consumers refetch whatever
// they need; the message only names the row.
type LedgerChangedMessage struct {
	MessageID string    `json:"messageId"`
	Entity    string    `json:"entity"`
	Operation string    `json:"operation"`
	EntityID  int64     `json:"entityId"`
	Amount    float64   `json:"amount,omitempty"`
	Category  string    `json:"category,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(entity, operation string, id int64, amount float64, category string) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		MessageID: uuid.NewString(),
		Entity:    entity,
		Operation: operation,
		EntityID:  id,
		Amount:    amount,
		Category:  category,
		Timestamp: time.Now(),
	}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReportRequestMessage asks a worker to generate the monthly snapshot report
// as of RequestedAt.
type ReportRequestMessage struct {
	MessageID   string    `json:"messageId"`
	RequestedAt time.Time `json:"requestedAt"`
	Export      bool      `json:"export"`
}

func NewReportRequestMessage(requestedAt time.Time, export bool) *ReportRequestMessage {
	return &ReportRequestMessage{
		MessageID:   uuid.NewString(),
		RequestedAt: requestedAt,
		Export:      export,
	}
}

func (m *ReportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportRequestMessageFromJSON rejects messages without an ID, since the
// worker de-duplicates on it.
func ReportRequestMessageFromJSON(data []byte) (*ReportRequestMessage, error) {
	var msg ReportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.MessageID == "" {
		return nil, ErrMissingMessageID
	}
	return &msg, nil
}

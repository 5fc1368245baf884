package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionInboundMessage is an expense recorded by the conversational
// front end, queued for ingestion. It carries the sender's chat-platform
// identity; the worker resolves it to a user before writing the ledger row.
type TransactionInboundMessage struct {
	ExternalUserID string          `json:"externalUserID"`
	UserName       string          `json:"userName"`
	ProjectID      string          `json:"projectID"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	PhotoURL       string          `json:"photoURL,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// NewTransactionInboundMessage creates an inbound expense message.
func NewTransactionInboundMessage(externalUserID, userName, projectID string, amount decimal.Decimal, category, description, photoURL string) *TransactionInboundMessage {
	return &TransactionInboundMessage{
		ExternalUserID: externalUserID,
		UserName:       userName,
		ProjectID:      projectID,
		Amount:         amount,
		Category:       category,
		Description:    description,
		PhotoURL:       photoURL,
		Timestamp:      time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *TransactionInboundMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionInboundMessageFromJSON creates a message from JSON bytes.
func TransactionInboundMessageFromJSON(data []byte) (*TransactionInboundMessage, error) {
	var msg TransactionInboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReportExportMessage asks the export worker to refresh a project's summary
// in the spreadsheet. It carries only the project ID; the worker derives the
// report from the store so the export can never go stale.
type ReportExportMessage struct {
	ProjectID string    `json:"projectID"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportExportMessage creates an export request for a project.
func NewReportExportMessage(projectID string) *ReportExportMessage {
	return &ReportExportMessage{
		ProjectID: projectID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ReportExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportExportMessageFromJSON creates a message from JSON bytes.
func ReportExportMessageFromJSON(data []byte) (*ReportExportMessage, error) {
	var msg ReportExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

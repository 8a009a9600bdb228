package amqp

import (
	"encoding/json"
	"time"

	"finanzas/internal/core"
)

// ReportRequestMessage asks the worker to regenerate the report of one month.
// It carries only the period; the worker reads the ledger itself.
type ReportRequestMessage struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReportRequestMessage(year, month int) *ReportRequestMessage {
	return &ReportRequestMessage{
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

// Period returns the requested period, failing for months outside 1-12.
func (m *ReportRequestMessage) Period() (core.Period, error) {
	return core.NewPeriod(m.Year, m.Month)
}

// ToJSON converts the message to JSON bytes
func (m *ReportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportRequestMessageFromJSON decodes and validates a message body.
func ReportRequestMessageFromJSON(data []byte) (*ReportRequestMessage, error) {
	var msg ReportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if _, err := msg.Period(); err != nil {
		return nil, err
	}
	return &msg, nil
}

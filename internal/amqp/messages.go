package amqp

import (
	"encoding/json"
	"time"
)

// AnalysisSyncMessage carries just the ID and version of a stored AI
// analysis; the worker fetches the full row from the database before
// writing it back to the spreadsheet.
type AnalysisSyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewAnalysisSyncMessage(id, version int64) *AnalysisSyncMessage {
	return &AnalysisSyncMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *AnalysisSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AnalysisSyncMessageFromJSON(data []byte) (*AnalysisSyncMessage, error) {
	var msg AnalysisSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

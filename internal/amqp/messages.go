package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// TransferRecordedMessage describes one successful round-up transfer.
// It carries the full event so consumers need no read-back path into
// the banking gateway.
type TransferRecordedMessage struct {
	TransferUID string    `json:"transferUid"`
	GoalUID     string    `json:"goalUid"`
	AccountUID  string    `json:"accountUid"`
	MinorUnits  int64     `json:"minorUnits"`
	Currency    string    `json:"currency"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewTransferRecordedMessage(transferUID, goalUID, accountUID string, minorUnits int64, currency string) *TransferRecordedMessage {
	return &TransferRecordedMessage{
		TransferUID: transferUID,
		GoalUID:     goalUID,
		AccountUID:  accountUID,
		MinorUnits:  minorUnits,
		Currency:    currency,
		Timestamp:   time.Now(),
	}
}

func (m *TransferRecordedMessage) Validate() error {
	if m.TransferUID == "" || m.GoalUID == "" {
		return errors.New("transfer event missing identifiers")
	}
	if len(m.Currency) != 3 {
		return errors.New("transfer event missing currency")
	}
	return nil
}

func (m *TransferRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransferRecordedMessageFromJSON(data []byte) (*TransferRecordedMessage, error) {
	var msg TransferRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

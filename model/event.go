package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ChatMessage is a single message flowing through a chat host, inbound or outbound.
// On the wire send_date is epoch milliseconds; RFC 3339 strings are accepted too.
type ChatMessage struct {
	ChatID   string    `json:"chatId"`
	Name     string    `json:"name"`
	Text     string    `json:"mes"`
	IsUser   bool      `json:"is_user"`
	IsSystem bool      `json:"is_system"`
	SendDate time.Time `json:"send_date"`
}

type chatMessageFields ChatMessage

func (m ChatMessage) MarshalJSON() ([]byte, error) {
	var sendDate *int64
	if !m.SendDate.IsZero() {
		ms := m.SendDate.UnixMilli()
		sendDate = &ms
	}
	return json.Marshal(struct {
		chatMessageFields
		SendDate *int64 `json:"send_date"`
	}{chatMessageFields(m), sendDate})
}

func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	aux := struct {
		*chatMessageFields
		SendDate json.RawMessage `json:"send_date"`
	}{chatMessageFields: (*chatMessageFields)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.SendDate)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		m.SendDate = time.Time{}
	case raw[0] == '"':
		var t time.Time
		if err := json.Unmarshal(raw, &t); err != nil {
			return fmt.Errorf("invalid send_date: %w", err)
		}
		m.SendDate = t
	default:
		var ms float64
		if err := json.Unmarshal(raw, &ms); err != nil {
			return fmt.Errorf("invalid send_date: %w", err)
		}
		m.SendDate = time.UnixMilli(int64(ms)).UTC()
	}
	return nil
}

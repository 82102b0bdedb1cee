package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestChatMessage_UnmarshalSendDate(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    time.Time
	}{
		{
			name:    "epoch milliseconds",
			payload: `{"chatId":"room","name":"You","mes":"hi","is_user":true,"is_system":false,"send_date":1700000000000}`,
			want:    time.UnixMilli(1700000000000).UTC(),
		},
		{
			name:    "rfc3339 string",
			payload: `{"chatId":"room","mes":"hi","send_date":"2024-05-01T20:00:00Z"}`,
			want:    time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC),
		},
		{
			name:    "null",
			payload: `{"chatId":"room","mes":"hi","send_date":null}`,
		},
		{
			name:    "missing",
			payload: `{"chatId":"room","mes":"hi"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg ChatMessage
			if err := json.Unmarshal([]byte(tt.payload), &msg); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if msg.ChatID != "room" || msg.Text != "hi" {
				t.Errorf("other fields lost: %+v", msg)
			}
			if !msg.SendDate.Equal(tt.want) {
				t.Errorf("expected send date %v, got %v", tt.want, msg.SendDate)
			}
		})
	}
}

func TestChatMessage_UnmarshalRejectsBadSendDate(t *testing.T) {
	var msg ChatMessage
	if err := json.Unmarshal([]byte(`{"chatId":"room","send_date":"yesterday"}`), &msg); err == nil {
		t.Error("expected an error for an unparseable send_date")
	}
}

func TestChatMessage_MarshalSendDateAsMilliseconds(t *testing.T) {
	msg := ChatMessage{
		ChatID:   "room",
		Name:     "Luna",
		Text:     "poll time",
		SendDate: time.UnixMilli(1700000000123),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `"send_date":1700000000123`) {
		t.Errorf("expected epoch milliseconds, got %s", data)
	}
	if strings.Count(string(data), "send_date") != 1 {
		t.Errorf("send_date should appear once, got %s", data)
	}

	var back ChatMessage
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Name != "Luna" || !back.SendDate.Equal(msg.SendDate) {
		t.Errorf("expected %+v back, got %+v", msg, back)
	}
}

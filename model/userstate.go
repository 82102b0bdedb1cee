package model

// TriggerState is the per-chat counter set consulted on every chat message.
type TriggerState struct {
	MessageCount      int
	EventChance       float64
	CooldownRemaining int
}

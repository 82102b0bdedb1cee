package handler

import (
	"encoding/json"
	"fmt"
	"sync"

	"StreamerPoll/model"
	"StreamerPoll/poll"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// NATSBridge connects poll engines to a chat host that speaks JSON over NATS.
// The host publishes every chat message, user or character, on the inbound
// subject; poll messages go back out on the outbound subject.
type NATSBridge struct {
	nc       *nats.Conn
	registry *poll.Registry
	inbound  string
	outbound string
	log      zerolog.Logger

	mu  sync.Mutex
	sub *nats.Subscription
}

func NewNATSBridge(nc *nats.Conn, registry *poll.Registry, inbound, outbound string, log zerolog.Logger) *NATSBridge {
	return &NATSBridge{
		nc:       nc,
		registry: registry,
		inbound:  inbound,
		outbound: outbound,
		log:      log,
	}
}

// Start subscribes to the inbound subject.
func (n *NATSBridge) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.sub != nil {
		return nil
	}
	sub, err := n.nc.Subscribe(n.inbound, n.handle)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", n.inbound, err)
	}
	n.sub = sub
	n.log.Info().Str("inbound", n.inbound).Str("outbound", n.outbound).Msg("NATS bridge listening")
	return nil
}

func (n *NATSBridge) handle(msg *nats.Msg) {
	var in model.ChatMessage
	if err := json.Unmarshal(msg.Data, &in); err != nil {
		n.log.Warn().Err(err).Msg("dropping malformed chat message")
		return
	}
	if in.ChatID == "" {
		n.log.Warn().Msg("dropping chat message without chatId")
		return
	}
	if in.IsSystem {
		return
	}

	engine := n.registry.Engine("nats:"+in.ChatID, n.emitterFor(in.ChatID))
	if !in.IsUser && in.Name != "" {
		// the character's own messages tell us who is speaking
		engine.SetCharacterName(in.Name)
	}
	if _, err := engine.OnChatMessage(in.IsUser); err != nil {
		n.log.Debug().Err(err).Str("chat", in.ChatID).Msg("poll skipped")
	}
}

func (n *NATSBridge) emitterFor(chatID string) poll.Emitter {
	return poll.EmitterFunc(func(msg model.ChatMessage) error {
		msg.ChatID = chatID
		return n.Publish(msg)
	})
}

// Publish sends a chat message to the outbound subject.
func (n *NATSBridge) Publish(msg model.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}
	if err := n.nc.Publish(n.outbound, data); err != nil {
		return fmt.Errorf("failed to publish to NATS: %w", err)
	}
	return nil
}

// Close stops listening. The connection itself belongs to the caller.
func (n *NATSBridge) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.sub == nil {
		return nil
	}
	err := n.sub.Unsubscribe()
	n.sub = nil
	return err
}

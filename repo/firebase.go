package repo

import (
	"context"
	"fmt"

	"StreamerPoll/model"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// NodeStore reads and writes JSON nodes by path.
type NodeStore interface {
	ReadNode(ctx context.Context, path string, v any) error
	WriteNode(ctx context.Context, path string, v any) error
}

// FirebaseConnector struct to hold Firebase client and database reference
type FirebaseConnector struct {
	app    *firebase.App
	client *db.Client
}

// NewFirebaseConnector creates a new Firebase connector
func NewFirebaseConnector(ctx context.Context, serviceAccountKeyPath string, databaseURL string) (*FirebaseConnector, error) {
	opt := option.WithCredentialsFile(serviceAccountKeyPath)

	config := &firebase.Config{
		DatabaseURL: databaseURL,
	}
	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting database client: %w", err)
	}

	return &FirebaseConnector{
		app:    app,
		client: client,
	}, nil
}

// ReadNode decodes the node at path into v
func (fc *FirebaseConnector) ReadNode(ctx context.Context, path string, v any) error {
	if err := fc.client.NewRef(path).Get(ctx, v); err != nil {
		return fmt.Errorf("error reading node %q: %w", path, err)
	}
	return nil
}

// WriteNode replaces the node at path with v
func (fc *FirebaseConnector) WriteNode(ctx context.Context, path string, v any) error {
	if err := fc.client.NewRef(path).Set(ctx, v); err != nil {
		return fmt.Errorf("error writing node %q: %w", path, err)
	}
	return nil
}

// FirebaseSource reads the poll config from a Realtime Database node.
type FirebaseSource struct {
	Store NodeStore
	Path  string
}

func (s FirebaseSource) Name() string { return "firebase:" + s.Path }

func (s FirebaseSource) Load(ctx context.Context) (model.PollConfig, error) {
	var doc pollConfigDocument
	if err := s.Store.ReadNode(ctx, s.Path, &doc); err != nil {
		return model.PollConfig{}, err
	}
	if doc.PollOptions == nil && doc.Messages == (model.MessageTemplates{}) {
		return model.PollConfig{}, fmt.Errorf("poll config node %q is empty", s.Path)
	}
	return doc.pollConfig(), nil
}

// PublishPollConfig uploads cfg to the node so other bot instances can load it.
func PublishPollConfig(ctx context.Context, store NodeStore, path string, cfg model.PollConfig) error {
	if err := store.WriteNode(ctx, path, documentFor(cfg)); err != nil {
		return fmt.Errorf("error publishing poll config: %w", err)
	}
	return nil
}

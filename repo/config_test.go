package repo

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"StreamerPoll/model"
	"StreamerPoll/poll"

	"github.com/rs/zerolog"
)

const jsonConfig = `{
	"pollOptions": ["Speedrun", "Karaoke", "Q&A", "Art stream", "Cooking"],
	"neverPollOptions": ["Uninstall the game"],
	"messages": {
		"pollIntro": "{characterName} opens a poll!\n",
		"pollOption": "{index}) {option}\n"
	},
	"numberOfOptions": 3
}`

const yamlConfig = `
pollOptions:
  - Speedrun
  - Karaoke
  - Q&A
  - Art stream
  - Cooking
neverPollOptions:
  - Uninstall the game
messages:
  pollIntro: "{characterName} opens a poll!\n"
  pollOption: "{index}) {option}\n"
numberOfOptions: 3
`

func TestDecodePollConfig(t *testing.T) {
	fromJSON, err := DecodePollConfig([]byte(jsonConfig), FormatJSON)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	fromYAML, err := DecodePollConfig([]byte(yamlConfig), FormatYAML)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !reflect.DeepEqual(fromJSON, fromYAML) {
		t.Errorf("json and yaml decode differently:\n%+v\n%+v", fromJSON, fromYAML)
	}

	if fromJSON.OptionsPerPoll != 3 {
		t.Errorf("expected 3 options per poll, got %d", fromJSON.OptionsPerPoll)
	}
	if fromJSON.NeverOptionsPerPoll != 1 {
		t.Errorf("never count should clamp to the pool size 1, got %d", fromJSON.NeverOptionsPerPoll)
	}
	if fromJSON.Messages.PollIntro != "{characterName} opens a poll!\n" {
		t.Errorf("configured intro lost: %q", fromJSON.Messages.PollIntro)
	}
	if fromJSON.Messages.PollResult != DefaultPollConfig().Messages.PollResult {
		t.Errorf("missing result template should fall back to default, got %q", fromJSON.Messages.PollResult)
	}
}

func TestDecodePollConfig_Invalid(t *testing.T) {
	if _, err := DecodePollConfig([]byte("{not json"), FormatJSON); err == nil {
		t.Error("expected an error for malformed json")
	}
	if _, err := DecodePollConfig([]byte("pollOptions: [a, b"), FormatYAML); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		file    string
		content string
	}{
		{file: "config.json", content: jsonConfig},
		{file: "config.yaml", content: yamlConfig},
		{file: "config.yml", content: yamlConfig},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			cfg, err := FileSource{Path: path}.Load(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cfg.PollOptions) != 5 {
				t.Errorf("expected 5 options, got %d", len(cfg.PollOptions))
			}
		})
	}
}

func TestLoadPollConfig_FallsBackToDefaults(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}
	cfg := LoadPollConfig(context.Background(), src, zerolog.Nop())

	if !reflect.DeepEqual(cfg, DefaultPollConfig()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if len(cfg.PollOptions) != 10 || len(cfg.NeverPollOptions) != 2 {
		t.Errorf("expected 10 options and 2 secret options, got %d and %d", len(cfg.PollOptions), len(cfg.NeverPollOptions))
	}
	m := cfg.Messages
	if m.PollIntro == "" || m.PollOption == "" || m.PollResult == "" {
		t.Errorf("expected the three default templates, got %+v", m)
	}

	if got := LoadPollConfig(context.Background(), nil, zerolog.Nop()); !reflect.DeepEqual(got, DefaultPollConfig()) {
		t.Error("nil source should also yield defaults")
	}
}

func TestDefaultConfigProducesWellFormedPoll(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}
	cfg := LoadPollConfig(context.Background(), src, zerolog.Nop())

	var sent []model.ChatMessage
	emitter := poll.EmitterFunc(func(msg model.ChatMessage) error {
		sent = append(sent, msg)
		return nil
	})
	opts := poll.DefaultOptions()
	opts.ResultDelay = 0
	e := poll.NewEngine(cfg, emitter, opts, poll.WithRand(rand.New(rand.NewSource(12))))

	round, err := e.TriggerPoll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sent) != 2 {
		t.Fatalf("expected announcement and result, got %d messages", len(sent))
	}

	text := sent[0].Text
	intro := strings.ReplaceAll(DefaultPollConfig().Messages.PollIntro, "{characterName}", "Character")
	if !strings.HasPrefix(text, intro) {
		t.Errorf("announcement should open with the default intro, got %q", text)
	}
	presented := round.Presented()
	if len(presented) != cfg.OptionsPerPoll+cfg.NeverOptionsPerPoll {
		t.Fatalf("expected %d presented options, got %d", cfg.OptionsPerPoll+cfg.NeverOptionsPerPoll, len(presented))
	}
	want := intro
	for i, option := range presented {
		want += "🔹 " + strconv.Itoa(i+1) + ". " + option + "\n"
	}
	if text != want {
		t.Errorf("announcement mismatch:\n got %q\nwant %q", text, want)
	}
	for i, option := range round.Selected {
		if !strings.Contains(text, "🔹 "+strconv.Itoa(i+1)+". "+option+"\n") {
			t.Errorf("selected option %q should be on line %d", option, i+1)
		}
	}
	if !strings.Contains(sent[1].Text, "**"+round.Winner+"**") {
		t.Errorf("result should name the winner: %q", sent[1].Text)
	}
}

func TestHTTPSource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/config.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(jsonConfig))
	})
	mux.HandleFunc("/poll", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(yamlConfig))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	for _, p := range []string{"/config.json", "/poll"} {
		cfg, err := NewHTTPSource(server.URL + p).Load(context.Background())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", p, err)
		}
		if len(cfg.PollOptions) != 5 || cfg.OptionsPerPoll != 3 {
			t.Errorf("%s: unexpected config %+v", p, cfg)
		}
	}

	if _, err := NewHTTPSource(server.URL + "/broken").Load(context.Background()); err == nil {
		t.Error("expected an error for a 500 response")
	}
	cfg := LoadPollConfig(context.Background(), NewHTTPSource(server.URL+"/broken"), zerolog.Nop())
	if len(cfg.PollOptions) != 10 {
		t.Error("failed fetch should fall back to defaults")
	}
}

type memoryStore struct {
	nodes map[string][]byte
	err   error
}

func (m *memoryStore) ReadNode(ctx context.Context, path string, v any) error {
	if m.err != nil {
		return m.err
	}
	data, ok := m.nodes[path]
	if !ok {
		data = []byte("null")
	}
	return json.Unmarshal(data, v)
}

func (m *memoryStore) WriteNode(ctx context.Context, path string, v any) error {
	if m.err != nil {
		return m.err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.nodes[path] = data
	return nil
}

func TestFirebaseSource(t *testing.T) {
	store := &memoryStore{nodes: map[string][]byte{}}
	ctx := context.Background()

	if _, err := (FirebaseSource{Store: store, Path: "pollConfig"}).Load(ctx); err == nil {
		t.Error("expected an error for a missing node")
	}

	want, err := DecodePollConfig([]byte(jsonConfig), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if err := PublishPollConfig(ctx, store, "pollConfig", want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got, err := FirebaseSource{Store: store, Path: "pollConfig"}.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip through the store changed the config:\n%+v\n%+v", want, got)
	}

	store.err = errors.New("permission denied")
	if err := PublishPollConfig(ctx, store, "pollConfig", want); err == nil {
		t.Error("expected publish to surface store errors")
	}
}

package repo

import (
	"context"
	"fmt"
	"os"

	"StreamerPoll/model"
)

// FileSource reads the poll config from a local JSON or YAML file.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load(ctx context.Context) (model.PollConfig, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return model.PollConfig{}, fmt.Errorf("error reading poll config file: %w", err)
	}
	return DecodePollConfig(data, formatFor(s.Path))
}

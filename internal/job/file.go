package job

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// LoadFile reads a job description from a YAML or JSON file. Decoding is
// weakly typed so hand-written files survive minor type slips.
func LoadFile(path string) (*Job, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading job file %q: %w", path, err)
	}

	var job Job
	cfg := &mapstructure.DecoderConfig{
		Result:           &job,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("building job decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decoding job file %q: %w", path, err)
	}

	if job.Status == "" {
		job.Status = StatusActive
	}

	return &job, nil
}

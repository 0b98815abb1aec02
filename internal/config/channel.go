package config

import (
	"fmt"
	"os"

	"efb/pkg/paths"
)

// LoadChannel strictly decodes a channel's own config file
// (<data path>/config.yaml) into v. The containing directory is created by
// path resolution, the file never is: a missing file surfaces as the
// underlying os.ReadFile error so channels can treat it as "unconfigured".
func LoadChannel(res *paths.Resolver, channelID string, v any) error {
	path, err := res.Config(channelID, "")
	if err != nil {
		return err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	jb, err := coerceToJSONBytes(path, b)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := decodeStrict(jb, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

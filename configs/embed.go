package configs

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed *.yaml
var embeddedConfigs embed.FS

// DefaultName is the embedded settings file used when no path is given.
const DefaultName = "default.yaml"

// Load returns the embedded YAML settings by filename.
func Load(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("embedded settings name is empty")
	}
	data, err := fs.ReadFile(embeddedConfigs, name)
	if err != nil {
		return nil, fmt.Errorf("read embedded settings %q: %w", name, err)
	}
	return data, nil
}

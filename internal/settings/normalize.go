package settings

import (
	"os"
	"path/filepath"
	"strings"
)

// normalizeConfig expands environment references and home-relative paths
// in the fabric settings.
func normalizeConfig(cfg *Config) {
	cfg.Fabric.Binary = expandPath(cfg.Fabric.Binary)
	for i, dir := range cfg.Fabric.PatternsDirs {
		cfg.Fabric.PatternsDirs[i] = expandPath(dir)
	}
}

func expandPath(path string) string {
	expanded := os.ExpandEnv(path)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~"))
		}
	}
	return expanded
}

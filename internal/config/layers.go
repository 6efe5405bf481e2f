package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"

	"github.com/hc3-tools/quickapp-manager/internal/logging"
	"github.com/hc3-tools/quickapp-manager/internal/util"
)

// EnvFileName is the layered configuration file looked up in each source directory.
const EnvFileName = ".env"

// EnvSource is one optional layered configuration file.
type EnvSource struct {
	Name string
	Path string
}

// DefaultSources returns the resource-directory layer followed by the home-directory layer.
// Directories that could not be determined are left out.
func DefaultSources(resourceDir, homeDir string) []EnvSource {
	var sources []EnvSource
	if resourceDir != "" {
		sources = append(sources, EnvSource{Name: "resource", Path: filepath.Join(resourceDir, EnvFileName)})
	}
	if homeDir != "" {
		sources = append(sources, EnvSource{Name: "home", Path: filepath.Join(homeDir, EnvFileName)})
	}
	return sources
}

// LayerStatus is the outcome of loading one source.
type LayerStatus string

const (
	LayerLoaded  LayerStatus = "loaded"
	LayerSkipped LayerStatus = "skipped"
	LayerFailed  LayerStatus = "failed"
)

// LayerResult records what happened to one source.
type LayerResult struct {
	Source  EnvSource
	Status  LayerStatus
	Applied []string // keys written into the environment
	Shadow  []string // keys already set by an earlier writer
	Err     error
}

// LoadReport is advisory; nothing in the startup path branches on it.
type LoadReport struct {
	Layers []LayerResult
}

// Err aggregates the failures of all layers.
func (r LoadReport) Err() error {
	m := util.NewMultiError()
	for _, l := range r.Layers {
		m.Add(l.Err)
	}
	return m.Err()
}

// Loaded returns the names of the sources that were applied.
func (r LoadReport) Loaded() []string {
	var names []string
	for _, l := range r.Layers {
		if l.Status == LayerLoaded {
			names = append(names, l.Source.Name)
		}
	}
	return names
}

// LoadLayers merges each existing source into e, in order. A key already present in e is
// never overwritten, so earlier sources and the pre-existing environment take precedence.
// Failures are recorded and logged, never returned.
func LoadLayers(e Environment, sources []EnvSource) LoadReport {
	logger := logging.WithComponent("config")
	report := LoadReport{Layers: make([]LayerResult, 0, len(sources))}

	for _, src := range sources {
		res := loadLayer(e, src)
		report.Layers = append(report.Layers, res)

		switch res.Status {
		case LayerLoaded:
			logger.Info("loaded env layer", "source", src.Name, "path", src.Path,
				"applied", len(res.Applied), "shadowed", len(res.Shadow))
		case LayerSkipped:
			logger.Debug("env layer not present", "source", src.Name, "path", src.Path)
		case LayerFailed:
			logger.Warn("failed to load env layer", "source", src.Name, "path", src.Path, "error", res.Err)
		}
	}

	return report
}

func loadLayer(e Environment, src EnvSource) LayerResult {
	res := LayerResult{Source: src}

	info, err := os.Stat(src.Path)
	if errors.Is(err, fs.ErrNotExist) {
		res.Status = LayerSkipped
		return res
	}
	if err == nil && info.IsDir() {
		err = fmt.Errorf("%s is a directory", src.Path)
	}
	if err != nil {
		res.Status = LayerFailed
		res.Err = util.WrapErrorf(err, "%s layer", src.Name)
		return res
	}

	// ${NAME} references resolve only against keys defined earlier in the same
	// file; neither e nor the process environment is consulted.
	values, err := godotenv.Read(src.Path)
	if err != nil {
		res.Status = LayerFailed
		res.Err = util.WrapErrorf(err, "%s layer: parse %s", src.Name, src.Path)
		return res
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, set := e.LookupEnv(k); set {
			res.Shadow = append(res.Shadow, k)
			continue
		}
		if err := e.Setenv(k, values[k]); err != nil {
			res.Status = LayerFailed
			res.Err = fmt.Errorf("%s layer: set %s: %w", src.Name, k, err)
			return res
		}
		res.Applied = append(res.Applied, k)
	}

	res.Status = LayerLoaded
	return res
}

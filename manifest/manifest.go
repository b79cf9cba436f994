// Package manifest handles rite.toml machine configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/rite/vm"
)

// FileName is the name of the configuration file.
const FileName = "rite.toml"

// DefaultLogger is the logger name machine traces go to.
const DefaultLogger = "rite.vm"

// Manifest represents a rite.toml configuration.
type Manifest struct {
	Machine MachineConfig `toml:"machine"`
	Log     LogConfig     `toml:"log"`

	// Dir is the directory containing the rite.toml file (set at load time).
	Dir string `toml:"-"`
}

// MachineConfig configures machines created from this manifest.
type MachineConfig struct {
	Trace           bool   `toml:"trace"`
	ShapeAssertions bool   `toml:"shape-assertions"`
	Logger          string `toml:"logger"`
}

// LogConfig configures the logging backend.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

// Load parses a rite.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return m, nil
}

// Parse decodes a rite.toml document. Unknown keys are rejected so that a
// misspelled setting does not silently fall back to its default.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown key(s): %s", strings.Join(keys, ", "))
	}

	// Defaults
	if m.Machine.Logger == "" {
		m.Machine.Logger = DefaultLogger
	}

	return &m, nil
}

// Default returns the configuration used when no rite.toml exists.
func Default() *Manifest {
	return &Manifest{
		Machine: MachineConfig{Logger: DefaultLogger},
	}
}

// FindAndLoad walks up from startDir to find a rite.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Options translates the machine section into machine options.
func (m *Manifest) Options() []vm.Option {
	var opts []vm.Option
	if m.Machine.Trace {
		opts = append(opts, vm.WithTracer(vm.LogTracer(commonlog.GetLogger(m.Machine.Logger))))
	}
	if m.Machine.ShapeAssertions {
		opts = append(opts, vm.WithShapeAssertions(true))
	}
	return opts
}

// NewMachine creates a machine loaded with program and configured by m.
func (m *Manifest) NewMachine(program []byte) *vm.Machine {
	return vm.NewMachine(program, m.Options()...)
}

// ConfigureLogging applies the log section to the commonlog backend.
func (m *Manifest) ConfigureLogging() {
	if m.Log.Path == "" {
		commonlog.Configure(m.Log.Verbosity, nil)
		return
	}
	path := m.Log.Path
	if !filepath.IsAbs(path) && m.Dir != "" {
		path = filepath.Join(m.Dir, path)
	}
	commonlog.Configure(m.Log.Verbosity, &path)
}

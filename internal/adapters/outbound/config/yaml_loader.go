package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rubylint/rubylint/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in the project directory.
const FileName = ".rubylint.yaml"

// YAMLLoader implements domain.SettingsLoader by reading .rubylint.yaml.
// JSON files are accepted too since JSON is valid YAML.
type YAMLLoader struct {
	file string
}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// NewFile creates a YAMLLoader that always reads path, whatever project
// it is asked for. A missing file is an error.
func NewFile(path string) *YAMLLoader { return &YAMLLoader{file: path} }

// Load reads .rubylint.yaml from projectPath.
// Returns DefaultSettings if the file does not exist.
func (l *YAMLLoader) Load(projectPath string) (domain.Settings, error) {
	if l.file != "" {
		return l.LoadFile(l.file)
	}
	s, err := l.LoadFile(filepath.Join(projectPath, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return domain.DefaultSettings(), nil
	}
	return s, err
}

// LoadFile reads an explicit settings file. Keys it sets override the
// defaults; values of the wrong type are ignored.
func (l *YAMLLoader) LoadFile(path string) (domain.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Settings{}, err
	}
	return Parse(data, filepath.Base(path))
}

// Parse decodes settings from raw YAML or JSON on top of the defaults.
func Parse(data []byte, name string) (domain.Settings, error) {
	s := domain.DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		var typeErr *yaml.TypeError
		if !errors.As(err, &typeErr) {
			return domain.Settings{}, fmt.Errorf("parsing %s: %w", name, err)
		}
	}
	return s, nil
}

// Template is the commented starter file written by `rubylint init`.
const Template = `# rubylint configuration

# Lint while typing (onType) or only when files are saved (onSave).
lintRun: onType
# Milliseconds to wait after the last edit before linting.
lintDebounceTime: 500
# Milliseconds a single tool may run before it is killed.
lintTimeout: 30000

# Run every tool through "bundle exec" unless it has an explicit path.
# useBundler: true
# pathToBundler: bundle

# interpreter:
#   commandPath: /usr/local/bin/ruby

lint:
  rubocop: true
  # rubocop:
  #   forceExclusion: true
  #   lint: false
  #   rails: false
  #   only: []
  #   except: []
  #   require: [rubocop-rspec]
  #   path: ${workspaceRoot}/bin
  reek: false
  fasterer: false
  # fasterer:
  #   rails: true

# locate:
#   include: "**/*.rb"
#   exclude: "{vendor,tmp,node_modules}/**"
`

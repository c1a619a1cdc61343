package domain

import (
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"gopkg.in/yaml.v3"
)

// LintRun selects which document events trigger linting.
type LintRun string

const (
	LintRunOnType LintRun = "onType"
	LintRunOnSave LintRun = "onSave"
)

const (
	DefaultDebounce    = 500 * time.Millisecond
	DefaultLintTimeout = 30 * time.Second
)

// Settings is an immutable snapshot of the host configuration, loaded from
// .rubylint.yaml. Pointer fields distinguish "not specified" from zero values.
type Settings struct {
	Locate           LocateSettings      `yaml:"locate,omitempty"           json:"locate,omitempty"`
	Interpreter      InterpreterSettings `yaml:"interpreter,omitempty"      json:"interpreter,omitempty"`
	UseBundler       *bool               `yaml:"useBundler,omitempty"       json:"useBundler,omitempty"`
	PathToBundler    *string             `yaml:"pathToBundler,omitempty"    json:"pathToBundler,omitempty"`
	LintDebounceTime *int                `yaml:"lintDebounceTime,omitempty" json:"lintDebounceTime,omitempty"`
	LintRun          LintRun             `yaml:"lintRun,omitempty"          json:"lintRun,omitempty"`
	LintTimeout      *int                `yaml:"lintTimeout,omitempty"      json:"lintTimeout,omitempty"`
	Lint             LintSettings        `yaml:"lint,omitempty"             json:"lint,omitempty"`
}

// UnmarshalYAML decodes onto the current value. Keys holding a value of
// the wrong type are skipped and leave the setting unset.
func (s *Settings) UnmarshalYAML(node *yaml.Node) error {
	type plain Settings
	pruneMismatched(node, reflect.TypeOf(plain{}))
	return node.Decode((*plain)(s))
}

// LocateSettings holds glob patterns used when scanning directories.
type LocateSettings struct {
	Include string `yaml:"include,omitempty" json:"include,omitempty"`
	Exclude string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

type InterpreterSettings struct {
	CommandPath *string `yaml:"commandPath,omitempty" json:"commandPath,omitempty"`
}

// LintSettings enables tools and carries their per-tool overrides.
type LintSettings struct {
	RuboCop  Toggle[RuboCopOptions]  `yaml:"rubocop,omitempty"  json:"rubocop,omitempty"`
	Reek     Toggle[ReekOptions]     `yaml:"reek,omitempty"     json:"reek,omitempty"`
	Fasterer Toggle[FastererOptions] `yaml:"fasterer,omitempty" json:"fasterer,omitempty"`
}

// CommonOptions can be set per tool and override the global settings.
type CommonOptions struct {
	Path          *string `yaml:"path,omitempty"          json:"path,omitempty"`
	PathToRuby    *string `yaml:"pathToRuby,omitempty"    json:"pathToRuby,omitempty"`
	PathToBundler *string `yaml:"pathToBundler,omitempty" json:"pathToBundler,omitempty"`
	UseBundler    *bool   `yaml:"useBundler,omitempty"    json:"useBundler,omitempty"`
}

var commonKeys = []string{"path", "pathToRuby", "pathToBundler", "useBundler"}

type RuboCopOptions struct {
	CommonOptions  `yaml:",inline"`
	ForceExclusion *bool    `yaml:"forceExclusion,omitempty" json:"forceExclusion,omitempty"`
	Lint           *bool    `yaml:"lint,omitempty"           json:"lint,omitempty"`
	Rails          *bool    `yaml:"rails,omitempty"          json:"rails,omitempty"`
	Only           []string `yaml:"only,omitempty"           json:"only,omitempty"`
	Except         []string `yaml:"except,omitempty"         json:"except,omitempty"`
	Require        []string `yaml:"require,omitempty"        json:"require,omitempty"`
}

func (RuboCopOptions) optionKeys() []string {
	return append(commonKeys[:len(commonKeys):len(commonKeys)],
		"forceExclusion", "lint", "rails", "only", "except", "require")
}

type ReekOptions struct {
	CommonOptions `yaml:",inline"`
}

func (ReekOptions) optionKeys() []string { return commonKeys }

type FastererOptions struct {
	CommonOptions `yaml:",inline"`
	Rails         *bool `yaml:"rails,omitempty" json:"rails,omitempty"`
}

func (FastererOptions) optionKeys() []string {
	return append(commonKeys[:len(commonKeys):len(commonKeys)], "rails")
}

type toolOptions interface {
	RuboCopOptions | ReekOptions | FastererOptions
	optionKeys() []string
}

// Toggle is the value of lint.<tool>: either a plain boolean switch or an
// object of options, which also enables the tool. Keys the options record
// does not know are kept in Extra.
type Toggle[T toolOptions] struct {
	Enabled bool
	Options *T
	Extra   map[string]any
}

// On returns an enabled toggle without options.
func On[T toolOptions]() Toggle[T] { return Toggle[T]{Enabled: true} }

// WithOptions returns an enabled toggle carrying opts.
func WithOptions[T toolOptions](opts T) Toggle[T] { return Toggle[T]{Enabled: true, Options: &opts} }

// UnmarshalYAML decodes a boolean or an options mapping. Anything else
// leaves the tool disabled.
func (t *Toggle[T]) UnmarshalYAML(node *yaml.Node) error {
	*t = Toggle[T]{}

	switch node.Kind {
	case yaml.ScalarNode:
		var on bool
		if err := node.Decode(&on); err == nil {
			t.Enabled = on
		}
		return nil

	case yaml.MappingNode:
		var opts T
		pruneMismatched(node, reflect.TypeOf(opts))
		if err := node.Decode(&opts); err != nil && !isTypeError(err) {
			return err
		}
		var raw map[string]any
		if err := node.Decode(&raw); err != nil && !isTypeError(err) {
			return err
		}
		for _, k := range opts.optionKeys() {
			delete(raw, k)
		}
		t.Enabled = true
		t.Options = &opts
		if len(raw) > 0 {
			t.Extra = raw
		}
		return nil
	}

	return nil
}

// MarshalYAML writes the toggle back in its input shape.
func (t Toggle[T]) MarshalYAML() (any, error) {
	if !t.Enabled {
		return false, nil
	}
	if t.Options == nil && len(t.Extra) == 0 {
		return true, nil
	}
	var node yaml.Node
	if t.Options != nil {
		if err := node.Encode(t.Options); err != nil {
			return nil, err
		}
	} else {
		node.Kind = yaml.MappingNode
		node.Tag = "!!map"
	}
	for k, v := range t.Extra {
		var val yaml.Node
		if err := val.Encode(v); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &val)
	}
	return &node, nil
}

// MarshalJSON mirrors MarshalYAML.
func (t Toggle[T]) MarshalJSON() ([]byte, error) {
	if !t.Enabled {
		return []byte("false"), nil
	}
	if t.Options == nil && len(t.Extra) == 0 {
		return []byte("true"), nil
	}
	fields := make(map[string]any, len(t.Extra))
	if t.Options != nil {
		data, err := json.Marshal(t.Options)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
	}
	for k, v := range t.Extra {
		fields[k] = v
	}
	return json.Marshal(fields)
}

// IsZero lets omitempty drop disabled toggles.
func (t Toggle[T]) IsZero() bool {
	return !t.Enabled && t.Options == nil && len(t.Extra) == 0
}

func isTypeError(err error) bool {
	var typeErr *yaml.TypeError
	return errors.As(err, &typeErr)
}

// DefaultSettings is used when a project has no settings file: RuboCop on,
// everything else at its built-in default.
func DefaultSettings() Settings {
	return Settings{
		Lint: LintSettings{RuboCop: On[RuboCopOptions]()},
	}
}

// Debounce returns the lintDebounceTime, falling back to the default for
// unset or negative values.
func (s Settings) Debounce() time.Duration {
	if s.LintDebounceTime == nil || *s.LintDebounceTime < 0 {
		return DefaultDebounce
	}
	return time.Duration(*s.LintDebounceTime) * time.Millisecond
}

// Timeout returns the per-tool execution timeout.
func (s Settings) Timeout() time.Duration {
	if s.LintTimeout == nil || *s.LintTimeout <= 0 {
		return DefaultLintTimeout
	}
	return time.Duration(*s.LintTimeout) * time.Millisecond
}

// RunMode returns lintRun, treating unknown values as onType.
func (s Settings) RunMode() LintRun {
	if s.LintRun == LintRunOnSave {
		return LintRunOnSave
	}
	return LintRunOnType
}

// ToolEnabled reports whether lint.<tool> is truthy.
func (s Settings) ToolEnabled(tool string) bool {
	switch tool {
	case ToolRuboCop:
		return s.Lint.RuboCop.Enabled
	case ToolReek:
		return s.Lint.Reek.Enabled
	case ToolFasterer:
		return s.Lint.Fasterer.Enabled
	}
	return false
}

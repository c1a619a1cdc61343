package domain

// EffectiveToolConfig is the merged configuration one tool runs with.
type EffectiveToolConfig struct {
	Tool            string         `yaml:"tool"                     json:"tool"`
	Enabled         bool           `yaml:"enabled"                  json:"enabled"`
	Path            string         `yaml:"path,omitempty"           json:"path,omitempty"`
	InterpreterPath string         `yaml:"interpreterPath"          json:"interpreter_path"`
	BundlerPath     string         `yaml:"bundlerPath"              json:"bundler_path"`
	UseBundler      bool           `yaml:"useBundler"               json:"use_bundler"`
	ForceExclusion  bool           `yaml:"forceExclusion,omitempty" json:"force_exclusion,omitempty"`
	Lint            bool           `yaml:"lint,omitempty"           json:"lint,omitempty"`
	Rails           bool           `yaml:"rails,omitempty"          json:"rails,omitempty"`
	Only            []string       `yaml:"only,omitempty"           json:"only,omitempty"`
	Except          []string       `yaml:"except,omitempty"         json:"except,omitempty"`
	Require         []string       `yaml:"require,omitempty"        json:"require,omitempty"`
	Extra           map[string]any `yaml:"extra,omitempty"          json:"extra,omitempty"`
}

// ConfigLayer is one partial level of configuration. A nil field is
// "unset" and never overwrites a value from an earlier layer.
type ConfigLayer struct {
	Path            *string
	InterpreterPath *string
	BundlerPath     *string
	UseBundler      *bool
	ForceExclusion  *bool
	Lint            *bool
	Rails           *bool
	Only            []string
	Except          []string
	Require         []string
}

// DefaultLayer holds the built-in defaults every tool starts from.
func DefaultLayer() ConfigLayer {
	return ConfigLayer{
		InterpreterPath: ptr("ruby"),
		BundlerPath:     ptr("bundle"),
		UseBundler:      ptr(false),
	}
}

// Merge applies layers left to right onto an empty configuration.
func Merge(layers ...ConfigLayer) EffectiveToolConfig {
	var cfg EffectiveToolConfig
	for _, l := range layers {
		cfg.apply(l)
	}
	return cfg
}

func (c *EffectiveToolConfig) apply(l ConfigLayer) {
	if l.Path != nil {
		c.Path = *l.Path
	}
	if l.InterpreterPath != nil {
		c.InterpreterPath = *l.InterpreterPath
	}
	if l.BundlerPath != nil {
		c.BundlerPath = *l.BundlerPath
	}
	if l.UseBundler != nil {
		c.UseBundler = *l.UseBundler
	}
	if l.ForceExclusion != nil {
		c.ForceExclusion = *l.ForceExclusion
	}
	if l.Lint != nil {
		c.Lint = *l.Lint
	}
	if l.Rails != nil {
		c.Rails = *l.Rails
	}
	if l.Only != nil {
		c.Only = l.Only
	}
	if l.Except != nil {
		c.Except = l.Except
	}
	if l.Require != nil {
		c.Require = l.Require
	}
}

// Resolve computes the effective configuration of tool from the settings
// snapshot: defaults < global settings < lint.<tool> options.
func Resolve(tool string, s Settings) EffectiveToolConfig {
	layers := []ConfigLayer{
		DefaultLayer(),
		{
			InterpreterPath: s.Interpreter.CommandPath,
			BundlerPath:     s.PathToBundler,
			UseBundler:      s.UseBundler,
		},
	}

	var extra map[string]any
	switch tool {
	case ToolRuboCop:
		if o := s.Lint.RuboCop.Options; o != nil {
			l := commonLayer(o.CommonOptions)
			l.ForceExclusion = o.ForceExclusion
			l.Lint = o.Lint
			l.Rails = o.Rails
			l.Only = o.Only
			l.Except = o.Except
			l.Require = o.Require
			layers = append(layers, l)
		}
		extra = s.Lint.RuboCop.Extra
	case ToolReek:
		if o := s.Lint.Reek.Options; o != nil {
			layers = append(layers, commonLayer(o.CommonOptions))
		}
		extra = s.Lint.Reek.Extra
	case ToolFasterer:
		if o := s.Lint.Fasterer.Options; o != nil {
			l := commonLayer(o.CommonOptions)
			l.Rails = o.Rails
			layers = append(layers, l)
		}
		extra = s.Lint.Fasterer.Extra
	}

	cfg := Merge(layers...)
	cfg.Tool = tool
	cfg.Enabled = s.ToolEnabled(tool)
	cfg.Extra = extra
	return cfg
}

// ResolveAll resolves every known tool in publication order.
func ResolveAll(s Settings) []EffectiveToolConfig {
	out := make([]EffectiveToolConfig, 0, len(ToolNames))
	for _, name := range ToolNames {
		out = append(out, Resolve(name, s))
	}
	return out
}

func commonLayer(o CommonOptions) ConfigLayer {
	return ConfigLayer{
		Path:            o.Path,
		InterpreterPath: o.PathToRuby,
		BundlerPath:     o.PathToBundler,
		UseBundler:      o.UseBundler,
	}
}

func ptr[T any](v T) *T { return &v }

package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"cssopt/common"
	"cssopt/compat"
	"cssopt/properties"
	"cssopt/restructure"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

// Optimization levels.
const (
	LevelNone        = 0 // parse and write back
	LevelProperties  = 1 // property level passes inside every rule
	LevelRestructure = 2 // property passes and rule merging
)

type (
	OptimizationConfig struct {
		Level                 int      `yaml:"level" validate:"min=0,max=2"`
		OverrideProperties    bool     `yaml:"override_properties"`
		MergeIntoShorthands   bool     `yaml:"merge_into_shorthands"`
		MergeAdjacentRules    bool     `yaml:"merge_adjacent_rules"`
		MergeNonAdjacentRules bool     `yaml:"merge_non_adjacent_rules"`
		RemoveDuplicateRules  bool     `yaml:"remove_duplicate_rules"`
		RestructureRules      bool     `yaml:"restructure_rules"`
		MultiplexTooLongAbort bool     `yaml:"multiplex_too_long_abort"`
		SkipProperties        []string `yaml:"skip_properties" validate:"dive,required"`
	}

	CompatibilityConfig struct {
		Preset    common.Compatibility `yaml:"preset" validate:"required"`
		Overrides []string             `yaml:"overrides" validate:"dive,min=2"`
	}

	OutputConfig struct {
		Format           common.OutputFormat `yaml:"format" validate:"gte=0"`
		MinifyWhitespace bool                `yaml:"minify_whitespace"`
		Charset          string              `yaml:"charset"`
	}

	Config struct {
		Version       int                 `yaml:"version" validate:"eq=1"`
		Optimization  OptimizationConfig  `yaml:"optimization"`
		Compatibility CompatibilityConfig `yaml:"compatibility"`
		Output        OutputConfig        `yaml:"output"`
		Logging       LoggingConfig       `yaml:"logging"`
		Reporting     ReporterConfig      `yaml:"reporting"`
	}
)

// EngineOptions returns property engine options. Level below properties
// disables all passes.
func (conf *OptimizationConfig) EngineOptions() properties.Options {
	if conf.Level < LevelProperties {
		return properties.Options{}
	}
	return properties.Options{
		OverrideProperties:  conf.OverrideProperties,
		MergeIntoShorthands: conf.MergeIntoShorthands,
		AllowLonger:         !conf.MultiplexTooLongAbort,
		SkipProperties:      conf.SkipProperties,
	}
}

// RestructureOptions returns rule level options. Levels below restructure
// disable all rule merging.
func (conf *OptimizationConfig) RestructureOptions() restructure.Options {
	if conf.Level < LevelRestructure {
		return restructure.Options{}
	}
	return restructure.Options{
		RemoveDuplicates: conf.RemoveDuplicateRules,
		MergeAdjacent:    conf.MergeAdjacentRules,
		MergeNonAdjacent: conf.MergeNonAdjacentRules,
		Restructure:      conf.RestructureRules,
	}
}

// Profile builds compatibility profile from preset and flag overrides.
func (conf *CompatibilityConfig) Profile() (*compat.Profile, error) {
	spec := conf.Preset.String()
	for _, o := range conf.Overrides {
		spec += "," + o
	}
	p, err := compat.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("bad compatibility configuration: %w", err)
	}
	return p, nil
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are allowed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
		if _, err := cfg.Compatibility.Profile(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration expands embedded template to get defaults and, when path
// is not empty, superimposes values from the file on top of it. Result is
// sanitized and validated.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare expands configuration template and returns it.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

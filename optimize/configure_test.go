package optimize

import (
	"context"
	"slices"
	"testing"

	cli "github.com/urfave/cli/v3"
	"golang.org/x/text/encoding/charmap"

	"cssopt/common"
	"cssopt/config"
	"cssopt/state"
)

// runConfigure parses args the same way program does and applies them to
// fresh environment.
func runConfigure(t *testing.T, args ...string) (*state.LocalEnv, error) {
	t.Helper()
	ctx, env, _ := setupTestEnv(t)

	cmd := &cli.Command{
		Name:  "optimize",
		Flags: Flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return configure(state.EnvFromContext(ctx), cmd, env.Log)
		},
	}
	err := cmd.Run(ctx, append([]string{"optimize"}, args...))
	return env, err
}

func TestConfigure_Defaults(t *testing.T) {
	env, err := runConfigure(t)
	if err != nil {
		t.Fatalf("configure() error = %v", err)
	}
	if env.Cfg.Optimization.Level != config.LevelRestructure {
		t.Errorf("Level = %d, want %d", env.Cfg.Optimization.Level, config.LevelRestructure)
	}
	if env.Charset != nil || env.CodePage != nil || env.Overwrite || env.ToStdout {
		t.Errorf("unexpected environment %+v", env)
	}
}

func TestConfigure_Flags(t *testing.T) {
	env, err := runConfigure(t,
		"--compat", "ie8,+properties.merging,-units.rem",
		"--level", "1",
		"--format", "pretty",
		"--minify",
		"--charset", "windows-1251",
		"--force-zip-cp", "IBM866",
		"--overwrite",
		"--stdout",
	)
	if err != nil {
		t.Fatalf("configure() error = %v", err)
	}
	cfg := env.Cfg
	if cfg.Compatibility.Preset != common.CompatibilityIe8 {
		t.Errorf("Preset = %v, want ie8", cfg.Compatibility.Preset)
	}
	if !slices.Equal(cfg.Compatibility.Overrides, []string{"+properties.merging", "-units.rem"}) {
		t.Errorf("Overrides = %v", cfg.Compatibility.Overrides)
	}
	if cfg.Optimization.Level != config.LevelProperties {
		t.Errorf("Level = %d, want %d", cfg.Optimization.Level, config.LevelProperties)
	}
	if cfg.Output.Format != common.OutputFormatPretty || !cfg.Output.MinifyWhitespace {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if env.Charset != charmap.Windows1251 {
		t.Errorf("Charset = %v, want windows-1251", env.Charset)
	}
	if env.CodePage != charmap.CodePage866 {
		t.Errorf("CodePage = %v, want cp866", env.CodePage)
	}
	if !env.Overwrite || !env.ToStdout {
		t.Errorf("Overwrite = %v, ToStdout = %v, want both set", env.Overwrite, env.ToStdout)
	}
}

func TestConfigure_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown preset", []string{"--compat", "ie6"}},
		{"bad override", []string{"--compat", "ie9,properties.merging"}},
		{"level too high", []string{"--level", "3"}},
		{"negative level", []string{"--level=-1"}},
		{"unknown charset", []string{"--charset", "no-such-charset"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runConfigure(t, tt.args...); err == nil {
				t.Error("configure() expected error")
			}
		})
	}
}

func TestConfigure_Lenient(t *testing.T) {
	env, err := runConfigure(t, "--format", "fancy", "--force-zip-cp", "no-such-charset", "--compat", "*")
	if err != nil {
		t.Fatalf("configure() error = %v", err)
	}
	if env.Cfg.Output.Format != common.OutputFormatCompact {
		t.Errorf("Format = %v, want compact", env.Cfg.Output.Format)
	}
	if env.CodePage != nil {
		t.Errorf("CodePage = %v, want nil", env.CodePage)
	}
	if env.Cfg.Compatibility.Preset != common.CompatibilityAll {
		t.Errorf("Preset = %v, want all", env.Cfg.Compatibility.Preset)
	}
}

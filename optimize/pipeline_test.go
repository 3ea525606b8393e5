package optimize

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"cssopt/common"
	"cssopt/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func newTestPipeline(t *testing.T, cfg *config.Config) *Pipeline {
	t.Helper()
	p, err := NewPipeline(cfg, nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	return p
}

func TestPipelineOptimize(t *testing.T) {
	tests := []struct {
		name   string
		adjust func(cfg *config.Config)
		input  string
		want   string
	}{
		{
			name:  "restructure",
			input: "a{color:red}b{margin:0}c{color:red}",
			want:  "b{margin:0}a,c{color:red}",
		},
		{
			name:   "properties only",
			adjust: func(cfg *config.Config) { cfg.Optimization.Level = config.LevelProperties },
			input:  "a{color:red;color:blue}a{margin:0}",
			want:   "a{color:blue}a{margin:0}",
		},
		{
			name:   "no optimization",
			adjust: func(cfg *config.Config) { cfg.Optimization.Level = config.LevelNone },
			input:  "a { color: red; color: blue }",
			want:   "a{color:red;color:blue}",
		},
		{
			name:   "pretty",
			adjust: func(cfg *config.Config) { cfg.Output.Format = common.OutputFormatPretty },
			input:  "a{color:red;color:blue}",
			want:   "a {\n  color: blue;\n}\n",
		},
		{
			name:   "minify",
			adjust: func(cfg *config.Config) { cfg.Output.MinifyWhitespace = true },
			input:  "a{color:#ff0000;margin:0px}",
			want:   "a{color:red;margin:0}",
		},
		{
			name:  "charset rule",
			input: "@charset \"windows-1251\";a{content:\"\xE0\"}",
			want:  "a{content:\"а\"}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			if tt.adjust != nil {
				tt.adjust(cfg)
			}
			out, _, err := newTestPipeline(t, cfg).Optimize([]byte(tt.input), "test.css")
			if err != nil {
				t.Fatalf("Optimize() error = %v", err)
			}
			if got := string(out); got != tt.want {
				t.Errorf("Optimize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPipelineOptimize_Stats(t *testing.T) {
	input := "a{color:red;color:blue}"
	_, st, err := newTestPipeline(t, testConfig(t)).Optimize([]byte(input), "test.css")
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if st.OriginalSize != len(input) {
		t.Errorf("OriginalSize = %d, want %d", st.OriginalSize, len(input))
	}
	if st.OptimizedSize != len("a{color:blue}") {
		t.Errorf("OptimizedSize = %d, want %d", st.OptimizedSize, len("a{color:blue}"))
	}
	if st.DeclarationsIn != 2 || st.DeclarationsOut != 1 {
		t.Errorf("declarations = %d/%d, want 2/1", st.DeclarationsIn, st.DeclarationsOut)
	}
	if e := st.Efficiency(); e <= 0 || e >= 1 {
		t.Errorf("Efficiency() = %v, want value between 0 and 1", e)
	}
}

func TestPipelineOptimize_BadCharset(t *testing.T) {
	_, _, err := newTestPipeline(t, testConfig(t)).Optimize([]byte(`@charset "no-such-charset";a{color:red}`), "test.css")
	if err == nil {
		t.Fatal("Optimize() expected error for unknown charset")
	}
	if !strings.Contains(err.Error(), "no-such-charset") {
		t.Errorf("Optimize() error = %v, want charset name mentioned", err)
	}
}

func TestNewPipeline_BadProfile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Compatibility.Overrides = []string{"+no.such.flag"}
	if _, err := NewPipeline(cfg, nil, zaptest.NewLogger(t)); err == nil {
		t.Error("NewPipeline() expected error for unknown compatibility flag")
	}
}

func TestPipelineExplain(t *testing.T) {
	p := newTestPipeline(t, testConfig(t))
	sheet, err := p.Parse([]byte("a{color:red;color:blue;margin:0;margin-left:1px}b{_color:red}"), "test.css")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := p.Explain(sheet, "").String()
	for _, want := range []string{
		"rule a [test.css:1:1]\n",
		"  declarations\n",
		"    margin:0\n",
		"      family: four-values\n",
		"      components\n",
		"        margin-top:0 (default)\n",
		"    overridden color:red by color\n",
		"    merged margin-left:1px by margin\n",
		"  result: \"color:blue;margin:0 0 0 1px\"\n",
		"rule b [test.css:1:",
		"      hack: underscore\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Explain() missing %q in:\n%s", want, got)
		}
	}

	filtered := p.Explain(sheet, "b").String()
	if strings.Contains(filtered, "rule a ") || !strings.Contains(filtered, "rule b ") {
		t.Errorf("Explain(b) = %q, want only rule b", filtered)
	}
}

package optimize

import (
	"bytes"
	"fmt"
	"time"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"cssopt/common"
	"cssopt/config"
	"cssopt/css"
	"cssopt/properties"
	"cssopt/restructure"
	"cssopt/validator"
)

const mediaType = "text/css"

// Stats describes single stylesheet optimization.
type Stats struct {
	restructure.Stats
	OriginalSize  int
	OptimizedSize int
	Warnings      int
	Elapsed       time.Duration
}

// Efficiency returns relative size reduction.
func (s Stats) Efficiency() float64 {
	if s.OriginalSize == 0 {
		return 0
	}
	return 1 - float64(s.OptimizedSize)/float64(s.OriginalSize)
}

// Pipeline decodes, parses, optimizes and serializes stylesheets according
// to configuration. It may be reused for many stylesheets.
type Pipeline struct {
	log         *zap.Logger
	parser      *css.Parser
	engine      *properties.Engine
	restructure *restructure.Restructurer
	level       int
	format      common.OutputFormat
	charset     encoding.Encoding
	minifier    *minify.M
}

// NewPipeline builds pipeline from configuration. Forced charset may be nil.
func NewPipeline(cfg *config.Config, charset encoding.Encoding, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}
	profile, err := cfg.Compatibility.Profile()
	if err != nil {
		return nil, err
	}

	engine := properties.New(log, validator.New(profile), profile, cfg.Optimization.EngineOptions())
	p := &Pipeline{
		log:         log,
		parser:      css.NewParser(log),
		engine:      engine,
		restructure: restructure.New(log, engine, cfg.Optimization.RestructureOptions()),
		level:       cfg.Optimization.Level,
		format:      cfg.Output.Format,
		charset:     charset,
	}

	if cfg.Output.MinifyWhitespace {
		if p.format == common.OutputFormatPretty {
			log.Warn("Whitespace minification ignored for pretty output")
		} else {
			p.minifier = minify.New()
			p.minifier.AddFunc(mediaType, mincss.Minify)
		}
	}
	return p, nil
}

// Format returns output format of the pipeline.
func (p *Pipeline) Format() common.OutputFormat {
	return p.format
}

// Parse decodes stylesheet text and parses it.
func (p *Pipeline) Parse(data []byte, source string) (*css.Stylesheet, error) {
	text, name, err := decode(data, p.charset)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", source, err)
	}
	if name != "" {
		p.log.Debug("Stylesheet decoded", zap.String("source", source), zap.String("charset", name))
	}

	sheet := p.parser.Parse(text, source)
	if name != "" {
		dropCharset(sheet)
	}
	for _, w := range sheet.Warnings {
		p.log.Warn("Stylesheet problem", zap.String("source", source), zap.String("warning", w))
	}
	return sheet, nil
}

// Optimize runs the whole pipeline over source text.
func (p *Pipeline) Optimize(data []byte, source string) ([]byte, Stats, error) {
	start := time.Now()
	st := Stats{OriginalSize: len(data)}

	sheet, err := p.Parse(data, source)
	if err != nil {
		return nil, st, err
	}
	st.Warnings = len(sheet.Warnings)

	if p.level > config.LevelNone {
		sheet, st.Stats = p.restructure.Optimize(sheet)
	}

	var buf bytes.Buffer
	if p.format == common.OutputFormatPretty {
		_, err = sheet.WritePretty(&buf)
	} else {
		_, err = sheet.WriteTo(&buf)
	}
	if err != nil {
		return nil, st, fmt.Errorf("unable to serialize %s: %w", source, err)
	}

	out := buf.Bytes()
	if p.minifier != nil {
		if out, err = p.minifier.Bytes(mediaType, out); err != nil {
			return nil, st, fmt.Errorf("unable to minify %s: %w", source, err)
		}
	}

	st.OptimizedSize = len(out)
	st.Elapsed = time.Since(start)
	return out, st, nil
}

// dropCharset removes @charset rules, output is always UTF-8.
func dropCharset(sheet *css.Stylesheet) {
	items := sheet.Items[:0]
	for _, item := range sheet.Items {
		if item.AtRule != nil && item.AtRule.Name == "@charset" {
			continue
		}
		items = append(items, item)
	}
	sheet.Items = items
}

package optimize

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssopt/css"
	"cssopt/properties"
	"cssopt/state"
	"cssopt/utils/debug"
)

// Explain prints how every declaration of a stylesheet is understood and
// what property passes did to it.
func Explain(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("explain")

	if err := configure(env, cmd, log); err != nil {
		return err
	}
	pipe, err := NewPipeline(env.Cfg, env.Charset, log)
	if err != nil {
		return err
	}

	var (
		data []byte
		src  = cmd.Args().Get(0)
	)
	if len(src) == 0 || src == stdinName {
		src = "stdin"
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return fmt.Errorf("unable to read stylesheet (%s): %w", src, err)
	}

	sheet, err := pipe.Parse(data, src)
	if err != nil {
		return err
	}
	tw := pipe.Explain(sheet, cmd.String("selector"))

	out := stdout
	if fname := cmd.Args().Get(1); len(fname) > 0 {
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer f.Close()
		out = f
	}
	if _, err := tw.WriteTo(out); err != nil {
		return fmt.Errorf("unable to write explanation: %w", err)
	}
	log.Debug("Explanation written", zap.String("source", src))
	return nil
}

// Explain renders decomposition and decisions for rules of the sheet. When
// selector is not empty only rules listing it are included.
func (p *Pipeline) Explain(sheet *css.Stylesheet, selector string) *debug.TreeWriter {
	tw := debug.NewTreeWriter()
	selector = strings.TrimSpace(selector)

	for _, rule := range sheet.Rules() {
		if len(selector) > 0 && !slices.Contains(rule.Selectors, selector) {
			continue
		}
		tw.Line(0, "rule %s [%s]", rule.SelectorText(), rule.Position)

		tw.Line(1, "declarations")
		for i := range rule.Declarations {
			p.explainDeclaration(tw, 2, &rule.Declarations[i])
		}

		list, decisions := p.engine.Trace(rule.Declarations)
		if len(decisions) > 0 {
			tw.Line(1, "decisions")
			for _, d := range decisions {
				tw.Line(2, "%s %s by %s", d.Action, d.Declaration, d.By)
			}
		}
		result := &css.Rule{Declarations: properties.Live(list)}
		tw.TextBlock(1, "result", result.BodyText())
	}
	return tw
}

func (p *Pipeline) explainDeclaration(tw *debug.TreeWriter, depth int, d *properties.Declaration) {
	tw.Line(depth, "%s", d.String())
	if d.Hack.Kind != properties.HackNone {
		tw.Value(depth+1, "hack", d.Hack.Kind.String())
	}
	if d.Block {
		tw.Value(depth+1, "block", fmt.Sprintf("%d declarations", len(d.Nested)))
		return
	}

	desc, ok := p.engine.Table().Lookup(d.NameRoot)
	if !ok {
		tw.Value(depth+1, "descriptor", "unknown")
		return
	}
	tw.Value(depth+1, "family", desc.Family.String())
	if len(desc.Default) > 0 {
		tw.Value(depth+1, "default", strings.Join(desc.Default, " "))
	}
	if !desc.Shorthand() {
		return
	}

	comps, err := p.engine.BreakUp(d)
	if err != nil {
		tw.Value(depth+1, "components", err.Error())
		return
	}
	tw.Line(depth+1, "components")
	p.explainComponents(tw, depth+2, comps)
}

func (p *Pipeline) explainComponents(tw *debug.TreeWriter, depth int, comps []properties.Declaration) {
	for i := range comps {
		c := &comps[i]
		mark := ""
		if desc, ok := p.engine.Table().Lookup(c.NameRoot); ok && desc.IsDefault(c.Value) {
			mark = " (default)"
		}
		tw.Line(depth, "%s%s", c.String(), mark)
		p.explainComponents(tw, depth+1, c.Components)
	}
}

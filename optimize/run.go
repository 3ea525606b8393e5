// Package optimize drives stylesheet optimization from the command line.
package optimize

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"cssopt/archive"
	"cssopt/common"
	"cssopt/config"
	"cssopt/state"
)

// stdin marker for SOURCE argument
const stdinName = "-"

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("optimize")

	if err := configure(env, cmd, log); err != nil {
		return err
	}

	pipe, err := NewPipeline(env.Cfg, env.Charset, log)
	if err != nil {
		return err
	}

	src := cmd.Args().Get(0)
	if len(src) == 0 || src == stdinName {
		log.Debug("Reading stylesheet from STDIN")
		env.ToStdout = true
		return processStylesheet(ctx, stdin, "stdin.css", "", pipe, log)
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", pipe.Format()))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, pipe, log)
}

// Flags lists command line options shared by optimize and explain.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "compat", Usage: "compatibility `PROFILE`: preset (" + strings.Join(common.CompatibilityNames(), ", ") +
			") optionally followed by flag overrides, for example \"ie8,+properties.merging,-units.rem\""},
		&cli.IntFlag{Name: "level", Aliases: []string{"O"}, Usage: "optimization `LEVEL`: 0 - none, 1 - properties, 2 - properties and rules"},
		&cli.StringFlag{Name: "format", Usage: "output `FORMAT` (supported formats: " + strings.Join(common.OutputFormatNames(), ", ") + ")"},
		&cli.BoolFlag{Name: "minify", Usage: "additionally shorten numbers, colors and whitespace in compact output"},
		&cli.StringFlag{Name: "charset", Usage: "force input `ENCODING` instead of detecting it from BOM or @charset (see IANA.org for character set names)"},
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exits, overwrite files"},
		&cli.BoolFlag{Name: "stdout", Usage: "write results to STDOUT instead of files"},
		&cli.StringFlag{Name: "force-zip-cp",
			Usage: "Force `ENCODING` for ALL non UTF-8 file names in processed archives (see IANA.org for character set names)"},
	}
}

// configure superimposes command line flags on loaded configuration.
func configure(env *state.LocalEnv, cmd *cli.Command, log *zap.Logger) error {
	cfg := env.Cfg

	if spec := cmd.String("compat"); len(spec) > 0 {
		preset, overrides, _ := strings.Cut(spec, ",")
		if preset == "*" {
			preset = common.CompatibilityAll.String()
		}
		c, err := common.ParseCompatibility(strings.TrimSpace(preset))
		if err != nil {
			return fmt.Errorf("bad compatibility specification %q: %w", spec, err)
		}
		cfg.Compatibility.Preset = c
		if len(overrides) > 0 {
			for o := range strings.SplitSeq(overrides, ",") {
				if o = strings.TrimSpace(o); len(o) > 0 {
					cfg.Compatibility.Overrides = append(cfg.Compatibility.Overrides, o)
				}
			}
		}
		if _, err := cfg.Compatibility.Profile(); err != nil {
			return err
		}
	}

	if cmd.IsSet("level") {
		level := int(cmd.Int("level"))
		if level < config.LevelNone || level > config.LevelRestructure {
			return fmt.Errorf("optimization level must be between %d and %d, got %d", config.LevelNone, config.LevelRestructure, level)
		}
		cfg.Optimization.Level = level
	}

	if name := cmd.String("format"); len(name) > 0 {
		format, err := common.ParseOutputFormat(name)
		if err != nil {
			log.Warn("Unknown output format requested, switching to compact", zap.Error(err))
			format = common.OutputFormatCompact
		}
		cfg.Output.Format = format
	}
	if cmd.Bool("minify") {
		cfg.Output.MinifyWhitespace = true
	}

	env.Overwrite, env.ToStdout = cmd.Bool("overwrite"), cmd.Bool("stdout")

	name := cfg.Output.Charset
	if cs := cmd.String("charset"); len(cs) > 0 {
		name = cs
	}
	if len(name) > 0 {
		enc, err := LookupCharset(name)
		if err != nil {
			return fmt.Errorf("unknown input character set %q: %w", name, err)
		}
		env.Charset = enc
		log.Debug("Forcing input encoding", zap.String("charset", name))
	}

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		enc, err := ianaindex.IANA.Encoding(cp)
		if err != nil || enc == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			env.CodePage = enc
			n, _ := ianaindex.IANA.Name(enc)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}
	return nil
}

// process figures out whether source is a directory, an archive (possibly
// with path inside it) or a single stylesheet.
func process(ctx context.Context, src, dst string, pipe *Pipeline, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, pipe, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, head, filepath.ToSlash(tail), "", dst, pipe, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		if len(tail) != 0 {
			return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}
		// any regular file given explicitly is treated as stylesheet
		file, err := os.Open(head)
		if err != nil {
			return fmt.Errorf("unable to open stylesheet: %w", err)
		}
		defer file.Close()
		if err := processStylesheet(ctx, file, filepath.Base(head), dst, pipe, log); err != nil {
			log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
		}
		break
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree finding stylesheets and archives and
// processes them in natural name order.
func processDir(ctx context.Context, dir, dst string, pipe *Pipeline, log *zap.Logger) (err error) {
	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slices.SortStableFunc(paths, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})

	count := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		if isStylesheetFile(path) {
			count++
			if err := processFile(ctx, path, rel, dst, pipe, log); err != nil {
				log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			}
			continue
		}

		isArchive, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if !isArchive {
			log.Debug("Skipping file, not recognized as stylesheet or archive", zap.String("file", path))
			continue
		}
		count++
		if err := processArchive(ctx, path, "", filepath.Dir(rel), dst, pipe, log); err != nil {
			log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
		}
	}
	if count == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return nil
}

func processFile(ctx context.Context, path, rel, dst string, pipe *Pipeline, log *zap.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return processStylesheet(ctx, file, rel, dst, pipe, log)
}

// processArchive walks stylesheets inside archive under "pathIn".
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, pipe *Pipeline, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	cp := state.EnvFromContext(ctx).CodePage

	return archive.Walk(path, pathIn, func(name string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++

		r, err := f.Open()
		if err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", name), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		pathInArchive := f.FileHeader.Name
		if cp != nil && f.FileHeader.NonUTF8 {
			// forcing zip file name encoding
			if n, err := cp.NewDecoder().String(pathInArchive); err == nil {
				pathInArchive = n
			} else {
				n, _ = ianaindex.IANA.Name(cp)
				log.Warn("Unable to convert archive name from specified encoding",
					zap.String("charset", n), zap.String("path", pathInArchive), zap.Error(err))
			}
		}
		if err := processStylesheet(ctx, r, filepath.Join(pathOut, filepath.FromSlash(pathInArchive)), dst, pipe, log); err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", name), zap.String("file", f.FileHeader.Name), zap.Error(err))
		}
		return nil
	}, stylesheetExt)
}

// processStylesheet optimizes single stylesheet. "src" is source name
// relative to the processed directory or archive, it determines output name
// under "dst".
func processStylesheet(ctx context.Context, r io.Reader, src, dst string, pipe *Pipeline, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var (
		outputName = "STDOUT"
		st         Stats
	)

	log.Info("Optimization starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Optimization ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("optimization panic: %v", r)
		} else if rerr == nil {
			log.Info("Optimization completed",
				zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName),
				zap.Int("original", st.OriginalSize), zap.Int("optimized", st.OptimizedSize),
				zap.String("efficiency", fmt.Sprintf("%.2f%%", st.Efficiency()*100)))
		}
	}(time.Now())

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet (%s): %w", src, err)
	}

	var out []byte
	if out, st, err = pipe.Optimize(data, src); err != nil {
		return err
	}
	log.Debug("Stylesheet statistics",
		zap.Int("rules_in", st.RulesIn), zap.Int("rules_out", st.RulesOut),
		zap.Int("declarations_in", st.DeclarationsIn), zap.Int("declarations_out", st.DeclarationsOut),
		zap.Int("duplicates", st.DuplicateRules), zap.Int("merged", st.MergedRules), zap.Int("warnings", st.Warnings))

	if env.ToStdout {
		if _, err := stdout.Write(out); err != nil {
			return fmt.Errorf("unable to write result: %w", err)
		}
		env.Rpt.StoreData(fmt.Sprintf("result-%d%s", time.Now().UnixNano(), pipe.Format().Ext()), out)
		return nil
	}

	outputName = outputPath(src, dst, pipe.Format().Ext())
	if err := prepareOutput(outputName, env.Overwrite, log); err != nil {
		return err
	}
	if err := os.WriteFile(outputName, out, 0644); err != nil {
		return fmt.Errorf("unable to write result: %w", err)
	}

	// Store optimization result for debugging
	if err := env.Rpt.StoreCopy("result/"+filepath.ToSlash(filepath.Base(outputName)), outputName); err != nil {
		log.Warn("Unable to store result in report", zap.Error(err))
	}
	return nil
}

// prepareOutput makes sure output file may be created.
func prepareOutput(name string, overwrite bool, log *zap.Logger) error {
	_, err := os.Stat(name)
	switch {
	case err == nil:
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		log.Warn("Overwriting existing file", zap.String("file", name))
		return os.Remove(name)
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

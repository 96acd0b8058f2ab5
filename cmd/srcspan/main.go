// Command srcspan is the CLI front end over internal/srcmap and
// internal/sourcemap: it registers files on disk into a SourceMap, answers
// byte-offset location queries against it, and emits version-3 source maps
// from a simple JSON mapping list. Modeled on standardbeagle-lci's
// cmd/lci/main.go use of github.com/urfave/cli/v2, with the logging and
// config wiring this module adds in internal/obslog and internal/config.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/srcspan/srcspan/internal/config"
	"github.com/srcspan/srcspan/internal/fileloader"
	"github.com/srcspan/srcspan/internal/obslog"
	"github.com/srcspan/srcspan/internal/sourcemap"
	"github.com/srcspan/srcspan/internal/span"
	"github.com/srcspan/srcspan/internal/srcfile"
	"github.com/srcspan/srcspan/internal/srcmap"
)

func main() {
	app := &cli.App{
		Name:  "srcspan",
		Usage: "inspect and emit source maps over an interned set of source files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a srcspan.toml settings file",
			},
			&cli.BoolFlag{
				Name:  "dev",
				Usage: "use human-readable development logging instead of JSON",
			},
		},
		Before: func(c *cli.Context) error {
			return obslog.Init(c.Bool("dev"))
		},
		After: func(*cli.Context) error {
			_ = obslog.Sync()
			return nil
		},
		Commands: []*cli.Command{
			locateCommand,
			emitCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "srcspan:", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newSourceMap(c *cli.Context) (*srcmap.SourceMap, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	log := obslog.Named("srcmap")
	return srcmap.New(fileloader.OSLoader{}, cfg.PathMapTable(), log), cfg, nil
}

var locateCommand = &cli.Command{
	Name:      "locate",
	Usage:     "resolve a byte offset within a file to a line, column, and snippet",
	ArgsUsage: "<file> <byte-offset>",
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 2 {
			return cli.Exit("usage: srcspan locate <file> <byte-offset>", 1)
		}
		path := c.Args().Get(0)
		var offset uint32
		if _, err := fmt.Sscanf(c.Args().Get(1), "%d", &offset); err != nil {
			return cli.Exit(fmt.Sprintf("invalid byte offset %q", c.Args().Get(1)), 1)
		}

		sm, _, err := newSourceMap(c)
		if err != nil {
			return err
		}
		file, err := sm.LoadFile(path)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		pos := file.StartPos + span.BytePos(offset)
		loc, err := sm.LookupCharPos(pos)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		// The snippet is the text of the line containing pos, without its
		// trailing newline.
		analysis := file.Analysis()
		lineIdx := srcmap.LineIndexForBytePos(file, pos)
		lineEnd := file.EndPos
		if lineIdx+1 < len(analysis.LineStarts) {
			lineEnd = analysis.LineStarts[lineIdx+1] - 1
		}
		snippet, _ := sm.SpanToSnippet(span.Span{Lo: analysis.LineStarts[lineIdx], Hi: lineEnd})
		fmt.Fprintf(c.App.Writer, "%s:%d:%d (display col %d)\n", loc.File, loc.Line, loc.Col, loc.ColDisplay)
		if snippet != "" {
			fmt.Fprintln(c.App.Writer, snippet)
		}
		return nil
	},
}

// emitMapping is the on-disk JSON shape emitCommand reads: one entry per
// generated (line, column) paired with the file it came from and the byte
// offset within that file.
type emitMapping struct {
	GeneratedLine   int    `json:"generatedLine"`
	GeneratedColumn int    `json:"generatedColumn"`
	File            string `json:"file"`
	ByteOffset      int    `json:"byteOffset"`
}

var emitCommand = &cli.Command{
	Name:      "emit",
	Usage:     "emit a version-3 source map from a JSON list of generated/source mappings",
	ArgsUsage: "<mappings.json>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "out", Usage: "output path; defaults to stdout"},
	},
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 1 {
			return cli.Exit("usage: srcspan emit <mappings.json>", 1)
		}

		raw, err := os.ReadFile(c.Args().Get(0))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		var entries []emitMapping
		if err := json.Unmarshal(raw, &entries); err != nil {
			return cli.Exit(fmt.Sprintf("parse mappings: %v", err), 1)
		}

		sm, cfg, err := newSourceMap(c)
		if err != nil {
			return err
		}

		registered := make(map[string]*srcfile.SourceFile)
		var inputs []sourcemap.InputMapping
		for _, e := range entries {
			file, ok := registered[e.File]
			if !ok {
				file, err = sm.LoadFile(e.File)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				registered[e.File] = file
			}
			inputs = append(inputs, sourcemap.InputMapping{
				Generated: span.LineCol{Line: e.GeneratedLine, Col: e.GeneratedColumn},
				Source:    file.StartPos + span.BytePos(e.ByteOffset),
			})
		}

		sm.WarmAnalysis()

		out, err := sourcemap.Generate(sm, inputs, sourcemap.GenerationConfig{
			EmitColumns:          func(string) bool { return cfg.SourceMap.EmitColumns },
			InlineSourcesContent: func(string) bool { return cfg.SourceMap.InlineSourcesContent },
			IgnoreList:           cfg.MatchesIgnoreList,
			Skip:                 cfg.MatchesSkip,
		})
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		data := out.JSON(false)
		if outPath := c.String("out"); outPath != "" {
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		}
		fmt.Fprintln(c.App.Writer, string(data))
		return nil
	},
}

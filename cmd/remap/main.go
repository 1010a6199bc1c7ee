package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/standardbeagle/remap/internal/config"
	"github.com/standardbeagle/remap/internal/debug"
	"github.com/standardbeagle/remap/internal/display"
	"github.com/standardbeagle/remap/internal/matcher"
	"github.com/standardbeagle/remap/internal/snapshot"
	"github.com/standardbeagle/remap/internal/types"
	"github.com/standardbeagle/remap/internal/version"

	"github.com/urfave/cli/v2"
)

var snapshotFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "old",
		Aliases:  []string{"a"},
		Usage:    "Snapshot of the previous obfuscated build (.json, .yaml)",
		Required: true,
	},
	&cli.StringFlag{
		Name:     "new",
		Aliases:  []string{"b"},
		Usage:    "Snapshot of the re-obfuscated build (.json, .yaml)",
		Required: true,
	},
	&cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, compact, json",
		Value:   "text",
	},
}

// loadConfig reads --config when given, otherwise the project files in the working directory
func loadConfig(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if include := c.StringSlice("include"); len(include) > 0 {
		cfg.Include = include
	}
	if exclude := c.StringSlice("exclude"); len(exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, exclude...)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.Debug && !c.Bool("quiet") && !debug.IsDebugEnabled() {
		enableDebug()
	}
	return cfg, nil
}

func enableDebug() {
	debug.EnableDebug = "true"
	debug.SetDebugOutput(os.Stderr)
}

// loadSession loads both snapshots and builds a matcher over them
func loadSession(c *cli.Context, cfg *config.Config) (*matcher.Matcher, error) {
	a, err := snapshot.LoadFile(c.String("old"), types.SideA)
	if err != nil {
		return nil, err
	}
	b, err := snapshot.LoadFile(c.String("new"), types.SideB)
	if err != nil {
		return nil, err
	}
	env, err := types.NewEnv(a, b)
	if err != nil {
		return nil, err
	}
	return matcher.New(env, cfg)
}

func main() {
	app := &cli.App{
		Name:                   "remap",
		Usage:                  "Carry a symbol mapping across re-obfuscated builds by structural similarity",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: .remap.kdl or .remap.toml in the working directory)",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Write debug logging to stderr",
			},
			&cli.StringSliceFlag{
				Name:  "debug-only",
				Usage: "Limit debug logging to components (rank, match, cache, load, config, watch)",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress all diagnostic output, overriding --debug and the config file",
			},
			&cli.BoolFlag{
				Name:  "debug-file",
				Usage: "Write debug logging to a file under the temp directory instead of stderr",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Only match classes whose name matches a glob (e.g., --include 'com/app/**')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Never match classes whose name matches a glob (e.g., --exclude 'kotlin/**')",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("quiet") {
				debug.SetQuietMode(true)
				return nil
			}
			debug.SetComponents(c.StringSlice("debug-only")...)
			if c.Bool("debug-file") {
				path, err := debug.InitDebugLogFile()
				if err != nil {
					return err
				}
				debug.EnableDebug = "true"
				fmt.Fprintf(os.Stderr, "debug log: %s\n", path)
				return nil
			}
			if c.Bool("debug") {
				enableDebug()
			}
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
		Commands: []*cli.Command{
			{
				Name:  "rank",
				Usage: "Rank candidates on the new side for one class, method or field of the old side",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "class",
						Usage:    "Internal class name on the old side (e.g., a/b/C)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "method",
						Aliases: []string{"m"},
						Usage:   "Method of the class as name plus descriptor (e.g., run(I)V)",
					},
					&cli.StringFlag{
						Name:  "field",
						Usage: "Field of the class as name:descriptor (e.g., count:I)",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum candidates to show, 0 = all",
						Value:   10,
					},
					&cli.BoolFlag{
						Name:  "analyzers",
						Usage: "Show per-analyzer scores under each candidate",
					},
				}, snapshotFlags...),
				Action: rankCommand,
			},
			{
				Name:   "match",
				Usage:  "Match the two snapshots and print the accepted mapping",
				Flags:  snapshotFlags,
				Action: matchCommand,
			},
			{
				Name:   "watch",
				Usage:  "Rerun match whenever either snapshot changes",
				Flags:  snapshotFlags,
				Action: watchCommand,
			},
			{
				Name:  "version",
				Usage: "Show build information",
				Action: func(c *cli.Context) error {
					fmt.Println(version.FullInfo())
					return nil
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprint(os.Stderr, debug.Fatal("%v\n", err).Error())
		stop()
		os.Exit(1)
	}
}

func rankCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	m, err := loadSession(c, cfg)
	if err != nil {
		return err
	}
	m.MatchExternals()

	r, err := rankOne(m, c.String("class"), c.String("method"), c.String("field"))
	if err != nil {
		return err
	}

	f := display.NewFormatter(display.FormatterOptions{
		Format:        c.String("format"),
		ShowAnalyzers: c.Bool("analyzers"),
		Limit:         c.Int("limit"),
	})
	fmt.Print(f.FormatRanking(r))
	return nil
}

// rankOne resolves the requested old-side entity and ranks it
func rankOne(m *matcher.Matcher, className, method, field string) (display.Ranking, error) {
	src := m.Env().A
	cls := src.Class(className)
	if cls == nil {
		return display.Ranking{}, fmt.Errorf("class %s not found in %s", className, src.Name())
	}

	switch {
	case method != "" && field != "":
		return display.Ranking{}, fmt.Errorf("--method and --field are mutually exclusive")
	case method != "":
		name, desc, ok := splitMember(method, "(", true)
		if !ok {
			return display.Ranking{}, fmt.Errorf("method %q must be name followed by a descriptor", method)
		}
		mth := cls.Method(name, desc)
		if mth == nil {
			return display.Ranking{}, fmt.Errorf("method %s.%s%s not found", className, name, desc)
		}
		return display.NewRanking(mth, m.RankMethod(mth), m.MethodWeight()), nil
	case field != "":
		name, desc, ok := splitMember(field, ":", false)
		if !ok {
			return display.Ranking{}, fmt.Errorf("field %q must be name:descriptor", field)
		}
		fld := cls.Field(name, desc)
		if fld == nil {
			return display.Ranking{}, fmt.Errorf("field %s.%s:%s not found", className, name, desc)
		}
		return display.NewRanking(fld, m.RankField(fld), m.FieldWeight()), nil
	default:
		return display.NewRanking(cls, m.RankClass(cls), m.ClassWeight()), nil
	}
}

// splitMember splits "name<sep>rest"; keepSep leaves the separator on the descriptor
func splitMember(s, sep string, keepSep bool) (name, desc string, ok bool) {
	i := strings.Index(s, sep)
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	if keepSep {
		return s[:i], s[i:], true
	}
	return s[:i], s[i+len(sep):], true
}

func matchCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	out, err := runMatch(c.Context, c, cfg)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// runMatch loads fresh groups, auto-matches them and renders the report
func runMatch(ctx context.Context, c *cli.Context, cfg *config.Config) (string, error) {
	m, err := loadSession(c, cfg)
	if err != nil {
		return "", err
	}
	rep, err := m.AutoMatch(ctx)
	if err != nil {
		return "", err
	}
	stats := m.CacheStats()
	debug.LogCache("session cache: %d hits, %d misses, %d clears\n", stats.Hits, stats.Misses, stats.Clears)

	f := display.NewFormatter(display.FormatterOptions{Format: c.String("format")})
	return f.FormatReport(rep), nil
}

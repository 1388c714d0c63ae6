package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/pyscope/internal/config"
)

var Version = "0.1.0"

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")

	// If root is specified and config path is default, look for config in root directory
	if rootFlag := c.String("root"); rootFlag != "" && configPath == config.DefaultConfigFile {
		configPath = filepath.Join(rootFlag, config.DefaultConfigFile)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Analysis.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Analysis.Exclude = append(cfg.Analysis.Exclude, excludeFlags...)
	}
	if workers := c.Int("workers"); workers > 0 {
		cfg.Analysis.Workers = workers
	}
	if rootFlag := c.String("root"); rootFlag != "" {
		absRoot, err := filepath.Abs(rootFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", rootFlag, err)
		}
		cfg.Project.Root = absRoot
	}
	if cfg.Project.Root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg.Project.Root = cwd
	}

	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:                   "pyscope",
		Usage:                  "Static analysis for Python codebases: symbols, metrics, dependencies",
		Version:                Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   config.DefaultConfigFile,
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory to analyze (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns (e.g., --include 'src/**/*.py')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/migrations/**')",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Parallel extraction workers (0 = one per CPU)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "analyze",
				Aliases: []string{"a"},
				Usage:   "Analyze the whole project: dependency graph, cycles, coupling",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: json, markdown, text, dot",
						Value:   "text",
					},
				},
				Action: analyzeCommand,
			},
			{
				Name:      "extract",
				Aliases:   []string{"x"},
				Usage:     "Extract the symbol model of one Python file as JSON",
				ArgsUsage: "<file.py>",
				Action:    extractCommand,
			},
			{
				Name:      "metrics",
				Aliases:   []string{"m"},
				Usage:     "Compute quality metrics for one Python file",
				ArgsUsage: "<file.py>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: json, text",
						Value:   "text",
					},
				},
				Action: metricsCommand,
			},
			{
				Name:      "docs",
				Aliases:   []string{"d"},
				Usage:     "Generate function documentation for one Python file",
				ArgsUsage: "<file.py>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: markdown, rst, json",
						Value:   "markdown",
					},
				},
				Action: docsCommand,
			},
			{
				Name:      "scan-js",
				Usage:     "Outline a JavaScript/TypeScript file (heuristic)",
				ArgsUsage: "<file.js>",
				Action:    scanJSCommand,
			},
			{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Re-analyze the project whenever Python files change",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format per run: json, markdown, text",
						Value:   "text",
					},
				},
				Action: watchCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

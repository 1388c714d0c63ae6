package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/pyscope/internal/analysis"
	"github.com/standardbeagle/pyscope/internal/docs"
	"github.com/standardbeagle/pyscope/internal/graph"
	"github.com/standardbeagle/pyscope/internal/jsscan"
	"github.com/standardbeagle/pyscope/internal/parser"
	"github.com/standardbeagle/pyscope/internal/types"
	"github.com/standardbeagle/pyscope/internal/watch"
)

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func renderReport(report *types.ProjectReport, format string) error {
	switch format {
	case "json":
		return printJSON(report)
	case "markdown":
		fmt.Print(graph.RenderMarkdown(report))
	case "dot":
		fmt.Print(graph.RenderDOT(report))
	case "text":
		fmt.Print(graph.RenderText(report))
	default:
		return fmt.Errorf("unknown format %q (want json, markdown, text or dot)", format)
	}
	return nil
}

func analyzeCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	mapper, err := graph.NewMapper(cfg)
	if err != nil {
		return err
	}

	report, err := mapper.AnalyzeProject(c.Context, cfg.Project.Root)
	if err != nil {
		return err
	}
	return renderReport(report, c.String("format"))
}

// singleFileModule extracts one file named on the command line.
func singleFileModule(c *cli.Context) (*types.ModuleInfo, []byte, error) {
	if c.NArg() != 1 {
		return nil, nil, fmt.Errorf("expected exactly one file argument")
	}
	path := c.Args().First()

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	extractor, err := parser.NewExtractor()
	if err != nil {
		return nil, nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), ".py")
	mod, err := extractor.ExtractModule(content, path, name)
	if err != nil {
		return nil, nil, err
	}
	return mod, content, nil
}

func extractCommand(c *cli.Context) error {
	mod, _, err := singleFileModule(c)
	if err != nil {
		return err
	}
	return printJSON(mod)
}

func metricsCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	mod, content, err := singleFileModule(c)
	if err != nil {
		return err
	}

	analyzer, err := analysis.NewAnalyzer(cfg.Thresholds)
	if err != nil {
		return err
	}
	bundle := analyzer.AnalyzeMetrics(mod, content)

	switch c.String("format") {
	case "json":
		return printJSON(bundle)
	case "text":
		printMetricsText(mod, bundle)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json or text)", c.String("format"))
	}
}

func printMetricsText(mod *types.ModuleInfo, bundle *analysis.MetricsBundle) {
	fmt.Printf("%s\n", mod.Path)
	fmt.Printf("  lines: %d total, %d code, %d comment, %d blank\n",
		bundle.Lines.Total, bundle.Lines.Code, bundle.Lines.Comment, bundle.Lines.Blank)
	fmt.Printf("  cyclomatic: %d (%s), cognitive: %d, max nesting: %d\n",
		mod.Complexity.Cyclomatic, mod.Complexity.Level,
		mod.Complexity.Cognitive, mod.Complexity.MaxNesting)
	fmt.Printf("  maintainability: %.2f, docstrings: %.1f%% functions, %.1f%% classes\n",
		bundle.Maintainability, bundle.DocstringCoverage.Functions, bundle.DocstringCoverage.Classes)

	for _, smell := range bundle.Smells {
		fmt.Printf("  smell: %s %s line %d (%d > %d)\n",
			smell.Kind, smell.Name, smell.Line, smell.Value, smell.Threshold)
	}
	for _, v := range bundle.NamingViolations {
		fmt.Printf("  naming: %s %s line %d\n", v.Kind, v.Name, v.Line)
	}
	for _, dup := range bundle.Duplicates {
		fmt.Printf("  duplicate: %q on lines %v\n", dup.Content, dup.Lines)
	}
	if len(bundle.Lines.LongLines) > 0 {
		fmt.Printf("  long lines: %v\n", bundle.Lines.LongLines)
	}
}

func docsCommand(c *cli.Context) error {
	mod, _, err := singleFileModule(c)
	if err != nil {
		return err
	}
	moduleDocs := docs.BuildModuleDocs(mod)

	switch c.String("format") {
	case "json":
		return printJSON(moduleDocs)
	case "rst":
		fmt.Print(docs.RenderRST(moduleDocs))
	case "markdown":
		fmt.Print(docs.RenderMarkdown(moduleDocs))
	default:
		return fmt.Errorf("unknown format %q (want markdown, rst or json)", c.String("format"))
	}
	return nil
}

func scanJSCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}
	path := c.Args().First()
	if !jsscan.IsScannable(path) {
		return fmt.Errorf("%s does not look like a JavaScript or TypeScript file", path)
	}

	structure, err := jsscan.ScanFile(path)
	if err != nil {
		return err
	}
	return printJSON(structure)
}

func watchCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	format := c.String("format")
	if format == "dot" {
		return fmt.Errorf("dot output is not supported in watch mode")
	}

	mapper, err := graph.NewMapper(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	runOnce := func() {
		report, err := mapper.AnalyzeProject(ctx, cfg.Project.Root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
			return
		}
		if err := renderReport(report, format); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
	}
	runOnce()

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	watcher, err := watch.New(cfg.Project.Root, debounce, func(paths []string) {
		for _, rel := range paths {
			mapper.InvalidateFile(filepath.Join(cfg.Project.Root, rel))
		}
		fmt.Printf("\n-- %d file(s) changed, re-analyzing --\n", len(paths))
		runOnce()
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Close()

	fmt.Fprintf(os.Stderr, "watching %s (Ctrl-C to stop)\n", cfg.Project.Root)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
	case <-ctx.Done():
	}
	return nil
}

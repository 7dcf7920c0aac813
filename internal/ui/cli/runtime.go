package cli

import (
	"ccheck/internal/core/config"
	"ccheck/internal/core/errors"
	"ccheck/internal/engine/parser"
	"ccheck/internal/engine/report"
	"ccheck/internal/engine/rules"
	"ccheck/internal/engine/source"
	"ccheck/internal/shared/observability"
	"ccheck/internal/ui/report/formats"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type runtime struct {
	stdout io.Writer
	stderr io.Writer
	styled bool
}

// analyze runs the whole pipeline for one file. Nothing is written to stdout
// until parsing and every rule have succeeded.
func (rt runtime) analyze(ctx context.Context, file string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to detect working directory")
	}

	cfg, cfgPath, err := config.Resolve(cwd)
	if err != nil {
		return err
	}
	configureLogging(rt.stderr, cfg.Log.Level)
	if cfgPath != "" {
		slog.Debug("loaded config", "path", cfgPath)
	}

	shutdown, err := observability.InitTracing(ctx, cfg.Observability.TracingEndpoint())
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to initialize tracing")
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	paths, err := config.ResolvePaths(cfg, cwd, file)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to resolve output paths")
	}

	deny, err := denyList(cfg)
	if err != nil {
		return err
	}

	unit, err := parser.NewParser().ParseFile(ctx, file)
	if err != nil {
		return err
	}

	engine := rules.NewEngine(
		rules.Options{Parallel: cfg.Analysis.Parallel},
		rules.DefaultRules(rules.Dependencies{Lines: source.NewResolver(), DenyList: deny})...,
	)
	reporter := report.NewReporter(rules.Order)
	if err := engine.Run(ctx, unit, reporter); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "analysis interrupted")
	}
	rep, err := reporter.Report(file)
	if err != nil {
		return err
	}
	slog.Debug("analysis finished", "file", file, "findings", rep.Total())

	// A SARIF or JSON document on stdout must stay parseable, so it never
	// shares the stream with the dump.
	documentOnStdout := cfg.Output.Format != config.FormatText && paths.ReportPath == ""
	if cfg.Output.ShouldDumpAST() && documentOnStdout {
		slog.Debug("syntax tree dump skipped", "format", cfg.Output.Format)
	} else if cfg.Output.ShouldDumpAST() {
		if err := formats.WriteASTDump(rt.stdout, unit); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "failed to write syntax tree")
		}
	}
	if err := rt.writeReport(cfg.Output.Format, paths, rep); err != nil {
		return err
	}

	if paths.MetricsTextfile != "" {
		if err := observability.WriteTextfile(paths.MetricsTextfile); err != nil {
			slog.Warn("failed to write metrics textfile", "path", paths.MetricsTextfile, "error", err)
		}
	}
	return nil
}

// writeReport prints the text listing, or the SARIF/JSON document when no
// report file is configured. A configured report file gets the document and
// stdout keeps the listing.
func (rt runtime) writeReport(format string, paths config.ResolvedPaths, rep report.Report) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case config.FormatSARIF:
		data, err = formats.GenerateSARIF(paths.ProjectRoot, rep)
	case config.FormatJSON:
		data, err = formats.GenerateJSON(rep)
	}
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, fmt.Sprintf("failed to render %s report", format))
	}

	if data != nil && paths.ReportPath == "" {
		if _, err := fmt.Fprintln(rt.stdout, string(data)); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "failed to write report")
		}
		return nil
	}

	if err := formats.WriteText(rt.stdout, rep, formats.TextOptions{Styled: rt.styled}); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to write report")
	}
	if data == nil {
		return nil
	}
	if err := writeFile(paths.ReportPath, data); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, fmt.Sprintf("failed to write %s report", format)), errors.CtxPath, paths.ReportPath)
	}
	slog.Info("report written", "format", format, "path", paths.ReportPath)
	return nil
}

func denyList(cfg *config.Config) (*rules.DenyList, error) {
	if len(cfg.Rules.UnsafeFunctions) == 0 {
		return rules.DefaultDenyList(), nil
	}
	return rules.NewDenyList(cfg.Rules.UnsafeFunctions)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// configureLogging sends structured logs to w, which is stderr in
// production; stdout carries only the dump and the report.
func configureLogging(w io.Writer, level string) {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}

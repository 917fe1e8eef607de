package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-maxsubmit/internal/config"
	"github.com/goliatone/go-maxsubmit/pkg/confirm"
	"github.com/goliatone/go-maxsubmit/pkg/dom"
	"github.com/goliatone/go-maxsubmit/pkg/maxsubmit"
	"github.com/goliatone/go-maxsubmit/pkg/openapi"
	"github.com/goliatone/go-maxsubmit/pkg/report"
)

// errCancelled marks runs where at least one submit was declined or a static
// estimate exceeded its limit.
var errCancelled = errors.New("submission cancelled")

type options struct {
	configPath string
	maxCount   int
	message    string
	radioScope string
	formID     string
	assumeYes  bool
	format     string
	output     string
	openapi    string
	operation  string
	arrayItems int
	verbose    bool
	files      []string
}

func main() {
	opts := parseFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := run(ctx, opts, os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, errCancelled):
		os.Exit(1)
	default:
		slog.ErrorContext(ctx, "maxsubmit failed", slog.Any("error", err))
		os.Exit(2)
	}
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "JSON or YAML configuration file")
	flag.IntVar(&opts.maxCount, "max", 0, "maximum parameter count (default 1000)")
	flag.StringVar(&opts.message, "message", "", "exceeded message; supports {max_count} and {form_count}")
	flag.StringVar(&opts.radioScope, "radio-scope", "", "radio group lookup scope: form or document")
	flag.StringVar(&opts.formID, "form", "", "only check the form with this id or name")
	flag.BoolVar(&opts.assumeYes, "yes", false, "answer yes to every confirmation")
	flag.StringVar(&opts.format, "format", "text", "report format: text, json or html")
	flag.StringVar(&opts.output, "output", "", "report file (stdout if empty)")
	flag.StringVar(&opts.openapi, "openapi", "", "OpenAPI document path or URL to estimate statically")
	flag.StringVar(&opts.operation, "operation", "", "operation id (or method:path) used with -openapi")
	flag.IntVar(&opts.arrayItems, "array-items", 1, "items assumed for OpenAPI arrays without maxItems")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] page.html...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	opts.files = flag.Args()
	return opts
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if len(opts.files) == 0 && opts.openapi == "" {
		return errors.New("nothing to check: pass HTML files or -openapi")
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	level := cfg.Env.LogLevel
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	cfg.Logger = logger
	for _, warning := range cfg.Warnings() {
		logger.Warn("ignoring malformed configuration", "error", warning)
	}

	var prompter confirm.Prompter = confirm.NewSurvey(
		confirm.WithAskOptions(survey.WithStdio(os.Stdin, os.Stderr, os.Stderr)),
	)
	if opts.assumeYes || cfg.AssumeYes() {
		prompter = confirm.Static(true)
	}

	checker := &checker{
		cfg:      cfg,
		opts:     opts,
		prompter: prompter,
		binder:   maxsubmit.NewBinder(logger),
		logger:   logger,
	}

	var results []report.Result
	for _, path := range opts.files {
		fileResults, err := checker.checkPage(ctx, path)
		if err != nil {
			return err
		}
		results = append(results, fileResults...)
	}
	if opts.openapi != "" {
		result, err := checker.estimate(ctx)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	out := stdout
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer file.Close()
		out = file
	}
	if err := report.Write(out, format, results); err != nil {
		return err
	}

	if checker.failed {
		return errCancelled
	}
	return nil
}

type checker struct {
	cfg      *config.Config
	opts     options
	prompter confirm.Prompter
	binder   *maxsubmit.Binder
	logger   *slog.Logger
	failed   bool
}

// guardConfig resolves configuration for form: file and environment first,
// then command-line flags.
func (c *checker) guardConfig(form *dom.Form) (maxsubmit.Config, error) {
	resolved, err := c.cfg.ForForm(form)
	if err != nil {
		return maxsubmit.Config{}, err
	}
	resolved = resolved.Merge(maxsubmit.Config{
		MaxCount:        c.opts.maxCount,
		ExceededMessage: c.opts.message,
	})
	if strings.TrimSpace(c.opts.radioScope) != "" {
		scope, err := maxsubmit.ParseRadioScope(c.opts.radioScope)
		if err != nil {
			return maxsubmit.Config{}, err
		}
		resolved.RadioScope = scope
	}
	resolved.Prompter = c.prompter
	return resolved, nil
}

func (c *checker) checkPage(ctx context.Context, path string) ([]report.Result, error) {
	doc, err := dom.ParseFile(path)
	if err != nil {
		return nil, err
	}

	forms := doc.Forms()
	if c.opts.formID != "" {
		form, ok := doc.FormByID(c.opts.formID)
		if !ok {
			c.logger.WarnContext(ctx, "form not found", slog.String("file", path), slog.String("form", c.opts.formID))
			return nil, nil
		}
		forms = []*dom.Form{form}
	}

	var results []report.Result
	for _, form := range forms {
		cfg, err := c.guardConfig(form)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(form.Method, "get") {
			c.logger.DebugContext(ctx, "GET form, query string limits are not checked", slog.String("form", form.Label()))
		}

		c.binder.Attach(form, cfg)
		guards := c.binder.Guards(form)
		outcome := c.binder.Submit(ctx, form)
		if outcome.Prevented {
			c.failed = true
		}
		for i, decision := range outcome.Decisions {
			message := guards[i].Message(decision.Count)
			results = append(results, report.FromDecision(path, form.Label(), decision, message))
		}
	}
	return results, nil
}

func (c *checker) estimate(ctx context.Context) (report.Result, error) {
	src, err := openapi.ParseSource(c.opts.openapi)
	if err != nil {
		return report.Result{}, err
	}
	est, err := openapi.NewEstimator(openapi.WithArrayItems(c.opts.arrayItems)).Estimate(ctx, src, c.opts.operation)
	if err != nil {
		return report.Result{}, err
	}

	cfg, err := c.guardConfig(&dom.Form{ID: est.OperationID})
	if err != nil {
		return report.Result{}, err
	}
	cfg = cfg.WithDefaults()

	decision := maxsubmit.Decision{
		Verdict: maxsubmit.Allowed,
		Tally:   est.Tally,
		Count:   est.Total(),
		Max:     cfg.MaxCount,
	}
	result := report.FromDecision(src.Location(), est.Method+" "+est.Path, decision,
		maxsubmit.RenderMessage(cfg.ExceededMessage, decision.Max, decision.Count))
	if decision.Exceeded() {
		result.Verdict = "exceeded"
		c.failed = true
	}
	c.logger.InfoContext(ctx, "estimated operation",
		slog.String("operation", c.opts.operation),
		slog.Int("count", decision.Count),
		slog.Int("max", decision.Max),
	)
	return result, nil
}

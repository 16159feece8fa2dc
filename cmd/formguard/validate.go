package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	formguard "github.com/goliatone/go-formguard"
	"github.com/goliatone/go-formguard/internal/watch"
	"github.com/goliatone/go-formguard/pkg/metrics"
	"github.com/goliatone/go-formguard/pkg/validator"
)

func (a *app) validateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate the form inside an HTML page",
		Description: `Parses an HTML page, applies a form definition to it and runs one
validation pass. The outcome is printed as JSON or YAML; the exit code is 1
when the form is invalid.

# Examples

Validate against the bundled registration form:
  formguard validate --page forms/registration.html

Use a custom definition and keep the annotated page:
  formguard validate --page signup.html --config signup.yaml --output-html out.html

Re-validate whenever the page or the definition changes:
  formguard validate --page signup.html --config signup.yaml --watch --metrics-addr :9090`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "page",
				Aliases:  []string{"p"},
				Required: true,
				Usage:    "Path to the HTML page containing the form",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML or JSON form definition (default: bundled form)",
			},
			&cli.StringFlag{
				Name:  "form",
				Value: "registration",
				Usage: "Bundled form name, used when --config is not set",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: formatJSON,
				Usage: "Output format (json, yaml)",
			},
			&cli.StringFlag{
				Name:  "output-html",
				Usage: "Write the page with states and messages applied to this path",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Re-validate when the page or definition changes",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Value: watch.DefaultDebounce,
				Usage: "Quiet period before a change triggers validation (with --watch)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address (with --watch)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseFormat(cmd)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			collector, err := metrics.New(metrics.WithRegisterer(reg))
			if err != nil {
				return err
			}

			run := validateRun{
				page:       cmd.String("page"),
				config:     cmd.String("config"),
				formName:   cmd.String("form"),
				format:     format,
				outputHTML: cmd.String("output-html"),
				out:        outWriter(cmd),
				logger:     a.logger,
				collector:  collector,
			}

			if !cmd.Bool("watch") {
				valid, err := run.once()
				if err != nil {
					return err
				}
				if !valid {
					return cli.Exit("", 1)
				}
				return nil
			}

			if addr := cmd.String("metrics-addr"); addr != "" {
				stop := serveMetrics(addr, reg, a.logger)
				defer stop()
			}
			return run.watch(ctx, cmd.Duration("debounce"))
		},
	}
}

type validateRun struct {
	page       string
	config     string
	formName   string
	format     string
	outputHTML string
	out        io.Writer
	logger     *slog.Logger
	collector  *metrics.Collector
}

func (r validateRun) once() (bool, error) {
	form, err := formguard.LoadForm(r.config, r.formName)
	if err != nil {
		return false, err
	}
	page, err := os.ReadFile(r.page)
	if err != nil {
		return false, fmt.Errorf("read page: %w", err)
	}

	report, err := formguard.ValidateHTML(bytes.NewReader(page), form,
		formguard.WithLogger(r.logger),
		formguard.WithValidatorOptions(validator.WithObserver(r.collector.Observer(form.Name))),
	)
	if err != nil {
		return false, err
	}

	if r.outputHTML != "" {
		if err := os.WriteFile(r.outputHTML, []byte(report.HTML), 0o644); err != nil {
			return false, fmt.Errorf("write page: %w", err)
		}
	}
	if err := writeReport(r.out, r.format, report); err != nil {
		return false, err
	}
	return report.Outcome.Valid, nil
}

func (r validateRun) watch(ctx context.Context, debounce time.Duration) error {
	w, err := watch.New([]string{r.page, r.config},
		watch.WithDebounce(debounce),
		watch.WithLogger(r.logger),
	)
	if err != nil {
		return err
	}
	if _, err := r.once(); err != nil {
		r.logger.Error("validation failed", slog.Any("error", err))
	}
	return w.Run(ctx, func(path string) error {
		r.logger.Info("revalidating", slog.String("changed", path))
		_, err := r.once()
		return err
	})
}

func writeReport(w io.Writer, format string, report formguard.Report) error {
	var (
		payload []byte
		err     error
	)
	switch format {
	case formatYAML:
		payload, err = yaml.Marshal(report)
	default:
		payload, err = json.MarshalIndent(report, "", "  ")
		payload = append(payload, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = w.Write(payload)
	return err
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("serving metrics", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// app carries state shared by the subcommands once the root Before hook ran.
type app struct {
	logger *slog.Logger
}

func newApp() *cli.Command {
	a := &app{logger: slog.Default()}
	return &cli.Command{
		Name:    "formguard",
		Usage:   "Validate forms against declarative rule definitions",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "Log format (text, json)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger, err := newLogger(errWriter(cmd), cmd.String("log-level"), cmd.String("log-format"))
			if err != nil {
				return ctx, err
			}
			a.logger = logger
			return ctx, nil
		},
		Commands: []*cli.Command{
			a.validateCmd(),
			a.promptCmd(),
			a.importOpenAPICmd(),
		},
	}
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case formatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q, valid formats are: text, json", format)
	}
}

func outWriter(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.ErrWriter != nil {
		return root.ErrWriter
	}
	return os.Stderr
}

func parseFormat(cmd *cli.Command) (string, error) {
	format := strings.ToLower(strings.TrimSpace(cmd.String("format")))
	switch format {
	case formatJSON, formatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format: %q, valid formats are: json, yaml", format)
	}
}

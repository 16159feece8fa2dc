package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	formguard "github.com/goliatone/go-formguard"
	"github.com/goliatone/go-formguard/pkg/dom/termdoc"
)

// promptDriver builds the terminal driver; tests swap it for a scripted one.
var promptDriver = func(cmd *cli.Command) termdoc.PromptDriver {
	return termdoc.NewSurveyDriver(outWriter(cmd))
}

func (a *app) promptCmd() *cli.Command {
	return &cli.Command{
		Name:  "prompt",
		Usage: "Fill in a form interactively and validate the answers",
		Description: `Prompts for every field of a form definition, validates the answers and
asks again for the fields that failed.

# Examples

Try the bundled registration form:
  formguard prompt

Prefill values and allow five rounds:
  formguard prompt --config signup.yaml --set email=ivan@example.com --attempts 5`,
		Flags: []cli.Flag{
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
			&cli.IntFlag{
				Name:  "attempts",
				Value: 3,
				Usage: "Number of rounds before giving up",
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "Prefill a field (format: name=value, can be repeated)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			form, err := formguard.LoadForm(cmd.String("config"), cmd.String("form"))
			if err != nil {
				return err
			}
			prefill, err := parsePrefill(form, cmd.StringSlice("set"))
			if err != nil {
				return err
			}

			session, err := formguard.NewSession(form,
				formguard.WithLogger(a.logger),
				formguard.WithTerminalOptions(
					termdoc.WithPromptDriver(promptDriver(cmd)),
					termdoc.WithValues(prefill),
				),
			)
			if err != nil {
				return err
			}

			outcome, err := session.Run(ctx, int(cmd.Int("attempts")))
			if errors.Is(err, termdoc.ErrAborted) {
				return cli.Exit("aborted", 130)
			}
			if err != nil {
				return err
			}

			out := outWriter(cmd)
			if !outcome.Valid {
				fmt.Fprintf(out, "form %q is still invalid: %s\n", form.Name, strings.Join(outcome.Fields(), ", "))
				return cli.Exit("", 1)
			}
			fmt.Fprintf(out, "form %q is valid\n", form.Name)
			return nil
		},
	}
}

// parsePrefill maps name=value pairs onto field selectors. Names match the
// prompt label or the full selector.
func parsePrefill(form formguard.Form, pairs []string) (map[string]string, error) {
	byLabel := make(map[string]string)
	for _, field := range formguard.TerminalFields(form) {
		byLabel[field.Label] = field.Name
		byLabel[field.Name] = field.Name
	}

	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, expected name=value", pair)
		}
		selector, known := byLabel[strings.TrimSpace(name)]
		if !known {
			return nil, fmt.Errorf("invalid --set %q: unknown field %q", pair, name)
		}
		values[selector] = value
	}
	return values, nil
}

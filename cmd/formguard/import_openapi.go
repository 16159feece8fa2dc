package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formguard/pkg/formconfig"
	"github.com/goliatone/go-formguard/pkg/openapi"
)

func (a *app) importOpenAPICmd() *cli.Command {
	return &cli.Command{
		Name:  "import-openapi",
		Usage: "Generate form definitions from OpenAPI request bodies",
		Description: `Reads an OpenAPI 3 document and converts request-body schemas into form
definitions. Required properties, length limits, patterns and email formats
become rules; x-formguard-rules adds extra ones.

# Examples

List the operations of a document:
  formguard import-openapi --source api.yaml --list

Write one definition per operation into a directory:
  formguard import-openapi --source api.yaml --output ./forms

Print a single operation:
  formguard import-openapi --source https://example.com/openapi.yaml --http-timeout 10s --operation createUser`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "source",
				Aliases:  []string{"s"},
				Required: true,
				Usage:    "OpenAPI document path or HTTP(S) URL",
			},
			&cli.StringFlag{
				Name:  "operation",
				Usage: "Operation id to convert (default: every operation with a request body)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory to write <operation>.yaml files into (default: stdout)",
			},
			&cli.BoolFlag{
				Name:  "list",
				Usage: "Only list operation ids",
			},
			&cli.DurationFlag{
				Name:  "http-timeout",
				Usage: "Allow URL sources with this timeout",
			},
			&cli.StringFlag{
				Name:  "field-selector",
				Usage: `Selector template for fields (default: input[name="%s"])`,
			},
			&cli.StringFlag{
				Name:  "error-container",
				Usage: `Selector template for error containers (default: [data-errors-for="%s"])`,
			},
			&cli.StringFlag{
				Name:  "form-selector",
				Usage: `Form selector, %s receives the operation id (default: form[data-operation="%s"])`,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			src, err := openapi.ParseSource(cmd.String("source"))
			if err != nil {
				return err
			}
			var loaderOpts []openapi.LoaderOption
			if timeout := cmd.Duration("http-timeout"); timeout > 0 {
				loaderOpts = append(loaderOpts, openapi.WithHTTPFallback(timeout))
			}
			raw, err := openapi.NewLoader(loaderOpts...).Load(ctx, src)
			if err != nil {
				return err
			}

			opts := []openapi.Option{
				openapi.WithFieldSelector(cmd.String("field-selector")),
				openapi.WithErrorContainer(cmd.String("error-container")),
				openapi.WithFormSelector(cmd.String("form-selector")),
			}
			out := outWriter(cmd)

			if cmd.Bool("list") {
				ids, err := openapi.Operations(ctx, raw, opts...)
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			}

			var forms []formconfig.Form
			if id := cmd.String("operation"); id != "" {
				form, err := openapi.FormFromOperation(ctx, raw, id, opts...)
				if err != nil {
					return err
				}
				forms = append(forms, form)
			} else {
				forms, err = openapi.FormsFromDocument(ctx, raw, opts...)
				if err != nil {
					return err
				}
			}
			a.logger.Info("converted operations", "source", src.String(), "forms", len(forms))

			if dir := cmd.String("output"); dir != "" {
				return writeForms(dir, forms)
			}
			for idx, form := range forms {
				payload, err := formconfig.Marshal(form)
				if err != nil {
					return err
				}
				if idx > 0 {
					fmt.Fprintln(out, "---")
				}
				if _, err := out.Write(payload); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func writeForms(dir string, forms []formconfig.Form) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, form := range forms {
		payload, err := formconfig.Marshal(form)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fileName(form.Name)+".yaml")
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// fileName turns an operation id such as "post:/sessions" into a safe file
// name. Runs of unsafe characters collapse into a single underscore.
func fileName(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}

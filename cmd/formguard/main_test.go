package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	formguard "github.com/goliatone/go-formguard"
	"github.com/goliatone/go-formguard/pkg/dom/termdoc"
	"github.com/goliatone/go-formguard/pkg/formconfig"
	"github.com/goliatone/go-formguard/pkg/testsupport"
	"github.com/goliatone/go-formguard/pkg/validator"
)

const accountsSpec = "../../pkg/openapi/testdata/accounts.yaml"

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newApp()
	cmd.Writer = &out
	cmd.ErrWriter = &errOut
	cmd.ExitErrHandler = func(context.Context, *cli.Command, error) {}
	err := cmd.Run(testsupport.Context(), append([]string{"formguard"}, args...))
	return out.String(), err
}

func exitCode(err error) int {
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

func writeSamplePage(t *testing.T, replacements ...string) string {
	t.Helper()
	page, err := formguard.SamplePage("registration")
	if err != nil {
		t.Fatalf("sample page: %v", err)
	}
	markup := strings.NewReplacer(replacements...).Replace(string(page))
	return testsupport.MustWriteFile(t, t.TempDir(), "page.html", []byte(markup))
}

func TestValidate_InvalidPage(t *testing.T) {
	page := writeSamplePage(t)
	annotated := filepath.Join(t.TempDir(), "out.html")

	out, err := runApp(t, "validate", "--page", page, "--output-html", annotated)
	if code := exitCode(err); code != 1 {
		t.Fatalf("exit code = %d (%v), want 1", code, err)
	}

	var report formguard.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if report.Form != "registration" || report.Outcome.Valid {
		t.Fatalf("unexpected report: %+v", report)
	}
	if !report.Outcome.Has(`input[name="password"]`) {
		t.Fatalf("expected password failure, got %v", report.Outcome.Fields())
	}

	markup, err := os.ReadFile(annotated)
	if err != nil {
		t.Fatalf("read annotated page: %v", err)
	}
	if !strings.Contains(string(markup), "is-invalid") {
		t.Fatalf("annotated page should carry state classes")
	}
}

func TestValidate_ValidPageAsYAML(t *testing.T) {
	page := writeSamplePage(t,
		`name="name" value=""`, `name="name" value="Ivan"`,
		`type="email" value=""`, `type="email" value="ivan@example.com"`,
		`type="tel" value=""`, `type="tel" value="+7 999 123 45 67"`,
		`type="date" value=""`, `type="date" value="2000-01-01"`,
		`name="password" type="password" value=""`, `name="password" type="password" value="Secret123"`,
		`name="confirm" type="password" value=""`, `name="confirm" type="password" value="Secret123"`,
	)

	out, err := runApp(t, "validate", "--page", page, "--format", "yaml")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	var report formguard.Report
	if err := yaml.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	want := formguard.Report{Form: "registration", Outcome: formguard.Outcome{Valid: true, Errors: []validator.FieldError{}}}
	if diff := cmp.Diff(want, report, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_FlagErrors(t *testing.T) {
	page := writeSamplePage(t)
	if _, err := runApp(t, "validate", "--page", page, "--format", "xml"); err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Fatalf("expected format error, got %v", err)
	}
	if _, err := runApp(t, "validate", "--page", page, "--form", "nope"); err == nil {
		t.Fatalf("expected unknown bundled form error")
	}
	if _, err := runApp(t, "--log-level", "loud", "validate", "--page", page); err == nil {
		t.Fatalf("expected log level error")
	}
}

func TestImportOpenAPI_List(t *testing.T) {
	out, err := runApp(t, "import-openapi", "--source", accountsSpec, "--list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff("createUser\nlistUsers\npost:/sessions\n", out); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestImportOpenAPI_WritesDefinitions(t *testing.T) {
	dir := t.TempDir()
	if _, err := runApp(t, "import-openapi", "--source", accountsSpec, "--output", dir); err != nil {
		t.Fatalf("import: %v", err)
	}

	store, err := formconfig.LoadFS(os.DirFS(dir))
	if err != nil {
		t.Fatalf("reload generated forms: %v", err)
	}
	if diff := cmp.Diff([]string{"createUser", "post:/sessions"}, store.Names()); diff != "" {
		t.Fatalf("generated forms mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(dir, "post_sessions.yaml")); err != nil {
		t.Fatalf("expected sanitised file name: %v", err)
	}

	out, err := runApp(t, "import-openapi", "--source", accountsSpec, "--operation", "post:/sessions", "--field-selector", "#%s")
	if err != nil {
		t.Fatalf("import single: %v", err)
	}
	form, err := formconfig.Parse([]byte(out), "stdout")
	if err != nil {
		t.Fatalf("parse stdout: %v\n%s", err, out)
	}
	if form.Fields[0].Selector != "#login" {
		t.Fatalf("selector = %q, want #login", form.Fields[0].Selector)
	}
}

type scriptedDriver struct {
	answers map[string]string
	info    []string
}

func (s *scriptedDriver) Input(_ context.Context, cfg termdoc.InputConfig) (string, error) {
	if answer, ok := s.answers[cfg.Message]; ok {
		return answer, nil
	}
	return cfg.Default, nil
}

func (s *scriptedDriver) Password(ctx context.Context, cfg termdoc.InputConfig) (string, error) {
	return s.Input(ctx, cfg)
}

func (s *scriptedDriver) Select(context.Context, termdoc.SelectConfig) (int, error) {
	return 0, nil
}

func (s *scriptedDriver) Info(_ context.Context, msg string) error {
	s.info = append(s.info, msg)
	return nil
}

func TestPrompt(t *testing.T) {
	driver := &scriptedDriver{answers: map[string]string{
		"name":      "Иван",
		"phone":     "+7 (999) 123-45-67",
		"birthdate": "1990-05-17",
		"password":  "Secret123",
		"confirm":   "Secret123",
	}}
	previous := promptDriver
	promptDriver = func(*cli.Command) termdoc.PromptDriver { return driver }
	t.Cleanup(func() { promptDriver = previous })

	out, err := runApp(t, "prompt", "--set", "email=ivan@example.com", "--attempts", "1")
	if err != nil {
		t.Fatalf("prompt: %v (info %v)", err, driver.info)
	}
	if diff := cmp.Diff("form \"registration\" is valid\n", out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	delete(driver.answers, "confirm")
	driver.answers["password"] = "weak"
	out, err = runApp(t, "prompt", "--attempts", "1")
	if code := exitCode(err); code != 1 {
		t.Fatalf("exit code = %d (%v), want 1", code, err)
	}
	if !strings.Contains(out, `input[name="password"]`) {
		t.Fatalf("expected password in failure summary, got %q", out)
	}

	if _, err := runApp(t, "prompt", "--set", "nickname=x"); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"createUser":          "createUser",
		"post:/sessions":      "post_sessions",
		"get:/users/{id}":     "get_users_id",
		"/leading//trailing/": "leading_trailing",
		"patch-user":          "patch-user",
	}
	for in, want := range tests {
		if got := fileName(in); got != want {
			t.Errorf("fileName(%q) = %q, want %q", in, got, want)
		}
	}
}

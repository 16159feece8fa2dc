package formconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/dom/htmldoc"
	"github.com/goliatone/go-formguard/pkg/formconfig"
	"github.com/goliatone/go-formguard/pkg/rules"
	"github.com/goliatone/go-formguard/pkg/testsupport"
	"github.com/goliatone/go-formguard/pkg/validator"
)

func ruleStrings(t *testing.T, form formconfig.Form, registry *rules.Registry) map[string][]string {
	t.Helper()
	bindings, err := form.Build(registry)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	out := make(map[string][]string, len(bindings))
	for _, binding := range bindings {
		var list []string
		for _, rule := range binding.Config.Rules {
			list = append(list, rule.String())
		}
		out[binding.Selector] = list
	}
	return out
}

func slugRegistry() *rules.Registry {
	registry := rules.NewRegistry()
	slug := regexp.MustCompile(`^[a-z0-9-]+$`)
	registry.MustRegister("slug", slug.MatchString)
	return registry
}

func TestLoadFile_YAML(t *testing.T) {
	form, err := formconfig.LoadFile(filepath.Join("testdata", "forms", "registration.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if form.Name != "#registration" || form.Form != "#registration" {
		t.Fatalf("name defaults mismatch: %#v", form)
	}
	if got := form.Fields[0].ErrorContainer; got != ".name-errors" {
		t.Fatalf("error container mismatch: %q", got)
	}

	want := map[string][]string{
		`input[name="name"]`:  {"required", "minLength(3)", "latinOrCyrillic"},
		`input[name="email"]`: {"required", "email"},
	}
	if diff := cmp.Diff(want, ruleStrings(t, form, nil)); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS(t *testing.T) {
	store, err := formconfig.LoadFS(os.DirFS(filepath.Join("testdata", "forms")))
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if diff := cmp.Diff([]string{"#registration", "password-reset"}, store.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	form, ok := store.Form("password-reset")
	if !ok {
		t.Fatalf("password-reset not loaded")
	}
	if form.Source != filepath.ToSlash(filepath.Join("nested", "password.json")) {
		t.Fatalf("source mismatch: %s", form.Source)
	}

	want := map[string][]string{
		`input[name="password"]`: {"strongPassword", "maxLength(64)"},
		`input[name="confirm"]`:  {`equals("input[name=\"password\"]")`},
		`input[name="slug"]`:     {"custom(func)", `pattern("^[a-z]")`},
	}
	if diff := cmp.Diff(want, ruleStrings(t, form, slugRegistry())); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}

	empty, err := formconfig.LoadFS(nil)
	if err != nil || !empty.Empty() {
		t.Fatalf("expected empty store for nil fs, got %v (%v)", empty, err)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":           "  ",
		"syntax":          "form: [",
		"missing form":    "fields: []",
		"blank selector":  "form: '#f'\nfields:\n  - selector: ' '\n",
		"duplicate field": "form: '#f'\nfields:\n  - selector: a\n  - selector: a\n",
		"blank rule":      "form: '#f'\nfields:\n  - selector: a\n    rules:\n      - rule: ''\n",
	}
	for name, data := range cases {
		if _, err := formconfig.Parse([]byte(data), name); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}

func TestBuild_RuleErrors(t *testing.T) {
	custom := formconfig.Form{Name: "f", Form: "#f", Fields: []formconfig.Field{{
		Selector: "a",
		Rules:    []formconfig.RuleSpec{{Rule: "custom", Value: "slug", Message: "bad"}},
	}}}
	if _, err := custom.Build(nil); !errors.Is(err, formconfig.ErrNoRegistry) {
		t.Fatalf("expected ErrNoRegistry, got %v", err)
	}
	if _, err := custom.Build(rules.NewRegistry()); err == nil {
		t.Fatalf("expected unknown predicate error")
	}

	badParam := formconfig.Form{Name: "f", Form: "#f", Fields: []formconfig.Field{{
		Selector: "a",
		Rules:    []formconfig.RuleSpec{{Rule: "minLength", Value: "three", Message: "bad"}},
	}}}
	if _, err := badParam.Build(nil); !errors.Is(err, rules.ErrInvalidParam) {
		t.Fatalf("expected ErrInvalidParam, got %v", err)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	form, err := formconfig.LoadFile(filepath.Join("testdata", "forms", "registration.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	data, err := formconfig.Marshal(form)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := formconfig.Parse(data, "roundtrip")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	again.Source = form.Source
	if diff := cmp.Diff(form, again); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

const resetPage = `<form id="reset">
  <input name="password" value="Password123">
  <div class="password-errors"></div>
  <input name="confirm" value="Password12">
  <div class="confirm-errors"></div>
  <input name="slug" value="my-page">
  <div class="slug-errors"></div>
</form>`

func TestNewValidator_AppliesFields(t *testing.T) {
	store, err := formconfig.LoadFS(os.DirFS(filepath.Join("testdata", "forms")))
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	form, _ := store.Form("password-reset")

	doc, err := htmldoc.ParseString(resetPage, htmldoc.WithLogger(testsupport.QuietLogger()))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	v, err := form.NewValidator(doc, slugRegistry(), validator.WithLogger(testsupport.QuietLogger()))
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	want := []string{`input[name="password"]`, `input[name="confirm"]`, `input[name="slug"]`}
	if diff := cmp.Diff(want, v.Fields()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	outcome, err := v.ValidateAll()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if diff := cmp.Diff([]string{`input[name="confirm"]`}, outcome.Fields()); diff != "" {
		t.Fatalf("failing fields mismatch (-want +got):\n%s", diff)
	}
	if got := strings.TrimSpace(doc.Find(".confirm-errors").Text()); got != "Пароли не совпадают" {
		t.Fatalf("rendered message mismatch: %q", got)
	}
}

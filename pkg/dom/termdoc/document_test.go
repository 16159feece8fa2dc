package termdoc

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/rules"
	"github.com/goliatone/go-formguard/pkg/testsupport"
	"github.com/goliatone/go-formguard/pkg/validator"
)

type stubDriver struct {
	inputs    []string
	passwords []string
	selectIdx []int
	info      []string

	inputPos  int
	passPos   int
	selectPos int
	defaults  []string
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.defaults = append(s.defaults, cfg.Default)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.info = append(s.info, msg)
	return nil
}

func signupFields() []Field {
	return []Field{
		{Name: "name", Label: "Name"},
		{Name: "password", Label: "Password", Kind: FieldSecret},
		{Name: "confirm", Label: "Confirm", Kind: FieldSecret},
		{Name: "plan", Label: "Plan", Kind: FieldChoice, Options: []string{"free", "pro"}},
	}
}

func TestNew_RejectsBadDeclarations(t *testing.T) {
	cases := map[string][]Field{
		"empty name":     {{Name: " "}},
		"duplicate":      {{Name: "a"}, {Name: "a"}},
		"form collision": {{Name: "signup"}},
		"choice options": {{Name: "plan", Kind: FieldChoice}},
	}
	for name, fields := range cases {
		if _, err := New("signup", fields, WithPromptDriver(&stubDriver{})); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := New("", nil); err == nil {
		t.Fatalf("expected missing form name error")
	}
}

func TestCollect_UsesPromptKinds(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Иван"},
		passwords: []string{"Password123", "Password123"},
		selectIdx: []int{1},
	}
	doc, err := New("signup", signupFields(),
		WithPromptDriver(driver),
		WithValues(map[string]string{"name": "prefilled"}),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := doc.Collect(context.Background()); err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := map[string]string{
		"name":     "Иван",
		"password": "Password123",
		"confirm":  "Password123",
		"plan":     "pro",
	}
	if diff := cmp.Diff(want, doc.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"prefilled"}, driver.defaults); diff != "" {
		t.Fatalf("prompt defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_PropagatesAbort(t *testing.T) {
	doc, err := New("signup", []Field{{Name: "name"}}, WithPromptDriver(abortDriver{&stubDriver{}}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := doc.Collect(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

type abortDriver struct{ *stubDriver }

func (abortDriver) Input(context.Context, InputConfig) (string, error) { return "", ErrAborted }

func TestSubmit_ValidatesCollectedValues(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ab"},
		passwords: []string{"Password123", "Password124"},
		selectIdx: []int{0},
	}
	doc, err := New("signup", signupFields(), WithPromptDriver(driver), WithLogger(testsupport.QuietLogger()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := doc.Submit(context.Background()); !errors.Is(err, ErrNoSubmitHandler) {
		t.Fatalf("expected ErrNoSubmitHandler, got %v", err)
	}

	v, err := validator.New(doc, "signup", validator.WithLogger(testsupport.QuietLogger()))
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	v.Field("name", validator.FieldConfig{
		Rules:          []rules.Rule{rules.Required("required"), rules.MinLength(3, "Минимум 3 символа")},
		ErrorContainer: dom.DisplaySelector("name"),
	}).Field("password", validator.FieldConfig{
		Rules:          []rules.Rule{rules.StrongPassword("weak")},
		ErrorContainer: dom.DisplaySelector("password"),
	}).Field("confirm", validator.FieldConfig{
		Rules:          []rules.Rule{rules.Equals("password", "Пароли не совпадают")},
		ErrorContainer: dom.DisplaySelector("confirm"),
	})
	if err := v.Err(); err != nil {
		t.Fatalf("register: %v", err)
	}

	var outcomes []validator.Outcome
	v.OnFail(func(o validator.Outcome) { outcomes = append(outcomes, o) })

	if err := doc.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("expected one failing pass, got %d", len(outcomes))
	}
	if diff := cmp.Diff([]string{"name", "confirm"}, outcomes[0].Fields()); diff != "" {
		t.Fatalf("failing fields mismatch (-want +got):\n%s", diff)
	}
	if doc.State("password") != dom.StateValid || doc.State("confirm") != dom.StateInvalid {
		t.Fatalf("unexpected states: password=%s confirm=%s", doc.State("password"), doc.State("confirm"))
	}
	if diff := cmp.Diff([]string{"Пароли не совпадают"}, doc.Messages("confirm")); diff != "" {
		t.Fatalf("confirm messages mismatch (-want +got):\n%s", diff)
	}

	wantInfo := []string{
		"✗ Name: Минимум 3 символа",
		"✗ Confirm: Пароли не совпадают",
	}
	if diff := cmp.Diff(wantInfo, driver.info); diff != "" {
		t.Fatalf("printed messages mismatch (-want +got):\n%s", diff)
	}

	driver.inputs = append(driver.inputs, "Иван")
	driver.passwords = append(driver.passwords, "Password123")
	if err := doc.CollectInvalid(context.Background()); err != nil {
		t.Fatalf("collect invalid: %v", err)
	}

	var succeeded bool
	v.OnSuccess(func(validator.SubmitEvent) { succeeded = true })
	if err := doc.Resubmit(context.Background()); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if !succeeded {
		t.Fatalf("expected success after correcting invalid fields, values %v", doc.Values())
	}
	if len(doc.Messages("confirm")) != 0 {
		t.Fatalf("expected confirm messages cleared")
	}
}

func TestResolveDisplay(t *testing.T) {
	doc, err := New("signup", []Field{{Name: "name"}}, WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := doc.ResolveDisplay(dom.DisplaySelector("missing")); ok {
		t.Fatalf("expected unknown display to fail")
	}
	if _, ok := doc.ResolveDisplay(dom.DisplaySelector("signup")); ok {
		t.Fatalf("form is not a display target")
	}
	node, _ := doc.Resolve("name")
	slot, ok := doc.ResolveDisplay(dom.DisplayNode(node))
	if !ok {
		t.Fatalf("expected field node to resolve to its slot")
	}
	if err := doc.RenderMessages(slot, []string{"x"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := doc.RenderMessages(node, nil); !errors.Is(err, ErrForeignNode) {
		t.Fatalf("expected ErrForeignNode, got %v", err)
	}
	if err := doc.SetValue("missing", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

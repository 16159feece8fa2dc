package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formguard/pkg/formconfig"
	"github.com/goliatone/go-formguard/pkg/rules"
)

var (
	// ErrOperationNotFound is returned when the operation id is absent.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestSchema is returned for operations without an object request
	// body.
	ErrNoRequestSchema = errors.New("openapi: operation has no object request body")
)

var requestMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Operations lists the operation ids of the document in sorted order.
// Operations without an explicit id are named "<method>:<path>".
func Operations(ctx context.Context, raw []byte, options ...Option) ([]string, error) {
	cfg := newConfig(options)
	spec, err := loadSpec(ctx, raw, cfg)
	if err != nil {
		return nil, err
	}
	ops := collectOperations(spec)
	ids := make([]string, 0, len(ops))
	for id := range ops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// FormFromOperation converts the request-body schema of operationID into a
// form definition. Properties are emitted in sorted order.
func FormFromOperation(ctx context.Context, raw []byte, operationID string, options ...Option) (formconfig.Form, error) {
	cfg := newConfig(options)
	spec, err := loadSpec(ctx, raw, cfg)
	if err != nil {
		return formconfig.Form{}, err
	}
	operationID = strings.TrimSpace(operationID)
	op, ok := collectOperations(spec)[operationID]
	if !ok {
		return formconfig.Form{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	return buildForm(operationID, op, cfg)
}

// FormsFromDocument converts every operation that has an object request body.
// Forms are returned sorted by operation id.
func FormsFromDocument(ctx context.Context, raw []byte, options ...Option) ([]formconfig.Form, error) {
	cfg := newConfig(options)
	spec, err := loadSpec(ctx, raw, cfg)
	if err != nil {
		return nil, err
	}
	ops := collectOperations(spec)
	ids := make([]string, 0, len(ops))
	for id := range ops {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var forms []formconfig.Form
	for _, id := range ids {
		form, err := buildForm(id, ops[id], cfg)
		if errors.Is(err, ErrNoRequestSchema) {
			continue
		}
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

func loadSpec(ctx context.Context, raw []byte, cfg config) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: cfg.resolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.resolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	return spec, nil
}

func collectOperations(spec *openapi3.T) map[string]*openapi3.Operation {
	out := make(map[string]*openapi3.Operation)
	if spec.Paths == nil {
		return out
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			out[id] = op
		}
	}
	return out
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func buildForm(operationID string, op *openapi3.Operation, cfg config) (formconfig.Form, error) {
	schema := requestSchema(op)
	if schema == nil {
		return formconfig.Form{}, fmt.Errorf("%w: %q", ErrNoRequestSchema, operationID)
	}

	properties := make(map[string]*openapi3.Schema)
	required := make(map[string]bool)
	flattenObject(schema, properties, required, 0)
	if len(properties) == 0 {
		return formconfig.Form{}, fmt.Errorf("%w: %q", ErrNoRequestSchema, operationID)
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	formSelector := cfg.formSelector
	if strings.Contains(formSelector, "%s") {
		formSelector = fmt.Sprintf(formSelector, operationID)
	}
	form := formconfig.Form{
		Name:   operationID,
		Form:   formSelector,
		Fields: make([]formconfig.Field, 0, len(names)),
	}
	for _, name := range names {
		prop := properties[name]
		if prop.ReadOnly || isContainer(prop) {
			continue
		}
		specs, err := propertyRules(name, prop, required[name], cfg.messages)
		if err != nil {
			return formconfig.Form{}, fmt.Errorf("openapi: operation %q property %q: %w", operationID, name, err)
		}
		form.Fields = append(form.Fields, formconfig.Field{
			Selector:       fmt.Sprintf(cfg.fieldSelector, name),
			ErrorContainer: fmt.Sprintf(cfg.errorContainer, name),
			Rules:          specs,
		})
	}
	return form, nil
}

// flattenObject merges the properties and required lists of schema and its
// allOf members.
func flattenObject(schema *openapi3.Schema, properties map[string]*openapi3.Schema, required map[string]bool, depth int) {
	if schema == nil || depth > 8 {
		return
	}
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		properties[name] = ref.Value
	}
	for _, name := range schema.Required {
		required[name] = true
	}
	for _, ref := range schema.AllOf {
		if ref == nil {
			continue
		}
		flattenObject(ref.Value, properties, required, depth+1)
	}
}

func isContainer(schema *openapi3.Schema) bool {
	if schema.Type == nil {
		return len(schema.Properties) > 0
	}
	for _, typ := range schema.Type.Slice() {
		if typ == openapi3.TypeObject || typ == openapi3.TypeArray {
			return true
		}
	}
	return false
}

func propertyRules(name string, schema *openapi3.Schema, required bool, msgs Messages) ([]formconfig.RuleSpec, error) {
	label := strings.TrimSpace(schema.Title)
	if label == "" {
		label = name
	}

	var specs []formconfig.RuleSpec
	if required {
		specs = append(specs, formconfig.RuleSpec{
			Rule:    string(rules.KindRequired),
			Message: fmt.Sprintf(msgs.Required, label),
		})
	}
	if schema.MinLength > 0 {
		n := int(schema.MinLength)
		specs = append(specs, formconfig.RuleSpec{
			Rule:    string(rules.KindMinLength),
			Value:   n,
			Message: fmt.Sprintf(msgs.MinLength, label, n),
		})
	}
	if schema.MaxLength != nil {
		n := int(*schema.MaxLength)
		specs = append(specs, formconfig.RuleSpec{
			Rule:    string(rules.KindMaxLength),
			Value:   n,
			Message: fmt.Sprintf(msgs.MaxLength, label, n),
		})
	}
	if schema.Pattern != "" {
		if _, err := rules.CompilePattern(schema.Pattern); err != nil {
			return nil, err
		}
		specs = append(specs, formconfig.RuleSpec{
			Rule:    string(rules.KindPattern),
			Value:   schema.Pattern,
			Message: fmt.Sprintf(msgs.Pattern, label),
		})
	}
	if strings.EqualFold(schema.Format, "email") {
		specs = append(specs, formconfig.RuleSpec{
			Rule:    string(rules.KindEmail),
			Message: fmt.Sprintf(msgs.Email, label),
		})
	}

	extra, err := extensionRules(schema.Extensions)
	if err != nil {
		return nil, err
	}
	return append(specs, extra...), nil
}

func extensionRules(extensions map[string]any) ([]formconfig.RuleSpec, error) {
	raw, ok := extensions[RulesExtension]
	if !ok || raw == nil {
		return nil, nil
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", RulesExtension, err)
	}
	var specs []formconfig.RuleSpec
	if err := json.Unmarshal(payload, &specs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", RulesExtension, err)
	}
	for idx, spec := range specs {
		if strings.TrimSpace(spec.Rule) == "" {
			return nil, fmt.Errorf("%s entry %d has no rule", RulesExtension, idx)
		}
	}
	return specs, nil
}

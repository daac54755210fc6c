// Package tui edits bound form elements from a terminal session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/model"
	"github.com/goliatone/go-formbind/pkg/reflection"
	"github.com/goliatone/go-formbind/pkg/widgets"
)

const defaultMaxAttempts = 3

// Editor walks an element list and prompts for a new value per element,
// writing answers back through the element's bound source.
type Editor struct {
	driver      PromptDriver
	widgets     *widgets.Registry
	theme       Theme
	maxAttempts int
}

// New constructs an editor with defaults (survey driver on stdout, built-in
// widget registry).
func New(options ...Option) *Editor {
	e := &Editor{
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.driver == nil {
		e.driver = NewSurveyDriver(nil)
	}
	if e.widgets == nil {
		e.widgets = widgets.NewRegistry()
	}
	return e
}

// EditList prompts for every element currently published in list.
func (e *Editor) EditList(ctx context.Context, list *binding.List[*model.Element]) error {
	if list == nil {
		return nil
	}
	return e.Edit(ctx, list.Items())
}

// Edit prompts for each element in order. Read-only elements are skipped;
// arrays and objects are announced but not edited. The first prompt or write
// error stops the walk.
func (e *Editor) Edit(ctx context.Context, elements []*model.Element) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if e.driver == nil {
		return ErrNoDriver
	}
	for _, el := range elements {
		if err := ctx.Err(); err != nil {
			return err
		}
		if el == nil || el.ReadOnly() {
			continue
		}
		if err := e.editElement(ctx, el); err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) editElement(ctx context.Context, el *model.Element) error {
	switch el.Type() {
	case model.FieldTypeArray, model.FieldTypeObject:
		return e.info(ctx, fmt.Sprintf("%s: %s values are not editable here", el.Label(), el.Type()))
	case model.FieldTypeBoolean:
		return e.promptBoolean(ctx, el)
	}
	if options := enumOptions(el); len(options) > 0 {
		return e.promptEnum(ctx, el, options)
	}
	return e.promptScalar(ctx, el)
}

func (e *Editor) promptBoolean(ctx context.Context, el *model.Element) error {
	current, _ := el.Value()
	def, _ := current.(bool)
	answer, err := e.driver.Confirm(ctx, ConfirmConfig{
		Message: el.Label(),
		Default: def,
		Help:    el.Description(),
	})
	if err != nil {
		return err
	}
	return e.write(el, answer)
}

func (e *Editor) promptEnum(ctx context.Context, el *model.Element, options []string) error {
	idx, err := e.driver.Select(ctx, SelectConfig{
		Message:      el.Label(),
		Options:      options,
		DefaultIndex: indexOf(options, currentString(el)),
		Help:         el.Description(),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return e.info(ctx, fmt.Sprintf("%s: no option selected, keeping current value", el.Label()))
	}
	return e.write(el, options[idx])
}

func (e *Editor) promptScalar(ctx context.Context, el *model.Element) error {
	def := currentString(el)
	for attempt := 1; ; attempt++ {
		answer, err := e.ask(ctx, el, def)
		if err != nil {
			return err
		}
		if strings.TrimSpace(answer) == "" && !el.Required() && el.Type() != model.FieldTypeString {
			return nil
		}
		value, err := convert(el.Type(), answer)
		if err == nil {
			err = el.SetValue(value)
			if err == nil {
				return nil
			}
			if !errors.Is(err, reflection.ErrIncompatibleValue) {
				return fmt.Errorf("tui: set %s: %w", el.Name(), err)
			}
		}
		if attempt >= e.maxAttempts {
			return fmt.Errorf("tui: %s: %w", el.Name(), err)
		}
		if infoErr := e.errorInfo(ctx, fmt.Sprintf("Invalid %s: %v", el.Label(), err)); infoErr != nil {
			return infoErr
		}
	}
}

func (e *Editor) ask(ctx context.Context, el *model.Element, def string) (string, error) {
	widget, _ := e.widgets.Resolve(el)
	cfg := InputConfig{
		Message: el.Label(),
		Default: def,
		Help:    el.Description(),
	}
	if el.Required() {
		cfg.Validator = func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("value is required")
			}
			return nil
		}
	}
	switch widget {
	case "password":
		return e.driver.Password(ctx, cfg)
	case "textarea":
		return e.driver.TextArea(ctx, cfg)
	default:
		return e.driver.Input(ctx, cfg)
	}
}

func (e *Editor) write(el *model.Element, value any) error {
	if err := el.SetValue(value); err != nil {
		return fmt.Errorf("tui: set %s: %w", el.Name(), err)
	}
	return nil
}

func (e *Editor) info(ctx context.Context, msg string) error {
	return e.driver.Info(ctx, e.theme.InfoPrefix+msg)
}

func (e *Editor) errorInfo(ctx context.Context, msg string) error {
	return e.driver.Info(ctx, e.theme.ErrorPrefix+msg)
}

// convert parses a prompt answer into the Go value for fieldType.
func convert(fieldType model.FieldType, answer string) (any, error) {
	trimmed := strings.TrimSpace(answer)
	switch fieldType {
	case model.FieldTypeInteger:
		return strconv.ParseInt(trimmed, 10, 64)
	case model.FieldTypeNumber:
		return strconv.ParseFloat(trimmed, 64)
	case model.FieldTypeBoolean:
		return strconv.ParseBool(trimmed)
	case model.FieldTypeTime:
		return time.Parse(time.RFC3339, trimmed)
	default:
		return answer, nil
	}
}

func currentString(el *model.Element) string {
	value, err := el.Value()
	if err != nil || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func enumOptions(el *model.Element) []string {
	raw := strings.TrimSpace(el.Metadata()[model.MetadataEnum])
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, "|") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Errors wrapped by [FormatError].
var (
	ErrUnterminatedPlaceholder = errors.New("unterminated placeholder")
	ErrMalformedPlaceholder    = errors.New("unexpected '{' in placeholder")
	ErrInvalidIndex            = errors.New("placeholder index is not a number")
	ErrIndexOutOfRange         = errors.New("placeholder index out of range")
	ErrMissingPluralBranch     = errors.New("no plural branch matches and 'other' is missing")
)

// FormatError reports a template that could not be formatted.
type FormatError struct {
	Template string
	// Offset is the byte offset of the placeholder (or character) at fault.
	Offset int
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format %q at offset %d: %v", e.Template, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Diagnostic is the text shown in place of a message that failed to format.
func (e *FormatError) Diagnostic() string {
	return "Error formatting '" + e.Template + "', bug report?"
}

type parseState int

const (
	stateOut      parseState = iota
	stateIndex               // reading the digits after '{'
	stateType                // reading the type name after "index,"
	stateArgs                // skipping the arguments of a type that is not plural
	statePlural              // between plural branches
	stateCategory            // inside a branch body
)

const (
	categoryZero  = "zero"
	categoryOne   = "one"
	categoryOther = "other"
)

// Format substitutes values into template.
//
// Placeholders are written {N} or {N,plural,zero{...} one{...} other{...}}
// where N is a zero-based index into values. In a plural branch the first '#'
// is replaced by the value. Format never fails: a malformed template is
// logged and replaced by its diagnostic, see [FormatError.Diagnostic].
func Format(template string, values ...any) string {
	s, err := FormatE(template, values...)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			Logger.Warn().
				Err(fe.Err).
				Str("template", template).
				Int("offset", fe.Offset).
				Msg("Failed to format message")

			return fe.Diagnostic()
		}

		return template
	}

	return s
}

// FormatE is like [Format] but returns a *[FormatError] instead of the diagnostic.
func FormatE(template string, values ...any) (string, error) {
	var (
		out      strings.Builder
		buf      strings.Builder
		state    = stateOut
		start    int
		value    any
		branches map[string]string
		category string
	)

	fail := func(offset int, err error) (string, error) {
		return "", &FormatError{Template: template, Offset: offset, Err: err}
	}

	out.Grow(len(template))

	for i := range len(template) {
		c := template[i]

		switch state {
		case stateOut:
			if c == '{' {
				start = i
				state = stateIndex

				buf.Reset()

				continue
			}

			out.WriteByte(c)

		case stateIndex:
			switch c {
			case ',', '}':
				v, err := resolveIndex(buf.String(), values)
				if err != nil {
					return fail(start, err)
				}

				value = v

				buf.Reset()

				if c == '}' {
					out.WriteString(valueText(value))

					state = stateOut
				} else {
					state = stateType
				}
			case '{':
				return fail(i, ErrMalformedPlaceholder)
			default:
				buf.WriteByte(c)
			}

		case stateType:
			switch c {
			case ',':
				if strings.TrimSpace(buf.String()) == "plural" {
					branches = make(map[string]string, 3)
					state = statePlural
				} else {
					state = stateArgs
				}

				buf.Reset()
			case '}':
				out.WriteString(valueText(value))

				state = stateOut
			case '{':
				return fail(i, ErrMalformedPlaceholder)
			default:
				buf.WriteByte(c)
			}

		case stateArgs:
			switch c {
			case '}':
				out.WriteString(valueText(value))

				state = stateOut
			case '{':
				return fail(i, ErrMalformedPlaceholder)
			}

		case statePlural:
			switch c {
			case '{':
				category = strings.Trim(buf.String(), " \t\r\n,")

				buf.Reset()

				state = stateCategory
			case '}':
				branch, err := selectBranch(branches, value)
				if err != nil {
					return fail(start, err)
				}

				out.WriteString(strings.Replace(branch, "#", valueText(value), 1))

				branches = nil
				state = stateOut
			default:
				buf.WriteByte(c)
			}

		case stateCategory:
			switch c {
			case '}':
				switch category {
				case categoryZero, categoryOne, categoryOther:
					branches[category] = buf.String()
				}

				buf.Reset()

				state = statePlural
			case '{':
				return fail(i, ErrMalformedPlaceholder)
			default:
				buf.WriteByte(c)
			}
		}
	}

	if state != stateOut {
		return fail(start, ErrUnterminatedPlaceholder)
	}

	return out.String(), nil
}

func resolveIndex(raw string, values []any) (any, error) {
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIndex, raw)
	}

	if index < 0 || index >= len(values) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(values))
	}

	return values[index], nil
}

func selectBranch(branches map[string]string, value any) (string, error) {
	if branch, ok := branches[categoryZero]; ok && isNumericZero(value) {
		return branch, nil
	}

	if branch, ok := branches[categoryOne]; ok && looselyOne(value) {
		return branch, nil
	}

	if branch, ok := branches[categoryOther]; ok {
		return branch, nil
	}

	return "", ErrMissingPluralBranch
}

// isNumericZero only accepts numbers; "0" the string does not select zero.
func isNumericZero(value any) bool {
	if n, ok := value.(json.Number); ok {
		f, err := n.Float64()

		return err == nil && f == 0
	}

	f, ok := numeric(value)

	return ok && f == 0
}

// looselyOne accepts the number 1, strings spelling 1 and true.
func looselyOne(value any) bool {
	if f, ok := numeric(value); ok {
		return f == 1
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)

		return err == nil && f == 1
	case reflect.Bool:
		return rv.Bool()
	default:
		return false
	}
}

func numeric(value any) (float64, bool) {
	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func valueText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

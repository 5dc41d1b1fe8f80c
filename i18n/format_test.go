// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type count int

func (c count) String() string { return "count" }

func TestFormat(t *testing.T) {
	t.Parallel()

	const entries = "{0,plural,zero{no entries}one{# entry}other{# entries}}"

	tests := []struct {
		name     string
		template string
		values   []any
		want     string
	}{
		{"literal", "Mark all as read", nil, "Mark all as read"},
		{"literal with delimiters", "a, b} c", nil, "a, b} c"},
		{"empty", "", nil, ""},
		{"single value", "{0}", []any{42}, "42"},
		{"string value", "Unknown tag: {0}", []any{"news"}, "Unknown tag: news"},
		{"float value", "{0}", []any{1.5}, "1.5"},
		{"spaces in index", "{ 1 }-{0}", []any{"a", "b"}, "b-a"},
		{"left to right", "{0} of {1}: {0}", []any{3, 7}, "3 of 7: 3"},
		{"nil value", "[{0}]", []any{nil}, "[]"},
		{"unknown type", "{0,number,integer}!", []any{12}, "12!"},
		{"type without args", "{0,date}", []any{"today"}, "today"},
		{"plural zero", entries, []any{0}, "no entries"},
		{"plural one", entries, []any{1}, "1 entry"},
		{"plural other", entries, []any{5}, "5 entries"},
		{"plural float zero", entries, []any{0.0}, "no entries"},
		{"plural uint", entries, []any{uint8(1)}, "1 entry"},
		{"plural stringer", entries, []any{count(1)}, "count entry"},
		{"plural zero string is not zero", entries, []any{"0"}, "0 entries"},
		{"plural loose one string", entries, []any{"1"}, "1 entry"},
		{"plural loose one padded", entries, []any{" 1 "}, " 1  entry"},
		{"plural loose one bool", entries, []any{true}, "true entry"},
		{"plural json number", entries, []any{json.Number("0")}, "no entries"},
		{"plural without zero branch", "{0,plural,one{# entry}other{# entries}}", []any{0}, "0 entries"},
		{"plural unknown category", "{0,plural,foo{x}other{y}}", []any{5}, "y"},
		{"plural icu exact matches ignored", "{0,plural,=0{none}=1{one}other{many}}", []any{0}, "many"},
		{"plural separating spaces", "{0, plural, one {# item} other {# items}}", []any{2}, "2 items"},
		{"plural only first hash", "{0,plural,other{# of #}}", []any{2}, "2 of #"},
		{"plural without hash", "{0,plural,one{single}other{many}}", []any{1}, "single"},
		{"plural keeps commas in branch", "{0,plural,other{#, more, and more}}", []any{4}, "4, more, and more"},
		{"plural later branch wins", "{0,plural,other{a}other{b}}", []any{4}, "b"},
		{"surrounding text", "You have {0,plural,one{# new item}other{# new items}} in {1}.", []any{3, "Inbox"}, "You have 3 new items in Inbox."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FormatE(tt.template, tt.values...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, Format(tt.template, tt.values...))
		})
	}
}

func TestFormatErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		values   []any
		wantErr  error
		offset   int
	}{
		{"unterminated index", "{0", []any{1}, ErrUnterminatedPlaceholder, 0},
		{"unterminated after text", "abc {0,plural,one{x}", []any{1}, ErrUnterminatedPlaceholder, 4},
		{"unterminated branch", "{0,plural,one{x", []any{1}, ErrUnterminatedPlaceholder, 0},
		{"unterminated type", "{0,plural", []any{1}, ErrUnterminatedPlaceholder, 0},
		{"lone brace", "{", nil, ErrUnterminatedPlaceholder, 0},
		{"not a number", "{x}", []any{1}, ErrInvalidIndex, 0},
		{"empty index", "a{}", []any{1}, ErrInvalidIndex, 1},
		{"out of range", "{1}", []any{1}, ErrIndexOutOfRange, 0},
		{"negative", "{-1}", []any{1}, ErrIndexOutOfRange, 0},
		{"no values", "{0}", nil, ErrIndexOutOfRange, 0},
		{"nested brace in index", "{0{", []any{1}, ErrMalformedPlaceholder, 2},
		{"nested brace in branch", "{0,plural,other{{}}", []any{1}, ErrMalformedPlaceholder, 16},
		{"missing other", "{0,plural,one{x}}", []any{2}, ErrMissingPluralBranch, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := FormatE(tt.template, tt.values...)
			require.ErrorIs(t, err, tt.wantErr)

			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.template, fe.Template)
			assert.Equal(t, tt.offset, fe.Offset)

			got := Format(tt.template, tt.values...)
			assert.Equal(t, "Error formatting '"+tt.template+"', bug report?", got)
			assert.Contains(t, got, tt.template)
		})
	}
}

func TestFormatIsIdempotentOnOutput(t *testing.T) {
	t.Parallel()

	first := Format("{0} unread, {1,plural,one{# starred}other{# starred}}", 12, 1)
	assert.Equal(t, "12 unread, 1 starred", first)
	assert.Equal(t, first, Format(first))
}

func TestFormatConcurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup

	for i := range 32 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.Equal(t, "1 entry", Format("{0,plural,one{# entry}other{# entries}}", 1))
			assert.NotEmpty(t, Format("{0}", i))
		}()
	}

	wg.Wait()
}

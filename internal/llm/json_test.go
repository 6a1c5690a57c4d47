package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "prose around", in: "Claro! Aqui está:\n{\"a\":1}\nEspero ter ajudado.", want: `{"a":1}`},
		{name: "code fence", in: "```json\n{\"a\": {\"b\": 2}}\n```", want: `{"a": {"b": 2}}`},
		{name: "braces in strings", in: `{"t":"use {chaves} e \"aspas\" }"}`, want: `{"t":"use {chaves} e \"aspas\" }"}`},
		{name: "first object wins", in: `{"a":1} {"b":2}`, want: `{"a":1}`},
		{name: "no object", in: "sem json aqui", want: ""},
		{name: "unbalanced", in: `{"a": {"b": 1}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Title string `json:"title"`
	}

	require.NoError(t, DecodeJSON("content", `ok {"title":"Pizzaria"}`, &out))
	assert.Equal(t, "Pizzaria", out.Title)

	err := DecodeJSON("content", "nothing", &out)
	assert.Equal(t, KindSchema, KindOf(err))

	err = DecodeJSON("content", `{"title": 3}`, &out)
	assert.Equal(t, KindSchema, KindOf(err))
	assert.True(t, IsRecoverable(err))
}

type stubCompleter struct {
	text string
	err  error
}

func (s stubCompleter) Complete(context.Context, Request) (string, error) {
	return s.text, s.err
}

func TestCompleteJSON(t *testing.T) {
	var out map[string]string

	err := CompleteJSON(context.Background(), stubCompleter{text: `{"k":"v"}`}, Request{Agent: "x", Prompt: "p"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "v", out["k"])

	netErr := &Error{Kind: KindNetwork, Op: "x", Err: errors.New("reset")}
	err = CompleteJSON(context.Background(), stubCompleter{err: netErr}, Request{Agent: "x", Prompt: "p"}, &out)
	assert.ErrorIs(t, err, netErr)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "network", KindNetwork.String())
	assert.Equal(t, "schema", KindSchema.String())
	assert.Equal(t, "invalid", KindInvalid.String())
	assert.Equal(t, "canceled", KindCanceled.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestIsRecoverable_ForeignError(t *testing.T) {
	assert.False(t, IsRecoverable(errors.New("nil pointer")))
	assert.Equal(t, Kind(0), KindOf(nil))
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var codeFencePattern = regexp.MustCompile("```(?:json|JSON)?")

var errNoJSON = errors.New("no JSON object in response")

// ExtractJSON returns the first balanced top-level {...} in text, ignoring code fences
// and braces inside string literals. It returns "" when there is none.
func ExtractJSON(text string) string {
	text = codeFencePattern.ReplaceAllString(text, "")

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	text = text[start:]

	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}

	return ""
}

// DecodeJSON extracts the JSON object from an answer and unmarshals it into out.
// Failures are schema errors attributed to op.
func DecodeJSON(op, text string, out any) error {
	raw := ExtractJSON(text)
	if raw == "" {
		return NewSchemaError(op, errNoJSON)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return NewSchemaError(op, fmt.Errorf("invalid JSON: %w", err))
	}
	return nil
}

// CompleteJSON asks c for an answer and decodes its JSON object into out.
// Answers that do not decode are never cached by Client.
func CompleteJSON(ctx context.Context, c Completer, req Request, out any) error {
	decoded := false
	req.Accept = func(text string) error {
		if err := DecodeJSON(req.Agent, text, out); err != nil {
			return err
		}
		decoded = true
		return nil
	}

	text, err := c.Complete(ctx, req)
	if err != nil {
		return err
	}
	if decoded {
		return nil
	}
	return DecodeJSON(req.Agent, text, out)
}

// Package envelope defines tool outcomes and the uniform text envelope every
// tool call resolves to.
//
// Handlers report an [Outcome]: either a success payload or a failure message.
// [Build] wraps any outcome into an [Envelope] holding exactly one text
// content entry. Failures are rendered as "Error: <message>" so callers tell
// them apart by inspecting the text alone.
package envelope

import (
	"fmt"
	"strings"
)

// TypeText is the only content type produced by Build.
const TypeText = "text"

// errorPrefix is prepended to failure messages.
const errorPrefix = "Error: "

// Outcome is the result of a tool handler before it is wrapped. The zero value
// is an empty success.
type Outcome struct {
	text   string
	failed bool
}

// Success returns a successful outcome carrying text.
func Success(text string) Outcome {
	return Outcome{text: text}
}

// Number returns a successful outcome carrying n formatted by FormatNumber.
func Number(n float64) Outcome {
	return Success(FormatNumber(n))
}

// Failure returns a failed outcome carrying a descriptive message.
func Failure(msg string) Outcome {
	return Outcome{text: msg, failed: true}
}

// Failuref is Failure with fmt.Sprintf formatting.
func Failuref(format string, args ...any) Outcome {
	return Failure(fmt.Sprintf(format, args...))
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool { return o.failed }

// Text returns the success payload or the failure message, unprefixed.
func (o Outcome) Text() string { return o.text }

// Content is one entry of an envelope.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Envelope is the uniform result of a tool call.
type Envelope struct {
	Content []Content `json:"content"`
}

// Build wraps an outcome into an envelope with exactly one text entry.
func Build(o Outcome) Envelope {
	text := o.text
	if o.failed {
		text = errorPrefix + text
	}

	return Envelope{Content: []Content{{Type: TypeText, Text: text}}}
}

// Text concatenates the text of all entries.
func (e Envelope) Text() string {
	if len(e.Content) == 1 {
		return e.Content[0].Text
	}

	var sb strings.Builder
	for _, c := range e.Content {
		sb.WriteString(c.Text)
	}

	return sb.String()
}

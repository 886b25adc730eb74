package airtable

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/germanamz/calcmcp/pkg/tools/envelope"
)

const indent = "  "

// prettyJSON re-encodes data with a two-space indent the way
// JSON.stringify(value, null, 2) renders a parsed value: members keep their
// order, numbers are normalized (1.0 is 1, 1e2 is 100, out of range is null)
// and strings are written with minimal escaping.
func prettyJSON(data []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var sb strings.Builder
	if err := writeValue(dec, &sb, 0); err != nil {
		return "", err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("airtable: trailing data after JSON value")
	}

	return sb.String(), nil
}

func writeValue(dec *json.Decoder, sb *strings.Builder, depth int) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return writeContainer(dec, sb, depth, '{', '}', true)
		case '[':
			return writeContainer(dec, sb, depth, '[', ']', false)
		default:
			return fmt.Errorf("airtable: unexpected delimiter %q", v)
		}
	case string:
		writeString(sb, v)
	case json.Number:
		sb.WriteString(formatNumber(v))
	case bool:
		sb.WriteString(strconv.FormatBool(v))
	case nil:
		sb.WriteString("null")
	}

	return nil
}

func writeContainer(dec *json.Decoder, sb *strings.Builder, depth int, open, closing byte, keyed bool) error {
	sb.WriteByte(open)

	n := 0
	for dec.More() {
		if n > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(indent, depth+1))

		if keyed {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := tok.(string)
			writeString(sb, key)
			sb.WriteString(": ")
		}

		if err := writeValue(dec, sb, depth+1); err != nil {
			return err
		}
		n++
	}

	// Consume the closing delimiter.
	if _, err := dec.Token(); err != nil {
		return err
	}

	if n > 0 {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(indent, depth))
	}
	sb.WriteByte(closing)

	return nil
}

func formatNumber(n json.Number) string {
	f, _ := strconv.ParseFloat(n.String(), 64)
	if math.IsInf(f, 0) {
		return "null"
	}

	return envelope.FormatNumber(f)
}

// writeString quotes s, escaping only quotes, backslashes, and control
// characters.
func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}

	sb.WriteByte('"')
}

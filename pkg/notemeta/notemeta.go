// Package notemeta embeds structured purchase metadata inside a free-form
// note field. A stored note is the visible, human-authored text optionally
// followed by a single trailing machine-readable segment of the form
//
//	<visible text>\n\n[[SKMETA:{"count":2,"location":"cellar"}]]
//
// so the same string column carries both without a schema change. Decode and
// Encode are total functions: malformed segments are absorbed on read and
// invalid metadata fields are dropped on write, never surfaced as errors.
package notemeta

import (
	"encoding/json"
	"math"
	"strings"
	"unicode"
)

// Canonical metadata field names recognized by the codec.
const (
	FieldPkgSize    = "pkgSize"
	FieldCount      = "count"
	FieldLocation   = "location"
	FieldExpiryDate = "expiryDate"
)

// Metadata segment markers. The marker string is fixed and chosen for low
// collision probability with human text; visible text that happens to contain
// it is not escaped.
const (
	openTag   = "[[SKMETA:"
	closeTag  = "]]"
	separator = "\n\n"
)

// Metadata is the structured portion of a note. It is an open map so that
// Decode can return externally-written payloads as-is; the four-field
// allowlist is applied by Encode, not here.
type Metadata map[string]any

// Number returns the named field widened to float64 when it holds a numeric
// value of any Go numeric type.
func (m Metadata) Number(key string) (float64, bool) {
	return asNumber(m[key])
}

// Text returns the named field trimmed when it holds a non-empty string.
func (m Metadata) Text(key string) (string, bool) {
	s, ok := m[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// Decode splits a stored note into its visible text and embedded metadata.
// It never fails: a missing segment returns the input verbatim with empty
// metadata, and a segment whose payload is not a JSON object is stripped from
// the visible text but yields empty metadata. Only a trailing-anchored
// segment is recognized; tag-like text earlier in the note is preserved
// verbatim as part of the visible text. Callers holding a NULL note pass "".
func Decode(raw string) (visible string, meta Metadata) {
	meta = Metadata{}

	trimmed := strings.TrimRightFunc(raw, unicode.IsSpace)
	if !strings.HasSuffix(trimmed, closeTag) {
		return raw, meta
	}

	// The shortest segment that still reaches end-of-string starts at the
	// last opening marker. The payload must be at least one character.
	body := trimmed[:len(trimmed)-len(closeTag)]
	start := strings.LastIndex(body, openTag)
	if start < 0 {
		return raw, meta
	}
	payload := body[start+len(openTag):]
	if payload == "" {
		return raw, meta
	}

	visible = strings.TrimRightFunc(raw[:start], unicode.IsSpace)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil || parsed == nil {
		// Malformed payloads are absorbed: the segment is still stripped.
		return visible, meta
	}
	return visible, Metadata(parsed)
}

// Encode produces the stored form of a note. The visible text is trimmed and
// the metadata is reduced to the four canonical fields, dropping any field
// that fails validation. With no surviving fields the trimmed visible text is
// returned alone; ok is false when that text is also empty, which callers use
// to clear the stored note rather than persist an empty string.
func Encode(visibleNote string, meta Metadata) (stored string, ok bool) {
	visible := strings.TrimSpace(visibleNote)
	clean := cleanFields(meta)

	if len(clean) == 0 {
		if visible == "" {
			return "", false
		}
		return visible, true
	}

	payload, err := json.Marshal(clean)
	if err != nil {
		// Cleaned values are finite floats and plain strings; Marshal
		// cannot fail on them. Fall back to the visible text alone.
		if visible == "" {
			return "", false
		}
		return visible, true
	}

	tag := openTag + string(payload) + closeTag
	if visible == "" {
		return tag, true
	}
	return visible + separator + tag, true
}

// cleanFields applies the canonical four-field allowlist. Numeric fields are
// kept when finite and strictly positive, normalized to float64. String
// fields are kept trimmed when non-empty after trimming. Unknown fields and
// wrongly-typed values are dropped silently.
func cleanFields(meta Metadata) Metadata {
	clean := Metadata{}
	for _, key := range []string{FieldPkgSize, FieldCount} {
		n, ok := asNumber(meta[key])
		if ok && !math.IsNaN(n) && !math.IsInf(n, 0) && n > 0 {
			clean[key] = n
		}
	}
	for _, key := range []string{FieldLocation, FieldExpiryDate} {
		s, ok := meta[key].(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s != "" {
			clean[key] = s
		}
	}
	return clean
}

// asNumber widens a value of any Go numeric type to float64.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

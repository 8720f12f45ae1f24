package notemeta

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantVisible string
		wantMeta    Metadata
	}{
		{
			name:        "empty input",
			raw:         "",
			wantVisible: "",
			wantMeta:    Metadata{},
		},
		{
			name:        "plain note passes through unchanged",
			raw:         "just a plain note",
			wantVisible: "just a plain note",
			wantMeta:    Metadata{},
		},
		{
			name:        "plain note keeps trailing whitespace when no segment",
			raw:         "note with trailing space   ",
			wantVisible: "note with trailing space   ",
			wantMeta:    Metadata{},
		},
		{
			name:        "note with metadata segment",
			raw:         "milk\n\n[[SKMETA:{\"count\":2,\"location\":\"cellar\"}]]",
			wantVisible: "milk",
			wantMeta:    Metadata{"count": float64(2), "location": "cellar"},
		},
		{
			name:        "segment alone",
			raw:         "[[SKMETA:{\"pkgSize\":1.5}]]",
			wantVisible: "",
			wantMeta:    Metadata{"pkgSize": 1.5},
		},
		{
			name:        "whitespace around segment is tolerated",
			raw:         "bread  \n \t\n[[SKMETA:{\"count\":3}]] \n ",
			wantVisible: "bread",
			wantMeta:    Metadata{"count": float64(3)},
		},
		{
			name:        "malformed payload is absorbed but segment stripped",
			raw:         "leftover text\n\n[[SKMETA:{not valid json]]",
			wantVisible: "leftover text",
			wantMeta:    Metadata{},
		},
		{
			name:        "non-object payload is absorbed",
			raw:         "x\n\n[[SKMETA:42]]",
			wantVisible: "x",
			wantMeta:    Metadata{},
		},
		{
			name:        "null payload is absorbed",
			raw:         "x\n\n[[SKMETA:null]]",
			wantVisible: "x",
			wantMeta:    Metadata{},
		},
		{
			name:        "empty payload is not a segment",
			raw:         "x\n\n[[SKMETA:]]",
			wantVisible: "x\n\n[[SKMETA:]]",
			wantMeta:    Metadata{},
		},
		{
			name:        "closing marker without opening marker",
			raw:         "array index a[1]]",
			wantVisible: "array index a[1]]",
			wantMeta:    Metadata{},
		},
		{
			name:        "mid-text segment is not recognized",
			raw:         "before [[SKMETA:{\"count\":1}]] after",
			wantVisible: "before [[SKMETA:{\"count\":1}]] after",
			wantMeta:    Metadata{},
		},
		{
			name:        "only the trailing segment is recognized",
			raw:         "a [[SKMETA:{\"count\":1}]] b\n\n[[SKMETA:{\"count\":2}]]",
			wantVisible: "a [[SKMETA:{\"count\":1}]] b",
			wantMeta:    Metadata{"count": float64(2)},
		},
		{
			name:        "unknown fields pass through on decode",
			raw:         "y\n\n[[SKMETA:{\"count\":2,\"extra\":\"kept\"}]]",
			wantVisible: "y",
			wantMeta:    Metadata{"count": float64(2), "extra": "kept"},
		},
		{
			name:        "wrongly typed fields pass through on decode",
			raw:         "z\n\n[[SKMETA:{\"pkgSize\":\"big\"}]]",
			wantVisible: "z",
			wantMeta:    Metadata{"pkgSize": "big"},
		},
		{
			name:        "payload containing closing marker inside a string",
			raw:         "q\n\n[[SKMETA:{\"location\":\"bin ]] three\"}]]",
			wantVisible: "q",
			wantMeta:    Metadata{"location": "bin ]] three"},
		},
		{
			name:        "leading and internal whitespace preserved",
			raw:         "  line one\n\nline two\n\n[[SKMETA:{\"count\":1}]]",
			wantVisible: "  line one\n\nline two",
			wantMeta:    Metadata{"count": float64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible, meta := Decode(tt.raw)
			assert.Equal(t, tt.wantVisible, visible)
			assert.Equal(t, tt.wantMeta, meta)
		})
	}
}

func TestDecodeIdempotent(t *testing.T) {
	raw := "weekly shop\n\n[[SKMETA:{\"count\":4,\"expiryDate\":\"2026-09-01\"}]]"

	visible, meta := Decode(raw)
	assert.Equal(t, "weekly shop", visible)
	assert.Len(t, meta, 2)

	again, meta2 := Decode(visible)
	assert.Equal(t, visible, again)
	assert.Empty(t, meta2)
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		visible string
		meta    Metadata
		want    string
		wantOK  bool
	}{
		{
			name:    "empty note and empty metadata clears the field",
			visible: "",
			meta:    Metadata{},
			want:    "",
			wantOK:  false,
		},
		{
			name:    "whitespace-only note and nil metadata clears the field",
			visible: "   \n\t",
			meta:    nil,
			want:    "",
			wantOK:  false,
		},
		{
			name:    "plain note without metadata is trimmed",
			visible: "  buy oat milk  ",
			meta:    Metadata{},
			want:    "buy oat milk",
			wantOK:  true,
		},
		{
			name:    "whitespace-only note with metadata yields tag alone",
			visible: "   ",
			meta:    Metadata{"pkgSize": float64(3)},
			want:    "[[SKMETA:{\"pkgSize\":3}]]",
			wantOK:  true,
		},
		{
			name:    "note and metadata separated by one blank line",
			visible: "milk",
			meta:    Metadata{"count": float64(2), "expiryDate": "2025-01-01"},
			want:    "milk\n\n[[SKMETA:{\"count\":2,\"expiryDate\":\"2025-01-01\"}]]",
			wantOK:  true,
		},
		{
			name:    "invalid fields are dropped",
			visible: "milk",
			meta: Metadata{
				"pkgSize":    float64(-5),
				"count":      float64(2),
				"location":   "",
				"expiryDate": "2025-01-01",
			},
			want:   "milk\n\n[[SKMETA:{\"count\":2,\"expiryDate\":\"2025-01-01\"}]]",
			wantOK: true,
		},
		{
			name:    "unknown fields are dropped",
			visible: "x",
			meta:    Metadata{"pkgSize": float64(2), "extra": "ignored"},
			want:    "x\n\n[[SKMETA:{\"pkgSize\":2}]]",
			wantOK:  true,
		},
		{
			name:    "wrongly typed fields are dropped",
			visible: "x",
			meta: Metadata{
				"pkgSize":  "not a number",
				"count":    true,
				"location": 7,
			},
			want:   "x",
			wantOK: true,
		},
		{
			name:    "zero numeric values are dropped",
			visible: "x",
			meta:    Metadata{"pkgSize": float64(0), "count": 0},
			want:    "x",
			wantOK:  true,
		},
		{
			name:    "non-finite numeric values are dropped",
			visible: "x",
			meta:    Metadata{"pkgSize": math.NaN(), "count": math.Inf(1)},
			want:    "x",
			wantOK:  true,
		},
		{
			name:    "string fields are stored trimmed",
			visible: "x",
			meta:    Metadata{"location": "  cellar  "},
			want:    "x\n\n[[SKMETA:{\"location\":\"cellar\"}]]",
			wantOK:  true,
		},
		{
			name:    "integer values are accepted for numeric fields",
			visible: "x",
			meta:    Metadata{"count": 3},
			want:    "x\n\n[[SKMETA:{\"count\":3}]]",
			wantOK:  true,
		},
		{
			name:    "all metadata invalid and empty note clears the field",
			visible: "",
			meta:    Metadata{"pkgSize": float64(-1), "location": "   "},
			want:    "",
			wantOK:  false,
		},
		{
			name:    "tag-like visible text is not escaped",
			visible: "see [[SKMETA:old]]",
			meta:    Metadata{},
			want:    "see [[SKMETA:old]]",
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Encode(tt.visible, tt.meta)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTripCleanInput(t *testing.T) {
	meta := Metadata{
		"pkgSize":    1.5,
		"count":      float64(6),
		"location":   "pantry shelf",
		"expiryDate": "2026-03-14",
	}

	stored, ok := Encode("  eggs from the market  ", meta)
	assert.True(t, ok)

	visible, got := Decode(stored)
	assert.Equal(t, "eggs from the market", visible)
	assert.Equal(t, meta, got)
}

func TestMetadataAccessors(t *testing.T) {
	m := Metadata{
		"count":    int64(4),
		"pkgSize":  "oops",
		"location": "  fridge door ",
	}

	n, ok := m.Number("count")
	assert.True(t, ok)
	assert.Equal(t, float64(4), n)

	_, ok = m.Number("pkgSize")
	assert.False(t, ok)

	s, ok := m.Text("location")
	assert.True(t, ok)
	assert.Equal(t, "fridge door", s)

	_, ok = m.Text("expiryDate")
	assert.False(t, ok)
}

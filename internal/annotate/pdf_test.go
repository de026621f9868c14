package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	rpdf "rsc.io/pdf"
)

func frag(s string, x, w, size float64) rpdf.Text {
	return rpdf.Text{S: s, X: x, W: w, FontSize: size}
}

func TestWordGap(t *testing.T) {
	tests := []struct {
		name string
		prev rpdf.Text
		next rpdf.Text
		want bool
	}{
		{
			name: "adjacent glyphs of one word",
			prev: frag("S", 100, 8, 12),
			next: frag("l", 108, 4, 12),
			want: false,
		},
		{
			name: "small kerning gap",
			prev: frag("A", 100, 8, 12),
			next: frag("V", 109, 8, 12),
			want: false,
		},
		{
			name: "word-sized gap",
			prev: frag("Slide", 100, 30, 12),
			next: frag("3", 136, 7, 12),
			want: true,
		},
		{
			name: "explicit trailing space",
			prev: frag("Slide ", 100, 33, 12),
			next: frag("3", 140, 7, 12),
			want: false,
		},
		{
			name: "explicit leading space",
			prev: frag("Slide", 100, 30, 12),
			next: frag(" 3", 130, 10, 12),
			want: false,
		},
		{
			name: "overlapping fragments",
			prev: frag("f", 100, 6, 12),
			next: frag("i", 104, 3, 12),
			want: false,
		},
		{
			name: "empty fragment",
			prev: frag("", 100, 0, 12),
			next: frag("x", 110, 6, 12),
			want: false,
		},
		{
			name: "missing font size falls back",
			prev: frag("a", 100, 6, 0),
			next: frag("b", 112, 6, 0),
			want: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, wordGap(tc.prev, tc.next))
		})
	}
}

// Per-glyph output, as many PDFs emit it, must reassemble into words: no
// space between abutting glyphs, a space only across a wide gap.
func TestWordGap_GlyphRun(t *testing.T) {
	glyphs := []rpdf.Text{
		frag("S", 100, 8, 12),
		frag("l", 108, 4, 12),
		frag("i", 112, 3, 12),
		frag("d", 115, 7, 12),
		frag("e", 122, 6, 12),
		frag("3", 133, 7, 12), // gap of 5pt at 12pt font: a word break
	}
	var out string
	for i, g := range glyphs {
		if i > 0 && wordGap(glyphs[i-1], g) {
			out += " "
		}
		out += g.S
	}
	assert.Equal(t, "Slide 3", out)
}

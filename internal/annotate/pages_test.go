package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePages(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		total int
		want  []int
	}{
		{"single page", "3", 6, []int{2}},
		{"range", "1-3", 6, []int{0, 1, 2}},
		{"mixed", "1-3,5", 6, []int{0, 1, 2, 4}},
		{"out of order input", "5,1-3", 6, []int{0, 1, 2, 4}},
		{"overlap deduplicated", "1-4,3-5", 6, []int{0, 1, 2, 3, 4}},
		{"duplicate single", "2,2,2", 6, []int{1}},
		{"whitespace tolerated", " 1 - 2 , 4 ", 6, []int{0, 1, 3}},
		{"empty selects all", "", 3, []int{0, 1, 2}},
		{"full span", "1-6", 6, []int{0, 1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePages(tt.expr, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePages_Ascending(t *testing.T) {
	got, err := ParsePages("9,2-4,7,1", 10)
	require.NoError(t, err)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1], "indices must be strictly ascending")
	}
	for _, p := range got {
		assert.Less(t, p, 10)
		assert.GreaterOrEqual(t, p, 0)
	}
}

func TestParsePages_Errors(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		total int
	}{
		{"not a number", "a", 6},
		{"empty token", "1,,3", 6},
		{"zero page", "0", 6},
		{"negative page", "-2", 6},
		{"descending range", "5-3", 6},
		{"beyond page count", "7", 6},
		{"range beyond page count", "4-9", 6},
		{"garbage range", "1-x", 6},
		{"no pages in document", "1", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePages(tt.expr, tt.total)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

func TestParsePages_BoundsCheckedAtResolution(t *testing.T) {
	// The same expression can be valid for a long document and invalid for
	// a short one.
	_, err := ParsePages("1-8", 10)
	require.NoError(t, err)
	_, err = ParsePages("1-8", 5)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestBucketLabel(t *testing.T) {
	assert.Equal(t, "all", BucketLabel(""))
	assert.Equal(t, "all", BucketLabel("   "))
	assert.Equal(t, "1-3_5", BucketLabel("1-3,5"))
	assert.Equal(t, "1-3_5", BucketLabel(" 1-3, 5 "))
	assert.Equal(t, "2", BucketLabel("2"))
}

package annotate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParsePages resolves a page-range expression such as "1-3,5" against a
// document with total pages. The external syntax is 1-based; the result is a
// strictly ascending list of distinct 0-based indices. An empty expression
// selects every page. Bounds are checked against total, so the same
// expression can be valid for one document and invalid for another.
func ParsePages(expr string, total int) ([]int, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrInvalidRange)
	}
	if strings.TrimSpace(expr) == "" {
		all := make([]int, total)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	seen := make(map[int]bool)
	for _, tok := range strings.Split(expr, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return nil, fmt.Errorf("%w: empty token in %q", ErrInvalidRange, expr)
		}
		lo, hi, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		if hi > total {
			return nil, fmt.Errorf("%w: page %d exceeds page count %d", ErrInvalidRange, hi, total)
		}
		for p := lo; p <= hi; p++ {
			seen[p-1] = true
		}
	}

	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out, nil
}

func parseToken(tok string) (lo, hi int, err error) {
	if a, b, ok := strings.Cut(tok, "-"); ok {
		lo, err = parsePageNum(a)
		if err != nil {
			return 0, 0, err
		}
		hi, err = parsePageNum(b)
		if err != nil {
			return 0, 0, err
		}
		if hi < lo {
			return 0, 0, fmt.Errorf("%w: descending range %q", ErrInvalidRange, tok)
		}
		return lo, hi, nil
	}
	lo, err = parsePageNum(tok)
	return lo, lo, err
}

func parsePageNum(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a positive page number", ErrInvalidRange, s)
	}
	return n, nil
}

// BucketLabel derives the cache bucket for a page-range expression. Notes are
// keyed by the batch they were generated under, so different requested ranges
// use different buckets even when they overlap.
func BucketLabel(expr string) string {
	expr = strings.ReplaceAll(strings.TrimSpace(expr), " ", "")
	if expr == "" {
		return "all"
	}
	return strings.ReplaceAll(expr, ",", "_")
}

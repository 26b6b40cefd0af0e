package iterutil_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/karupanerura/async-image/internal/iterutil"
)

func TestUniq(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name  string
		input []string
		want  []string
	}{
		{name: "empty", input: nil, want: nil},
		{name: "no duplicates", input: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "duplicates keep first position", input: []string{"b", "a", "b", "c", "a"}, want: []string{"b", "a", "c"}},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := slices.Collect(iterutil.Uniq(slices.Values(tt.input)))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("unexpected result (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMapFilter(t *testing.T) {
	t.Parallel()

	seq := iterutil.Map(slices.Values([]int{1, 2, 3, 4}), func(i int) int { return i * 10 })
	got := slices.Collect(iterutil.Filter(seq, func(i int) bool { return i != 20 }))
	if diff := cmp.Diff([]int{10, 30, 40}, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}

	// early termination must stop the source
	var seen []int
	for v := range iterutil.Map(slices.Values([]int{1, 2, 3}), func(i int) int { seen = append(seen, i); return i }) {
		if v == 2 {
			break
		}
	}
	if diff := cmp.Diff([]int{1, 2}, seen); diff != "" {
		t.Errorf("unexpected visits (-want +got):\n%s", diff)
	}
}

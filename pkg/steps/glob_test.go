package steps

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestExpandPatterns(t *testing.T) {
	fsys := fstest.MapFS{
		"test/async.js":             {Data: []byte("")},
		"test/regression.js":        {Data: []byte("")},
		"test/fixtures/b.js":        {Data: []byte("")},
		"test/fixtures/a.js":        {Data: []byte("")},
		"test/fixtures/nested/c.js": {Data: []byte("")},
	}

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "literal kept even when missing",
			patterns: []string{"./test/not-yet-generated.es5.js", "./test/async.js"},
			want:     []string{"./test/not-yet-generated.es5.js", "./test/async.js"},
		},
		{
			name:     "pattern order preserved, matches sorted",
			patterns: []string{"./test/regression.js", "./test/fixtures/**/*.js"},
			want:     []string{"./test/regression.js", "test/fixtures/a.js", "test/fixtures/b.js", "test/fixtures/nested/c.js"},
		},
		{
			name:     "overlapping patterns deduplicated",
			patterns: []string{"test/fixtures/*.js", "test/fixtures/**/*.js"},
			want:     []string{"test/fixtures/a.js", "test/fixtures/b.js", "test/fixtures/nested/c.js"},
		},
		{
			name:     "no matches",
			patterns: []string{"test/*.ts"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPatterns(fsys, tt.patterns)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExpandPatterns() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpandPatterns_BadPattern(t *testing.T) {
	if _, err := ExpandPatterns(fstest.MapFS{}, []string{"test/[.js"}); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}

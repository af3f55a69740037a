package markup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "semicolon inside quotes",
			in:   `A: "x;y"; B: 2;`,
			want: []string{`A: "x;y"`, "B: 2"},
		},
		{
			name: "comment runs to end of line",
			in:   "L-Pa1:M; // first; not a statement\nL-D1:\"1861\";",
			want: []string{"L-Pa1:M", `L-D1:"1861"`},
		},
		{
			name: "comment inside a statement",
			in:   "L-Pa1:M, // sex\n\"John\";",
			want: []string{`L-Pa1:M,  "John"`},
		},
		{
			name: "slashes inside quotes are text",
			in:   `L-P1:"http://example.org/a";`,
			want: []string{`L-P1:"http://example.org/a"`},
		},
		{
			name: "whitespace folds to spaces",
			in:   "\n\tL-Pa1:M,\r\n\"John\";",
			want: []string{`L-Pa1:M,  "John"`},
		},
		{
			name: "empty statements are kept",
			in:   "a;;",
			want: []string{"a", ""},
		},
		{
			name: "text after the last semicolon is dropped",
			in:   "a; b",
			want: []string{"a"},
		},
		{
			name: "unterminated quote",
			in:   `a; "b;c`,
			want: []string{"a"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Tokenize(tt.in)); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

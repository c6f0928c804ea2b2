package docparse

import "testing"

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "empty input",
			html: "   ",
			want: "",
		},
		{
			name: "paragraphs become lines",
			html: "<p>First paragraph.</p><p>Second paragraph.</p>",
			want: "First paragraph.\nSecond paragraph.",
		},
		{
			name: "scripts and styles are dropped",
			html: "<div>Visible</div><script>alert(1)</script><style>p{}</style>",
			want: "Visible",
		},
		{
			name: "table rows separate",
			html: "<table><tr><td>cell one</td></tr><tr><td>cell two</td></tr></table>",
			want: "cell one\ncell two",
		},
		{
			name: "nested blocks collapse blank lines",
			html: "<div><div><p>Deep text</p></div></div>",
			want: "Deep text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(tt.html)
			if err != nil {
				t.Fatalf("ExtractText() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

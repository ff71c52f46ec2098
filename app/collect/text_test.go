package collect

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"  plain   text\n here ", "plain text here"},
		{"<p>First</p><p>Second</p>", "First Second"},
		{"Line<br>break", "Line break"},
		{"<b>Bold</b> &amp; <i>italic</i>", "Bold & italic"},
		{"<p>Keep</p><script>alert(1)</script>", "Keep"},
		{"<style>p{color:red}</style><div>Body</div>", "Body"},
		{"<ul><li>One</li><li>Two</li></ul>", "One Two"},
	}

	for _, tt := range tests {
		if got := PlainText(tt.input); got != tt.expected {
			t.Errorf("PlainText(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

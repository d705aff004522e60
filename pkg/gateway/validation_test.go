package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer_Text(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text", input: "  Claude Monet ", want: "Claude Monet"},
		{name: "entities in plain text", input: "Painter of light & water", want: "Painter of light & water"},
		{name: "comparison", input: "a < b", want: "a < b"},
		{name: "inline tags", input: "Painter of <i>light</i>", want: "Painter of light"},
		{name: "encoded tags", input: "&lt;b&gt;Monet&lt;/b&gt;", want: "Monet"},
		{name: "double encoded tags", input: "&amp;lt;b&amp;gt;Monet&amp;lt;/b&amp;gt;", want: "Monet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Text(tt.input))
		})
	}

	got := s.Text("&lt;script&gt;alert(1)&lt;/script&gt; Monet")
	assert.NotContains(t, got, "<")
	assert.Contains(t, got, "Monet")
}

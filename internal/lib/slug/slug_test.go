package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "two words", in: "Physics Wallah", want: "physics-wallah"},
		{name: "punctuation and spaces collapse", in: "A!!B  C", want: "a-b-c"},
		{name: "edges trimmed", in: "  --Notion--  ", want: "notion"},
		{name: "digits kept", in: "Allen Test My Prep 2.0", want: "allen-test-my-prep-2-0"},
		{name: "non ascii letters become separators", in: "Café Études", want: "caf-tudes"},
		{name: "only symbols", in: "!!!", want: ""},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestMake_Deterministic(t *testing.T) {
	for range 3 {
		assert.Equal(t, "wolfram-alpha", Make("Wolfram Alpha"))
	}
}

package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRefusal(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", true},
		{"cannot", "I cannot help with that.", true},
		{"can't", "Sorry, i can't do this", true},
		{"unable", "I am unable to comply.", true},
		{"model unable", "The model is unable to answer.", true},
		{"as an AI", "As an AI language model, I ...", true},
		{"policy", "This violates our content POLICY.", true},
		{"refuse", "I refuse.", true},
		{"recipe json", `{"title":"Soup","steps":["Boil water."]}`, false},
		{"policy inside word", "Apolicyx text", false},
		{"canned food", "I canned the tomatoes last year.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRefusal(tt.text))
		})
	}
}

func TestRefusalReason(t *testing.T) {
	reason, ok := refusalReason("Per policy, I cannot do that")
	assert.True(t, ok)
	assert.Equal(t, "cannot", reason)
}

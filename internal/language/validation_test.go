package language

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "single letter", input: "a"},
		{name: "mixed case", input: "Gujarati"},
		{name: "twenty letters", input: strings.Repeat("x", 20)},
		{name: "empty", input: "", wantErr: true},
		{name: "digits", input: "123", wantErr: true},
		{name: "inner space", input: "Old Norse", wantErr: true},
		{name: "leading space", input: " Tamil", wantErr: true},
		{name: "hyphen", input: "Serbo-Croatian", wantErr: true},
		{name: "twenty one letters", input: strings.Repeat("x", 21), wantErr: true},
		{name: "non ascii letter", input: "Français", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, IsValidationError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

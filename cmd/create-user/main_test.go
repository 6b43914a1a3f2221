package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"valid", "alice\nalice@example.com\ncorrect-horse\n", ""},
		{"missing username", "\nalice@example.com\ncorrect-horse\n", "username is required"},
		{"bad email", "alice\nalice.example.com\ncorrect-horse\n", "email must contain @"},
		{"short password", "alice\nalice@example.com\nshort\n", "at least 8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			u, err := prompt(strings.NewReader(tt.input), &out)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", u.Username)
			assert.Equal(t, "alice@example.com", u.Email)
			assert.Contains(t, out.String(), "Password: ")
		})
	}
}

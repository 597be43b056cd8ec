package logutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "Login broken", TruncateForLog("Login broken", 20))
	assert.Equal(t, "Login...", TruncateForLog("Login broken", 5))
	assert.Equal(t, "...", TruncateForLog("anything", 0))
}

func TestMaskEmail(t *testing.T) {
	tests := map[string]string{
		"jane@example.com": "j***@example.com",
		"j@example.com":    "j***@example.com",
		"not-an-email":     "***",
	}
	for in, want := range tests {
		assert.Equal(t, want, MaskEmail(in), in)
	}
}

package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Simple", "user@example.com", true},
		{"Plus tag", "user+tag@example.co.uk", true},
		{"Empty", "", false},
		{"No domain", "user@", false},
		{"Double dot", "us..er@example.com", false},
		{"Leading dot", ".user@example.com", false},
		{"Hyphen label", "user@-example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidEmail(tt.input))
		})
	}
}

func TestNormalizeEmailList(t *testing.T) {
	out, err := NormalizeEmailList([]string{" B@Example.com", "a@example.com", "", "b@example.com"}, "allowed_emails")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, out)

	_, err = NormalizeEmailList([]string{"a@example.com", "not-an-email"}, "allowed_emails")
	require.Error(t, err)
	assert.True(t, errors.Is(err, app_errors.ErrValidation))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"My Holiday Clip.MP4", "My_Holiday_Clip.mp4"},
		{"../../etc/passwd", "passwd"},
		{"C:\\videos\\demo.mov", "demo.mov"},
		{"...", "video"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestResolveVideoContentType(t *testing.T) {
	ct, err := ResolveVideoContentType("clip.mp4", "video/mp4; codecs=avc1", "file")
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", ct)

	ct, err = ResolveVideoContentType("clip.webm", "application/octet-stream", "file")
	require.NoError(t, err)
	assert.Equal(t, "video/webm", ct)

	_, err = ResolveVideoContentType("notes.txt", "text/plain", "file")
	assert.Error(t, err)
}

func TestValidateText(t *testing.T) {
	assert.NoError(t, ValidateText("Team demo", "name", 10, true))
	assert.Error(t, ValidateText("   ", "name", 10, true))
	assert.NoError(t, ValidateText("", "description", 10, false))
	assert.Error(t, ValidateText("this is far too long", "name", 10, true))
	assert.Error(t, ValidateText(`<script>alert(1)</script>`, "name", 0, true))
	assert.Error(t, ValidateText(`<img src=x onerror=alert(1)>`, "name", 0, true))
}

func TestValidateVideoURL(t *testing.T) {
	assert.NoError(t, ValidateVideoURL("https://youtu.be/abc", "video_url"))
	assert.Error(t, ValidateVideoURL("javascript:alert(1)", "video_url"))
	assert.Error(t, ValidateVideoURL("/relative/path.mp4", "video_url"))
	assert.Error(t, ValidateVideoURL("ftp://host/video.mp4", "video_url"))
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvInt_Clamps(t *testing.T) {
	t.Setenv("VL_TEST_INT", "5000")
	assert.Equal(t, 100, getEnvInt("VL_TEST_INT", 10, 0, 100))

	t.Setenv("VL_TEST_INT", "-3")
	assert.Equal(t, 0, getEnvInt("VL_TEST_INT", 10, 0, 100))

	t.Setenv("VL_TEST_INT", "not-a-number")
	assert.Equal(t, 10, getEnvInt("VL_TEST_INT", 10, 0, 100))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("S3_ENDPOINT", "storage.example.net")
	t.Setenv("VL_PUBLIC_BASE_URL", "https://vid.example.com/")
	t.Setenv("VL_DB_DRIVER", "Postgres")

	cfg := Load()

	assert.Equal(t, "https://storage.example.net", cfg.S3Endpoint)
	assert.Equal(t, "https://vid.example.com", cfg.PublicBaseURL)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, int64(512), cfg.UploadLimitMBFree)
	assert.Equal(t, int64(2048), cfg.UploadLimitMBIndividual)
	assert.Equal(t, int64(10240), cfg.UploadLimitMBTeam)
	assert.Equal(t, "8080", cfg.HTTPPort)
}

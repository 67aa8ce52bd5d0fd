package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "OUTPUT_FORMATS", "S3_ENABLED", "MONGO_ENABLED", "PG_ENABLED", "API_TOKEN"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "8070", c.Port)
	assert.Equal(t, []string{"xlsx", "csv"}, c.OutputFormats)
	assert.False(t, c.S3Enabled)
	assert.False(t, c.MongoEnabled)
	assert.False(t, c.PostgresEnabled)
	assert.Empty(t, c.APIToken)
}

func TestLoad_fromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("OUTPUT_FORMATS", " CSV, ,xlsx ")
	t.Setenv("PG_ENABLED", "yes")
	t.Setenv("AWS_USE_SSL", "true")
	t.Setenv("PG_DB", "reports")

	c := Load()
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, []string{"csv", "xlsx"}, c.OutputFormats)
	assert.True(t, c.PostgresEnabled)
	assert.True(t, c.S3Info.UseSSL)
	assert.Equal(t, "reports", c.PostgresInfo.DB)
}

func TestConnect_nothingEnabled(t *testing.T) {
	c := &Config{}
	require.NoError(t, c.Connect(context.Background()))
	assert.NoError(t, c.CheckConnections(context.Background()))
}

func TestCheckConnections_reportsMissingBackends(t *testing.T) {
	c := &Config{S3Enabled: true, MongoEnabled: true, PostgresEnabled: true}
	err := c.CheckConnections(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres not initialized")
	assert.Contains(t, err.Error(), "mongo not initialized")
	assert.Contains(t, err.Error(), "s3 not initialized")
}

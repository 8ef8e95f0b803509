package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_TYPE", "memory")
	for _, key := range []string{"PORT", "PAGE_SIZE", "MONGO_DATABASE", "MIGRATIONS_PATH"} {
		unsetenv(t, key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DBMemory, cfg.DBType)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "lorryledger", cfg.MongoDatabase)
	assert.Equal(t, "file://db/migrations", cfg.MigrationsPath)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"postgres without url", Config{DBType: DBPostgres, PageSize: 50}, "POSTGRES_URL"},
		{"mongo without url", Config{DBType: DBMongo, PageSize: 50}, "MONGO_URL"},
		{"unknown store", Config{DBType: "sqlite", PageSize: 50}, "not supported"},
		{"bad page size", Config{DBType: DBMemory}, "PAGE_SIZE"},
		{"memory", Config{DBType: DBMemory, PageSize: 10}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

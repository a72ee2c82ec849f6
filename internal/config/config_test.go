package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	for _, key := range []string{
		"RIOT_API_KEY", "RIOT_REGION", "RIOT_PLATFORM", "MATCHHISTORY_USER", "MATCHHISTORY_PUUID",
		"MATCHHISTORY_LIMIT", "MATCHHISTORY_FRIEND_THRESHOLD", "MATCHHISTORY_WORKERS",
		"MATCHHISTORY_SNAPSHOT", "MATCHHISTORY_CACHE", "LEAGUE_LOCKFILE", "DATABASE_URL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "americas", cfg.Region)
	assert.Equal(t, "na1", cfg.Platform)
	assert.Equal(t, 20, cfg.Limit)
	assert.Equal(t, 1, cfg.FriendThreshold)
	assert.Equal(t, 4, cfg.Workers)
	assert.Empty(t, cfg.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("RIOT_API_KEY", "RGAPI-test")
	t.Setenv("RIOT_REGION", "europe")
	t.Setenv("MATCHHISTORY_USER", "  Faker#KR1 ")
	t.Setenv("MATCHHISTORY_LIMIT", "50")
	t.Setenv("MATCHHISTORY_FRIEND_THRESHOLD", "3")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "RGAPI-test", cfg.APIKey)
	assert.Equal(t, "europe", cfg.Region)
	assert.Equal(t, "Faker#KR1", cfg.User)
	assert.Equal(t, "Faker", cfg.GameName())
	assert.Equal(t, "KR1", cfg.TagLine())
	assert.Equal(t, 50, cfg.Limit)
	assert.Equal(t, 3, cfg.FriendThreshold)
	assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
}

func TestRiotIDParts(t *testing.T) {
	tests := []struct {
		user, name, tag string
	}{
		{"Hide on bush#KR1", "Hide on bush", "KR1"},
		{"NoTag", "NoTag", ""},
		{"Trailing#", "Trailing", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			cfg := &Config{User: tt.user}
			assert.Equal(t, tt.name, cfg.GameName())
			assert.Equal(t, tt.tag, cfg.TagLine())
		})
	}
}

func TestParse_InvalidNumber(t *testing.T) {
	t.Setenv("MATCHHISTORY_LIMIT", "lots")
	_, err := Parse()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", Config{Limit: 0, FriendThreshold: 0, Workers: 1}, true},
		{"negative limit", Config{Limit: -1, Workers: 1}, false},
		{"negative threshold", Config{FriendThreshold: -1, Workers: 1}, false},
		{"no workers", Config{Workers: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MATCHHISTORY_PUUID=puuid-from-file\n"), 0o600))

	t.Setenv("MATCHHISTORY_PUUID", "")
	os.Unsetenv("MATCHHISTORY_PUUID")

	loaded := LoadDotEnv(filepath.Join(dir, "missing.env"), path)
	assert.Equal(t, path, loaded)
	assert.Equal(t, "puuid-from-file", os.Getenv("MATCHHISTORY_PUUID"))

	assert.Empty(t, LoadDotEnv(filepath.Join(dir, "nope.env")))
}

func TestLoadDotEnv_KeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("RIOT_REGION=asia\n"), 0o600))
	t.Setenv("RIOT_REGION", "europe")

	LoadDotEnv(path)
	assert.Equal(t, "europe", os.Getenv("RIOT_REGION"))
}

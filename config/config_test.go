package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigUsesEmbeddedTables(t *testing.T) {
	cfg := DefaultConfig()
	require.Empty(t, cfg.ResolveProfileDir())

	cat, err := cfg.Catalog()
	require.NoError(t, err)
	_, ok := cat.MessageByName("file_id")
	require.True(t, ok)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f4r.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profile_dir: /opt/fit/profile\nlogging:\n  level: debug\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/opt/fit/profile", cfg.ProfileDir)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestEnvOverridesProfileDir(t *testing.T) {
	t.Setenv(ProfileDirEnv, "/env/profile")
	cfg := DefaultConfig()
	cfg.ProfileDir = "/configured/profile"
	require.Equal(t, "/env/profile", cfg.ResolveProfileDir())
}

func TestCatalogFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "messages.csv"),
		[]byte("message_name,message_number,field_def,field_name,field_type\nfile_id,0,0,type,file\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "types.csv"),
		[]byte("type_name,base_type,value_name,value,comment\nfile,enum,activity,4,\n"), 0o644))

	cfg := DefaultConfig()
	cfg.ProfileDir = dir
	cat, err := cfg.Catalog()
	require.NoError(t, err)

	msg, ok := cat.MessageByName("file_id")
	require.True(t, ok)
	require.Len(t, msg.Fields, 1)
}

func TestLogLevelMapping(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for name, want := range tests {
		cfg := DefaultConfig()
		cfg.Logging.Level = name
		require.Equal(t, want, cfg.LogLevel(), "level %q", name)
	}
}

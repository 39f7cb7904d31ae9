package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zask/internal/eventbus"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cs := NewConfigService(filepath.Join(dir, "config.toml"), nil)

	cfg, err := cs.Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Search.PageSize)
	assert.Equal(t, 10, cfg.Search.LoadMoreSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 8*time.Second, cfg.Search.Timeout)
	assert.Equal(t, "player_cards_min", cfg.Search.REST.Table)
	assert.Equal(t, "https://api.zask.kr/api", cfg.API.ResolvedBaseURL())
	assert.Equal(t, filepath.Join(cfg.DataDir, "zask.log"), cfg.Log.File)
}

func TestLoadFromPathRequiresFile(t *testing.T) {
	cs := NewConfigService("", nil)
	_, err := cs.LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadReadsTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "https://staging.zask.kr/api/"

[search]
debounce = "100ms"
page_size = 50

[search.rest]
url = "https://abc.supabase.co"
anon_key = "anon"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewConfigService(path, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.zask.kr/api", cfg.API.ResolvedBaseURL())
	assert.Equal(t, 100*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 50, cfg.Search.PageSize)
	assert.Equal(t, 10, cfg.Search.LoadMoreSize, "unset keys keep defaults")
	assert.Equal(t, "anon", cfg.Search.REST.AnonKey)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("ZASK_API_BASE_URL", "https://env.example/api")
	t.Setenv("ZASK_SEARCH_REST_ANON_KEY", "from-env")

	cfg, err := NewConfigService(filepath.Join(t.TempDir(), "config.toml"), nil).Load()
	require.NoError(t, err)

	assert.Equal(t, "https://env.example/api", cfg.API.BaseURL)
	assert.Equal(t, "from-env", cfg.Search.REST.AnonKey)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("ZASK_LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("zask", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--log-level", "debug"}))

	cfg, err := NewConfigService(filepath.Join(t.TempDir(), "config.toml"), flags).Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cs := NewConfigService(path, nil)

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://saved.example/api"
	cfg.Search.Debounce = 400 * time.Millisecond
	cfg.Search.REST.URL = "https://abc.supabase.co"
	cfg.Search.REST.AnonKey = "k"
	require.NoError(t, cs.Save(cfg))

	loaded, err := cs.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.API.BaseURL, loaded.API.BaseURL)
	assert.Equal(t, 400*time.Millisecond, loaded.Search.Debounce)
	assert.Equal(t, cfg.Search.REST, loaded.Search.REST)
}

func TestSaveKeepsFileOwnerOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "zask")
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(path, []byte("version = 1\n"), 0644))

	cfg := DefaultConfig()
	cfg.API.SessionCookie = "sid=secret"
	require.NoError(t, NewConfigService(path, nil).Save(cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSaveCreatesPrivateDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")
	require.NoError(t, NewConfigService(filepath.Join(dir, "config.toml"), nil).Save(DefaultConfig()))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestLoadFileIgnoresOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \"https://file.example/api\"\n"), 0600))
	t.Setenv("ZASK_API_BASE_URL", "https://env.example/api")
	t.Setenv("ZASK_SEARCH_PAGE_SIZE", "99")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--log-level=debug"}))
	cs := NewConfigService(path, flags)

	layered, err := cs.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://env.example/api", layered.API.BaseURL)

	fileCfg, err := cs.LoadFile()
	require.NoError(t, err)
	assert.Equal(t, "https://file.example/api", fileCfg.API.BaseURL)
	assert.Equal(t, 30, fileCfg.Search.PageSize)
	assert.Equal(t, "info", fileCfg.Log.Level)
	assert.Empty(t, fileCfg.Log.File)

	fileCfg.API.SessionCookie = "sid=abc"
	require.NoError(t, cs.Save(fileCfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://file.example/api")
	assert.Contains(t, string(data), "sid=abc")
	assert.NotContains(t, string(data), "env.example")
	assert.NotContains(t, string(data), "debug")
	assert.NotContains(t, string(data), "zask.log")
}

func TestSavePublishesEvent(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	saved := make(chan struct{}, 1)
	bus.Subscribe(eventbus.EventConfigSaved, func(eventbus.DomainEvent) {
		saved <- struct{}{}
	})

	cs := NewConfigServiceWithBus(filepath.Join(t.TempDir(), "config.toml"), nil, bus)
	require.NoError(t, cs.Save(DefaultConfig()))

	select {
	case <-saved:
	case <-time.After(2 * time.Second):
		t.Fatal("ConfigSaved was not published")
	}
}

func TestEndpointsOrderAndSkipping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = ""
	cfg.API.Origin = "https://zask.kr/api/"
	cfg.Search.REST.URL = "https://abc.supabase.co/"
	cfg.Search.REST.AnonKey = "anon"

	eps := cfg.Endpoints()
	require.Len(t, eps.Candidates, 3)
	assert.Equal(t, "primary", eps.Candidates[0].Name)
	assert.Equal(t, "https://zask.kr/api", eps.Candidates[0].URL, "origin is the fallback primary")
	assert.Equal(t, "local", eps.Candidates[1].Name)
	assert.Equal(t, KindREST, eps.Candidates[2].Kind)
	assert.Equal(t, "https://abc.supabase.co", eps.Candidates[2].URL)

	cfg.Search.REST.AnonKey = ""
	cfg.Search.LocalURL = ""
	eps = cfg.Endpoints()
	require.Len(t, eps.Candidates, 1)
	assert.Equal(t, "primary", eps.Candidates[0].Name)
}

package sdk

import (
	"os"
	"testing"

	goplugin "github.com/hashicorp/go-plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stega-cli/stega/pkg/command"
	"github.com/stega-cli/stega/pkg/logging"
)

// greeterService is what this test binary serves when it re-execs
// itself as a plugin process, selected via the STEGA_TEST_PLUGIN
// environment variable set by pluginBinary below.
type greeterService struct {
	inited bool
}

func (s *greeterService) Metadata() (PluginMetadata, error) {
	deps, _ := parseDeps(os.Getenv("STEGA_TEST_PLUGIN_DEPS"))
	return PluginMetadata{
		Name:         envOr("STEGA_TEST_PLUGIN_NAME", "greeter"),
		Version:      envOr("STEGA_TEST_PLUGIN_VERSION", "1.0.0"),
		Author:       "test",
		Dependencies: deps,
	}, nil
}

func (s *greeterService) Describe() ([]CommandDef, error) {
	return []CommandDef{{
		Name:        "greet",
		Description: "prints a greeting",
		Options: []OptionDef{
			{Name: "name", Type: "string", HasDefault: true, Default: "world"},
		},
	}}, nil
}

func (s *greeterService) Init() error {
	s.inited = true
	return nil
}

func (s *greeterService) Invoke(req InvokeRequest) (InvokeResponse, error) {
	return InvokeResponse{}, nil
}

func (s *greeterService) Unload() error { return nil }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDeps(raw string) ([]PluginDependency, error) {
	if raw == "" {
		return nil, nil
	}
	return []PluginDependency{{Name: raw, Version: "1.0.0"}}, nil
}

// TestMain lets this test binary double as a plugin process: when
// STEGA_TEST_PLUGIN is set, it serves a greeterService over net/rpc
// instead of running the test suite. Manager.Load re-execs the test
// binary itself as the plugin, the standard way to exercise
// hashicorp/go-plugin without a separately compiled fixture.
func TestMain(m *testing.M) {
	if os.Getenv("STEGA_TEST_PLUGIN") == "1" {
		goplugin.Serve(&goplugin.ServeConfig{
			HandshakeConfig: Handshake,
			Plugins: map[string]goplugin.Plugin{
				"stega": &RPCPlugin{Impl: &greeterService{}},
			},
		})
		return
	}
	os.Exit(m.Run())
}

func pluginBinary(t *testing.T, env map[string]string) string {
	t.Helper()
	exe, err := os.Executable()
	require.NoError(t, err)
	t.Setenv("STEGA_TEST_PLUGIN", "1")
	for k, v := range env {
		t.Setenv(k, v)
	}
	return exe
}

func newTestManager() (*Manager, *command.Registry) {
	reg := command.NewRegistry()
	return NewManager(reg, logging.AsILogger(logging.Default())), reg
}

func TestManagerLoad_RegistersDescribedCommands(t *testing.T) {
	bin := pluginBinary(t, nil)
	mgr, reg := newTestManager()

	err := mgr.Load(bin, LoadOptions{})
	require.NoError(t, err)
	defer mgr.Unload("greeter")

	cmd, ok := reg.Find("greet")
	require.True(t, ok)
	assert.Equal(t, "greeter", cmd.Owner)

	plugins := mgr.List()
	require.Len(t, plugins, 1)
	assert.Equal(t, "greeter", plugins[0].Name)
}

func TestManagerLoad_DuplicateNameRejected(t *testing.T) {
	bin := pluginBinary(t, nil)
	mgr, _ := newTestManager()

	require.NoError(t, mgr.Load(bin, LoadOptions{}))
	defer mgr.Unload("greeter")

	err := mgr.Load(bin, LoadOptions{})
	assert.ErrorContains(t, err, "already active")
}

func TestManagerLoad_MissingDependencyRejected(t *testing.T) {
	bin := pluginBinary(t, map[string]string{
		"STEGA_TEST_PLUGIN_NAME": "needs-docker",
		"STEGA_TEST_PLUGIN_DEPS": "docker",
	})
	mgr, _ := newTestManager()

	err := mgr.Load(bin, LoadOptions{})
	assert.ErrorContains(t, err, "docker")
}

func TestManagerLoad_IntegrityMismatchRejected(t *testing.T) {
	bin := pluginBinary(t, nil)
	mgr, _ := newTestManager()

	err := mgr.Load(bin, LoadOptions{Integrity: "0000000000000000000000000000000000000000000000000000000000000000"})
	assert.Error(t, err)
}

func TestManagerUnload_RemovesCommandsAndProcess(t *testing.T) {
	bin := pluginBinary(t, nil)
	mgr, reg := newTestManager()

	require.NoError(t, mgr.Load(bin, LoadOptions{}))
	require.NoError(t, mgr.Unload("greeter"))

	_, ok := reg.Find("greet")
	assert.False(t, ok)
	assert.Empty(t, mgr.List())
}

func TestManagerUnload_UnknownPlugin(t *testing.T) {
	mgr, _ := newTestManager()
	err := mgr.Unload("nope")
	assert.Error(t, err)
}

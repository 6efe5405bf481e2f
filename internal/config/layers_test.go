package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, EnvFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultSources(t *testing.T) {
	sources := DefaultSources("/app/Resources", "/home/user")
	require.Len(t, sources, 2)
	assert.Equal(t, EnvSource{Name: "resource", Path: filepath.Join("/app/Resources", ".env")}, sources[0])
	assert.Equal(t, EnvSource{Name: "home", Path: filepath.Join("/home/user", ".env")}, sources[1])

	assert.Len(t, DefaultSources("", "/home/user"), 1)
	assert.Empty(t, DefaultSources("", ""))
}

func TestLoadLayers_PreexistingWins(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, "HC3_HOST=from-file\nHC3_USER=admin\n")

	env := NewMapEnvironment(map[string]string{EnvHost: "preset"})
	report := LoadLayers(env, []EnvSource{{Name: "resource", Path: filepath.Join(dir, EnvFileName)}})

	host, _ := env.LookupEnv(EnvHost)
	assert.Equal(t, "preset", host)
	user, _ := env.LookupEnv(EnvUser)
	assert.Equal(t, "admin", user)

	require.Len(t, report.Layers, 1)
	assert.Equal(t, LayerLoaded, report.Layers[0].Status)
	assert.Equal(t, []string{EnvUser}, report.Layers[0].Applied)
	assert.Equal(t, []string{EnvHost}, report.Layers[0].Shadow)
}

func TestLoadLayers_FirstLayerWins(t *testing.T) {
	resourceDir, homeDir := t.TempDir(), t.TempDir()
	writeEnvFile(t, resourceDir, "HC3_HOST=a\n")
	writeEnvFile(t, homeDir, "HC3_HOST=b\nHC3_PASSWORD=pw\n")

	env := NewMapEnvironment(nil)
	report := LoadLayers(env, DefaultSources(resourceDir, homeDir))

	host, _ := env.LookupEnv(EnvHost)
	assert.Equal(t, "a", host)
	pw, _ := env.LookupEnv(EnvPassword)
	assert.Equal(t, "pw", pw)

	assert.Equal(t, []string{"resource", "home"}, report.Loaded())
	assert.NoError(t, report.Err())
}

func TestLoadLayers_MissingFilesAreSkipped(t *testing.T) {
	env := NewMapEnvironment(nil)
	report := LoadLayers(env, DefaultSources(t.TempDir(), t.TempDir()))

	require.Len(t, report.Layers, 2)
	for _, l := range report.Layers {
		assert.Equal(t, LayerSkipped, l.Status)
		assert.NoError(t, l.Err)
	}
	assert.Empty(t, env.Keys())
	assert.NoError(t, report.Err())
}

func TestLoadLayers_FailureIsRecordedNotFatal(t *testing.T) {
	resourceDir, homeDir := t.TempDir(), t.TempDir()
	// A directory where the file should be cannot be read as a layer.
	require.NoError(t, os.Mkdir(filepath.Join(resourceDir, EnvFileName), 0755))
	writeEnvFile(t, homeDir, "HC3_HOST=home\n")

	env := NewMapEnvironment(nil)
	report := LoadLayers(env, DefaultSources(resourceDir, homeDir))

	require.Len(t, report.Layers, 2)
	assert.Equal(t, LayerFailed, report.Layers[0].Status)
	assert.Error(t, report.Layers[0].Err)
	assert.Equal(t, LayerLoaded, report.Layers[1].Status)

	host, _ := env.LookupEnv(EnvHost)
	assert.Equal(t, "home", host)
	assert.ErrorContains(t, report.Err(), "resource layer")
}

func TestLoadLayers_QuotedAndCommentedValues(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, "# HC3 controller\nexport HC3_HOST=\"192.168.1.50\"\nHC3_PASSWORD='p#ss word'\n")

	env := NewMapEnvironment(nil)
	LoadLayers(env, []EnvSource{{Name: "resource", Path: filepath.Join(dir, EnvFileName)}})

	host, _ := env.LookupEnv(EnvHost)
	assert.Equal(t, "192.168.1.50", host)
	pw, _ := env.LookupEnv(EnvPassword)
	assert.Equal(t, "p#ss word", pw)
}

func TestLoadLayers_ProcessEnvironment(t *testing.T) {
	t.Setenv(EnvHost, "from-process")
	dir := t.TempDir()
	writeEnvFile(t, dir, "HC3_HOST=from-file\n")

	LoadLayers(OSEnvironment{}, []EnvSource{{Name: "resource", Path: filepath.Join(dir, EnvFileName)}})

	assert.Equal(t, "from-process", os.Getenv(EnvHost))
}

func TestLoadLayers_ReferencesResolveWithinFile(t *testing.T) {
	t.Setenv("QAM_TEST_CONTROLLER", "from-process")
	dir := t.TempDir()
	writeEnvFile(t, dir, "HC3_USER=admin\nHC3_PASSWORD=${HC3_USER}-pw\nHC3_HOST=${QAM_TEST_CONTROLLER}\nHC3_PROTOCOL=${HC3_TEST_SCHEME}\n")

	env := NewMapEnvironment(map[string]string{"HC3_TEST_SCHEME": "https"})
	LoadLayers(env, []EnvSource{{Name: "resource", Path: filepath.Join(dir, EnvFileName)}})

	pw, _ := env.LookupEnv(EnvPassword)
	assert.Equal(t, "admin-pw", pw)

	host, _ := env.LookupEnv(EnvHost)
	assert.Empty(t, host, "process environment is not consulted")
	protocol, _ := env.LookupEnv(EnvProtocol)
	assert.Empty(t, protocol, "injected environment is not consulted")
}

package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/diconfig/internal/node"
)

func writeFragment(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestApp(out io.Writer, path string) (*App, *Config) {
	cfg := &Config{ConfigPath: path, LogFormat: "text", LogLevel: "error"}
	return New(out, io.Discard, cfg), cfg
}

func TestLoadMergesFragmentsInFileOrder(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "10-base.yaml", `
parameters:
  debug: false
services:
  mailer: App\Mailer
`)
	writeFragment(t, dir, "20-local.yaml", `
parameters:
  debug: true
`)

	a, _ := newTestApp(io.Discard, dir)
	tree, err := a.Load(context.Background(), dir)
	require.NoError(t, err)

	params, ok := tree.Get("parameters")
	require.True(t, ok)
	v, _ := params.(*node.Mapping).Get("debug")
	b, _ := node.BoolValue(v)
	assert.True(t, b, "the later fragment overrides the earlier one")

	services, ok := tree.Get("services")
	require.True(t, ok)
	assert.True(t, services.(*node.Mapping).Has("mailer"))
}

func TestLoadOverrideSuffixReplacesSection(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "10-base.yaml", `
services:
  mailer: App\Mailer
`)
	writeFragment(t, dir, "20-local.yaml", `
services!:
  router: App\Router
`)

	a, _ := newTestApp(io.Discard, dir)
	tree, err := a.Load(context.Background(), dir)
	require.NoError(t, err)

	services, _ := tree.Get("services")
	m := services.(*node.Mapping)
	assert.Equal(t, []string{"router"}, m.Keys())
	assert.False(t, m.Overwrite, "the marker is consumed by the merge")
}

func TestLoadResolvesCallExpressions(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "config.yaml", `
services:
  db: !App.Database [localhost]
`)

	a, _ := newTestApp(io.Discard, dir)
	tree, err := a.Load(context.Background(), dir)
	require.NoError(t, err)

	services, _ := tree.Get("services")
	db, _ := services.(*node.Mapping).Get("db")
	st, ok := db.(*node.Statement)
	require.True(t, ok)
	entity, _ := node.StringValue(st.Entity)
	assert.Equal(t, "App.Database", entity)
}

func TestLoadSkipsEmptyFragments(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "10-empty.yaml", "# nothing here\n")
	writeFragment(t, dir, "20-real.yaml", "services:\n  a: A\n")

	a, _ := newTestApp(io.Discard, dir)
	tree, err := a.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, tree.Has("services"))
}

func TestLoadRejectsNonMappingDocument(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "bad.yaml", "- just\n- a\n- list\n")

	a, _ := newTestApp(io.Discard, dir)
	_, err := a.Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a mapping")
}

func TestRunRegistersServices(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "config.yaml", `
parameters:
  host: localhost
services:
  mailer:
    factory: App\Mailer
    inject: true
  router: App\Router
`)

	a, cfg := newTestApp(io.Discard, dir)
	require.NoError(t, a.Run(context.Background(), cfg))

	reg := a.Registry()
	def, err := reg.GetDefinition("mailer")
	require.NoError(t, err)
	assert.Equal(t, "App\\Mailer", def.Type)
	assert.True(t, def.Inject)
	assert.True(t, reg.HasDefinition("router"))
	assert.Contains(t, reg.Parameters(), "host")
}

func TestRunNamespace(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "config.yaml", "services:\n  mailer: App\\Mailer\n")

	cfg := &Config{ConfigPath: dir, Namespace: "ext", LogFormat: "text", LogLevel: "error"}
	a := New(io.Discard, io.Discard, cfg)
	require.NoError(t, a.Run(context.Background(), cfg))

	assert.True(t, a.Registry().HasDefinition("ext.mailer"))
}

func TestRunDumpWritesHeaderAndDocument(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "config.yaml", "services:\n  mailer: App\\Mailer\n")

	var out strings.Builder
	cfg := &Config{ConfigPath: dir, Dump: true, LogFormat: "text", LogLevel: "error"}
	a := New(&out, io.Discard, cfg)
	require.NoError(t, a.Run(context.Background(), cfg))

	dumped := out.String()
	assert.True(t, strings.HasPrefix(dumped, "# generated by diconfig\n"))
	assert.Contains(t, dumped, "mailer:")

	// The dump must decode back into an equivalent document.
	reparsed, err := a.adapter.Decode([]byte(dumped))
	require.NoError(t, err)
	m, ok := reparsed.(*node.Mapping)
	require.True(t, ok)
	assert.True(t, m.Has("services"))
}

func TestApplyRejectsScalarParameters(t *testing.T) {
	a, _ := newTestApp(io.Discard, "")
	tree := node.NewMapping(node.Entry{Key: "parameters", Value: node.String("oops")})

	err := a.Apply(context.Background(), tree)
	require.Error(t, err)
}

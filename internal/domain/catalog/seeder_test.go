package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSeederSeed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "login.view.yaml"), "id: login\ntitle: Login\nresource: login.html\n")
	writeFile(t, filepath.Join(dir, "social", "cards.view.json"),
		`{"views":[{"id":"friend-card","subview":true,"resource":"friend.html"},{"id":"group-card","subview":true}]}`)
	writeFile(t, filepath.Join(dir, "settings.view.toml"), "id = \"settings\"\nresource = \"/abs/settings.html\"\n")
	writeFile(t, filepath.Join(dir, "broken.view.yaml"), "views: [\n")
	writeFile(t, filepath.Join(dir, "notes.yaml"), "id: ignored\n")

	m := NewManager(nil)
	result, err := NewSeeder(m, dir, "", nil).Seed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Files)
	assert.Equal(t, 4, result.Views)
	assert.Equal(t, 1, result.Failed)

	_, ok := m.Get("ignored")
	assert.False(t, ok)

	login, ok := m.Get("login")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "login.html"), login.Resource)

	card, ok := m.Get("friend-card")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "social", "friend.html"), card.Resource)

	settings, ok := m.Get("settings")
	require.True(t, ok)
	assert.Equal(t, "/abs/settings.html", settings.Resource)
}

func TestSeederMissingDirectory(t *testing.T) {
	m := NewManager(nil)
	result, err := NewSeeder(m, filepath.Join(t.TempDir(), "absent"), "", nil).Seed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, result)
}

func TestSeederCustomPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "home.yaml"), "id: home\n")
	writeFile(t, filepath.Join(dir, "b", "help.yaml"), "id: help\n")

	m := NewManager(nil)
	_, err := NewSeeder(m, dir, "a/*.yaml", nil).Seed(context.Background())
	require.NoError(t, err)

	_, ok := m.Get("home")
	assert.True(t, ok)
	_, ok = m.Get("help")
	assert.False(t, ok)
}

func TestSeederReloadAndForget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pair.view.yaml")
	writeFile(t, path, "views:\n  - id: one\n  - id: two\n")

	m := NewManager(nil)
	s := NewSeeder(m, dir, "", nil)

	n, err := s.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	writeFile(t, path, "views:\n  - id: one\n  - id: three\n")
	_, err = s.LoadFile(path)
	require.NoError(t, err)

	_, ok := m.Get("two")
	assert.False(t, ok, "views dropped from a file are removed on reload")
	_, ok = m.Get("three")
	assert.True(t, ok)

	assert.Equal(t, 2, s.Forget(path))
	assert.Empty(t, m.List())
	assert.Equal(t, 0, s.Forget(path))
}

func TestSeederMatches(t *testing.T) {
	s := NewSeeder(NewManager(nil), "/views", "", nil)

	assert.True(t, s.Matches("/views/home.view.yaml"))
	assert.True(t, s.Matches("/views/deep/nested/card.view.json"))
	assert.False(t, s.Matches("/views/home.yaml"))
	assert.False(t, s.Matches("/views/home.html"))
}

func TestSeederSkipsUnchangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "home.view.yaml")
	writeFile(t, path, "id: home\ntitle: Home\n")

	m := NewManager(nil)
	s := NewSeeder(m, dir, "", nil)

	_, err := s.LoadFile(path)
	require.NoError(t, err)
	first := m.Stats().LastUpdated
	require.NotNil(t, first)

	n, err := s.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, *first, *m.Stats().LastUpdated, "unchanged content is not re-registered")
}

func TestSeederRejectsFileWithInvalidView(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixed.view.yaml")
	writeFile(t, path, "views:\n  - id: good\n  - id: bad.id\n")

	m := NewManager(nil)
	s := NewSeeder(m, dir, "", nil)

	_, err := s.LoadFile(path)
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
	_, ok := m.Get("good")
	assert.False(t, ok, "a file with an invalid view registers nothing")
	assert.Equal(t, 0, s.Forget(path))
	assert.Empty(t, m.List())
}

func TestSeederFailedReloadKeepsPreviousViews(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pair.view.yaml")
	writeFile(t, path, "views:\n  - id: one\n  - id: two\n")

	m := NewManager(nil)
	s := NewSeeder(m, dir, "", nil)
	_, err := s.LoadFile(path)
	require.NoError(t, err)

	writeFile(t, path, "views:\n  - id: one\n  - id: three\n  - id: bad.id\n")
	_, err = s.LoadFile(path)
	assert.ErrorIs(t, err, ErrInvalidDescriptor)

	_, ok := m.Get("two")
	assert.True(t, ok)
	_, ok = m.Get("three")
	assert.False(t, ok)

	assert.Equal(t, 2, s.Forget(path))
	assert.Empty(t, m.List())
}

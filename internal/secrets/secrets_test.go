// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsTrimmedValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "semantic-scholar-api-key"), []byte("  abc123\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openalex-email"), []byte("research@example.org"), 0o600))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "abc123", s["semantic-scholar-api-key"])
	assert.Equal(t, "research@example.org", s["openalex-email"])
}

func TestLoadMissingDirectory(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestLoadSkipsHiddenAndEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty"), []byte("  \n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real"), []byte("value"), 0o600))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Secrets{"real": "value"}, s)
}

func TestGetPrefersExplicitValue(t *testing.T) {
	s := Secrets{"semantic-scholar-api-key": "from-file"}
	assert.Equal(t, "from-flag", s.Get("semantic-scholar-api-key", "from-flag"))
	assert.Equal(t, "from-file", s.Get("semantic-scholar-api-key", ""))
	assert.Empty(t, s.Get("missing", ""))
}

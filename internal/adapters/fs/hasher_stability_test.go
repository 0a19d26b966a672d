package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/gate/internal/adapters/fs"
	"go.trai.ch/gate/internal/core/domain"
)

// The cache key must be a pure function of key file content and the
// serialized environment. If the same content hashed from two different
// workspace roots yields different keys, the cache breaks for everyone
// who moves or clones a project.
func TestHasher_ComputeKeyHash_Stability(t *testing.T) {
	writeFixture := func(t *testing.T) string {
		t.Helper()
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "requirements.txt"), []byte("flask==2.0.0\npytest==7.0.0\n"), domain.PrivateFilePerm))
		require.NoError(t, os.WriteFile(filepath.Join(root, "setup.cfg"), []byte("[flake8]\nmax-line-length = 88\n"), domain.PrivateFilePerm))
		return root
	}

	env := map[string]string{
		"RUNTIME_VERSION": "3.8",
		"CI":              "true",
	}

	rootA := writeFixture(t)
	rootB := writeFixture(t)

	walker := fs.NewWalker()
	hasher := fs.NewHasher(walker)

	hashA, err := hasher.ComputeKeyHash([]string{
		filepath.Join(rootA, "requirements.txt"),
		filepath.Join(rootA, "setup.cfg"),
	}, env, rootA)
	require.NoError(t, err)

	hashB, err := hasher.ComputeKeyHash([]string{
		filepath.Join(rootB, "requirements.txt"),
		filepath.Join(rootB, "setup.cfg"),
	}, env, rootB)
	require.NoError(t, err)

	require.Equal(t, hashA, hashB, "identical content under different roots must produce the same key")
	require.Len(t, hashA, 16, "key is a fixed-width hex digest")
}

package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gate/internal/adapters/fs"
	"go.trai.ch/gate/internal/core/domain"
)

func TestHasher_ComputeKeyHash(t *testing.T) {
	t.Run("Content Change", func(t *testing.T) {
		tmpDir := t.TempDir()
		file := filepath.Join(tmpDir, "requirements.txt")

		require.NoError(t, os.WriteFile(file, []byte("flask==2.0.0"), domain.PrivateFilePerm))

		walker := fs.NewWalker()
		hasher := fs.NewHasher(walker)
		env := map[string]string{"RUNTIME_VERSION": "3.8"}

		hash1, err := hasher.ComputeKeyHash([]string{file}, env, tmpDir)
		require.NoError(t, err)

		// Change content
		require.NoError(t, os.WriteFile(file, []byte("flask==2.1.0"), domain.PrivateFilePerm))

		hash2, err := hasher.ComputeKeyHash([]string{file}, env, tmpDir)
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2, "Hash should change when content changes")
	})

	t.Run("Metadata Change", func(t *testing.T) {
		tmpDir := t.TempDir()
		file := filepath.Join(tmpDir, "requirements.txt")

		require.NoError(t, os.WriteFile(file, []byte("flask==2.0.0"), domain.PrivateFilePerm))

		walker := fs.NewWalker()
		hasher := fs.NewHasher(walker)
		env := map[string]string{"RUNTIME_VERSION": "3.8"}

		hash1, err := hasher.ComputeKeyHash([]string{file}, env, tmpDir)
		require.NoError(t, err)

		// Touch file (change mtime only)
		futureTime := time.Now().Add(1 * time.Hour)
		require.NoError(t, os.Chtimes(file, futureTime, futureTime))

		hash2, err := hasher.ComputeKeyHash([]string{file}, env, tmpDir)
		require.NoError(t, err)

		assert.Equal(t, hash1, hash2, "Hash should NOT change when only metadata (mtime) changes")
	})

	t.Run("Environment Change", func(t *testing.T) {
		tmpDir := t.TempDir()
		file := filepath.Join(tmpDir, "requirements.txt")

		require.NoError(t, os.WriteFile(file, []byte("flask==2.0.0"), domain.PrivateFilePerm))

		walker := fs.NewWalker()
		hasher := fs.NewHasher(walker)

		hash1, err := hasher.ComputeKeyHash([]string{file}, map[string]string{"RUNTIME_VERSION": "3.8"}, tmpDir)
		require.NoError(t, err)

		hash2, err := hasher.ComputeKeyHash([]string{file}, map[string]string{"RUNTIME_VERSION": "3.9"}, tmpDir)
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2, "Hash should change when the environment changes")
	})

	t.Run("Ordering", func(t *testing.T) {
		tmpDir := t.TempDir()
		file1 := filepath.Join(tmpDir, "a.txt")
		file2 := filepath.Join(tmpDir, "b.txt")

		require.NoError(t, os.WriteFile(file1, []byte("A"), domain.PrivateFilePerm))
		require.NoError(t, os.WriteFile(file2, []byte("B"), domain.PrivateFilePerm))

		walker := fs.NewWalker()
		hasher := fs.NewHasher(walker)
		env := map[string]string{"FOO": "bar"}

		hash1, err := hasher.ComputeKeyHash([]string{file1, file2}, env, tmpDir)
		require.NoError(t, err)

		hash2, err := hasher.ComputeKeyHash([]string{file2, file1}, env, tmpDir)
		require.NoError(t, err)

		assert.Equal(t, hash1, hash2, "Hash should be independent of key file order")
	})

	t.Run("Directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		pkgDir := filepath.Join(tmpDir, "pkg")
		require.NoError(t, os.MkdirAll(pkgDir, domain.DirPerm))
		require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "a.py"), []byte("a = 1"), domain.PrivateFilePerm))

		walker := fs.NewWalker()
		hasher := fs.NewHasher(walker)

		hash1, err := hasher.ComputeKeyHash([]string{pkgDir}, nil, tmpDir)
		require.NoError(t, err)

		// Adding a file to the directory must change the hash
		require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "b.py"), []byte("b = 2"), domain.PrivateFilePerm))

		hash2, err := hasher.ComputeKeyHash([]string{pkgDir}, nil, tmpDir)
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2, "Hash should change when a file is added to a key directory")
	})

	t.Run("Missing File", func(t *testing.T) {
		tmpDir := t.TempDir()

		walker := fs.NewWalker()
		hasher := fs.NewHasher(walker)

		_, err := hasher.ComputeKeyHash([]string{filepath.Join(tmpDir, "gone.txt")}, nil, tmpDir)
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrPathStatFailed.Error())
	})
}

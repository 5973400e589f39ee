package ingestion

import (
	"errors"
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

func TestNewLoader_Defaults(t *testing.T) {
	l := NewLoader("", "")
	assert.Equal(t, DefaultInputDir, l.InputDir())
	assert.Equal(t, DefaultOutputDir, l.OutputDir())
}

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	l := NewLoader(filepath.Join(root, "in"), filepath.Join(root, "out"))

	require.NoError(t, l.EnsureDirs())
	require.NoError(t, l.EnsureDirs())

	for _, dir := range []string{"in", "out"} {
		info, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestReadText(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "cv_alice.txt")
	writeFile(t, path, "\n  3 years Go, led a team \n\n")

	l := NewLoader(root, root)
	assert.Equal(t, "3 years Go, led a team", l.ReadText(path))
	assert.Equal(t, "", l.ReadText(filepath.Join(root, "missing.txt")))
}

func TestLoadJobDescription(t *testing.T) {
	root := t.TempDir()
	l := NewLoader(root, root)

	_, err := l.LoadJobDescription(filepath.Join(root, JobDescFileName))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingJobDescription))

	writeFile(t, filepath.Join(root, JobDescFileName), "   ")
	_, err = l.LoadJobDescription(filepath.Join(root, JobDescFileName))
	assert.True(t, errors.Is(err, ErrMissingJobDescription))

	writeFile(t, filepath.Join(root, JobDescFileName), "Senior backend engineer, 5 years Go\n")
	jd, err := l.LoadJobDescription(filepath.Join(root, JobDescFileName))
	require.NoError(t, err)
	assert.Equal(t, "Senior backend engineer, 5 years Go", jd)
}

func TestListCandidates(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"cv_bob.txt", "cv_alice.txt", "cv.TXT", "jd.txt", "notes_cv.txt", "cv_carol.pdf", "cv_dan.v2.txt"} {
		writeFile(t, filepath.Join(root, name), "x")
	}
	require.NoError(t, os.Mkdir(filepath.Join(root, "cv_dir.txt"), 0o755))

	got, err := NewLoader(root, t.TempDir()).ListCandidates()
	require.NoError(t, err)

	want := []Candidate{
		{Name: "cv_alice", FileName: "cv_alice.txt", Path: filepath.Join(root, "cv_alice.txt")},
		{Name: "cv_bob", FileName: "cv_bob.txt", Path: filepath.Join(root, "cv_bob.txt")},
		{Name: "cv_dan.v2", FileName: "cv_dan.v2.txt", Path: filepath.Join(root, "cv_dan.v2.txt")},
	}
	assert.Equal(t, want, got)
}

func TestListCandidates_MissingDir(t *testing.T) {
	got, err := NewLoader(filepath.Join(t.TempDir(), "nope"), "").ListCandidates()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIsCandidateFile(t *testing.T) {
	assert.True(t, IsCandidateFile("cv_alice.txt"))
	assert.False(t, IsCandidateFile("cv1.Txt"))
	assert.False(t, IsCandidateFile("cv_alice.TXT"))
	assert.False(t, IsCandidateFile("CV_alice.txt"))
	assert.False(t, IsCandidateFile("alice_cv.txt"))
	assert.False(t, IsCandidateFile("cv_alice.md"))
}

func TestListCandidates_ExtensionCaseVariants(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"cv_a.txt", "cv_a.TXT", "cv_a.Txt"} {
		writeFile(t, filepath.Join(root, name), "x")
	}

	got, err := NewLoader(root, t.TempDir()).ListCandidates()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cv_a", got[0].Name)
	assert.Equal(t, "cv_a.txt", got[0].FileName)
}

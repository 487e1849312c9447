package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTargets() map[string]struct{} {
	return map[string]struct{}{"jndimanager.class": {}}
}

func defaultSuffixes() []string {
	return []string{".jar", ".war", ".ear"}
}

func collectCandidates(w *DirectoryWalker) []*Candidate {
	candidates := []*Candidate{}

	for v := range w.Walk() {
		if c, ok := v.(*Candidate); ok {
			candidates = append(candidates, c)
		}
	}

	return candidates
}

func TestDirectoryWalkerYieldsCandidates(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "app.JAR"), []byte("zip"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "JndiManager.class"), []byte("class"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("text"), 0644))

	w := NewDirectoryWalker(dir, nil, defaultTargets(), defaultSuffixes(), nil)

	kinds := map[string]CandidateKind{}
	for _, c := range collectCandidates(w) {
		kinds[filepath.Base(c.Path)] = c.Kind
	}

	assert.Equal(t, map[string]CandidateKind{
		"app.JAR":           KindArchive,
		"JndiManager.class": KindTargetFile,
	}, kinds)
}

func TestDirectoryWalkerSymlinkCycle(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.jar"), []byte("zip"), 0644))

	if err := os.Symlink(dir, filepath.Join(dir, "loop")); err != nil {
		t.Skipf("symlinks not supported: %s", err)
	}

	w := NewDirectoryWalker(dir, nil, defaultTargets(), defaultSuffixes(), nil)

	// must terminate and still yield the non-cyclic candidate exactly once
	candidates := collectCandidates(w)
	require.Len(t, candidates, 1)
	assert.Equal(t, filepath.Join(dir, "app.jar"), candidates[0].Path)
}

func TestDirectoryWalkerSingleFileRoot(t *testing.T) {
	dir := t.TempDir()

	jar := filepath.Join(dir, "standalone.war")
	require.NoError(t, os.WriteFile(jar, []byte("zip"), 0644))

	w := NewDirectoryWalker(jar, nil, defaultTargets(), defaultSuffixes(), nil)

	candidates := collectCandidates(w)
	require.Len(t, candidates, 1)
	assert.Equal(t, KindArchive, candidates[0].Kind)
	assert.Equal(t, jar, candidates[0].Path)
}

func TestDirectoryWalkerSingleFileRootNoMatch(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "readme.txt")
	require.NoError(t, os.WriteFile(txt, []byte("text"), 0644))

	w := NewDirectoryWalker(txt, nil, defaultTargets(), defaultSuffixes(), nil)

	assert.Empty(t, collectCandidates(w))
}

func TestDirectoryWalkerMissingRoot(t *testing.T) {
	w := NewDirectoryWalker(filepath.Join(t.TempDir(), "gone"), nil, defaultTargets(), defaultSuffixes(), nil)

	errs := 0
	for v := range w.Walk() {
		if _, ok := v.(ArchiveError); ok {
			errs++
		}
	}

	assert.Equal(t, 1, errs)
}

func TestDirectoryWalkerExcludes(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "skipme"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skipme", "app.jar"), []byte("zip"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.jar"), []byte("zip"), 0644))

	w := NewDirectoryWalker(dir, []glob.Glob{glob.MustCompile("*skipme*")}, defaultTargets(), defaultSuffixes(), nil)

	candidates := collectCandidates(w)
	require.Len(t, candidates, 1)
	assert.Equal(t, filepath.Join(dir, "keep.jar"), candidates[0].Path)
}

func TestDirectoryWalkerUnreadableSubtree(t *testing.T) {
	dir := t.TempDir()

	secret := filepath.Join(dir, "secret")
	require.NoError(t, os.MkdirAll(secret, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sibling.jar"), []byte("zip"), 0644))

	require.NoError(t, os.Chmod(secret, 0000))
	t.Cleanup(func() { _ = os.Chmod(secret, 0755) })

	w := NewDirectoryWalker(dir, nil, defaultTargets(), defaultSuffixes(), nil)

	// the unreadable subtree must not prevent siblings from being scanned
	found := false
	for _, c := range collectCandidates(w) {
		if c.Path == filepath.Join(dir, "sibling.jar") {
			found = true
		}
	}

	assert.True(t, found)
}

func TestDirectoryWalkerSymlinkToFileRoot(t *testing.T) {
	dir := t.TempDir()

	target := filepath.Join(dir, "JndiManager.class")
	require.NoError(t, os.WriteFile(target, []byte("class"), 0644))

	link := filepath.Join(dir, "link.class")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %s", err)
	}

	// a root naming a symlink to a target file is followed, the cycle guard
	// only applies to entries found during enumeration
	w := NewDirectoryWalker(link, nil, map[string]struct{}{"link.class": {}}, defaultSuffixes(), nil)

	candidates := collectCandidates(w)
	require.Len(t, candidates, 1)
	assert.Equal(t, KindTargetFile, candidates[0].Kind)
	assert.Equal(t, link, candidates[0].Path)
}

func TestDirectoryWalkerSymlinkToDirectoryRoot(t *testing.T) {
	dir := t.TempDir()

	real := filepath.Join(dir, "real")
	require.NoError(t, os.MkdirAll(real, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(real, "app.jar"), []byte("zip"), 0644))

	link := filepath.Join(dir, "linked")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks not supported: %s", err)
	}

	w := NewDirectoryWalker(link, nil, defaultTargets(), defaultSuffixes(), nil)

	candidates := collectCandidates(w)
	require.Len(t, candidates, 1)
	assert.Equal(t, KindArchive, candidates[0].Kind)
	assert.Equal(t, "app.jar", filepath.Base(candidates[0].Path))
}

func TestDirectoryWalkerAbortTerminates(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"a.jar", "b.jar", "c.jar"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("zip"), 0644))
	}

	abort := make(chan struct{})
	close(abort)

	w := NewDirectoryWalker(dir, nil, defaultTargets(), defaultSuffixes(), abort)

	// the walk channel must still be closed, the range terminating is the
	// assertion here
	for range w.Walk() {
	}
}

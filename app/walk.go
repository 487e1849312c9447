package app

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

type CandidateKind int

const (
	KindTargetFile CandidateKind = iota
	KindArchive
)

// Candidate is a file selected by name or extension for fingerprinting.
type Candidate struct {
	Path string
	Kind CandidateKind

	fi os.FileInfo
}

func (c *Candidate) Name() string {
	return c.Path
}

func (c *Candidate) FileInfo() os.FileInfo {
	return c.fi
}

func (c *Candidate) Open() (io.ReadSeekCloser, error) {
	return os.OpenFile(c.Path, os.O_RDONLY, 0)
}

func matchesTarget(targets map[string]struct{}, name string) bool {
	_, ok := targets[strings.ToLower(name)]
	return ok
}

func matchesArchive(suffixes []string, name string) bool {
	name = strings.ToLower(name)

	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}

	return false
}

// DirectoryWalker walks a filesystem tree and yields Candidate values for
// files matching the configured target names or archive suffixes. Symbolic
// links are never followed. Errors are yielded as ArchiveError and never stop
// the walk.
type DirectoryWalker struct {
	root     string
	excludes []glob.Glob
	targets  map[string]struct{}
	suffixes []string
	abort    <-chan struct{}
}

func NewDirectoryWalker(root string, excludes []glob.Glob, targets map[string]struct{}, suffixes []string, abort <-chan struct{}) *DirectoryWalker {
	return &DirectoryWalker{
		root:     root,
		excludes: excludes,
		targets:  targets,
		suffixes: suffixes,
		abort:    abort,
	}
}

func (w *DirectoryWalker) classify(name string) (CandidateKind, bool) {
	if matchesTarget(w.targets, name) {
		return KindTargetFile, true
	}

	if matchesArchive(w.suffixes, name) {
		return KindArchive, true
	}

	return 0, false
}

func (w *DirectoryWalker) excluded(p string) bool {
	for _, g := range w.excludes {
		if g.Match(p) {
			return true
		}
	}

	return false
}

func (w *DirectoryWalker) send(ch chan<- interface{}, v interface{}) bool {
	select {
	case ch <- v:
		return true
	case <-w.abort:
		return false
	}
}

func (w *DirectoryWalker) Walk() <-chan interface{} {
	ch := make(chan interface{})

	go func() {
		defer close(ch)

		// an explicitly named root is followed through symlinks; the
		// symlink-skip cycle guard applies to enumerated entries only
		fi, err := os.Stat(w.root)
		if err != nil {
			w.send(ch, ArchiveError{p: w.root, Err: err})
			return
		}

		// a root naming a regular file bypasses directory enumeration
		if fi.Mode().IsRegular() {
			if kind, ok := w.classify(filepath.Base(w.root)); ok {
				w.send(ch, &Candidate{Path: w.root, Kind: kind, fi: fi})
			}

			return
		}

		root := w.root
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			root = resolved
		}

		_ = filepath.Walk(root, func(path string, info fs.FileInfo, err error) error {
			select {
			case <-w.abort:
				return ErrAborted
			default:
			}

			if err != nil {
				if !w.send(ch, ArchiveError{p: path, Err: err}) {
					return ErrAborted
				}

				return nil
			}

			if info.IsDir() {
				if abs, _ := filepath.Abs(path); abs == "/proc" {
					return filepath.SkipDir
				} else if abs == "/dev" {
					return filepath.SkipDir
				} else if abs == "/sys" {
					return filepath.SkipDir
				} else if abs == "/net" {
					return filepath.SkipDir
				} else if w.excluded(path) {
					return filepath.SkipDir
				}

				return nil
			}

			if w.excluded(path) {
				return nil
			}

			// symlinks and other special files are never yielded
			if !info.Mode().IsRegular() {
				return nil
			}

			kind, ok := w.classify(info.Name())
			if !ok {
				return nil
			}

			if !w.send(ch, &Candidate{Path: path, Kind: kind, fi: info}) {
				return ErrAborted
			}

			return nil
		})
	}()

	return ch
}

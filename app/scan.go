package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v2"
)

// ErrAborted is returned when the scan is interrupted by the user.
var ErrAborted = errors.New("scan aborted")

// Scan walks every target path, fingerprints matching files on disk and
// inside (nested) java archives, and reports each classification as it is
// found. Errors on single files or subtrees are logged and skipped, they
// never abort the scan.
func (b *scanner) Scan(c *cli.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	abort := make(chan struct{})
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-sigCh:
			close(abort)
		case <-done:
		}
	}()

	log.Infof("scan %s started", b.scanID)

	start := time.Now()

	b.writer.Start()
	defer b.writer.Stop()

	for _, root := range b.targetPaths {
		b.report.Root(root)

		if err := b.scanRoot(root, start, abort); err != nil {
			if errors.Is(err, ErrAborted) {
				b.report.Aborted()
				return ErrAborted
			}

			return err
		}
	}

	b.report.Summary(&b.stats)

	log.Infof("scan %s finished in %s, %d files, %d errors",
		b.scanID, FormatDuration(time.Since(start)), b.stats.Files(), b.stats.Errors())

	return nil
}

func (b *scanner) scanRoot(root string, start time.Time, abort <-chan struct{}) error {
	w := NewDirectoryWalker(root, b.excludeList, b.targetNames, b.archiveExtensions, abort)

	for v := range w.Walk() {
		select {
		case <-abort:
			return ErrAborted
		default:
		}

		switch t := v.(type) {
		case ArchiveError:
			log.Debugf("%s", t.Error())
			b.stats.IncError()
		case *Candidate:
			if err := b.processCandidate(t, abort); err != nil {
				return err
			}

			b.stats.IncFile()
			b.progress(start)
		}
	}

	select {
	case <-abort:
		return ErrAborted
	default:
	}

	return nil
}

func (b *scanner) progress(start time.Time) {
	if b.stats.Files()%100 != 0 {
		return
	}

	fmt.Fprintf(b.writer, "scanned %d files, %d vulnerable, %d errors (%s)\n",
		b.stats.Files(), b.stats.Vulnerable(), b.stats.Errors(), FormatDuration(time.Since(start)))
}

func (b *scanner) processCandidate(c *Candidate, abort <-chan struct{}) error {
	f, err := c.Open()
	if err != nil {
		log.Debugf("could not open %s: %s", c.Path, err)
		b.stats.IncError()
		return nil
	}

	defer f.Close()

	switch c.Kind {
	case KindTargetFile:
		log.Infof("found file: %s", c.Path)

		b.check(f, []string{c.Path})
	case KindArchive:
		log.Infof("found archive: %s", c.Path)

		return b.scanArchive(NewUnbufferedReaderAt(f), c.FileInfo().Size(), []string{c.Path}, 0, abort)
	}

	return nil
}

// scanArchive opens ra as a zip container and descends into nested archives
// depth first. The ancestry chain is copied for every branch, sibling
// branches never share a chain.
func (b *scanner) scanArchive(ra io.ReaderAt, size int64, parents []string, depth int, abort <-chan struct{}) error {
	if depth >= b.maxDepth {
		log.Warningf("archive nested deeper than %d levels, skipping: %s", b.maxDepth, strings.Join(parents, chainSeparator))
		b.stats.IncError()
		return nil
	}

	ar, err := NewZipArchiveReader(ra, size, abort)
	if err != nil {
		log.Debugf("could not open archive %s: %s", parents[len(parents)-1], err)
		b.stats.IncError()
		return nil
	}

	for v := range ar.Walk() {
		select {
		case <-abort:
			return ErrAborted
		default:
		}

		var zf ArchiveFile

		switch t := v.(type) {
		case ArchiveError:
			log.Debugf("%s", t.Error())
			b.stats.IncError()
			continue
		case ArchiveFile:
			zf = t
		default:
			continue
		}

		name := strings.ToLower(path.Base(zf.Name()))

		if matchesTarget(b.targetNames, name) {
			rc, err := zf.Open()
			if err != nil {
				log.Debugf("could not open entry %s in %s: %s", zf.Name(), strings.Join(parents, chainSeparator), err)
				b.stats.IncError()
				continue
			}

			b.check(rc, extend(parents, zf.Name()))

			rc.Close()
		} else if matchesArchive(b.archiveExtensions, name) {
			rc, err := zf.Open()
			if err != nil {
				log.Debugf("could not open entry %s in %s: %s", zf.Name(), strings.Join(parents, chainSeparator), err)
				b.stats.IncError()
				continue
			}

			err = b.scanArchive(NewUnbufferedReaderAt(rc), zf.FileInfo().Size(), extend(parents, zf.Name()), depth+1, abort)

			rc.Close()

			if err != nil {
				return err
			}
		}
	}

	select {
	case <-abort:
		return ErrAborted
	default:
	}

	return nil
}

// check digests r fully, classifies the digest and reports the outcome. A
// read failure means the candidate is neither reported nor counted.
func (b *scanner) check(r io.Reader, chain []string) {
	sum, err := md5Digest(r)
	if err != nil {
		log.Debugf("could not hash %s: %s", strings.Join(chain, chainSeparator), err)
		b.stats.IncError()
		return
	}

	verdict, label := b.catalog.Classify(sum)

	b.report.Finding(time.Now().UTC(), verdict, label, sum, chain)

	switch verdict {
	case VerdictVulnerable:
		b.stats.IncVulnerable()
	case VerdictGood:
		b.stats.IncGood()
	default:
		b.stats.IncUnknown()
	}
}

func extend(parents []string, name string) []string {
	chain := make([]string, 0, len(parents)+1)
	chain = append(chain, parents...)

	return append(chain, name)
}

func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	return fmt.Sprintf("%02dh:%02dm:%02ds", h, m, s)
}

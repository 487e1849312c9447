package app

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

// ArchiveFile is a single entry inside an archive or on disk.
type ArchiveFile interface {
	FileInfo() os.FileInfo
	Name() string
	Open() (io.ReadSeekCloser, error)
}

// ArchiveReader enumerates entries lazily. The channel carries ArchiveFile
// values for readable entries and ArchiveError values for entries that could
// not be read.
type ArchiveReader interface {
	Walk() <-chan interface{}
}

type ArchiveError struct {
	p string

	Err error
}

func (ae ArchiveError) Error() string {
	if ae.p == "" {
		return ae.Err.Error()
	}

	return fmt.Sprintf("%s: %s", ae.p, ae.Err.Error())
}

func (ae ArchiveError) Unwrap() error {
	return ae.Err
}

// NopSeekCloser returns a ReadSeekCloser with a no-op Close method wrapping
// the provided ReadSeeker r.
func NopSeekCloser(r io.ReadSeeker) io.ReadSeekCloser {
	return nopSeekCloser{r}
}

type nopSeekCloser struct {
	io.ReadSeeker
}

func (nopSeekCloser) Close() error { return nil }

type unbufferedReaderAt struct {
	R io.ReadSeeker
}

// NewUnbufferedReaderAt adapts a ReadSeeker into a ReaderAt by seeking for
// every read. Not safe for concurrent use.
func NewUnbufferedReaderAt(r io.ReadSeeker) io.ReaderAt {
	return &unbufferedReaderAt{R: r}
}

func (u *unbufferedReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	if _, err := u.R.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}

	n, err = io.ReadFull(u.R, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}

	return n, err
}

type ZIPArchiveFile struct {
	*zip.File
}

func (za *ZIPArchiveFile) Name() string {
	return za.File.Name
}

func (za *ZIPArchiveFile) FileInfo() os.FileInfo {
	return za.File.FileInfo()
}

// Open reads the entry into memory, so the result can be seeked and opened
// again as a nested archive.
func (za *ZIPArchiveFile) Open() (io.ReadSeekCloser, error) {
	r, err := za.File.Open()
	if err != nil {
		return nil, err
	}

	defer r.Close()

	buff := bytes.NewBuffer([]byte{})

	if _, err := io.Copy(buff, r); err != nil {
		return nil, err
	}

	return NopSeekCloser(bytes.NewReader(buff.Bytes())), nil
}

type ZIPArchiveReader struct {
	*zip.Reader

	abort <-chan struct{}
}

func (za *ZIPArchiveReader) send(ch chan<- interface{}, v interface{}) bool {
	select {
	case ch <- v:
		return true
	case <-za.abort:
		return false
	}
}

func (za *ZIPArchiveReader) Walk() <-chan interface{} {
	ch := make(chan interface{})

	go func() {
		defer close(ch)

		for _, f := range za.Reader.File {
			if f.FileHeader.Flags&0x1 == 1 {
				if !za.send(ch, ArchiveError{
					p:   f.Name,
					Err: fmt.Errorf("could not open encrypted file in zip: %s", f.Name),
				}) {
					return
				}

				continue
			}

			if !za.send(ch, &ZIPArchiveFile{f}) {
				return
			}
		}
	}()

	return ch
}

func NewZipArchiveReader(br io.ReaderAt, size int64, abort <-chan struct{}) (ArchiveReader, error) {
	r2, err := zip.NewReader(br, size)
	if err != nil {
		return nil, err
	}

	return &ZIPArchiveReader{r2, abort}, nil
}

package app

import (
	"archive/zip"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestScanner builds a scanner whose report lines go to the returned
// buffer, with color disabled.
func newTestScanner(t *testing.T, options ...OptionFn) (*scanner, *bytes.Buffer) {
	t.Helper()

	b, err := New(options...)
	require.NoError(t, err)

	buff := &bytes.Buffer{}
	b.report = NewReporter(buff, true, nil)

	return b, buff
}

func buildZip(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()

	buff := &bytes.Buffer{}
	zw := zip.NewWriter(buff)

	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)

		_, err = w.Write(content)
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())

	return buff.Bytes()
}

func md5Hex(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}

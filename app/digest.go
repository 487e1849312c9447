package app

import (
	"crypto/md5"
	"encoding/hex"
	"io"
)

const digestBufferSize = 32 * 1024

// md5Digest consumes r to exhaustion and returns the hex encoded MD5 sum of
// its content. The reader cannot be reused afterwards.
func md5Digest(r io.Reader) (string, error) {
	h := md5.New()

	buff := make([]byte, digestBufferSize)
	if _, err := io.CopyBuffer(h, r, buff); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

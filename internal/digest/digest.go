// Package digest computes and formats the SHA-256 content fingerprints used
// throughout the archive format.
package digest

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	godigest "github.com/opencontainers/go-digest"
)

// chunkSize is the read buffer size used when streaming a file through the
// incremental hash.
const chunkSize = 8 << 10 // 8 KiB

// HashFile streams the file at path through SHA-256 in chunkSize pieces and
// returns its fingerprint as a lowercase 64-character hex string.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("digest: open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("digest: read %s: %w", path, err)
	}
	return render(h.Sum(nil)), nil
}

// HashBytes returns the SHA-256 fingerprint of b as a lowercase 64-character
// hex string.
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return render(sum[:])
}

// render produces the archive's on-disk fingerprint representation. The
// value is round-tripped through go-digest's canonical "sha256:<hex>" form,
// matching how content hashes are represented elsewhere in this codebase,
// then trimmed to the bare hex string the archive format stores.
func render(sum []byte) string {
	d := godigest.NewDigestFromBytes(godigest.SHA256, sum)
	return d.Encoded()
}

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Fingerprint identifies a source set by each file's absolute path, size and
// modification time plus any extra option strings. Missing files hash to a
// marker so that their reappearance changes the fingerprint.
func Fingerprint(paths []string, extra ...string) string {
	h := sha256.New()
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		info, err := os.Stat(abs)
		if err != nil {
			fmt.Fprintf(h, "%s\x00missing\x00", abs)
			continue
		}
		fmt.Fprintf(h, "%s\x00%d\x00%d\x00", abs, info.Size(), info.ModTime().UnixNano())
	}
	for _, e := range extra {
		fmt.Fprintf(h, "%s\x00", e)
	}
	return hex.EncodeToString(h.Sum(nil))
}

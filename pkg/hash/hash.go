package hash

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/zeebo/blake3"
)

// Prefix is prepended to every digest this package produces.
const Prefix = "blake3:"

// bufferPool hands out fixed 64 KiB buffers for streamed file hashing,
// mirroring the pooled-buffer idiom the pack uses for bulk I/O.
var bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 64*1024)
		return &buf
	},
}

func encode(h *blake3.Hasher) string {
	sum := h.Sum(nil)
	return Prefix + hex.EncodeToString(sum)
}

// HashString returns the fingerprint of the UTF-8 bytes of s.
func HashString(s string) string {
	h := blake3.New()
	_, _ = h.WriteString(s)
	return encode(h)
}

// HashFile streams path through a fixed-size buffer so memory use
// doesn't grow with file size. Errors are wrapped with the path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash file %q: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	bufPtr := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(bufPtr)
	buf := *bufPtr

	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash file %q: %w", path, err)
	}
	return encode(h), nil
}

// HashDirectory walks root deterministically: entries are visited in
// ascending file-name order at each level, depth-first; symbolic links
// are skipped entirely so removing one never changes the hash. Each
// regular file contributes "relPath\x00fileHash\n" to a single
// streaming hasher, in visitation order.
func HashDirectory(root string) (string, error) {
	h := blake3.New()
	if err := hashDirInto(h, root, ""); err != nil {
		return "", fmt.Errorf("hash directory %q: %w", root, err)
	}
	return encode(h), nil
}

func hashDirInto(h io.Writer, absDir, relDir string) error {
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			continue
		}

		absPath := absDir + string(os.PathSeparator) + entry.Name()
		relPath := entry.Name()
		if relDir != "" {
			relPath = relDir + "/" + entry.Name()
		}

		if entry.IsDir() {
			if err := hashDirInto(h, absPath, relPath); err != nil {
				return err
			}
			continue
		}

		fileHash, err := HashFile(absPath)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(h, relPath); err != nil {
			return err
		}
		if _, err := h.Write([]byte{0}); err != nil {
			return err
		}
		if _, err := io.WriteString(h, fileHash); err != nil {
			return err
		}
		if _, err := h.Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	return nil
}

// CompositeHash combines independently computed hashes into one,
// contributing each followed by a NUL byte. It is not commutative:
// CompositeHash(a, b) != CompositeHash(b, a) in general.
func CompositeHash(parts ...string) string {
	h := blake3.New()
	for _, p := range parts {
		_, _ = h.WriteString(p)
		_, _ = h.Write([]byte{0})
	}
	return encode(h)
}

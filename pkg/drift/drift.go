package drift

import (
	"os"

	"github.com/ironclad/converge/pkg/hash"
	"github.com/ironclad/converge/pkg/types"
)

// Finding records one resource whose live state no longer matches the
// fingerprint recorded at its last convergence.
type Finding struct {
	ResourceID   string
	Kind         types.ResourceKind
	ExpectedHash string
	ActualHash   string
	Detail       string
}

// missingHash is the sentinel ActualHash for a path that has
// disappeared since it last converged.
const missingHash = "MISSING"

// Detect walks lock's converged file resources, recomputes each
// one's live hash, and returns a Finding for every mismatch. Entries
// whose details lack a string path or content_hash are silently
// skipped; non-file kinds are not checked in this phase.
func Detect(lock *types.StateLock) ([]Finding, error) {
	var findings []Finding
	if lock == nil || lock.Resources == nil {
		return findings, nil
	}

	for _, id := range lock.Resources.Keys() {
		rl, _ := lock.Resources.Get(id)
		if rl.Kind != types.KindFile || rl.Status != types.StatusConverged {
			continue
		}

		path, ok := rl.Details.GetString("path")
		if !ok {
			continue
		}
		expected, ok := rl.Details.GetString("content_hash")
		if !ok {
			continue
		}

		actual, err := liveHash(path)
		if err != nil {
			return nil, err
		}
		if actual == missingHash {
			findings = append(findings, Finding{ResourceID: id, Kind: rl.Kind, ExpectedHash: expected, ActualHash: missingHash, Detail: path + " does not exist"})
			continue
		}
		if actual != expected {
			findings = append(findings, Finding{ResourceID: id, Kind: rl.Kind, ExpectedHash: expected, ActualHash: actual, Detail: path + " content changed"})
		}
	}

	return findings, nil
}

func liveHash(path string) (string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return missingHash, nil
	}
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return hash.HashDirectory(path)
	}
	return hash.HashFile(path)
}

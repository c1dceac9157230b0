// Package hash computes stable digests of distribution input.
package hash

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"

	"github.com/arloliu/tawzi/types"
)

// recordSep separates fields so that ("ab","c") and ("a","bc") hash differently.
const recordSep = "\x1f"

// Fingerprint returns an xxh3 64-bit digest of a snapshot.
//
// The digest is order-sensitive: the engine breaks exact ties by input
// order, so two snapshots with the same records in a different order can
// produce different assignments and must not share a fingerprint.
//
// Parameters:
//   - snap: Snapshot to digest
//
// Returns:
//   - uint64: Digest (never 0 for a non-empty snapshot in practice)
func Fingerprint(snap types.Snapshot) uint64 {
	h := xxh3.New()

	writeCount(h, len(snap.Schools))
	for _, s := range snap.Schools {
		writeFields(h, s.Code, s.Name, s.Stage, s.Type, s.GuidanceCode, s.FixedSupervisorCode, s.MandatorySupervisorName)
	}

	writeCount(h, len(snap.Supervisors))
	for _, s := range snap.Supervisors {
		writeFields(h, s.Code, s.Name, s.GuidanceCode, s.Status)
	}

	writeCount(h, len(snap.Guidance))
	for _, g := range snap.Guidance {
		writeFields(h, g.Code, g.Name)
	}

	writeCount(h, len(snap.Wishes))
	for _, w := range snap.Wishes {
		writeFields(h, w.SupervisorCode)
		writeFields(h, w.Choices[:]...)
	}

	writeCount(h, len(snap.Previous))
	for _, a := range snap.Previous {
		writeFields(h, a.SchoolCode, a.SupervisorCode, a.SupervisorName, a.Method.String(), a.GuidanceCode)
	}

	return h.Sum64()
}

func writeCount(h *xxh3.Hasher, n int) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(n)) //nolint:gosec // lengths are non-negative
	_, _ = h.Write(b[:])
}

func writeFields(h *xxh3.Hasher, fields ...string) {
	for _, f := range fields {
		_, _ = h.WriteString(f)
		_, _ = h.WriteString(recordSep)
	}
}

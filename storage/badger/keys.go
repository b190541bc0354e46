package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/avallon/claimlens/core"
)

// Key prefixes for different data types
const (
	claimPrefix        = "clmrec"
	claimCreatedPrefix = "clmrecc"
	claimStatusPrefix  = "clmrecs"
	claimIDSeq         = "clmrecseq"
)

// makeClaimKey generates a key for a claim by ID.
func makeClaimKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", claimPrefix, id))
}

// makeClaimCreatedKey generates a composite key for the creation-time index.
// Format: prefix:timestamp:id
func makeClaimCreatedKey(createdAt time.Time, id core.ID) []byte {
	prefix := claimCreatedPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	// BigEndian so lexicographic sort matches chronological order
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeClaimStatusKey generates a composite key for the status index.
// Format: prefix:status:timestamp:id
func makeClaimStatusKey(status core.ClaimStatus, createdAt time.Time, id core.ID) []byte {
	prefix := claimStatusPrefix + ":" + string(status) + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialClaimStatusKey generates the iteration prefix for a status.
func makePartialClaimStatusKey(status core.ClaimStatus) []byte {
	return []byte(claimStatusPrefix + ":" + string(status) + ":")
}

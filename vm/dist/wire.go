package dist

import (
	"fmt"

	"github.com/chazu/rite/vm"
	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical options so equal snapshots encode to equal
// bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dist: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalSnapshot serializes a Snapshot to CBOR bytes.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// UnmarshalSnapshot deserializes a Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("dist: unmarshal snapshot: %w", err)
	}
	if s.State == vm.Failed && s.Reason == "" {
		return nil, fmt.Errorf("dist: unmarshal snapshot: failed state without a reason")
	}
	return &s, nil
}

// backend/src/services/awb_allocator.go
package services

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// localAWBAllocator derives numeric AWB identifiers from random UUIDs. The
// waybills table's unique constraint on awb_no backstops the (negligible)
// collision chance.
type localAWBAllocator struct{}

func NewLocalAWBAllocator() AWBAllocator {
	return &localAWBAllocator{}
}

func (a *localAWBAllocator) Next() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate AWB number: %w", err)
	}
	n := binary.BigEndian.Uint64(id[:8]) % 100000000000
	return fmt.Sprintf("%011d", n), nil
}

package checksum

import (
	"github.com/cespare/xxhash"

	"github.com/outofforest/photon"
	"github.com/outofforest/pather/types"
)

// Path computes the checksum of the sequence of states.
// It is meant to compare results of queries quickly, it is not cryptographically secure.
func Path[S types.State](path []S) uint64 {
	d := xxhash.New()
	for i := range path {
		_, _ = d.Write(photon.NewFromValue[S](&path[i]).B)
	}
	return d.Sum64()
}

// Command tilesize-bridge builds a C shared library exposing the sm90 tile
// policy to existing C/ctypes harnesses:
//
//	go build -buildmode=c-shared -o libtile_size_bridge.so ./cmd/tilesize-bridge
//
// The exported symbol keeps the argument list of the C++ tile_size.h bridge
// (primitive ints/bools in, two int out-params). It additionally returns an
// int status; harnesses that declare a void return ignore it.
package main

/*
#include <stdbool.h>
*/
import "C"

//export tile_size_fwd_sm90_bridge
func tile_size_fwd_sm90_bridge(headdim, headdimV C.int, isCausal, isLocal C.bool, elementSize C.int,
	vColMajor, pagedKVNonTMA, softcap C.bool, blockM, blockN *C.int) C.int {
	m, n, status := selectBridge(bridgeArgs{
		HeadDim:       int(headdim),
		HeadDimV:      int(headdimV),
		IsCausal:      bool(isCausal),
		IsLocal:       bool(isLocal),
		ElementSize:   int(elementSize),
		VColMajor:     bool(vColMajor),
		PagedKVNonTMA: bool(pagedKVNonTMA),
		Softcap:       bool(softcap),
	})
	if blockM != nil {
		*blockM = C.int(m)
	}
	if blockN != nil {
		*blockN = C.int(n)
	}
	return C.int(status)
}

func main() {}

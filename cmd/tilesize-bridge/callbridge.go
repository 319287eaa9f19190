package main

/*
#include <stdbool.h>
*/
import "C"

// callExported invokes the exported C symbol the way a C caller would. When
// withOut is false the out-params are nil. Dims start at -1 so untouched
// out-params are visible.
func callExported(args bridgeArgs, withOut bool) (blockM, blockN, status int) {
	cm, cn := C.int(-1), C.int(-1)
	var pm, pn *C.int
	if withOut {
		pm, pn = &cm, &cn
	}
	st := tile_size_fwd_sm90_bridge(
		C.int(args.HeadDim), C.int(args.HeadDimV),
		C.bool(args.IsCausal), C.bool(args.IsLocal),
		C.int(args.ElementSize),
		C.bool(args.VColMajor), C.bool(args.PagedKVNonTMA), C.bool(args.Softcap),
		pm, pn,
	)
	return int(cm), int(cn), int(st)
}

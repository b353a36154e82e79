package h5

// #include <stdlib.h>
import "C"

import (
	"unsafe"

	"gonum.org/v1/hdf5"
)

// readVarStrings reads a variable-length string dataset. libhdf5 hands back
// one malloc'd C string per element; each is copied and freed.
func readVarStrings(ds *hdf5.Dataset, n int) ([]string, error) {
	if n == 0 {
		return []string{}, nil
	}

	ptrs := make([]*C.char, n)
	if err := ds.Read(&ptrs); err != nil {
		return nil, err
	}

	out := make([]string, n)
	for i, p := range ptrs {
		if p == nil {
			continue
		}
		out[i] = C.GoString(p)
		C.free(unsafe.Pointer(p))
	}
	return out, nil
}

//go:build cgo_hdf5

// This file provides the cgo entry points libhdf5 calls to load the Terse
// filter as an HDF5 dynamically loaded plugin (H5Z / H5PL). It is excluded
// from the default build (no HDF5 headers required) and only compiles
// under the cgo_hdf5 build tag, with the HDF5 development headers
// available.
package hdf5filter

/*
#cgo LDFLAGS: -lhdf5
#include <H5Zpublic.h>
#include <H5PLextern.h>
#include <stdlib.h>
#include <string.h>

extern size_t goTerseFilter(unsigned int flags, size_t cd_nelmts,
                             unsigned int *cd_values, size_t nbytes,
                             size_t *buf_size, void **buf);

static herr_t terse_set_local(hid_t dcpl_id, hid_t type_id, hid_t space_id) {
    return 0;
}

static size_t terse_filter_func(unsigned int flags, size_t cd_nelmts,
                                 const unsigned int cd_values[], size_t nbytes,
                                 size_t *buf_size, void **buf) {
    return goTerseFilter(flags, cd_nelmts, (unsigned int *)cd_values, nbytes, buf_size, buf);
}

static const H5Z_class2_t terse_H5Z_class = {
    H5Z_CLASS_T_VERS,
    (H5Z_filter_t)32029,
    1, 1,
    "TERSE",
    NULL,
    (H5Z_set_local_func_t)terse_set_local,
    (H5Z_func_t)terse_filter_func,
};
*/
import "C"

import (
	"unsafe"
)

//export goTerseFilter
func goTerseFilter(flags C.uint, cdNelmts C.size_t, cdValuesPtr *C.uint, nbytes C.size_t, bufSizePtr *C.size_t, bufPtr *unsafe.Pointer) C.size_t {
	cdValues := make([]uint32, int(cdNelmts))
	cdSlice := unsafe.Slice(cdValuesPtr, int(cdNelmts))
	for i := range cdValues {
		cdValues[i] = uint32(cdSlice[i])
	}

	in := C.GoBytes(*bufPtr, C.int(nbytes))

	out, err := TerseFilter(uint32(flags), cdValues, in)
	if err != nil {
		return 0
	}

	newBuf := C.CBytes(out)
	C.free(*bufPtr)
	*bufPtr = newBuf
	*bufSizePtr = C.size_t(len(out))

	return C.size_t(len(out))
}

//export H5PLget_plugin_type
func H5PLget_plugin_type() C.int {
	return C.H5PL_TYPE_FILTER
}

//export H5PLget_plugin_info
func H5PLget_plugin_info() unsafe.Pointer {
	return unsafe.Pointer(&C.terse_H5Z_class)
}

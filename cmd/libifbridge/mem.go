package main

/*
#include <stdint.h>
#include <stdlib.h>
#include <string.h>
*/
import "C"

import (
	"encoding/json"
	"unsafe"

	"github.com/ifbridge/ifbridge/internal/netif"
)

// writeOut copies data into a fresh malloc buffer owned by the caller.
func writeOut(outBuf **C.uint8_t, outLen *C.size_t, data []byte) {
	if len(data) == 0 {
		*outBuf = nil
		*outLen = 0
		return
	}

	buf := C.malloc(C.size_t(len(data)))
	if buf == nil {
		*outBuf = nil
		*outLen = 0
		return
	}
	C.memcpy(buf, unsafe.Pointer(&data[0]), C.size_t(len(data)))

	*outBuf = (*C.uint8_t)(buf)
	*outLen = C.size_t(len(data))
}

// writeErrorOut serializes a whole-call failure as the minimal error
// envelope. Serialization of that envelope cannot realistically fail,
// but the fallback keeps the boundary total.
func writeErrorOut(outBuf **C.uint8_t, outLen *C.size_t, ferr *netif.Error) {
	data, err := json.Marshal(netif.NewErrorEnvelope(ferr))
	if err != nil {
		data = []byte(`{"ok":false}`)
	}
	writeOut(outBuf, outLen, data)
}

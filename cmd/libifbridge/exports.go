package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"encoding/json"
	"sync"
	"unsafe"

	"github.com/ifbridge/ifbridge/internal/engine"
	"github.com/ifbridge/ifbridge/internal/log"
	"github.com/ifbridge/ifbridge/internal/netif"
	"github.com/ifbridge/ifbridge/internal/platform"
)

// The boundary contract, shared by every export:
//
//   - Every byte buffer handed to the caller is allocated with malloc
//     and owned by the caller, who must release it with ifbridge_free.
//     The engine never frees caller memory and never retains pointers
//     into caller buffers past the call.
//   - The numeric return value is the error code (0 on success). When
//     an output buffer is produced it carries the full JSON envelope,
//     including the in-band error detail on failure.

var (
	engineOnce sync.Once
	eng        *engine.Engine
)

func sharedEngine() *engine.Engine {
	engineOnce.Do(func() {
		// A library must not write to the host's stdio.
		log.Disable()
		eng = engine.New(platform.New(platform.Options{}))
	})
	return eng
}

//export ifbridge_abi_version
func ifbridge_abi_version() C.uint32_t {
	return C.uint32_t(netif.ABIVersion)
}

//export ifbridge_list_json
func ifbridge_list_json(outBuf **C.uint8_t, outLen *C.size_t) C.int32_t {
	if outBuf == nil || outLen == nil {
		return C.int32_t(netif.CodeInvalidArgument)
	}

	resp, ferr := sharedEngine().List()
	if ferr != nil {
		writeErrorOut(outBuf, outLen, ferr)
		return C.int32_t(ferr.Code)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		ferr := netif.SystemErrorf("serializing list response: %v", err)
		writeErrorOut(outBuf, outLen, ferr)
		return C.int32_t(ferr.Code)
	}
	writeOut(outBuf, outLen, data)
	return C.int32_t(netif.CodeOk)
}

//export ifbridge_apply_json
func ifbridge_apply_json(reqBuf *C.uint8_t, reqLen C.size_t, outBuf **C.uint8_t, outLen *C.size_t) C.int32_t {
	if outBuf == nil || outLen == nil {
		return C.int32_t(netif.CodeInvalidArgument)
	}

	req, ferr := decodeApplyRequest(reqBuf, reqLen)
	if ferr != nil {
		writeErrorOut(outBuf, outLen, ferr)
		return C.int32_t(ferr.Code)
	}

	resp, ferr := sharedEngine().Apply(req)
	if resp == nil {
		writeErrorOut(outBuf, outLen, ferr)
		return C.int32_t(ferr.Code)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		serr := netif.SystemErrorf("serializing apply response: %v", err)
		writeErrorOut(outBuf, outLen, serr)
		return C.int32_t(serr.Code)
	}
	writeOut(outBuf, outLen, data)

	// An ABI mismatch produced a real envelope but still fails the call.
	if ferr != nil {
		return C.int32_t(ferr.Code)
	}
	return C.int32_t(netif.CodeOk)
}

//export ifbridge_free
func ifbridge_free(buf *C.uint8_t, length C.size_t) {
	if buf != nil {
		C.free(unsafe.Pointer(buf))
	}
}

func decodeApplyRequest(reqBuf *C.uint8_t, reqLen C.size_t) (*netif.ApplyRequest, *netif.Error) {
	if reqBuf == nil || reqLen == 0 {
		return nil, netif.InvalidArgumentf("request buffer is null or empty")
	}
	// size_t must fit the C.int that GoBytes takes; converting first
	// would wrap negative and panic across the boundary.
	if requestTooLarge(uint64(reqLen)) {
		return nil, netif.InvalidArgumentf("request of %d bytes exceeds the %d byte limit", uint64(reqLen), maxRequestLen)
	}
	return parseApplyRequest(C.GoBytes(unsafe.Pointer(reqBuf), C.int(reqLen)))
}

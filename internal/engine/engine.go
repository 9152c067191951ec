// Package engine orchestrates list and apply calls: it checks the
// protocol version, resolves the target interface, validates each
// operation and dispatches to the platform backend. It contains no
// OS-specific code.
package engine

import (
	"github.com/ifbridge/ifbridge/internal/log"
	"github.com/ifbridge/ifbridge/internal/netif"
	"github.com/ifbridge/ifbridge/internal/platform"
)

type Engine struct {
	platform platform.Platform
}

func New(p platform.Platform) *Engine {
	return &Engine{platform: p}
}

// List enumerates the current interfaces and wraps them in a stamped
// envelope.
func (e *Engine) List() (*netif.ListResponse, *netif.Error) {
	items, err := e.platform.Enumerate()
	if err != nil {
		return nil, err
	}
	return &netif.ListResponse{ABI: netif.ABIVersion, Items: items}, nil
}

// Apply executes one batch of operations against a single interface.
//
// The target is resolved once before the first operation and reused
// for the whole batch; a rename mid-batch does not redirect later
// operations. Per-operation failures are recorded in the result list
// and never stop the remaining operations.
//
// Failures of the call as a whole (enumeration, target resolution)
// return a nil response. An ABI mismatch returns both the mismatch
// envelope and the error so boundary adapters can ship the envelope
// while still reporting the failure code.
func (e *Engine) Apply(req *netif.ApplyRequest) (*netif.ApplyResponse, *netif.Error) {
	if req.ABI != netif.ABIVersion {
		return netif.InvalidABIResponse(netif.ABIVersion, req.ABI),
			netif.InvalidArgumentf("abi version mismatch: expected=%d got=%d", netif.ABIVersion, req.ABI)
	}

	ifaces, err := e.platform.Enumerate()
	if err != nil {
		return nil, err
	}
	target, err := resolveTarget(req.Target, ifaces)
	if err != nil {
		return nil, err
	}

	log.Debugf("Applying %d operation(s) to %s (if_index=%d)", len(req.Ops), target.Name, target.IfIndex)

	results := make([]netif.OpResult, 0, len(req.Ops))
	allOK := true
	for i, op := range req.Ops {
		opErr := validateOp(op)
		if opErr == nil {
			opErr = e.platform.ApplyOne(target, op)
		}
		if opErr != nil {
			log.Debugf("Operation %d (%s) failed: %v", i, op.Op, opErr)
			allOK = false
			results = append(results, netif.OpResult{I: i, OK: false, Error: opErr})
			continue
		}
		results = append(results, netif.OpResult{I: i, OK: true})
	}

	return &netif.ApplyResponse{ABI: netif.ABIVersion, OK: allOK, Results: results}, nil
}

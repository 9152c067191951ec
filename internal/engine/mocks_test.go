package engine

import (
	"github.com/ifbridge/ifbridge/internal/netif"
	"github.com/ifbridge/ifbridge/internal/platform"
)

// fakePlatform records every dispatched operation and answers from a
// canned interface list.
type fakePlatform struct {
	ifaces       []netif.NetInterface
	enumerateErr *netif.Error

	enumerateCalls int
	applied        []appliedOp
	applyErrs      map[int]*netif.Error // by call order
}

type appliedOp struct {
	target platform.ResolvedTarget
	op     netif.Op
}

func (f *fakePlatform) Enumerate() ([]netif.NetInterface, *netif.Error) {
	f.enumerateCalls++
	if f.enumerateErr != nil {
		return nil, f.enumerateErr
	}
	return f.ifaces, nil
}

func (f *fakePlatform) ApplyOne(target platform.ResolvedTarget, op netif.Op) *netif.Error {
	idx := len(f.applied)
	f.applied = append(f.applied, appliedOp{target: target, op: op})
	if err, ok := f.applyErrs[idx]; ok {
		return err
	}
	return nil
}

func twoInterfaces() []netif.NetInterface {
	return []netif.NetInterface{
		{IfIndex: 1, Name: "lo", Kind: netif.KindLoopback, AdminState: netif.AdminUp},
		{IfIndex: 2, Name: "eth0", Kind: netif.KindPhysical, AdminState: netif.AdminUp},
	}
}

//go:build !linux && !darwin && !windows

package platform

import "github.com/ifbridge/ifbridge/internal/netif"

func newPlatform(Options) Platform {
	return unsupportedPlatform{}
}

type unsupportedPlatform struct{}

func (unsupportedPlatform) Enumerate() ([]netif.NetInterface, *netif.Error) {
	return nil, netif.Unsupportedf("no interface backend for this operating system")
}

func (unsupportedPlatform) ApplyOne(ResolvedTarget, netif.Op) *netif.Error {
	return netif.Unsupportedf("no interface backend for this operating system")
}

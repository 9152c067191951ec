package engine

import (
	"github.com/ifbridge/ifbridge/internal/netif"
	"github.com/ifbridge/ifbridge/internal/platform"
)

// resolveTarget finds the one interface a selector points at in a
// fresh enumeration. A nonzero index always wins over the name, even
// when both are set and disagree.
func resolveTarget(sel netif.Selector, ifaces []netif.NetInterface) (platform.ResolvedTarget, *netif.Error) {
	if sel.IfIndex != 0 {
		for _, iface := range ifaces {
			if iface.IfIndex == sel.IfIndex {
				return platform.ResolvedTarget{IfIndex: iface.IfIndex, Name: iface.Name}, nil
			}
		}
		return platform.ResolvedTarget{}, netif.NotFoundf("no interface with if_index=%d", sel.IfIndex)
	}

	if sel.Name != "" {
		for _, iface := range ifaces {
			if iface.Name == sel.Name {
				return platform.ResolvedTarget{IfIndex: iface.IfIndex, Name: iface.Name}, nil
			}
		}
		return platform.ResolvedTarget{}, netif.NotFoundf("no interface named %q", sel.Name)
	}

	return platform.ResolvedTarget{}, netif.InvalidArgumentf("target selector must set if_index or name")
}

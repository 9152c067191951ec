//go:build linux

package platform

import (
	"errors"
	"net"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/ifbridge/ifbridge/internal/netif"
)

func newPlatform(opts Options) Platform {
	return newLinuxPlatform(execRunner{}, netlinkMutator{}, opts)
}

// netlinkMutator mutates links and addresses over rtnetlink, used for
// devices NetworkManager does not manage.
type netlinkMutator struct{}

func (netlinkMutator) SetAdminState(dev string, up bool) *netif.Error {
	link, nerr := linkByName(dev)
	if nerr != nil {
		return nerr
	}
	if up {
		return classifyNetlinkError("bringing "+dev+" up", netlink.LinkSetUp(link))
	}
	return classifyNetlinkError("bringing "+dev+" down", netlink.LinkSetDown(link))
}

func (netlinkMutator) SetMTU(dev string, mtu uint32) *netif.Error {
	link, nerr := linkByName(dev)
	if nerr != nil {
		return nerr
	}
	return classifyNetlinkError("setting mtu on "+dev, netlink.LinkSetMTU(link, int(mtu)))
}

func (netlinkMutator) AddrAdd(dev, cidr string) *netif.Error {
	link, nerr := linkByName(dev)
	if nerr != nil {
		return nerr
	}
	addr, err := netlink.ParseAddr(cidr)
	if err != nil {
		return netif.InvalidArgumentf("invalid address %s: %v", cidr, err)
	}
	return classifyNetlinkError("adding "+cidr+" to "+dev, netlink.AddrAdd(link, addr))
}

func (netlinkMutator) AddrDel(dev, cidr string) *netif.Error {
	link, nerr := linkByName(dev)
	if nerr != nil {
		return nerr
	}
	addr, err := netlink.ParseAddr(cidr)
	if err != nil {
		return netif.InvalidArgumentf("invalid address %s: %v", cidr, err)
	}
	if err := netlink.AddrDel(link, addr); err != nil {
		if errors.Is(err, unix.EADDRNOTAVAIL) {
			return netif.NotFoundf("address %s is not assigned to %s", cidr, dev)
		}
		return classifyNetlinkError("removing "+cidr+" from "+dev, err)
	}
	return nil
}

func (netlinkMutator) FlushGlobalV4Addrs(dev string) *netif.Error {
	link, nerr := linkByName(dev)
	if nerr != nil {
		return nerr
	}
	addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return classifyNetlinkError("listing addresses on "+dev, err)
	}
	for _, addr := range addrs {
		if addr.Scope != unix.RT_SCOPE_UNIVERSE {
			continue
		}
		if err := netlink.AddrDel(link, &addr); err != nil {
			return classifyNetlinkError("flushing addresses on "+dev, err)
		}
	}
	return nil
}

func (netlinkMutator) ReplaceDefaultRoute(dev, gateway string) *netif.Error {
	link, nerr := linkByName(dev)
	if nerr != nil {
		return nerr
	}
	gw := net.ParseIP(gateway)
	if gw == nil {
		return netif.InvalidArgumentf("invalid gateway %s", gateway)
	}
	route := &netlink.Route{
		LinkIndex: link.Attrs().Index,
		Gw:        gw,
	}
	return classifyNetlinkError("replacing default route via "+gateway, netlink.RouteReplace(route))
}

func linkByName(dev string) (netlink.Link, *netif.Error) {
	link, err := netlink.LinkByName(dev)
	if err != nil {
		var notFound netlink.LinkNotFoundError
		if errors.As(err, &notFound) {
			return nil, netif.NotFoundf("interface %s not found", dev)
		}
		return nil, classifyNetlinkError("looking up "+dev, err)
	}
	return link, nil
}

func classifyNetlinkError(what string, err error) *netif.Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
		return netif.PermissionDeniedf("%s: %v (CAP_NET_ADMIN is required)", what, err)
	}
	return netif.SystemErrorf("%s: %v", what, err)
}

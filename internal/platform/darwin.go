package platform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ifbridge/ifbridge/internal/netif"
)

// darwinPlatform drives BSD ifconfig. Mutations are runtime-only;
// persistence would require the SystemConfiguration framework, which
// this backend deliberately stays away from.
type darwinPlatform struct {
	run          commandRunner
	ifconfigPath string
}

func newDarwinPlatform(run commandRunner, opts Options) *darwinPlatform {
	return &darwinPlatform{run: run, ifconfigPath: opts.IfconfigPath}
}

func (p *darwinPlatform) Enumerate() ([]netif.NetInterface, *netif.Error) {
	res, err := p.run.Run(p.ifconfigPath, "-a")
	if err != nil {
		return nil, netif.Unsupportedf("cannot execute %s: %v", p.ifconfigPath, err)
	}
	if !res.exitOK {
		return nil, netif.SystemErrorf("ifconfig -a failed: %s", strings.TrimSpace(res.stderr))
	}
	return parseIfconfig(res.stdout), nil
}

func (p *darwinPlatform) ApplyOne(target ResolvedTarget, op netif.Op) *netif.Error {
	switch op.Op {
	case netif.OpSetAdminState:
		state := "down"
		if op.Up != nil && *op.Up {
			state = "up"
		}
		return p.ifconfig(target.Name, state)
	case netif.OpSetMTU:
		return p.ifconfig(target.Name, "mtu", strconv.FormatUint(uint64(op.MTU), 10))
	case netif.OpAddIP:
		return p.mutateIP(target.Name, op.IP, op.PrefixLen, "add")
	case netif.OpDelIP:
		return p.mutateIP(target.Name, op.IP, op.PrefixLen, "delete")
	case netif.OpSetIPv4DHCP:
		return netif.Unsupportedf("DHCP toggling is not supported on macOS")
	case netif.OpSetIPv4Static:
		return netif.Unsupportedf("persistent static IPv4 configuration is not supported on macOS")
	}
	return netif.InvalidArgumentf("unknown operation %q", op.Op)
}

func (p *darwinPlatform) mutateIP(dev, ip string, prefixLen uint8, verb string) *netif.Error {
	if strings.Contains(ip, ":") {
		return p.ifconfig(dev, "inet6", ip, "prefixlen",
			strconv.FormatUint(uint64(prefixLen), 10), verb)
	}
	return p.ifconfig(dev, "inet", fmt.Sprintf("%s/%d", ip, prefixLen), verb)
}

func (p *darwinPlatform) ifconfig(args ...string) *netif.Error {
	res, err := p.run.Run(p.ifconfigPath, args...)
	if err != nil {
		return netif.SystemErrorf("failed to execute ifconfig: %v", err)
	}
	if !res.exitOK {
		return netif.SystemErrorf("command failed: ifconfig %s: %s",
			strings.Join(args, " "), strings.TrimSpace(res.stderr))
	}
	return nil
}

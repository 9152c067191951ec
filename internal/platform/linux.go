package platform

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ifbridge/ifbridge/internal/log"
	"github.com/ifbridge/ifbridge/internal/netif"
)

// linkMutator is the low-level mutation seam for devices that are not
// NetworkManager-managed. The production implementation talks netlink
// directly; tests substitute a fake.
type linkMutator interface {
	SetAdminState(dev string, up bool) *netif.Error
	SetMTU(dev string, mtu uint32) *netif.Error
	AddrAdd(dev, cidr string) *netif.Error
	AddrDel(dev, cidr string) *netif.Error
	FlushGlobalV4Addrs(dev string) *netif.Error
	ReplaceDefaultRoute(dev, gateway string) *netif.Error
}

type linuxPlatform struct {
	run  commandRunner
	link linkMutator

	ipPath      string
	nmcliPath   string
	networkdDir string

	// nmcli presence is probed once per engine lifetime.
	nmcliOnce    sync.Once
	nmcliPresent bool
}

func newLinuxPlatform(run commandRunner, link linkMutator, opts Options) *linuxPlatform {
	return &linuxPlatform{
		run:         run,
		link:        link,
		ipPath:      opts.IPPath,
		nmcliPath:   opts.NmcliPath,
		networkdDir: opts.NetworkdDir,
	}
}

func (p *linuxPlatform) Enumerate() ([]netif.NetInterface, *netif.Error) {
	res, err := p.run.Run(p.ipPath, "-j", "address")
	if err != nil {
		return nil, netif.Unsupportedf("cannot execute %s (iproute2 is required): %v", p.ipPath, err)
	}
	if !res.exitOK {
		return nil, netif.SystemErrorf("ip -j address failed: %s", strings.TrimSpace(res.stderr))
	}

	links, perr := parseIPAddrOutput([]byte(res.stdout))
	if perr != nil {
		return nil, netif.SystemErrorf("parsing ip output: %v", perr)
	}

	dhcpCapable := p.nmcliAvailable()
	out := make([]netif.NetInterface, 0, len(links))
	for _, l := range links {
		out = append(out, mapLinuxInterface(l, dhcpCapable))
	}
	return out, nil
}

func (p *linuxPlatform) ApplyOne(target ResolvedTarget, op netif.Op) *netif.Error {
	switch op.Op {
	case netif.OpSetAdminState:
		return p.link.SetAdminState(target.Name, op.Up != nil && *op.Up)
	case netif.OpSetMTU:
		return p.link.SetMTU(target.Name, op.MTU)
	case netif.OpAddIP:
		return p.addIP(target.Name, op.IP, op.PrefixLen)
	case netif.OpDelIP:
		return p.delIP(target.Name, op.IP, op.PrefixLen)
	case netif.OpSetIPv4DHCP:
		return p.setIPv4DHCP(target.Name, op.Enable != nil && *op.Enable)
	case netif.OpSetIPv4Static:
		return p.setIPv4Static(target.Name, op.IP, op.PrefixLen, op.Gateway)
	}
	return netif.InvalidArgumentf("unknown operation %q", op.Op)
}

// nmcliAvailable memoizes whether nmcli responds. Probing on every
// operation would double the process count of each batch.
func (p *linuxPlatform) nmcliAvailable() bool {
	p.nmcliOnce.Do(func() {
		res, err := p.run.Run(p.nmcliPath, "-v")
		p.nmcliPresent = err == nil && res.exitOK
		if !p.nmcliPresent {
			log.Debugf("nmcli not detected, falling back to direct link mutation")
		}
	})
	return p.nmcliPresent
}

// connectionForDevice returns the NetworkManager connection name owning
// dev, or "" when nmcli is absent or the device is unmanaged.
func (p *linuxPlatform) connectionForDevice(dev string) (string, *netif.Error) {
	if !p.nmcliAvailable() {
		return "", nil
	}
	res, err := p.run.Run(p.nmcliPath, "-t", "-f", "GENERAL.CONNECTION", "dev", "show", dev)
	if err != nil {
		return "", netif.SystemErrorf("failed to execute nmcli: %v", err)
	}
	if !res.exitOK {
		return "", netif.SystemErrorf("nmcli device query for %s failed: %s", dev, strings.TrimSpace(res.stderr))
	}
	return parseNmcliConnection(res.stdout), nil
}

// nmcli runs one nmcli command and folds a nonzero exit into a
// SystemError carrying the command line and stderr.
func (p *linuxPlatform) nmcli(args ...string) *netif.Error {
	res, err := p.run.Run(p.nmcliPath, args...)
	if err != nil {
		return netif.SystemErrorf("failed to execute nmcli: %v", err)
	}
	if !res.exitOK {
		return netif.SystemErrorf("nmcli command failed: nmcli %s: %s",
			strings.Join(args, " "), strings.TrimSpace(res.stderr))
	}
	return nil
}

func addressFamilyProperty(ip string) string {
	if strings.Contains(ip, ":") {
		return "ipv6"
	}
	return "ipv4"
}

func (p *linuxPlatform) addIP(dev, ip string, prefixLen uint8) *netif.Error {
	cidr := fmt.Sprintf("%s/%d", ip, prefixLen)
	conn, err := p.connectionForDevice(dev)
	if err != nil {
		return err
	}
	if conn == "" {
		return p.link.AddrAdd(dev, cidr)
	}

	family := addressFamilyProperty(ip)
	if err := p.nmcli("con", "mod", "id", conn,
		family+".method", "manual", "+"+family+".addresses", cidr); err != nil {
		return err
	}
	return p.nmcli("con", "up", "id", conn)
}

func (p *linuxPlatform) delIP(dev, ip string, prefixLen uint8) *netif.Error {
	cidr := fmt.Sprintf("%s/%d", ip, prefixLen)
	conn, err := p.connectionForDevice(dev)
	if err != nil {
		return err
	}
	if conn == "" {
		return p.link.AddrDel(dev, cidr)
	}

	family := addressFamilyProperty(ip)
	res, rerr := p.run.Run(p.nmcliPath, "con", "mod", "id", conn, "-"+family+".addresses", cidr)
	if rerr != nil {
		return netif.SystemErrorf("failed to execute nmcli: %v", rerr)
	}
	if res.exitOK {
		return p.nmcli("con", "up", "id", conn)
	}

	// NetworkManager refuses to drop the last manual address of a
	// manual-method profile. Reset the profile to automatic addressing
	// instead, which releases the address as a side effect.
	stderrText := strings.TrimSpace(res.stderr)
	if strings.Contains(stderrText, family+".addresses") {
		log.Debugf("nmcli rejected removing %s from %s, resetting profile to auto", cidr, conn)
		if err := p.nmcli("con", "mod", "id", conn,
			family+".method", "auto", family+".addresses", "", family+".gateway", ""); err != nil {
			return err
		}
		return p.nmcli("con", "up", "id", conn)
	}
	return netif.SystemErrorf("nmcli command failed: nmcli con mod id %s -%s.addresses %s: %s",
		conn, family, cidr, stderrText)
}

func (p *linuxPlatform) setIPv4DHCP(dev string, enable bool) *netif.Error {
	conn, err := p.connectionForDevice(dev)
	if err != nil {
		return err
	}
	if conn == "" {
		return netif.Unsupportedf("NetworkManager (nmcli) does not manage %s; DHCP cannot be toggled", dev)
	}

	if enable {
		if err := p.nmcli("con", "mod", "id", conn, "ipv4.method", "auto"); err != nil {
			return err
		}
		if err := p.nmcli("con", "mod", "id", conn, "ipv4.addresses", ""); err != nil {
			return err
		}
		return p.nmcli("con", "up", "id", conn)
	}

	// Turning DHCP off pins the current lease as the manual
	// configuration so the device keeps its address.
	addr, err := p.currentIPv4CIDR(dev)
	if err != nil {
		return err
	}
	if addr == "" {
		return netif.InvalidArgumentf("disabling DHCP on %s requires an existing IPv4 address to pin", dev)
	}
	if err := p.nmcli("con", "mod", "id", conn, "ipv4.method", "manual"); err != nil {
		return err
	}
	if err := p.nmcli("con", "mod", "id", conn, "ipv4.addresses", addr); err != nil {
		return err
	}
	gw, err := p.currentIPv4Gateway(dev)
	if err != nil {
		return err
	}
	if gw != "" {
		if err := p.nmcli("con", "mod", "id", conn, "ipv4.gateway", gw); err != nil {
			return err
		}
	}
	return p.nmcli("con", "up", "id", conn)
}

func (p *linuxPlatform) setIPv4Static(dev, ip string, prefixLen uint8, gateway string) *netif.Error {
	cidr := fmt.Sprintf("%s/%d", ip, prefixLen)
	conn, err := p.connectionForDevice(dev)
	if err != nil {
		return err
	}
	if conn != "" {
		args := []string{"con", "mod", "id", conn,
			"ipv4.method", "manual", "ipv4.addresses", cidr}
		if gateway != "" {
			args = append(args, "ipv4.gateway", gateway)
		}
		if err := p.nmcli(args...); err != nil {
			return err
		}
		return p.nmcli("con", "up", "id", conn)
	}

	if err := p.applyRuntimeStaticIPv4(dev, cidr, gateway); err != nil {
		return err
	}
	return p.persistNetworkdStaticIPv4(dev, cidr, gateway)
}

func (p *linuxPlatform) applyRuntimeStaticIPv4(dev, cidr, gateway string) *netif.Error {
	if err := p.link.FlushGlobalV4Addrs(dev); err != nil {
		return err
	}
	if err := p.link.AddrAdd(dev, cidr); err != nil {
		return err
	}
	if gateway != "" {
		return p.link.ReplaceDefaultRoute(dev, gateway)
	}
	return nil
}

func (p *linuxPlatform) currentIPv4CIDR(dev string) (string, *netif.Error) {
	res, err := p.run.Run(p.ipPath, "-j", "address", "show", "dev", dev)
	if err != nil {
		return "", netif.SystemErrorf("failed to execute ip: %v", err)
	}
	if !res.exitOK {
		return "", netif.SystemErrorf("ip address show %s failed: %s", dev, strings.TrimSpace(res.stderr))
	}
	links, perr := parseIPAddrOutput([]byte(res.stdout))
	if perr != nil {
		return "", netif.SystemErrorf("parsing ip output: %v", perr)
	}
	return firstGlobalIPv4CIDR(links), nil
}

func (p *linuxPlatform) currentIPv4Gateway(dev string) (string, *netif.Error) {
	res, err := p.run.Run(p.ipPath, "-j", "route", "show", "default", "dev", dev)
	if err != nil {
		return "", netif.SystemErrorf("failed to execute ip: %v", err)
	}
	if !res.exitOK {
		return "", netif.SystemErrorf("ip route show default dev %s failed: %s", dev, strings.TrimSpace(res.stderr))
	}
	gw, perr := parseDefaultGateway([]byte(res.stdout))
	if perr != nil {
		return "", netif.SystemErrorf("parsing ip route output: %v", perr)
	}
	return gw, nil
}

package platform

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/ifbridge/ifbridge/internal/netif"
)

// parseIfconfig parses `ifconfig -a` text output. A block starts at an
// unindented "name: flags=..." line and runs until the next one.
//
// BSD ifconfig reports no interface index, so IfIndex stays 0 and
// selection falls back to names.
func parseIfconfig(out string) []netif.NetInterface {
	var ifaces []netif.NetInterface
	var block []string

	flush := func() {
		if len(block) == 0 {
			return
		}
		if iface := parseIfconfigBlock(block); iface != nil {
			ifaces = append(ifaces, *iface)
		}
		block = nil
	}

	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		indented := line[0] == ' ' || line[0] == '\t'
		if !indented {
			flush()
		}
		block = append(block, line)
	}
	flush()

	return ifaces
}

func parseIfconfigBlock(lines []string) *netif.NetInterface {
	header := lines[0]
	colon := strings.Index(header, ":")
	if colon <= 0 {
		return nil
	}
	name := header[:colon]

	// Same rule as on Linux: name prefixes identify loopback, tunnel
	// and virtual devices, nothing identifies physical hardware.
	kind := netif.KindUnknown
	if strings.HasPrefix(name, "lo") {
		kind = netif.KindLoopback
	} else if hasAnyPrefix(name, "utun", "gif", "stf", "ipsec") {
		kind = netif.KindTunnel
	} else if hasAnyPrefix(name, "bridge", "awdl", "llw", "anpi", "vmenet") {
		kind = netif.KindVirtual
	}

	iface := netif.NetInterface{
		Name:       name,
		Kind:       kind,
		AdminState: netif.AdminDown,
		OperState:  netif.OperUnknown,
		MTU:        parseIfconfigMTU(header),
		Capabilities: netif.Capabilities{
			CanSetAdminState: true,
			CanSetMTU:        true,
			CanAddDelIP:      true,
			Notes:            "selected by name; no stable interface index",
		},
	}

	iface.Flags = parseIfconfigFlags(header)
	if iface.Flags&netif.FlagUp != 0 {
		iface.AdminState = netif.AdminUp
	}

	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "ether":
			iface.MAC = fields[1]
		case "status:":
			switch fields[1] {
			case "active":
				iface.OperState = netif.OperUp
			case "inactive":
				iface.OperState = netif.OperDown
			}
		case "inet":
			if entry, ok := parseInetLine(fields); ok {
				iface.IPv4 = append(iface.IPv4, entry)
			}
		case "inet6":
			if entry, ok := parseInet6Line(fields); ok {
				iface.IPv6 = append(iface.IPv6, entry)
			}
		}
	}

	return &iface
}

// parseIfconfigFlags extracts the <UP,BROADCAST,...> token list from a
// block header line.
func parseIfconfigFlags(header string) netif.IfaceFlags {
	open := strings.Index(header, "<")
	end := strings.Index(header, ">")
	if open < 0 || end < open {
		return 0
	}

	var flags netif.IfaceFlags
	for _, tok := range strings.Split(header[open+1:end], ",") {
		switch tok {
		case "UP":
			flags |= netif.FlagUp
		case "RUNNING":
			flags |= netif.FlagRunning
		case "LOOPBACK":
			flags |= netif.FlagLoopback
		case "BROADCAST":
			flags |= netif.FlagBroadcast
		case "MULTICAST":
			flags |= netif.FlagMulticast
		case "POINTOPOINT":
			flags |= netif.FlagPointToPoint
		}
	}
	return flags
}

func parseIfconfigMTU(header string) uint32 {
	fields := strings.Fields(header)
	for i, f := range fields {
		if f == "mtu" && i+1 < len(fields) {
			mtu, err := strconv.ParseUint(fields[i+1], 10, 32)
			if err == nil {
				return uint32(mtu)
			}
		}
	}
	return 0
}

// parseInetLine parses "inet 192.168.1.10 netmask 0xffffff00 broadcast ...".
func parseInetLine(fields []string) (netif.IPAddrEntry, bool) {
	entry := netif.IPAddrEntry{IP: fields[1], Scope: netif.ScopeGlobal, Origin: netif.OriginUnknown}
	if strings.HasPrefix(entry.IP, "127.") {
		entry.Scope = netif.ScopeHost
	} else if strings.HasPrefix(entry.IP, "169.254.") {
		entry.Scope = netif.ScopeLink
	}
	for i := 2; i+1 < len(fields); i += 2 {
		if fields[i] != "netmask" {
			continue
		}
		if prefix, ok := netmaskToPrefix(fields[i+1]); ok {
			entry.PrefixLen = prefix
		}
	}
	return entry, true
}

// parseInet6Line parses "inet6 fe80::1%lo0 prefixlen 64 ...". The zone
// suffix is stripped; trailing keywords mark address state.
func parseInet6Line(fields []string) (netif.IPAddrEntry, bool) {
	ip := fields[1]
	if zone := strings.Index(ip, "%"); zone >= 0 {
		ip = ip[:zone]
	}

	entry := netif.IPAddrEntry{IP: ip, Scope: netif.ScopeGlobal, Origin: netif.OriginUnknown}
	if strings.HasPrefix(ip, "fe80:") {
		entry.Scope = netif.ScopeLink
	} else if ip == "::1" {
		entry.Scope = netif.ScopeHost
	}

	for i := 2; i < len(fields); i++ {
		switch fields[i] {
		case "prefixlen":
			if i+1 < len(fields) {
				if prefix, err := strconv.ParseUint(fields[i+1], 10, 8); err == nil {
					entry.PrefixLen = uint8(prefix)
				}
				i++
			}
		case "temporary":
			entry.Flags |= netif.AddrTemporary
		case "deprecated":
			entry.Flags |= netif.AddrDeprecated
		case "tentative":
			entry.Flags |= netif.AddrTentative
		}
	}
	return entry, true
}

// netmaskToPrefix converts a netmask in either 0xffffff00 hex form or
// 255.255.255.0 dotted form to a prefix length via popcount.
func netmaskToPrefix(mask string) (uint8, bool) {
	if hexMask, found := strings.CutPrefix(mask, "0x"); found {
		v, err := strconv.ParseUint(hexMask, 16, 32)
		if err != nil {
			return 0, false
		}
		return uint8(bits.OnesCount32(uint32(v))), true
	}

	parts := strings.Split(mask, ".")
	if len(parts) != 4 {
		return 0, false
	}
	var total int
	for _, part := range parts {
		v, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return 0, false
		}
		total += bits.OnesCount8(uint8(v))
	}
	return uint8(total), true
}

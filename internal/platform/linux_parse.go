package platform

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ifbridge/ifbridge/internal/netif"
)

// ipLink mirrors one element of `ip -j address` output. Only the
// fields the model needs are declared.
type ipLink struct {
	IfIndex   uint32       `json:"ifindex"`
	IfName    string       `json:"ifname"`
	Flags     []string     `json:"flags"`
	MTU       uint32       `json:"mtu"`
	LinkType  string       `json:"link_type"`
	Address   string       `json:"address"`
	OperState string       `json:"operstate"`
	AddrInfo  []ipAddrInfo `json:"addr_info"`
}

type ipAddrInfo struct {
	Family     string `json:"family"`
	Local      string `json:"local"`
	PrefixLen  uint8  `json:"prefixlen"`
	Scope      string `json:"scope"`
	Dynamic    bool   `json:"dynamic"`
	Temporary  bool   `json:"temporary"`
	Deprecated bool   `json:"deprecated"`
	Tentative  bool   `json:"tentative"`
}

func parseIPAddrOutput(data []byte) ([]ipLink, error) {
	var links []ipLink
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("unmarshalling ip JSON: %w", err)
	}
	return links, nil
}

func mapLinuxInterface(l ipLink, dhcpCapable bool) netif.NetInterface {
	iface := netif.NetInterface{
		IfIndex:    l.IfIndex,
		Name:       l.IfName,
		Kind:       classifyLinuxKind(l),
		AdminState: netif.AdminDown,
		OperState:  mapLinuxOperState(l.OperState),
		MTU:        l.MTU,
		Capabilities: netif.Capabilities{
			CanSetAdminState: true,
			CanSetMTU:        true,
			CanAddDelIP:      true,
			CanSetDHCP:       dhcpCapable,
		},
	}
	if !dhcpCapable {
		iface.Capabilities.Notes = "NetworkManager not detected; DHCP toggling unavailable"
	}

	if l.Address != "" && l.LinkType != "loopback" {
		iface.MAC = l.Address
	}

	for _, f := range l.Flags {
		switch f {
		case "UP":
			iface.Flags |= netif.FlagUp
			iface.AdminState = netif.AdminUp
		case "RUNNING", "LOWER_UP":
			iface.Flags |= netif.FlagRunning
		case "LOOPBACK":
			iface.Flags |= netif.FlagLoopback
		case "BROADCAST":
			iface.Flags |= netif.FlagBroadcast
		case "MULTICAST":
			iface.Flags |= netif.FlagMulticast
		case "POINTOPOINT":
			iface.Flags |= netif.FlagPointToPoint
		}
	}

	for _, a := range l.AddrInfo {
		entry := netif.IPAddrEntry{
			IP:        a.Local,
			PrefixLen: a.PrefixLen,
			Scope:     mapLinuxScope(a.Scope),
			Origin:    netif.OriginUnknown,
		}
		if a.Dynamic {
			entry.Origin = netif.OriginDHCP
		}
		if a.Temporary {
			entry.Flags |= netif.AddrTemporary
		}
		if a.Deprecated {
			entry.Flags |= netif.AddrDeprecated
		}
		if a.Tentative {
			entry.Flags |= netif.AddrTentative
		}
		switch a.Family {
		case "inet":
			iface.IPv4 = append(iface.IPv4, entry)
		case "inet6":
			iface.IPv6 = append(iface.IPv6, entry)
		}
	}

	return iface
}

// classifyLinuxKind maps well-known name prefixes to loopback, tunnel
// and virtual kinds. A name proves nothing about real hardware, so
// everything else stays unknown and is_physical is never populated.
func classifyLinuxKind(l ipLink) netif.IfaceKind {
	name := l.IfName
	switch {
	case l.LinkType == "loopback" || name == "lo":
		return netif.KindLoopback
	case hasAnyPrefix(name, "tun", "wg", "gre", "sit", "ipip"):
		return netif.KindTunnel
	case hasAnyPrefix(name, "tap", "veth", "br", "docker", "virbr", "bond", "dummy", "vlan", "macvlan"):
		return netif.KindVirtual
	default:
		return netif.KindUnknown
	}
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func mapLinuxOperState(state string) netif.OperState {
	switch state {
	case "UP":
		return netif.OperUp
	case "DOWN":
		return netif.OperDown
	case "DORMANT":
		return netif.OperDormant
	case "LOWERLAYERDOWN":
		return netif.OperLowerLayerDown
	default:
		return netif.OperUnknown
	}
}

func mapLinuxScope(scope string) netif.IPScope {
	switch scope {
	case "global":
		return netif.ScopeGlobal
	case "link":
		return netif.ScopeLink
	case "host":
		return netif.ScopeHost
	case "site":
		return netif.ScopeSite
	default:
		return netif.ScopeUnknown
	}
}

// parseNmcliConnection extracts the connection name from terse
// `nmcli -t -f GENERAL.CONNECTION dev show <dev>` output. Empty output
// or a "--" value means the device is not NetworkManager-managed.
func parseNmcliConnection(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		value, found := strings.CutPrefix(line, "GENERAL.CONNECTION:")
		if !found {
			continue
		}
		if value == "--" {
			return ""
		}
		return value
	}
	return ""
}

// firstGlobalIPv4CIDR returns the first global-scope IPv4 address of
// the first link in links, in CIDR form, or "" when there is none.
func firstGlobalIPv4CIDR(links []ipLink) string {
	for _, l := range links {
		for _, a := range l.AddrInfo {
			if a.Family != "inet" || a.Scope != "global" {
				continue
			}
			return fmt.Sprintf("%s/%d", a.Local, a.PrefixLen)
		}
	}
	return ""
}

type ipRoute struct {
	Dst     string `json:"dst"`
	Gateway string `json:"gateway"`
}

// parseDefaultGateway extracts the gateway of the default route from
// `ip -j route show default` output. No default route is not an error.
func parseDefaultGateway(data []byte) (string, error) {
	var routes []ipRoute
	if err := json.Unmarshal(data, &routes); err != nil {
		return "", fmt.Errorf("unmarshalling route JSON: %w", err)
	}
	for _, r := range routes {
		if r.Gateway != "" {
			return r.Gateway, nil
		}
	}
	return "", nil
}

package platform

import (
	"testing"

	"github.com/ifbridge/ifbridge/internal/netif"
)

const sampleIPAddrJSON = `[
  {
    "ifindex": 1,
    "ifname": "lo",
    "flags": ["LOOPBACK", "UP", "LOWER_UP"],
    "mtu": 65536,
    "operstate": "UNKNOWN",
    "link_type": "loopback",
    "address": "00:00:00:00:00:00",
    "addr_info": [
      {"family": "inet", "local": "127.0.0.1", "prefixlen": 8, "scope": "host"},
      {"family": "inet6", "local": "::1", "prefixlen": 128, "scope": "host"}
    ]
  },
  {
    "ifindex": 2,
    "ifname": "eth0",
    "flags": ["BROADCAST", "MULTICAST", "UP", "LOWER_UP"],
    "mtu": 1500,
    "operstate": "UP",
    "link_type": "ether",
    "address": "52:54:00:12:34:56",
    "addr_info": [
      {"family": "inet", "local": "192.168.1.10", "prefixlen": 24, "scope": "global", "dynamic": true},
      {"family": "inet6", "local": "fe80::5054:ff:fe12:3456", "prefixlen": 64, "scope": "link"}
    ]
  },
  {
    "ifindex": 5,
    "ifname": "wg0",
    "flags": ["POINTOPOINT", "NOARP", "UP", "LOWER_UP"],
    "mtu": 1420,
    "operstate": "UNKNOWN",
    "link_type": "none",
    "addr_info": [
      {"family": "inet", "local": "10.8.0.2", "prefixlen": 32, "scope": "global"}
    ]
  }
]`

func TestParseIPAddrOutput(t *testing.T) {
	links, err := parseIPAddrOutput([]byte(sampleIPAddrJSON))
	if err != nil {
		t.Fatalf("parseIPAddrOutput failed: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}

	eth0 := mapLinuxInterface(links[1], true)
	if eth0.IfIndex != 2 || eth0.Name != "eth0" {
		t.Errorf("identity = %d/%s, want 2/eth0", eth0.IfIndex, eth0.Name)
	}
	if eth0.Kind != netif.KindUnknown {
		t.Errorf("eth0 kind = %s, want unknown (names do not prove hardware)", eth0.Kind)
	}
	if eth0.IsPhysical != nil {
		t.Errorf("is_physical must stay absent, got %v", *eth0.IsPhysical)
	}
	if eth0.AdminState != netif.AdminUp || eth0.OperState != netif.OperUp {
		t.Errorf("eth0 states = %s/%s, want up/up", eth0.AdminState, eth0.OperState)
	}
	if eth0.MAC != "52:54:00:12:34:56" {
		t.Errorf("eth0 mac = %q", eth0.MAC)
	}
	if eth0.MTU != 1500 {
		t.Errorf("eth0 mtu = %d", eth0.MTU)
	}
	if eth0.Flags&netif.FlagBroadcast == 0 || eth0.Flags&netif.FlagMulticast == 0 ||
		eth0.Flags&netif.FlagUp == 0 || eth0.Flags&netif.FlagRunning == 0 {
		t.Errorf("eth0 flags = %b", eth0.Flags)
	}

	if len(eth0.IPv4) != 1 || len(eth0.IPv6) != 1 {
		t.Fatalf("eth0 addresses = %d v4, %d v6", len(eth0.IPv4), len(eth0.IPv6))
	}
	v4 := eth0.IPv4[0]
	if v4.IP != "192.168.1.10" || v4.PrefixLen != 24 || v4.Scope != netif.ScopeGlobal {
		t.Errorf("eth0 v4 = %+v", v4)
	}
	if v4.Origin != netif.OriginDHCP {
		t.Errorf("dynamic address should map to dhcp origin, got %s", v4.Origin)
	}
	if eth0.IPv6[0].Scope != netif.ScopeLink {
		t.Errorf("fe80 address should be link scope, got %s", eth0.IPv6[0].Scope)
	}

	lo := mapLinuxInterface(links[0], true)
	if lo.Kind != netif.KindLoopback {
		t.Errorf("lo kind = %s", lo.Kind)
	}
	if lo.MAC != "" {
		t.Errorf("loopback must not report a mac, got %q", lo.MAC)
	}
	if lo.IsPhysical != nil {
		t.Errorf("is_physical must stay absent even for loopback, got %v", *lo.IsPhysical)
	}

	wg0 := mapLinuxInterface(links[2], false)
	if wg0.Kind != netif.KindTunnel {
		t.Errorf("wg0 kind = %s, want tunnel", wg0.Kind)
	}
	if wg0.Flags&netif.FlagPointToPoint == 0 {
		t.Errorf("wg0 should carry the point-to-point flag")
	}
	if wg0.Capabilities.CanSetDHCP {
		t.Errorf("dhcp capability must follow nmcli availability")
	}
}

func TestClassifyLinuxKind(t *testing.T) {
	tests := []struct {
		link ipLink
		want netif.IfaceKind
	}{
		{ipLink{IfName: "lo", LinkType: "loopback"}, netif.KindLoopback},
		{ipLink{IfName: "tun0"}, netif.KindTunnel},
		{ipLink{IfName: "wg0"}, netif.KindTunnel},
		{ipLink{IfName: "tap0"}, netif.KindVirtual},
		{ipLink{IfName: "veth1a2b"}, netif.KindVirtual},
		{ipLink{IfName: "docker0"}, netif.KindVirtual},
		{ipLink{IfName: "eth0", LinkType: "ether"}, netif.KindUnknown},
		{ipLink{IfName: "enp3s0", LinkType: "ether"}, netif.KindUnknown},
		{ipLink{IfName: "wlan0"}, netif.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.link.IfName, func(t *testing.T) {
			if got := classifyLinuxKind(tt.link); got != tt.want {
				t.Errorf("classifyLinuxKind(%s) = %s, want %s", tt.link.IfName, got, tt.want)
			}
			if iface := mapLinuxInterface(tt.link, false); iface.IsPhysical != nil {
				t.Errorf("%s: is_physical must never be set, got %v", tt.link.IfName, *iface.IsPhysical)
			}
		})
	}
}

func TestParseIPAddrOutputRejectsGarbage(t *testing.T) {
	if _, err := parseIPAddrOutput([]byte("RTNETLINK answers: no")); err == nil {
		t.Errorf("expected parse error for non-JSON input")
	}
}

func TestParseNmcliConnection(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{"managed", "GENERAL.CONNECTION:Wired connection 1\n", "Wired connection 1"},
		{"unmanaged", "GENERAL.CONNECTION:--\n", ""},
		{"empty", "", ""},
		{"other fields ignored", "GENERAL.DEVICE:eth0\nGENERAL.CONNECTION:home\n", "home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseNmcliConnection(tt.out); got != tt.want {
				t.Errorf("parseNmcliConnection = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFirstGlobalIPv4CIDR(t *testing.T) {
	links := []ipLink{
		{
			IfName: "eth0",
			AddrInfo: []ipAddrInfo{
				{Family: "inet6", Local: "fe80::1", PrefixLen: 64, Scope: "link"},
				{Family: "inet", Local: "169.254.1.5", PrefixLen: 16, Scope: "link"},
				{Family: "inet", Local: "192.168.1.10", PrefixLen: 24, Scope: "global"},
			},
		},
	}

	if got := firstGlobalIPv4CIDR(links); got != "192.168.1.10/24" {
		t.Errorf("firstGlobalIPv4CIDR = %q", got)
	}
	if got := firstGlobalIPv4CIDR(nil); got != "" {
		t.Errorf("expected empty result for no links, got %q", got)
	}
}

func TestParseDefaultGateway(t *testing.T) {
	out := `[{"dst":"default","gateway":"192.168.1.1","dev":"eth0","protocol":"dhcp"}]`
	gw, err := parseDefaultGateway([]byte(out))
	if err != nil {
		t.Fatalf("parseDefaultGateway failed: %v", err)
	}
	if gw != "192.168.1.1" {
		t.Errorf("gateway = %q", gw)
	}

	gw, err = parseDefaultGateway([]byte("[]"))
	if err != nil || gw != "" {
		t.Errorf("no default route should yield empty gateway, got %q err %v", gw, err)
	}
}

package platform

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ifbridge/ifbridge/internal/netif"
)

// windowsInventory mirrors the composite inventory script output. Each
// section is kept raw because ConvertTo-Json collapses single-element
// collections into a bare object.
type windowsInventory struct {
	Adapters json.RawMessage `json:"adapters"`
	IPIf     json.RawMessage `json:"ipif"`
	IPs      json.RawMessage `json:"ips"`
}

func parseWindowsInventory(data []byte) ([]netif.NetInterface, error) {
	var inv windowsInventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("unmarshalling inventory JSON: %w", err)
	}

	adapters, err := normalizeObjectArray(inv.Adapters)
	if err != nil {
		return nil, fmt.Errorf("adapters section: %w", err)
	}
	ipifRows, err := normalizeObjectArray(inv.IPIf)
	if err != nil {
		return nil, fmt.Errorf("ipif section: %w", err)
	}
	ipRows, err := normalizeObjectArray(inv.IPs)
	if err != nil {
		return nil, fmt.Errorf("ips section: %w", err)
	}

	// Per-index attributes from the IP-interface rows. IPv4 wins when
	// both families disagree on MTU.
	mtuByIdx := map[uint32]uint32{}
	dhcpByIdx := map[uint32]bool{}
	operByIdx := map[uint32]netif.OperState{}
	for _, row := range ipifRows {
		idx := uint32(getUint(row, "ifIndex"))
		if idx == 0 {
			continue
		}
		family := windowsAddressFamily(row["AddressFamily"])
		if mtu := uint32(getUint(row, "NlMtu")); mtu != 0 {
			if _, seen := mtuByIdx[idx]; !seen || family == 4 {
				mtuByIdx[idx] = mtu
			}
		}
		if family == 4 {
			dhcpByIdx[idx] = windowsDhcpEnabled(row["Dhcp"])
		}
		switch getString(row, "ConnectionState") {
		case "Connected":
			operByIdx[idx] = netif.OperUp
		case "Disconnected":
			if operByIdx[idx] != netif.OperUp {
				operByIdx[idx] = netif.OperDown
			}
		}
	}

	ipv4ByIdx := map[uint32][]netif.IPAddrEntry{}
	ipv6ByIdx := map[uint32][]netif.IPAddrEntry{}
	for _, row := range ipRows {
		idx := uint32(getUint(row, "ifIndex"))
		ip := getString(row, "IPAddress")
		if idx == 0 || ip == "" {
			continue
		}
		if zone := strings.Index(ip, "%"); zone >= 0 {
			ip = ip[:zone]
		}
		entry := netif.IPAddrEntry{
			IP:        ip,
			PrefixLen: uint8(getUint(row, "PrefixLength")),
			Scope:     netif.ScopeGlobal,
			Origin:    netif.OriginUnknown,
		}
		switch windowsAddressFamily(row["AddressFamily"]) {
		case 4:
			if strings.HasPrefix(ip, "169.254.") {
				entry.Scope = netif.ScopeLink
			} else if strings.HasPrefix(ip, "127.") {
				entry.Scope = netif.ScopeHost
			}
			ipv4ByIdx[idx] = append(ipv4ByIdx[idx], entry)
		case 6:
			if strings.HasPrefix(ip, "fe80:") {
				entry.Scope = netif.ScopeLink
			} else if ip == "::1" {
				entry.Scope = netif.ScopeHost
			}
			ipv6ByIdx[idx] = append(ipv6ByIdx[idx], entry)
		}
	}

	out := make([]netif.NetInterface, 0, len(adapters))
	for _, row := range adapters {
		idx := uint32(getUint(row, "ifIndex"))
		if idx == 0 {
			continue
		}

		iface := netif.NetInterface{
			IfIndex:     idx,
			Name:        getString(row, "Name"),
			DisplayName: getString(row, "InterfaceDescription"),
			Kind:        netif.KindUnknown,
			AdminState:  netif.AdminUnknown,
			OperState:   netif.OperUnknown,
			MAC:         normalizeWindowsMAC(getString(row, "MacAddress")),
			MTU:         mtuByIdx[idx],
			IPv4:        ipv4ByIdx[idx],
			IPv6:        ipv6ByIdx[idx],
			Capabilities: netif.Capabilities{
				CanSetAdminState: true,
				CanSetMTU:        true,
				CanAddDelIP:      true,
				CanSetDHCP:       true,
			},
		}

		switch getString(row, "Status") {
		case "Up":
			iface.AdminState = netif.AdminUp
			iface.OperState = netif.OperUp
			iface.Flags |= netif.FlagUp | netif.FlagRunning
		case "Disabled":
			iface.AdminState = netif.AdminDown
			iface.OperState = netif.OperDown
		case "Disconnected":
			iface.AdminState = netif.AdminUp
			iface.OperState = netif.OperLowerLayerDown
			iface.Flags |= netif.FlagUp
		case "Not Present":
			iface.AdminState = netif.AdminDown
		}
		if oper, ok := operByIdx[idx]; ok && iface.OperState == netif.OperUnknown {
			iface.OperState = oper
		}

		if speed, ok := parseLinkSpeed(getString(row, "LinkSpeed")); ok {
			iface.SpeedBps = speed
		}
		if dhcpByIdx[idx] {
			for i := range iface.IPv4 {
				iface.IPv4[i].Origin = netif.OriginDHCP
			}
		}

		out = append(out, iface)
	}
	return out, nil
}

// normalizeObjectArray decodes a section that may be null, a single
// object or an array of objects.
func normalizeObjectArray(raw json.RawMessage) ([]map[string]interface{}, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var single map[string]interface{}
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, err
		}
		return []map[string]interface{}{single}, nil
	}
	var many []map[string]interface{}
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, err
	}
	return many, nil
}

// windowsAddressFamily maps the AddressFamily property to 4 or 6.
// Depending on the PowerShell version it is either the string
// "IPv4"/"IPv6" or the raw enum value (2 for AF_INET, 23 for AF_INET6).
func windowsAddressFamily(v interface{}) int {
	switch t := v.(type) {
	case string:
		switch t {
		case "IPv4":
			return 4
		case "IPv6":
			return 6
		}
	case float64:
		switch int(t) {
		case 2:
			return 4
		case 23:
			return 6
		}
	}
	return 0
}

// windowsDhcpEnabled maps the Dhcp property, which serializes either
// as "Enabled"/"Disabled" or as the enum value (1 enabled).
func windowsDhcpEnabled(v interface{}) bool {
	switch t := v.(type) {
	case string:
		return t == "Enabled"
	case float64:
		return int(t) == 1
	}
	return false
}

// parseLinkSpeed converts strings such as "1 Gbps" or "100 Mbps" to
// bits per second.
func parseLinkSpeed(s string) (uint64, bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, false
	}
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || value < 0 {
		return 0, false
	}

	var unit float64
	switch strings.ToLower(fields[1]) {
	case "bps":
		unit = 1
	case "kbps":
		unit = 1e3
	case "mbps":
		unit = 1e6
	case "gbps":
		unit = 1e9
	case "tbps":
		unit = 1e12
	default:
		return 0, false
	}
	return uint64(value * unit), true
}

// normalizeWindowsMAC rewrites the dash-separated NetAdapter MAC form
// to the colon-separated form the rest of the model uses.
func normalizeWindowsMAC(mac string) string {
	if mac == "" {
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(mac, "-", ":"))
}

// classifyPowershellError maps cmdlet stderr text onto the error
// taxonomy. PowerShell exit codes alone do not distinguish causes.
func classifyPowershellError(stderr string) *netif.Error {
	msg := strings.TrimSpace(stderr)
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "access is denied"),
		strings.Contains(lower, "permission"),
		strings.Contains(lower, "elevation"):
		return netif.PermissionDeniedf("powershell: %s", msg)
	case strings.Contains(lower, "no msft_netadapter objects"),
		strings.Contains(lower, "no matching msft_netipaddress objects"),
		strings.Contains(lower, "cannot find"):
		return netif.NotFoundf("powershell: %s", msg)
	default:
		return netif.SystemErrorf("powershell command failed: %s", msg)
	}
}

func getUint(row map[string]interface{}, key string) uint64 {
	if v, ok := row[key].(float64); ok && v > 0 {
		return uint64(v)
	}
	return 0
}

func getString(row map[string]interface{}, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

package engine

import (
	"net"

	"github.com/ifbridge/ifbridge/internal/netif"
)

// validateOp rejects malformed operations before they reach the
// platform backend, so invalid input never causes a partial mutation.
func validateOp(op netif.Op) *netif.Error {
	switch op.Op {
	case netif.OpSetAdminState:
		if op.Up == nil {
			return netif.InvalidArgumentf("set_admin_state requires the up field")
		}
		return nil

	case netif.OpSetMTU:
		if op.MTU == 0 {
			return netif.InvalidArgumentf("mtu must be nonzero")
		}
		return nil

	case netif.OpAddIP:
		if op.PrefixLen == 0 {
			return netif.InvalidArgumentf("add_ip requires a nonzero prefix_len")
		}
		return validateAddress(op.IP, op.PrefixLen)

	case netif.OpDelIP:
		return validateAddress(op.IP, op.PrefixLen)

	case netif.OpSetIPv4DHCP:
		if op.Enable == nil {
			return netif.InvalidArgumentf("set_ipv4_dhcp requires the enable field")
		}
		return nil

	case netif.OpSetIPv4Static:
		if op.PrefixLen == 0 || op.PrefixLen > 32 {
			return netif.InvalidArgumentf("IPv4 prefix_len must be between 1 and 32, got %d", op.PrefixLen)
		}
		ip := net.ParseIP(op.IP)
		if ip == nil {
			return netif.InvalidArgumentf("invalid IP address %q", op.IP)
		}
		if ip.To4() == nil {
			return netif.InvalidArgumentf("set_ipv4_static accepts IPv4 addresses only, got %q", op.IP)
		}
		if op.Gateway != "" {
			gw := net.ParseIP(op.Gateway)
			if gw == nil {
				return netif.InvalidArgumentf("invalid gateway %q", op.Gateway)
			}
			if gw.To4() == nil {
				return netif.InvalidArgumentf("gateway must be an IPv4 address, got %q", op.Gateway)
			}
		}
		return nil
	}

	return netif.InvalidArgumentf("unknown operation %q", op.Op)
}

func validateAddress(ipStr string, prefixLen uint8) *netif.Error {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return netif.InvalidArgumentf("invalid IP address %q", ipStr)
	}
	if ip.To4() != nil {
		if prefixLen > 32 {
			return netif.InvalidArgumentf("IPv4 prefix_len must be at most 32, got %d", prefixLen)
		}
	} else if prefixLen > 128 {
		return netif.InvalidArgumentf("IPv6 prefix_len must be at most 128, got %d", prefixLen)
	}
	return nil
}

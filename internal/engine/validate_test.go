package engine

import (
	"strings"
	"testing"

	"github.com/ifbridge/ifbridge/internal/netif"
)

func TestValidateOp(t *testing.T) {
	tests := []struct {
		name    string
		op      netif.Op
		wantErr string // substring of the message; empty means valid
	}{
		{"admin state", netif.SetAdminState(true), ""},
		{"admin state without up field", netif.Op{Op: netif.OpSetAdminState}, "requires the up field"},

		{"mtu", netif.SetMTU(1500), ""},
		{"mtu zero", netif.SetMTU(0), "nonzero"},

		{"add ipv4", netif.AddIP("10.0.0.1", 24), ""},
		{"add ipv6", netif.AddIP("fd00::1", 64), ""},
		{"add ip prefix zero", netif.AddIP("10.0.0.1", 0), "nonzero prefix_len"},
		{"add ip bad address", netif.AddIP("10.0.0.999", 24), "invalid IP"},
		{"add ipv4 prefix too long", netif.AddIP("10.0.0.1", 33), "at most 32"},
		{"add ipv6 prefix too long", netif.AddIP("fd00::1", 129), "at most 128"},

		{"del ip", netif.DelIP("10.0.0.1", 24), ""},
		{"del ip prefix zero allowed", netif.DelIP("10.0.0.1", 0), ""},
		{"del ip bad address", netif.DelIP("nonsense", 24), "invalid IP"},

		{"dhcp", netif.SetIPv4DHCP(true), ""},
		{"dhcp without enable field", netif.Op{Op: netif.OpSetIPv4DHCP}, "requires the enable field"},

		{"static", netif.SetIPv4Static("192.168.1.10", 24, "192.168.1.1"), ""},
		{"static no gateway", netif.SetIPv4Static("192.168.1.10", 24, ""), ""},
		{"static prefix zero", netif.SetIPv4Static("192.168.1.10", 0, ""), "between 1 and 32"},
		{"static prefix too long", netif.SetIPv4Static("192.168.1.10", 33, ""), "between 1 and 32"},
		{"static rejects ipv6", netif.SetIPv4Static("fd00::1", 24, ""), "IPv4 addresses only"},
		{"static bad gateway", netif.SetIPv4Static("192.168.1.10", 24, "not-an-ip"), "invalid gateway"},
		{"static ipv6 gateway", netif.SetIPv4Static("192.168.1.10", 24, "fd00::1"), "gateway must be an IPv4"},

		{"unknown op", netif.Op{Op: "reboot"}, "unknown operation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOp(tt.op)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if err.Code != netif.CodeInvalidArgument {
				t.Errorf("validation failures must be InvalidArgument, got %v", err.Code)
			}
			if !strings.Contains(err.Message, tt.wantErr) {
				t.Errorf("message %q does not contain %q", err.Message, tt.wantErr)
			}
		})
	}
}

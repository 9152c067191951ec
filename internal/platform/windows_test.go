package platform

import (
	"os"
	"strings"
	"testing"

	"github.com/ifbridge/ifbridge/internal/netif"
)

func lastCall(t *testing.T, run *fakeRunner) string {
	t.Helper()
	if len(run.calls) == 0 {
		t.Fatal("no command was run")
	}
	return run.calls[len(run.calls)-1]
}

func TestWindowsApplyRequiresIndex(t *testing.T) {
	run := &fakeRunner{}
	p := newWindowsPlatform(run, Options{}.withDefaults())

	err := p.ApplyOne(ResolvedTarget{Name: "Ethernet"}, netif.SetMTU(1400))
	if err == nil || err.Code != netif.CodeInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if len(run.calls) != 0 {
		t.Errorf("no command may run without an index: %v", run.calls)
	}
}

func TestWindowsApplyBuildsScripts(t *testing.T) {
	tests := []struct {
		name string
		op   netif.Op
		want []string
	}{
		{"enable", netif.SetAdminState(true), []string{"Enable-NetAdapter", "ifIndex -eq 12"}},
		{"disable", netif.SetAdminState(false), []string{"Disable-NetAdapter", "-Confirm:$false"}},
		{"mtu", netif.SetMTU(1400), []string{"Set-NetIPInterface", "-InterfaceIndex 12", "-NlMtuBytes 1400"}},
		{"add v4", netif.AddIP("10.0.0.5", 24),
			[]string{"New-NetIPAddress", "-IPAddress '10.0.0.5'", "-PrefixLength 24", "-AddressFamily IPv4"}},
		{"add v6", netif.AddIP("fd00::5", 64), []string{"-AddressFamily IPv6"}},
		{"del v4", netif.DelIP("10.0.0.5", 24),
			[]string{"Remove-NetIPAddress", "-IPAddress '10.0.0.5'", "-AddressFamily IPv4", "-Confirm:$false"}},
		{"del v6", netif.DelIP("fd00::5", 64),
			[]string{"Remove-NetIPAddress", "-AddressFamily IPv6"}},
		{"dhcp on", netif.SetIPv4DHCP(true), []string{"-AddressFamily IPv4", "-Dhcp Enabled"}},
		{"dhcp off", netif.SetIPv4DHCP(false), []string{"-Dhcp Disabled"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &fakeRunner{}
			p := newWindowsPlatform(run, Options{}.withDefaults())

			if err := p.ApplyOne(ResolvedTarget{IfIndex: 12, Name: "Ethernet"}, tt.op); err != nil {
				t.Fatalf("ApplyOne failed: %v", err)
			}

			call := lastCall(t, run)
			if !strings.HasPrefix(call, "powershell -NoProfile -NonInteractive -ExecutionPolicy Bypass -Command") {
				t.Errorf("unexpected invocation shape: %s", call)
			}
			for _, want := range tt.want {
				if !strings.Contains(call, want) {
					t.Errorf("script missing %q:\n%s", want, call)
				}
			}
		})
	}
}

func TestWindowsStaticIsUnsupported(t *testing.T) {
	p := newWindowsPlatform(&fakeRunner{}, Options{}.withDefaults())

	err := p.ApplyOne(ResolvedTarget{IfIndex: 12}, netif.SetIPv4Static("10.0.0.5", 24, "10.0.0.1"))
	if err == nil || err.Code != netif.CodeUnsupported {
		t.Errorf("expected Unsupported, got %v", err)
	}
}

func TestWindowsEnumerateSpawnFailure(t *testing.T) {
	run := &fakeRunner{spawnErrs: map[string]error{}}
	run.spawnErrs["powershell -NoProfile -NonInteractive -ExecutionPolicy Bypass -Command "+windowsInventoryScript] = os.ErrNotExist
	p := newWindowsPlatform(run, Options{}.withDefaults())

	_, err := p.Enumerate()
	if err == nil || err.Code != netif.CodeUnsupported {
		t.Errorf("expected Unsupported, got %v", err)
	}
}

func TestWindowsMutationFailureIsClassified(t *testing.T) {
	run := &fakeRunner{responses: map[string]cmdResult{}}
	p := newWindowsPlatform(run, Options{}.withDefaults())

	run.responses["powershell -NoProfile -NonInteractive -ExecutionPolicy Bypass -Command Set-NetIPInterface -InterfaceIndex 12 -NlMtuBytes 1400"] =
		failed("Set-NetIPInterface : Access is denied.")

	err := p.ApplyOne(ResolvedTarget{IfIndex: 12}, netif.SetMTU(1400))
	if err == nil || err.Code != netif.CodePermissionDenied {
		t.Errorf("expected PermissionDenied, got %v", err)
	}
}

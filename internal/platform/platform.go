// Package platform hides the per-OS mechanics of enumerating and
// mutating network interfaces behind one capability-set interface.
//
// Each OS gets one backend: Linux drives iproute2 JSON output, netlink
// and (when present) NetworkManager; macOS drives ifconfig; Windows
// drives PowerShell cmdlets. The format-specific parsing never leaks
// past this package; callers only ever see the shared netif model.
//
// Backend logic lives in untagged files wired to an injectable command
// runner, so it is unit-testable on any OS; only the thin constructors
// (and the netlink mutator) are build-tagged.
package platform

import "github.com/ifbridge/ifbridge/internal/netif"

// ResolvedTarget identifies the one interface a batch of operations
// acts on. It is resolved once per apply call and reused for every
// operation in that call.
type ResolvedTarget struct {
	IfIndex uint32
	Name    string
}

// Platform is the per-OS capability set. Callers never see the
// concrete backend, only this interface.
type Platform interface {
	// Enumerate produces the full current interface list by querying
	// the OS. It is stateless and side-effect-free.
	Enumerate() ([]netif.NetInterface, *netif.Error)

	// ApplyOne executes a single already-validated operation against a
	// resolved target.
	ApplyOne(target ResolvedTarget, op netif.Op) *netif.Error
}

// Options overrides the OS tool locations. Zero values mean the
// conventional defaults.
type Options struct {
	IPPath         string
	NmcliPath      string
	IfconfigPath   string
	PowershellPath string
	NetworkdDir    string
}

func (o Options) withDefaults() Options {
	if o.IPPath == "" {
		o.IPPath = "ip"
	}
	if o.NmcliPath == "" {
		o.NmcliPath = "nmcli"
	}
	if o.IfconfigPath == "" {
		o.IfconfigPath = "ifconfig"
	}
	if o.PowershellPath == "" {
		o.PowershellPath = "powershell"
	}
	if o.NetworkdDir == "" {
		o.NetworkdDir = "/etc/systemd/network"
	}
	return o
}

// New returns the backend for the OS this binary was built for.
func New(opts Options) Platform {
	return newPlatform(opts.withDefaults())
}

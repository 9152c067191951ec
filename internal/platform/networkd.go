package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ifbridge/ifbridge/internal/log"
	"github.com/ifbridge/ifbridge/internal/netif"
	"github.com/valyala/fasttemplate"
)

// Static IPv4 settings on devices without a NetworkManager profile are
// persisted as a systemd-networkd unit so they survive a reboot.

const networkdUnitTemplate = `[Match]
Name={{iface}}

[Network]
DHCP=no
Address={{address}}
{{gateway_section}}`

func renderNetworkdUnit(dev, cidr, gateway string) string {
	gatewaySection := ""
	if gateway != "" {
		gatewaySection = "Gateway=" + gateway + "\n"
	}
	t := fasttemplate.New(networkdUnitTemplate, "{{", "}}")
	return t.ExecuteString(map[string]interface{}{
		"iface":           dev,
		"address":         cidr,
		"gateway_section": gatewaySection,
	})
}

func networkdUnitPath(dir, dev string) string {
	return filepath.Join(dir, fmt.Sprintf("90-ifbridge-%s.network", dev))
}

// writeFileAtomic writes via a temp file in the same directory and
// renames it into place, so networkd never reads a half-written unit.
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func (p *linuxPlatform) persistNetworkdStaticIPv4(dev, cidr, gateway string) *netif.Error {
	info, err := os.Stat(p.networkdDir)
	if err != nil || !info.IsDir() {
		return netif.Unsupportedf(
			"neither NetworkManager nor systemd-networkd (%s) is available; the address was applied at runtime but not persisted",
			p.networkdDir)
	}

	path := networkdUnitPath(p.networkdDir, dev)
	if err := writeFileAtomic(path, []byte(renderNetworkdUnit(dev, cidr, gateway))); err != nil {
		if os.IsPermission(err) {
			return netif.PermissionDeniedf("writing %s: %v", path, err)
		}
		return netif.SystemErrorf("writing %s: %v", path, err)
	}
	log.Debugf("Persisted static IPv4 configuration for %s to %s", dev, path)
	return nil
}

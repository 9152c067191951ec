package platform

import (
	"fmt"
	"strings"

	"github.com/ifbridge/ifbridge/internal/netif"
)

// windowsPlatform drives the NetAdapter/NetIPAddress PowerShell
// cmdlets. Enumeration is a single composite script so the engine pays
// one process spawn per list call instead of three.
type windowsPlatform struct {
	run            commandRunner
	powershellPath string
}

func newWindowsPlatform(run commandRunner, opts Options) *windowsPlatform {
	return &windowsPlatform{run: run, powershellPath: opts.PowershellPath}
}

const windowsInventoryScript = `$ErrorActionPreference = 'Stop'
$adapters = Get-NetAdapter | Select-Object ifIndex, Name, InterfaceDescription, Status, MacAddress, LinkSpeed
$ipif = Get-NetIPInterface | Select-Object ifIndex, AddressFamily, Dhcp, NlMtu, ConnectionState
$ips = Get-NetIPAddress | Select-Object ifIndex, AddressFamily, IPAddress, PrefixLength
[pscustomobject]@{ adapters = $adapters; ipif = $ipif; ips = $ips } | ConvertTo-Json -Depth 5`

func (p *windowsPlatform) Enumerate() ([]netif.NetInterface, *netif.Error) {
	res, err := p.runPowershell(windowsInventoryScript)
	if err != nil {
		return nil, netif.Unsupportedf("cannot execute %s: %v", p.powershellPath, err)
	}
	if !res.exitOK {
		return nil, netif.SystemErrorf("powershell inventory query failed: %s", strings.TrimSpace(res.stderr))
	}

	ifaces, perr := parseWindowsInventory([]byte(res.stdout))
	if perr != nil {
		return nil, netif.SystemErrorf("parsing powershell inventory output: %v", perr)
	}
	return ifaces, nil
}

func (p *windowsPlatform) ApplyOne(target ResolvedTarget, op netif.Op) *netif.Error {
	// Name-only selection is unreliable here: adapter display names are
	// user-editable and not unique, while ifIndex is authoritative.
	idx := target.IfIndex
	if idx == 0 {
		return netif.InvalidArgumentf("a valid if_index is required on Windows (name %q cannot be trusted alone)", target.Name)
	}

	switch op.Op {
	case netif.OpSetAdminState:
		verb := "Disable-NetAdapter"
		if op.Up != nil && *op.Up {
			verb = "Enable-NetAdapter"
		}
		return p.runMutation(fmt.Sprintf(
			"Get-NetAdapter | Where-Object ifIndex -eq %d | %s -Confirm:$false", idx, verb))

	case netif.OpSetMTU:
		return p.runMutation(fmt.Sprintf(
			"Set-NetIPInterface -InterfaceIndex %d -NlMtuBytes %d", idx, op.MTU))

	case netif.OpAddIP:
		return p.runMutation(fmt.Sprintf(
			"New-NetIPAddress -InterfaceIndex %d -IPAddress %s -PrefixLength %d -AddressFamily %s | Out-Null",
			idx, quotePowershell(op.IP), op.PrefixLen, windowsFamilyName(op.IP)))

	case netif.OpDelIP:
		return p.runMutation(fmt.Sprintf(
			"Remove-NetIPAddress -InterfaceIndex %d -IPAddress %s -AddressFamily %s -Confirm:$false",
			idx, quotePowershell(op.IP), windowsFamilyName(op.IP)))

	case netif.OpSetIPv4DHCP:
		state := "Disabled"
		if op.Enable != nil && *op.Enable {
			state = "Enabled"
		}
		return p.runMutation(fmt.Sprintf(
			"Set-NetIPInterface -InterfaceIndex %d -AddressFamily IPv4 -Dhcp %s", idx, state))

	case netif.OpSetIPv4Static:
		return netif.Unsupportedf("set_ipv4_static is not implemented on Windows; combine set_ipv4_dhcp off with add_ip instead")
	}
	return netif.InvalidArgumentf("unknown operation %q", op.Op)
}

func (p *windowsPlatform) runPowershell(script string) (cmdResult, error) {
	return p.run.Run(p.powershellPath,
		"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command", script)
}

func (p *windowsPlatform) runMutation(script string) *netif.Error {
	res, err := p.runPowershell(script)
	if err != nil {
		return netif.Unsupportedf("cannot execute %s: %v", p.powershellPath, err)
	}
	if !res.exitOK {
		return classifyPowershellError(res.stderr)
	}
	return nil
}

func windowsFamilyName(ip string) string {
	if strings.Contains(ip, ":") {
		return "IPv6"
	}
	return "IPv4"
}

// quotePowershell single-quotes a value for interpolation into a
// script. Addresses are pre-validated, so this only guards quoting.
func quotePowershell(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

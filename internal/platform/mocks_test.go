package platform

import (
	"fmt"
	"strings"

	"github.com/ifbridge/ifbridge/internal/netif"
)

// fakeRunner answers commands from a canned response table keyed by
// the full command line, and records every invocation in order.
type fakeRunner struct {
	responses map[string]cmdResult
	spawnErrs map[string]error
	calls     []string
}

func (f *fakeRunner) Run(name string, args ...string) (cmdResult, error) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.calls = append(f.calls, line)

	if err, ok := f.spawnErrs[line]; ok {
		return cmdResult{}, err
	}
	if res, ok := f.responses[line]; ok {
		return res, nil
	}
	// Unknown commands succeed silently, like most tools in the happy path.
	return cmdResult{exitOK: true}, nil
}

func ok(stdout string) cmdResult {
	return cmdResult{stdout: stdout, exitOK: true}
}

func failed(stderr string) cmdResult {
	return cmdResult{stderr: stderr}
}

// fakeMutator records link mutations and optionally fails them.
type fakeMutator struct {
	calls []string
	errs  map[string]*netif.Error
}

func (f *fakeMutator) record(call string) *netif.Error {
	f.calls = append(f.calls, call)
	if err, ok := f.errs[call]; ok {
		return err
	}
	return nil
}

func (f *fakeMutator) SetAdminState(dev string, up bool) *netif.Error {
	return f.record(fmt.Sprintf("admin %s %v", dev, up))
}

func (f *fakeMutator) SetMTU(dev string, mtu uint32) *netif.Error {
	return f.record(fmt.Sprintf("mtu %s %d", dev, mtu))
}

func (f *fakeMutator) AddrAdd(dev, cidr string) *netif.Error {
	return f.record(fmt.Sprintf("addr-add %s %s", dev, cidr))
}

func (f *fakeMutator) AddrDel(dev, cidr string) *netif.Error {
	return f.record(fmt.Sprintf("addr-del %s %s", dev, cidr))
}

func (f *fakeMutator) FlushGlobalV4Addrs(dev string) *netif.Error {
	return f.record(fmt.Sprintf("flush %s", dev))
}

func (f *fakeMutator) ReplaceDefaultRoute(dev, gateway string) *netif.Error {
	return f.record(fmt.Sprintf("route %s %s", dev, gateway))
}

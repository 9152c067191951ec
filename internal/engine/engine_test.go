package engine

import (
	"testing"

	"github.com/ifbridge/ifbridge/internal/netif"
)

func TestListStampsABI(t *testing.T) {
	fake := &fakePlatform{ifaces: twoInterfaces()}

	resp, err := New(fake).List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if resp.ABI != netif.ABIVersion {
		t.Errorf("ABI = %d, want %d", resp.ABI, netif.ABIVersion)
	}
	if len(resp.Items) != 2 {
		t.Errorf("Items = %d, want 2", len(resp.Items))
	}
}

func TestListPropagatesEnumerateError(t *testing.T) {
	fake := &fakePlatform{enumerateErr: netif.Unsupportedf("no backend")}

	resp, err := New(fake).List()
	if resp != nil {
		t.Errorf("expected nil response on enumerate failure")
	}
	if err == nil || err.Code != netif.CodeUnsupported {
		t.Errorf("expected Unsupported, got %v", err)
	}
}

func TestApplyABIMismatch(t *testing.T) {
	fake := &fakePlatform{ifaces: twoInterfaces()}
	req := &netif.ApplyRequest{
		ABI:    2,
		Target: netif.Selector{Name: "eth0"},
		Ops:    []netif.Op{netif.SetMTU(1400)},
	}

	resp, err := New(fake).Apply(req)
	if err == nil || err.Code != netif.CodeInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if resp == nil || resp.OK {
		t.Fatalf("expected a failed mismatch envelope, got %+v", resp)
	}
	if fake.enumerateCalls != 0 {
		t.Errorf("ABI must be checked before touching the platform, got %d enumerations", fake.enumerateCalls)
	}
	if len(fake.applied) != 0 {
		t.Errorf("no operation may run on mismatch, got %d", len(fake.applied))
	}
}

func TestApplyResolvesTargetOnce(t *testing.T) {
	fake := &fakePlatform{ifaces: twoInterfaces()}
	req := netif.NewApplyRequest(netif.Selector{IfIndex: 2}, []netif.Op{
		netif.SetAdminState(false),
		netif.SetMTU(1400),
		netif.SetAdminState(true),
	})

	resp, err := New(fake).Apply(req)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !resp.OK {
		t.Fatalf("expected OK response, got %+v", resp)
	}

	if fake.enumerateCalls != 1 {
		t.Errorf("expected one enumeration for the whole batch, got %d", fake.enumerateCalls)
	}
	for i, a := range fake.applied {
		if a.target.IfIndex != 2 || a.target.Name != "eth0" {
			t.Errorf("op %d dispatched against %+v, want eth0/2", i, a.target)
		}
	}
}

func TestApplyDoesNotShortCircuit(t *testing.T) {
	fake := &fakePlatform{
		ifaces:    twoInterfaces(),
		applyErrs: map[int]*netif.Error{0: netif.SystemErrorf("tool exploded")},
	}
	req := netif.NewApplyRequest(netif.Selector{Name: "eth0"}, []netif.Op{
		netif.SetAdminState(true),
		netif.SetMTU(1400),
	})

	resp, err := New(fake).Apply(req)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if resp.OK {
		t.Errorf("OK must be false when any operation failed")
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].OK || resp.Results[0].Error == nil {
		t.Errorf("first result should carry the failure: %+v", resp.Results[0])
	}
	if !resp.Results[1].OK {
		t.Errorf("second operation must still run after the first failed")
	}
	if len(fake.applied) != 2 {
		t.Errorf("both operations should reach the platform, got %d", len(fake.applied))
	}
}

func TestApplyResultOrderMatchesSubmission(t *testing.T) {
	fake := &fakePlatform{ifaces: twoInterfaces()}
	req := netif.NewApplyRequest(netif.Selector{Name: "lo"}, []netif.Op{
		netif.SetMTU(0), // invalid, fails validation
		netif.SetAdminState(true),
	})

	resp, err := New(fake).Apply(req)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if resp.OK {
		t.Errorf("OK must be false")
	}
	for i, r := range resp.Results {
		if r.I != i {
			t.Errorf("result %d has index %d", i, r.I)
		}
	}
	if resp.Results[0].Error == nil || resp.Results[0].Error.Code != netif.CodeInvalidArgument {
		t.Errorf("mtu=0 should fail validation, got %+v", resp.Results[0])
	}
	if !resp.Results[1].OK {
		t.Errorf("valid op after invalid one must succeed")
	}

	// The invalid op must never reach the platform.
	if len(fake.applied) != 1 || fake.applied[0].op.Op != netif.OpSetAdminState {
		t.Errorf("only the valid op should be dispatched, got %+v", fake.applied)
	}
}

func TestApplyTargetNotFound(t *testing.T) {
	fake := &fakePlatform{ifaces: twoInterfaces()}
	req := netif.NewApplyRequest(netif.Selector{Name: "wlan0"}, []netif.Op{netif.SetMTU(1400)})

	resp, err := New(fake).Apply(req)
	if resp != nil {
		t.Errorf("expected nil response on resolution failure")
	}
	if err == nil || err.Code != netif.CodeNotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
	if len(fake.applied) != 0 {
		t.Errorf("no operation may run without a target")
	}
}

func TestApplyEmptyOpsSucceeds(t *testing.T) {
	fake := &fakePlatform{ifaces: twoInterfaces()}
	req := netif.NewApplyRequest(netif.Selector{IfIndex: 1}, nil)

	resp, err := New(fake).Apply(req)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !resp.OK || len(resp.Results) != 0 {
		t.Errorf("empty batch should be a trivially OK response, got %+v", resp)
	}
}

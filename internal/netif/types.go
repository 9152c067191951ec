// Package netif defines the shared network-interface data model, the
// request/response envelopes and the error taxonomy used on every side
// of the engine: the platform backends, the apply orchestrator, the
// HTTP facade and the C boundary all speak these types.
//
// All wire payloads are UTF-8 JSON with snake_case field names. The
// field set is a stable contract; new platforms add new backends, not
// new fields.
package netif

// IfaceKind classifies an interface. Classification is heuristic on
// most platforms and stays KindUnknown when no reliable signal exists.
type IfaceKind string

const (
	KindUnknown  IfaceKind = "unknown"
	KindPhysical IfaceKind = "physical"
	KindVirtual  IfaceKind = "virtual"
	KindLoopback IfaceKind = "loopback"
	KindTunnel   IfaceKind = "tunnel"
)

// AdminState is the user-intended up/down state of an interface.
type AdminState string

const (
	AdminUnknown AdminState = "unknown"
	AdminUp      AdminState = "up"
	AdminDown    AdminState = "down"
)

// OperState is the observed link-layer status, as opposed to the
// administrative intent.
type OperState string

const (
	OperUnknown        OperState = "unknown"
	OperUp             OperState = "up"
	OperDown           OperState = "down"
	OperDormant        OperState = "dormant"
	OperLowerLayerDown OperState = "lower_layer_down"
)

// IfaceFlags is the shared interface flag set, OR-reduced from the
// platform-specific flag tokens.
type IfaceFlags uint32

const (
	FlagUp IfaceFlags = 1 << iota
	FlagRunning
	FlagLoopback
	FlagBroadcast
	FlagMulticast
	FlagPointToPoint
)

// IPScope is the address scope, where the platform reports one.
type IPScope string

const (
	ScopeUnknown IPScope = "unknown"
	ScopeHost    IPScope = "host"
	ScopeLink    IPScope = "link"
	ScopeSite    IPScope = "site"
	ScopeGlobal  IPScope = "global"
)

// IPOrigin says how an address got onto the interface.
type IPOrigin string

const (
	OriginUnknown IPOrigin = "unknown"
	OriginStatic  IPOrigin = "static"
	OriginDHCP    IPOrigin = "dhcp"
)

// IPAddrFlags carries per-address state bits.
type IPAddrFlags uint32

const (
	AddrTemporary IPAddrFlags = 1 << iota
	AddrDeprecated
	AddrTentative
)

// IPAddrEntry is one assigned address. PrefixLen is 0-32 for IPv4 and
// 0-128 for IPv6.
type IPAddrEntry struct {
	IP        string      `json:"ip"`
	PrefixLen uint8       `json:"prefix_len"`
	Scope     IPScope     `json:"scope,omitempty"`
	Origin    IPOrigin    `json:"origin,omitempty"`
	Flags     IPAddrFlags `json:"flags,omitempty"`
}

// Capabilities describes what the platform backend can actually do to
// an interface. Computed per platform at enumeration time, never
// hard-coded identically across backends.
type Capabilities struct {
	CanSetAdminState bool   `json:"can_set_admin_state"`
	CanSetMTU        bool   `json:"can_set_mtu"`
	CanAddDelIP      bool   `json:"can_add_del_ip"`
	CanSetDHCP       bool   `json:"can_set_dhcp"`
	CanSetDNS        bool   `json:"can_set_dns"`
	Notes            string `json:"notes,omitempty"`
}

// NetInterface is one enumerated interface. Values are created fresh
// on every enumeration and never mutated in place; a later enumeration
// supersedes the whole set.
//
// IfIndex may be 0 where the platform has no stable index (macOS);
// Name is unique per platform and stable across calls.
type NetInterface struct {
	IfIndex      uint32        `json:"if_index"`
	Name         string        `json:"name"`
	DisplayName  string        `json:"display_name,omitempty"`
	Kind         IfaceKind     `json:"kind"`
	IsPhysical   *bool         `json:"is_physical,omitempty"`
	AdminState   AdminState    `json:"admin_state"`
	OperState    OperState     `json:"oper_state,omitempty"`
	Flags        IfaceFlags    `json:"flags"`
	MAC          string        `json:"mac,omitempty"`
	MTU          uint32        `json:"mtu,omitempty"`
	SpeedBps     uint64        `json:"speed_bps,omitempty"`
	IPv4         []IPAddrEntry `json:"ipv4"`
	IPv6         []IPAddrEntry `json:"ipv6"`
	Capabilities Capabilities  `json:"capabilities"`
}

// Selector picks one target interface for mutation. At least one of
// IfIndex/Name must be set; a nonzero IfIndex takes precedence.
type Selector struct {
	IfIndex uint32 `json:"if_index,omitempty"`
	Name    string `json:"name,omitempty"`
}

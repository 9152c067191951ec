package netif

// OpKind tags the mutation intent carried by an Op. The tag values are
// part of the wire contract.
type OpKind string

const (
	OpSetAdminState OpKind = "set_admin_state"
	OpSetMTU        OpKind = "set_mtu"
	OpAddIP         OpKind = "add_ip"
	OpDelIP         OpKind = "del_ip"
	OpSetIPv4DHCP   OpKind = "set_ipv4_dhcp"
	OpSetIPv4Static OpKind = "set_ipv4_static"
)

// Op is one mutation intent against a single interface. It is a closed
// tagged union on the wire ({"op": "...", ...}); only the fields that
// belong to the tagged kind are populated. Boolean payloads are
// pointers so that an explicit false still serializes.
type Op struct {
	Op OpKind `json:"op"`

	// set_admin_state
	Up *bool `json:"up,omitempty"`

	// set_mtu
	MTU uint32 `json:"mtu,omitempty"`

	// add_ip / del_ip / set_ipv4_static
	IP        string `json:"ip,omitempty"`
	PrefixLen uint8  `json:"prefix_len,omitempty"`

	// set_ipv4_dhcp
	Enable *bool `json:"enable,omitempty"`

	// set_ipv4_static
	Gateway string `json:"gateway,omitempty"`
}

// SetAdminState builds an admin up/down intent.
func SetAdminState(up bool) Op {
	return Op{Op: OpSetAdminState, Up: &up}
}

// SetMTU builds an MTU change intent.
func SetMTU(mtu uint32) Op {
	return Op{Op: OpSetMTU, MTU: mtu}
}

// AddIP builds an address-add intent.
func AddIP(ip string, prefixLen uint8) Op {
	return Op{Op: OpAddIP, IP: ip, PrefixLen: prefixLen}
}

// DelIP builds an address-delete intent.
func DelIP(ip string, prefixLen uint8) Op {
	return Op{Op: OpDelIP, IP: ip, PrefixLen: prefixLen}
}

// SetIPv4DHCP builds a DHCP toggle intent.
func SetIPv4DHCP(enable bool) Op {
	return Op{Op: OpSetIPv4DHCP, Enable: &enable}
}

// SetIPv4Static builds a static IPv4 configuration intent. Gateway may
// be empty.
func SetIPv4Static(ip string, prefixLen uint8, gateway string) Op {
	return Op{Op: OpSetIPv4Static, IP: ip, PrefixLen: prefixLen, Gateway: gateway}
}

// OpResult reports the outcome of one operation. I is the position of
// the operation in the submitted list; result order always equals
// submission order.
type OpResult struct {
	I     int    `json:"i"`
	OK    bool   `json:"ok"`
	Error *Error `json:"error,omitempty"`
}

package entities

import "strings"

// Handle is an opaque identifier for any addressable party: a module, a
// guard, a relay target, or an avatar itself. The empty string is the null
// handle and is never a valid member of anything.
type Handle string

// SentinelHandle anchors the module registry's linked order. It is reserved:
// never null, never enabled as a module, never returned as a page element.
const SentinelHandle Handle = "0x1"

// GuardCapabilityID identifies the pre/post-check interface a candidate
// guard must advertise before installation.
const GuardCapabilityID = "aegis.guard/v1"

// IsNull reports whether the handle is the null handle.
func (h Handle) IsNull() bool {
	return strings.TrimSpace(string(h)) == ""
}

// IsSentinel reports whether the handle is the reserved registry anchor.
func (h Handle) IsSentinel() bool {
	return h == SentinelHandle
}

// CallMode selects how a relayed action is performed against its target.
type CallMode string

const (
	// DirectCall invokes the target on its own state, with the avatar as
	// the calling authority.
	DirectCall CallMode = "call"
	// DelegatedCall invokes the target's code in the avatar's own context;
	// the target observes the avatar as the executing identity.
	DelegatedCall CallMode = "delegatecall"
)

// ParseCallMode maps a raw mode string onto a CallMode.
func ParseCallMode(raw string) (CallMode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(DirectCall):
		return DirectCall, true
	case string(DelegatedCall):
		return DelegatedCall, true
	default:
		return "", false
	}
}

// ExecutionRequest is the transient payload a module hands to the relay.
// It lives for exactly one relay invocation and is never persisted.
type ExecutionRequest struct {
	Target  Handle
	Value   uint64
	Payload []byte
	Mode    CallMode
}

package types

import (
	"strings"
)

// Target identifies one of the installable web UI variants.
// The set is closed: every layout table in webup is indexed by it.
type Target int

const (
	// TargetUnknown is the zero value and never a valid install target
	TargetUnknown Target = iota
	TargetA1111
	TargetForge
	TargetComfyUI
	TargetReForge
	TargetSwarmUI

	// NumTargets sizes per-target tables; keep it last
	NumTargets
)

var targetNames = [NumTargets]string{
	TargetUnknown: "",
	TargetA1111:   "A1111",
	TargetForge:   "Forge",
	TargetComfyUI: "ComfyUI",
	TargetReForge: "ReForge",
	TargetSwarmUI: "SwarmUI",
}

// AllTargets returns every valid target in display order.
func AllTargets() []Target {
	return []Target{TargetA1111, TargetForge, TargetComfyUI, TargetReForge, TargetSwarmUI}
}

// TargetNames returns the canonical names of all valid targets.
func TargetNames() []string {
	all := AllTargets()
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = t.String()
	}
	return names
}

// ParseTarget resolves a user supplied name, ignoring case.
func ParseTarget(name string) (Target, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TargetUnknown, false
	}
	for _, t := range AllTargets() {
		if strings.EqualFold(name, t.String()) {
			return t, true
		}
	}
	return TargetUnknown, false
}

// String returns the canonical spelling, which is also the install
// directory name and the value stored in the marking record.
func (t Target) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return targetNames[t]
}

// Valid reports whether t is one of the installable targets.
func (t Target) Valid() bool {
	return t > TargetUnknown && t < NumTargets
}

// IsA1111Family reports whether the target shares the A1111 webui layout
// (Stable-diffusion/Lora/ESRGAN folders, extensions/ directory).
func (t Target) IsA1111Family() bool {
	switch t {
	case TargetA1111, TargetForge, TargetReForge:
		return true
	}
	return false
}

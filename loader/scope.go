package loader

import vk "github.com/wippyai/vulkan-runtime"

// Scope selects the binding context a name is resolved against: the
// global loader table, or one driver instance. Instance-level entry
// points may differ per instance and must not be shared across them.
type Scope struct {
	instance vk.Handle
}

// Global returns the loader-level scope. Commands that exist before any
// instance (layer and extension enumeration, instance creation) resolve
// here.
func Global() Scope { return Scope{} }

// Instance returns the scope bound to one driver instance.
func Instance(h vk.Handle) Scope { return Scope{instance: h} }

// Handle returns the instance handle the scope is bound to, or
// NullHandle for the global scope.
func (s Scope) Handle() vk.Handle { return s.instance }

// IsGlobal reports whether s is the loader-level scope.
func (s Scope) IsGlobal() bool { return s.instance == vk.NullHandle }

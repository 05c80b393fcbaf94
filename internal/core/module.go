package core

// ModuleID is the unique, namespaced identifier of a module
// (e.g. "channel.telegram", "source.archive", "mirror").
type ModuleID string

// ModuleInfo describes a registered module: its ID and a constructor that
// returns a fresh, unconfigured instance.
type ModuleInfo struct {
	// ID uniquely identifies the module. Namespaced IDs use a dot separator;
	// the prefix groups related modules (see GetModulesByNamespace).
	ID ModuleID

	// New returns a new instance of the module. Must not be nil.
	New func() Module
}

// Module is the minimal interface every module implements. Lifecycle behavior
// is added through the optional interfaces in lifecycle.go.
type Module interface {
	ModuleInfo() ModuleInfo
}

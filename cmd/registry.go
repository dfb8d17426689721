package cmd

import (
	"github.com/spf13/cobra"

	"giftshop.GO/core/registry"
)

// Register adds a command. Call from init() in custom packages. Panics if registry is locked.
func Register(c *cobra.Command) {
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCmd) {
		panic("cmd/registry: locked (register only during init before Apply)")
	}
	list := registered()
	list = append(list, c)
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCmd, list)
}

func registered() []*cobra.Command {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCmd); ok && v != nil {
		return v.([]*cobra.Command)
	}
	return nil
}

// Apply adds all registered commands to root and locks the cmd registry.
// Only the first call adds; later calls are no-ops.
func Apply() {
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCmd) {
		return
	}
	for _, c := range registered() {
		if found, _, err := rootCmd.Find([]string{c.Name()}); err == nil && found != rootCmd {
			panic("cmd/registry: command " + c.Name() + " clashes with a built-in command")
		}
		rootCmd.AddCommand(c)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryCmd)
}

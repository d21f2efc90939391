// Package main is the entry point for reelcraft.
package main

import (
	"github.com/reelcraft-cli/reelcraft/cmd"
	"github.com/reelcraft-cli/reelcraft/config"
	"github.com/reelcraft-cli/reelcraft/internal/cache"
	"github.com/reelcraft-cli/reelcraft/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cache.CollectGarbage()

	cmd.Execute()
}

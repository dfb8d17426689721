//go:build cli
// +build cli

package main

import (
	_ "giftshop.GO/custom"

	"giftshop.GO/cmd"
	"giftshop.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}

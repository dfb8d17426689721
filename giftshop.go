//go:build !cli
// +build !cli

package main

import (
	"log"

	_ "giftshop.GO/custom"

	"giftshop.GO/cmd"
	"giftshop.GO/config"
)

func main() {
	config.LoadEnv()
	if err := cmd.Serve(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

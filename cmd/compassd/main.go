// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/helmsman/internal/app"
	"github.com/relabs-tech/helmsman/internal/config"
)

func main() {
	configPath := flag.String("config", "./helmsman.conf", "path to configuration file")
	flag.Parse()

	log.Println("starting helmsman compass producer (HMC5983 -> bus)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunCompassProducer(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

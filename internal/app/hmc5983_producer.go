// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"math"
	"net"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/hmc5983"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/helmsman/internal/config"
	"github.com/relabs-tech/helmsman/internal/wire"
)

// RunCompassProducer reads the HMC5983 external magnetometer on a fixed
// tick, derives a heading from the horizontal field components, and writes
// a "compass:" record onto the bus, mirroring each record's text line to MQTT.
// Roll/pitch are left at 0: this board carries no accelerometer of its own,
// so tilt compensation is the IMU daemon's job, not the compass's.
func RunCompassProducer() error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("compassd: periph host init: %w", err)
	}

	busName := fmt.Sprintf("%d", cfg.CompassI2CBus)
	if cfg.CompassI2CBus == 0 {
		busName = ""
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return fmt.Errorf("compassd: i2c open failed on bus %q: %w", busName, err)
	}
	defer bus.Close()

	addr := cfg.CompassI2CAddr
	if addr == 0 {
		addr = 0x1E
	}
	odr := cfg.CompassODRHz
	if odr == 0 {
		odr = 15
	}
	avg := cfg.CompassAvgSamples
	if avg == 0 {
		avg = 1
	}
	mode := cfg.CompassMode
	if mode == "" {
		mode = "continuous"
	}

	dev, err := hmc5983.New(bus, hmc5983.Opts{Addr: addr, ODRHz: odr, AvgSamples: avg, GainCode: cfg.CompassGainCode, Mode: mode})
	if err != nil {
		return fmt.Errorf("compassd: init failed: %w", err)
	}
	ida, idb, idc, _ := dev.ID()
	log.Printf("compassd: device ID=%q %q %q (addr=0x%X)", ida, idb, idc, addr)

	conn, err := net.Dial("tcp", cfg.BusAddress)
	if err != nil {
		return fmt.Errorf("compassd: dial bus %q: %w", cfg.BusAddress, err)
	}
	defer conn.Close()

	var client mqtt.Client
	if cfg.MQTTBroker != "" {
		opts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker).SetClientID(cfg.MQTTClientIDCompass)
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Printf("compassd: MQTT connect error (continuing without it): %v", token.Error())
			client = nil
		}
	}
	if client != nil {
		defer client.Disconnect(250)
	}

	interval := time.Duration(cfg.CompassSampleInterval) * time.Millisecond
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	log.Println("compassd: publish loop started")
	for range time.Tick(interval) {
		x, y, z, err := dev.Sense()
		if err != nil {
			log.Printf("compassd: read error: %v", err)
			continue
		}

		mx, my := float64(x)/10.0, float64(y)/10.0
		headingDeg := math.Atan2(my, mx) * 180 / math.Pi
		if headingDeg < 0 {
			headingDeg += 360
		}

		_ = z // horizontal heading only; HMC5983 has no usable vertical-axis reading here
		rec := wire.CompassRecord{
			TimestampMs: time.Now().UnixMilli(),
			RollDeg:     0,
			PitchDeg:    0,
			YawDeg:      headingDeg,
			TempC:       0, // this board has no die-temperature readout
		}

		if _, err := fmt.Fprintln(conn, wire.CompassLine(rec)); err != nil {
			return fmt.Errorf("compassd: write bus: %w", err)
		}
		if client != nil {
			client.Publish(cfg.TopicCompass, 0, false, []byte(wire.CompassLine(rec)))
		}
	}
	return nil
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/helmsman/internal/config"
	"github.com/relabs-tech/helmsman/internal/orientation"
	"github.com/relabs-tech/helmsman/internal/wire"
)

// RunIMUProducer reads the boat's MPU9250 on a fixed tick, writes an "imu:"
// record onto the bus for every sample, and mirrors each sample as MQTT JSON
// for shore-side monitoring. useMock selects the sinusoidal mock source
// instead of the real SPI device, for development off the boat.
func RunIMUProducer(useMock bool) error {
	cfg := config.Get()

	var src orientation.RawSource
	if useMock {
		log.Println("imud: using mock IMU source")
		src = orientation.NewMockSource().(orientation.RawSource)
	} else {
		s, err := orientation.NewIMUSource(cfg.IMUSPIDevice, cfg.IMUCSPin)
		if err != nil {
			return fmt.Errorf("imud: open IMU: %w", err)
		}
		raw, ok := s.(orientation.RawSource)
		if !ok {
			return fmt.Errorf("imud: IMU source does not expose raw channels")
		}
		src = raw
	}

	conn, err := net.Dial("tcp", cfg.BusAddress)
	if err != nil {
		return fmt.Errorf("imud: dial bus %q: %w", cfg.BusAddress, err)
	}
	defer conn.Close()

	var client mqtt.Client
	if cfg.MQTTBroker != "" {
		opts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker).SetClientID(cfg.MQTTClientIDIMU)
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Printf("imud: MQTT connect error (continuing without it): %v", token.Error())
			client = nil
		}
	}
	if client != nil {
		defer client.Disconnect(250)
	}

	interval := time.Duration(cfg.IMUSampleInterval) * time.Millisecond
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Println("imud: publish loop started")

	for t := range ticker.C {
		sample, err := src.NextRaw()
		if err != nil {
			log.Printf("imud: read error: %v", err)
			continue
		}

		rec := wire.ImuRecord{
			TimestampMs: t.UnixMilli(),
			TempC:       sample.TempC,
			AccXMS2:     sample.AccMS2[0],
			AccYMS2:     sample.AccMS2[1],
			AccZMS2:     sample.AccMS2[2],
			GyrXRadS:    sample.GyrRadS[0],
			GyrYRadS:    sample.GyrRadS[1],
			GyrZRadS:    sample.GyrRadS[2],
			MagXAu:      sample.MagAu[0],
			MagYAu:      sample.MagAu[1],
			MagZAu:      sample.MagAu[2],
			RollDeg:     sample.Roll,
			PitchDeg:    sample.Pitch,
			YawDeg:      sample.Yaw,
			// No GPS/INS fusion on this board: position and velocity are
			// reported by cmd/gpsd's own "gps:" record instead.
			LatDeg: 0,
			LngDeg: 0,
			AltM:   0,
			VelXMS: 0,
			VelYMS: 0,
			VelZMS: 0,
		}

		if _, err := fmt.Fprintln(conn, wire.ImuLine(rec)); err != nil {
			return fmt.Errorf("imud: write bus: %w", err)
		}

		if client != nil {
			if payload, err := json.Marshal(rec); err == nil {
				client.Publish(cfg.TopicIMU, 0, false, payload)
			}
		}
	}
	return nil
}


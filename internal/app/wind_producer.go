// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/helmsman/internal/config"
	"github.com/relabs-tech/helmsman/internal/wire"
)

// RunWindProducer opens the masthead wind instrument's serial port, parses
// its raw "mag_m_s:.. alpha_deg:.. valid:.." lines (the sensor's own native
// format, relative to the mast), and writes a "wind:" record onto the bus
// for each one, mirroring that record's text line to MQTT.
func RunWindProducer() error {
	cfg := config.Get()

	conn, err := net.Dial("tcp", cfg.BusAddress)
	if err != nil {
		return fmt.Errorf("windd: dial bus %q: %w", cfg.BusAddress, err)
	}
	defer conn.Close()

	var client mqtt.Client
	if cfg.MQTTBroker != "" {
		opts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker).SetClientID(cfg.MQTTClientIDWind)
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Printf("windd: MQTT connect error (continuing without it): %v", token.Error())
			client = nil
		}
	}
	if client != nil {
		defer client.Disconnect(250)
	}

	serialOpts := serial.OpenOptions{
		PortName:              cfg.WindSerialPort,
		BaudRate:              uint(cfg.WindBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("windd: open serial %q: %w", serialOpts.PortName, err)
	}
	defer port.Close()
	log.Printf("windd: serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)

	reader := bufio.NewReader(port)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("windd: serial read: %w", err)
		}
		rec, ok := parseRawWindLine(line)
		if !ok {
			continue
		}
		rec.TimestampMs = time.Now().UnixMilli()

		if _, err := fmt.Fprintln(conn, wire.WindLine(rec)); err != nil {
			return fmt.Errorf("windd: write bus: %w", err)
		}
		if client != nil {
			client.Publish(cfg.TopicWind, 0, false, []byte(wire.WindLine(rec)))
		}
	}
}

// parseRawWindLine parses the wind instrument's native "mag_m_s:.. alpha_deg:..
// valid:.." line, grounded on the original project's WindSensor::ToString.
func parseRawWindLine(line string) (wire.WindRecord, bool) {
	var rec wire.WindRecord
	found := 0
	for _, field := range strings.Fields(line) {
		kv := strings.SplitN(field, ":", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "mag_m_s":
			if v, err := strconv.ParseFloat(kv[1], 64); err == nil {
				rec.SpeedMS = v
				found++
			}
		case "alpha_deg":
			if v, err := strconv.ParseFloat(kv[1], 64); err == nil {
				rec.AngleDeg = v
				found++
			}
		case "valid":
			v, err := strconv.Atoi(kv[1])
			rec.Valid = err == nil && v != 0
			found++
		}
	}
	return rec, found == 3
}

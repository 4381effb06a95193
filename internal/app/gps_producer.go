// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/helmsman/internal/config"
	"github.com/relabs-tech/helmsman/internal/gps"
	"github.com/relabs-tech/helmsman/internal/wire"
)

// RunGPSProducer opens the GPS serial port, parses NMEA sentences, writes a
// "gps:" record onto the bus whenever RMC/VTG updates the fix (this is what
// the control loop consumes), and separately accumulates a richer gps.Fix
// from RMC/GGA/GSA/VTG/GSV for shore-side monitoring over MQTT — satellite
// count, DOP and fix quality aren't meaningful to the controller but are
// useful on a chart plotter or dashboard.
func RunGPSProducer() error {
	cfg := config.Get()

	conn, err := net.Dial("tcp", cfg.BusAddress)
	if err != nil {
		return fmt.Errorf("gpsd: dial bus %q: %w", cfg.BusAddress, err)
	}
	defer conn.Close()

	var client mqtt.Client
	if cfg.MQTTBroker != "" {
		opts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker).SetClientID(cfg.MQTTClientIDGPS)
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Printf("gpsd: MQTT connect error (continuing without it): %v", token.Error())
			client = nil
		}
	}
	if client != nil {
		defer client.Disconnect(250)
	}

	serialOpts := serial.OpenOptions{
		PortName:              cfg.GPSSerialPort,
		BaudRate:              uint(cfg.GPSBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("gpsd: open serial %q: %w", serialOpts.PortName, err)
	}
	defer port.Close()
	log.Printf("gpsd: serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)

	reader := bufio.NewReader(port)
	var rec wire.GPSRecord
	var fix gps.Fix
	var satelliteBuffer []gps.Satellite

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("gpsd: serial read: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			continue
		}

		switch sentence.DataType() {
		case nmea.TypeRMC:
			m := sentence.(nmea.RMC)
			rec.TimestampMs = time.Now().UnixMilli()
			rec.LatDeg = m.Latitude
			rec.LngDeg = m.Longitude
			rec.SpeedMS = m.Speed * knotsToMS
			rec.CogDeg = m.Course
			writeGPS(conn, client, cfg, rec)

			fix.Time = m.Time.String()
			fix.Date = m.Date.String()
			fix.Latitude = m.Latitude
			fix.Longitude = m.Longitude
			fix.SpeedKnots = m.Speed
			fix.CourseDeg = m.Course
			fix.Validity = string(m.Validity)
			publishFix(client, cfg, fix)

		case nmea.TypeGGA:
			m := sentence.(nmea.GGA)
			fix.Altitude = m.Altitude
			fix.NumSatellites = m.NumSatellites
			fix.HDOP = m.HDOP
			fix.FixQuality = fixQualityName(m.FixQuality)
			publishFix(client, cfg, fix)

		case nmea.TypeGSA:
			m := sentence.(nmea.GSA)
			fix.FixType = fixTypeName(m.FixType)
			fix.PDOP = m.PDOP
			fix.HDOP = m.HDOP
			fix.VDOP = m.VDOP
			publishFix(client, cfg, fix)

		case nmea.TypeVTG:
			m := sentence.(nmea.VTG)
			rec.TimestampMs = time.Now().UnixMilli()
			rec.SpeedMS = m.GroundSpeedKPH / 3.6
			rec.CogDeg = m.TrueTrack
			writeGPS(conn, client, cfg, rec)

			fix.SpeedKmh = m.GroundSpeedKPH
			publishFix(client, cfg, fix)

		case nmea.TypeGSV:
			m := sentence.(nmea.GSV)
			if m.MessageNumber == 1 {
				satelliteBuffer = satelliteBuffer[:0]
			}
			for _, sv := range m.Info {
				satelliteBuffer = append(satelliteBuffer, gps.Satellite{
					SVNumber:  sv.SVPRNNumber,
					Elevation: sv.Elevation,
					Azimuth:   sv.Azimuth,
					SNR:       sv.SNR,
				})
			}
			if m.MessageNumber == m.TotalMessages {
				fix.GPSSatellitesInView = append([]gps.Satellite(nil), satelliteBuffer...)
				publishFix(client, cfg, fix)
			}
		}
	}
}

const knotsToMS = 0.514444

func fixQualityName(code string) string {
	switch code {
	case "0":
		return "invalid"
	case "1":
		return "GPS"
	case "2":
		return "DGPS"
	case "4":
		return "RTK fixed"
	case "5":
		return "RTK float"
	default:
		return code
	}
}

func fixTypeName(code string) string {
	switch code {
	case "1":
		return "no fix"
	case "2":
		return "2D"
	case "3":
		return "3D"
	default:
		return code
	}
}

func writeGPS(conn net.Conn, client mqtt.Client, cfg *config.Config, rec wire.GPSRecord) {
	if _, err := fmt.Fprintln(conn, wire.GPSLine(rec)); err != nil {
		log.Printf("gpsd: write bus: %v", err)
		return
	}
	if client != nil {
		client.Publish(cfg.TopicGPS, 0, false, []byte(wire.GPSLine(rec)))
	}
}

// publishFix mirrors the accumulated NMEA fix to MQTT for shore-side
// monitoring. The control bus only ever sees wire.GPSRecord — this is a
// richer, secondary view of the same GPS unit.
func publishFix(client mqtt.Client, cfg *config.Config, fix gps.Fix) {
	if client == nil {
		return
	}
	payload, err := json.Marshal(fix)
	if err != nil {
		log.Printf("gpsd: fix JSON marshal error: %v", err)
		return
	}
	client.Publish(cfg.TopicGPS+"/fix", 0, false, payload)
}

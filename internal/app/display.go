// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"image"
	"log"
	"net"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/helmsman/internal/config"
	"github.com/relabs-tech/helmsman/internal/wire"
)

// helmStatus holds the most recently received "helmsman_st:" fields for
// rendering on the cockpit display.
type helmStatus struct {
	mu sync.RWMutex

	have             bool
	tacks            int
	jibes            int
	inits            int
	directionTrueDeg float64
	magTrueMS        float64
}

func (s *helmStatus) set(st wire.HelmsmanStatusRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.have = true
	s.tacks = st.Tacks
	s.jibes = st.Jibes
	s.inits = st.Inits
	s.directionTrueDeg = st.DirectionTrueDeg
	s.magTrueMS = st.MagTrueMS
}

func (s *helmStatus) snapshot() (wire.HelmsmanStatusRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return wire.HelmsmanStatusRecord{
		Tacks: s.tacks, Jibes: s.jibes, Inits: s.inits,
		DirectionTrueDeg: s.directionTrueDeg, MagTrueMS: s.magTrueMS,
	}, s.have
}

// RunDisplay dials the bus, shows a splash screen, then renders the
// "helmsman_st:" stream (tacks/jibes/inits/true-wind direction and speed)
// on a single cockpit SSD1306 display.
func RunDisplay() error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("displayd: failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("displayd: failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	addr := cfg.DisplayI2CAddr
	if addr == 0 {
		addr = 0x3C
	}
	dev, err := ssd1306.NewI2C(bus, addr, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("displayd: failed to initialize display: %w", err)
	}
	log.Printf("displayd: display initialized at 0x%02X", addr)

	if err := showSplash(dev); err != nil {
		log.Printf("displayd: error showing splash: %v", err)
	}

	conn, err := net.Dial("tcp", cfg.BusAddress)
	if err != nil {
		return fmt.Errorf("displayd: dial bus %q: %w", cfg.BusAddress, err)
	}
	defer conn.Close()

	status := &helmStatus{}
	go readStatusStream(conn, status)

	interval := time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Println("displayd: starting update loop")
	for range ticker.C {
		st, have := status.snapshot()
		if err := updateStatusDisplay(dev, st, have); err != nil {
			log.Printf("displayd: error updating display: %v", err)
		}
	}
	return nil
}

// readStatusStream reads "helmsman_st:" lines off the bus and feeds them
// into status, ignoring every other record kind.
func readStatusStream(conn net.Conn, status *helmStatus) {
	ls := wire.NewLineStream()
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			ls.Push(buf[:n])
			for {
				line, ok := ls.PopLine()
				if !ok {
					break
				}
				kind, fields, ok := wire.ParseRecord(line)
				if !ok || kind != "helmsman_st" {
					continue
				}
				if st, err := wire.ParseHelmsmanStatus(fields); err == nil {
					status.set(st)
				}
			}
		}
		if err != nil {
			log.Printf("displayd: bus read error: %v", err)
			return
		}
	}
}

func blankImage() *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	for i := range img.Pix {
		img.Pix[i] = 0
	}
	return img
}

func updateStatusDisplay(dev *ssd1306.Dev, st wire.HelmsmanStatusRecord, haveData bool) error {
	img := blankImage()
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	if !haveData {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("Helmsman"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
	} else {
		drawer.Dot = fixed.P(0, 13)
		drawer.DrawBytes([]byte(fmt.Sprintf("Wind: %5.1f deg", st.DirectionTrueDeg)))

		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte(fmt.Sprintf("Speed: %4.1f m/s", st.MagTrueMS)))

		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte(fmt.Sprintf("Tacks:%d Jibes:%d", st.Tacks, st.Jibes)))

		drawer.Dot = fixed.P(0, 52)
		drawer.DrawBytes([]byte(fmt.Sprintf("Inits: %d", st.Inits)))
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

func showSplash(dev *ssd1306.Dev) error {
	img := blankImage()
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawBytes([]byte("Helmsman"))

	drawer.Dot = fixed.P(5, 43)
	drawer.DrawBytes([]byte("Waiting for"))

	drawer.Dot = fixed.P(15, 56)
	drawer.DrawBytes([]byte("the bus"))

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/helmsman/internal/config"
	"github.com/relabs-tech/helmsman/internal/wire"
)

// remoteCommand is the JSON shape a shore-side websocket client sends to
// change control mode, grounded on the original project's RemoteProto
// (command codes 1-6, alpha_star_deg only meaningful for Override).
type remoteCommand struct {
	Command      int     `json:"command"`
	AlphaStarDeg float64 `json:"alpha_star_deg"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// RunRemoteBridge serves a websocket endpoint for the shore-side remote
// control app, relaying every received command onto the bus as a "remote:"
// record and repeating the last-known command once per heartbeat period so
// cmd/helmsmand's failsafe (spec.md §5) never sees a stale record while a
// websocket connection is actually alive. Grounded on helmsman_main.cc's
// HandleRemoteControl.
func RunRemoteBridge() error {
	cfg := config.Get()

	conn, err := net.Dial("tcp", cfg.BusAddress)
	if err != nil {
		return fmt.Errorf("remotebridge: dial bus %q: %w", cfg.BusAddress, err)
	}
	defer conn.Close()

	var client mqtt.Client
	if cfg.MQTTBroker != "" {
		opts := mqttOptions(cfg)
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Printf("remotebridge: MQTT connect error (continuing without it): %v", token.Error())
			client = nil
		}
	}
	if client != nil {
		defer client.Disconnect(250)
	}

	var mu sync.Mutex
	last := wire.RemoteRecord{Command: wire.RemoteNormal, AlphaStarDeg: math.NaN()}

	writeLast := func() {
		mu.Lock()
		rec := last
		rec.TimestampS = time.Now().Unix()
		mu.Unlock()
		if _, err := fmt.Fprintln(conn, wire.RemoteLine(rec)); err != nil {
			log.Printf("remotebridge: write bus: %v", err)
		}
		if client != nil {
			client.Publish(cfg.TopicRemoteCommand, 0, false, []byte(wire.RemoteLine(rec)))
		}
	}

	http.HandleFunc("/remote", func(w http.ResponseWriter, r *http.Request) {
		ws, err := wsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("remotebridge: upgrade error: %v", err)
			return
		}
		defer ws.Close()
		log.Printf("remotebridge: client connected from %s", r.RemoteAddr)

		for {
			var cmd remoteCommand
			if err := ws.ReadJSON(&cmd); err != nil {
				log.Printf("remotebridge: client disconnected: %v", err)
				return
			}
			mu.Lock()
			last = wire.RemoteRecord{Command: wire.RemoteMode(cmd.Command), AlphaStarDeg: cmd.AlphaStarDeg}
			mu.Unlock()
			writeLast()
		}
	})

	heartbeat := time.Duration(cfg.RemoteHeartbeatSeconds) * time.Second
	if heartbeat <= 0 {
		heartbeat = 2 * time.Second
	}
	go func() {
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()
		for range ticker.C {
			writeLast()
		}
	}()

	log.Printf("remotebridge: listening on %s", cfg.RemoteBridgeListenAddr)
	return http.ListenAndServe(cfg.RemoteBridgeListenAddr, nil)
}

func mqttOptions(cfg *config.Config) *mqtt.ClientOptions {
	return mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker).SetClientID(cfg.MQTTClientIDRemote)
}

// Command helmsmand is the Helmsman's main control-loop binary: it shovels
// line-oriented bus records between its single I/O stream (stdin/stdout, or
// a dialed TCP bus socket given as the sole positional argument) and the
// supervisor, running the control loop exactly once every sampling period.
// Grounded on the original project's helmsman/helmsman_main.cc main loop
// (pselect wait, deadline rebase on overrun, periodic output cadences).
package main

import (
	"bufio"
	"flag"
	"io"
	"log"
	"math"
	"net"
	"os"
	"time"

	"github.com/relabs-tech/helmsman/internal/angle"
	"github.com/relabs-tech/helmsman/internal/model"
	"github.com/relabs-tech/helmsman/internal/supervisor"
	"github.com/relabs-tech/helmsman/internal/wire"
)

// samplingPeriod is the control-loop tick, matching kSamplingPeriod.
const samplingPeriod = 100 * time.Millisecond

// remoteTimeout is the remote-control heartbeat failsafe window (spec.md
// §5: "older than 5s and the current mode is Override or Idle").
const remoteTimeout = 5 * time.Second

// skipperInputEveryTicks and statusEveryTicks set the output cadences named
// in helmsman_main.cc: skipper_input roughly once a minute, helmsman_st
// roughly every 2s (offset by 5 ticks so it doesn't coincide with startup).
const (
	skipperInputEveryTicks = 600
	statusEveryTicks       = 20
	statusTickOffset       = 5
)

// defaultAlphaStarDeg is the startup heading guess, matching the original's
// "Going SouthWest is a good guess (and breaks up a deadlock)".
const defaultAlphaStarDeg = 225.0

func main() {
	flag.Parse()
	args := flag.Args()

	var rw io.ReadWriter
	if len(args) == 1 {
		conn, err := net.Dial("tcp", args[0])
		if err != nil {
			log.Fatalf("helmsmand: dial bus %q: %v", args[0], err)
		}
		defer conn.Close()
		rw = conn
	} else if len(args) == 0 {
		rw = stdioReadWriter{}
	} else {
		log.Fatalf("usage: helmsmand [bus-address]")
	}

	if err := run(rw); err != nil {
		log.Printf("helmsmand: %v", err)
		os.Exit(1)
	}
}

type stdioReadWriter struct{}

func (stdioReadWriter) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioReadWriter) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

// run executes the main loop until EOF or a fatal I/O error, matching the
// original's "non-zero on EOF, signal, or fatal I/O error" exit contract
// (spec.md §6).
func run(rw io.ReadWriter) error {
	w := bufio.NewWriter(rw)
	defer w.Flush()

	dataCh := make(chan []byte, 8)
	errCh := make(chan error, 1)
	go readLoop(rw, dataCh, errCh)

	sup := supervisor.New()
	ls := wire.NewLineStream()

	var in model.ControllerInput
	in.AlphaStarDeg = defaultAlphaStarDeg
	var rudderSts wire.RudderStatusRecord

	controlMode := model.RemoteNormal
	lastRemote := time.Now()
	nextCall := time.Now().Add(samplingPeriod)
	loops := 0

	applyRudderStatus := func(rec wire.RudderStatusRecord) {
		in.DriveActual.RudderLeftDeg = rec.RudderLDeg
		in.DriveActual.RudderLeftHomed = rec.RudderLPresent
		in.DriveActual.RudderRightDeg = rec.RudderRDeg
		in.DriveActual.RudderRightHomed = rec.RudderRPresent
		in.DriveActual.SailDeg = rec.SailDeg
		in.DriveActual.SailHomed = rec.SailPresent
	}

	processLine := func(line string) {
		kind, fields, ok := wire.ParseRecord(line)
		if !ok {
			return
		}
		switch kind {
		case "wind":
			rec, err := wire.ParseWind(fields)
			if err != nil {
				return
			}
			in.Wind = model.WindSensorSnapshot{
				TimestampMs: rec.TimestampMs,
				AngleDeg:    angle.SymmetricDeg(rec.AngleDeg),
				MagMS:       rec.SpeedMS,
				Valid:       rec.Valid,
				Received:    true,
			}
		case "imu":
			rec, err := wire.ParseImu(fields)
			if err != nil {
				return
			}
			in.IMU = model.IMUSnapshot{
				TimestampMs: rec.TimestampMs,
				TempC:       rec.TempC,
				AccMS2:      [3]float64{rec.AccXMS2, rec.AccYMS2, rec.AccZMS2},
				GyrRadS:     [3]float64{rec.GyrXRadS, rec.GyrYRadS, rec.GyrZRadS},
				MagAu:       [3]float64{rec.MagXAu, rec.MagYAu, rec.MagZAu},
				RollDeg:     rec.RollDeg,
				PitchDeg:    rec.PitchDeg,
				YawDeg:      rec.YawDeg,
				LatDeg:      rec.LatDeg,
				LngDeg:      rec.LngDeg,
				AltM:        rec.AltM,
				VelMS:       [3]float64{rec.VelXMS, rec.VelYMS, rec.VelZMS},
				Received:    true,
			}
		case "ruddersts":
			rec, err := wire.ParseRudderStatus(fields)
			if err != nil {
				return
			}
			rudderSts = rec
			applyRudderStatus(rudderSts)
		case "status_left":
			if wire.ParseRudderStatusLeft(fields, &rudderSts) == nil {
				applyRudderStatus(rudderSts)
			}
		case "status_right":
			if wire.ParseRudderStatusRight(fields, &rudderSts) == nil {
				applyRudderStatus(rudderSts)
			}
		case "status_sail":
			if wire.ParseRudderStatusSail(fields, &rudderSts) == nil {
				applyRudderStatus(rudderSts)
			}
		case "compass":
			rec, err := wire.ParseCompass(fields)
			if err != nil {
				return
			}
			in.Compass = model.CompassSnapshot{
				TimestampMs: rec.TimestampMs,
				RollDeg:     rec.RollDeg,
				PitchDeg:    rec.PitchDeg,
				YawDeg:      rec.YawDeg,
				TempC:       rec.TempC,
				Received:    true,
			}
		case "gps":
			rec, err := wire.ParseGPS(fields)
			if err != nil {
				return
			}
			in.GPS = model.GPSSnapshot{
				TimestampMs: rec.TimestampMs,
				LatDeg:      rec.LatDeg,
				LngDeg:      rec.LngDeg,
				SpeedMS:     rec.SpeedMS,
				CogDeg:      rec.CogDeg,
				Received:    true,
			}
		case "helm":
			rec, err := wire.ParseHelm(fields)
			if err != nil {
				return
			}
			if controlMode != model.RemoteOverride && !math.IsNaN(rec.AlphaStarDeg) {
				in.AlphaStarDeg = rec.AlphaStarDeg
			}
		case "remote":
			rec, err := wire.ParseRemote(fields)
			if err != nil {
				return
			}
			mode := model.RemoteMode(rec.Command)
			if mode != controlMode {
				log.Printf("helmsmand: switched to control mode %d", mode)
			}
			controlMode = mode
			supervisor.ApplyRemoteMode(sup, mode)
			lastRemote = time.Now()
			in.Remote = model.RemoteSnapshot{
				TimestampS:   rec.TimestampS,
				Command:      model.RemoteMode(rec.Command),
				AlphaStarDeg: rec.AlphaStarDeg,
				Received:     true,
			}
			if controlMode == model.RemoteOverride && !math.IsNaN(rec.AlphaStarDeg) {
				in.AlphaStarDeg = rec.AlphaStarDeg
			}
		}
	}

	for {
		remaining := time.Until(nextCall)
		if remaining < 0 {
			remaining = 0
		} else if remaining > samplingPeriod {
			remaining = samplingPeriod
		}
		timer := time.NewTimer(remaining)

		select {
		case buf, ok := <-dataCh:
			if !timer.Stop() {
				<-timer.C
			}
			if !ok {
				err := <-errCh
				return err
			}
			ls.Push(buf)
			for {
				line, ok := ls.PopLine()
				if !ok {
					break
				}
				processLine(line)
			}
		case <-timer.C:
		}

		if !time.Now().Before(nextCall) {
			sec := float64(lastRemote.Unix()) + float64(lastRemote.Nanosecond())/1e9
			nowSec := float64(time.Now().Unix()) + float64(time.Now().Nanosecond())/1e9
			sup.RemoteFailsafeCheck(nowSec, sec, remoteTimeout.Seconds(), controlMode)

			var out model.ControllerOutput
			nowMs := time.Now().UnixMilli()
			sup.Run(in, nowMs, &out)

			nextCall = nextCall.Add(samplingPeriod)
			if time.Now().After(nextCall) {
				log.Printf("helmsmand: tick overrun by %v", time.Since(nextCall))
				nextCall = time.Now()
			}

			if !sup.Idling() {
				deg := out.DriveReference.ToDeg()
				io.WriteString(w, deg.ToString(nowMs)+"\n")
			}

			if loops%skipperInputEveryTicks == 0 {
				si := out.SkipperInput
				if si.TimestampMs != 0 {
					io.WriteString(w, wire.SkipperInputLine(nowMs, si.LatDeg, si.LngDeg, si.AngleTrueDeg, si.MagTrueKn)+"\n")
				}
			}
			if loops%statusEveryTicks == statusTickOffset {
				st := out.Status
				io.WriteString(w, wire.HelmsmanStatusLine(nowMs, st.Tacks, st.Jibes, st.Inits, st.DirectionTrueDeg, st.MagTrueMS)+"\n")
			}
			w.Flush()

			loops = (loops + 1) % 1000
		}
	}
}

// readLoop continuously reads from r, forwarding chunks on dataCh. It closes
// dataCh and sends the terminal error (io.EOF on a clean close) on errCh
// when reading stops.
func readLoop(r io.Reader, dataCh chan<- []byte, errCh chan<- error) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			dataCh <- chunk
		}
		if err != nil {
			errCh <- err
			close(dataCh)
			return
		}
	}
}

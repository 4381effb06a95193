package wire

import (
	"math"
	"testing"
)

func TestLineStreamPopsCompleteLines(t *testing.T) {
	s := NewLineStream()
	s.Push([]byte("wind: a:1\nimu: b"))
	line, ok := s.PopLine()
	if !ok || line != "wind: a:1" {
		t.Fatalf("got %q, %v", line, ok)
	}
	if _, ok := s.PopLine(); ok {
		t.Fatalf("expected no complete line yet")
	}
	s.Push([]byte(":2\n"))
	line, ok = s.PopLine()
	if !ok || line != "imu: b:2" {
		t.Fatalf("got %q, %v", line, ok)
	}
}

func TestLineStreamDiscardsOverflow(t *testing.T) {
	s := NewLineStream()
	huge := make([]byte, maxLineLen+10)
	for i := range huge {
		huge[i] = 'x'
	}
	s.Push(huge)
	if _, ok := s.PopLine(); ok {
		t.Fatalf("expected overflowed partial line to yield nothing")
	}
	if !s.Discarding() {
		t.Fatalf("expected stream to be in discard state")
	}
	s.Push([]byte("garbage\nwind: a:1\n"))
	line, ok := s.PopLine()
	if !ok || line != "wind: a:1" {
		t.Fatalf("expected discard to resync on next newline, got %q %v", line, ok)
	}
}

func TestParseRecordAndWind(t *testing.T) {
	kind, fields, ok := ParseRecord("wind: timestamp_ms:1000 angle_deg:45.5 speed_m_s:3.2 valid:1")
	if !ok || kind != "wind" {
		t.Fatalf("unexpected parse: %q %v %v", kind, fields, ok)
	}
	r, err := ParseWind(fields)
	if err != nil {
		t.Fatal(err)
	}
	if r.TimestampMs != 1000 || r.AngleDeg != 45.5 || r.SpeedMS != 3.2 || !r.Valid {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestParseRemote(t *testing.T) {
	_, fields, _ := ParseRecord("remote: timestamp_s:100 command:3 alpha_star_deg:90")
	r, err := ParseRemote(fields)
	if err != nil {
		t.Fatal(err)
	}
	if r.Command != RemoteBrake {
		t.Fatalf("expected RemoteBrake, got %v", r.Command)
	}
}

func TestRudderStatusNaNMeansUnhomed(t *testing.T) {
	_, fields, _ := ParseRecord("ruddersts: timestamp_ms:1 rudder_l_deg:NaN rudder_r_deg:-5 sail_deg:10")
	r, err := ParseRudderStatus(fields)
	if err != nil {
		t.Fatal(err)
	}
	if r.RudderLPresent {
		t.Fatalf("expected left rudder to be reported un-homed (NaN)")
	}
	if !r.RudderRPresent || math.Abs(r.RudderRDeg-(-5)) > 1e-9 {
		t.Fatalf("unexpected right rudder: %+v", r)
	}
}

func TestMalformedFieldIgnored(t *testing.T) {
	_, fields, ok := ParseRecord("wind: timestamp_ms:1 garbagefield angle_deg:10")
	if !ok {
		t.Fatalf("expected line to parse despite malformed token")
	}
	r, err := ParseWind(fields)
	if err != nil {
		t.Fatal(err)
	}
	if r.AngleDeg != 10 {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestOutputLineFormat(t *testing.T) {
	line := HelmsmanStatusLine(5000, 1, 2, 3, 90.5, 4.2)
	if line == "" {
		t.Fatalf("expected non-empty line")
	}
	kind, fields, ok := ParseRecord(line)
	if !ok || kind != "helmsman_st" {
		t.Fatalf("unexpected round trip: %q", line)
	}
	if v, _ := fields.Int64("tacks"); v != 1 {
		t.Fatalf("expected tacks:1, got fields %+v", fields)
	}
}

package wire

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fields is a parsed "key:value key:value ..." line, keyed by field name.
type Fields map[string]string

// ParseRecord splits a line into its record kind (the leading token, with
// its trailing ':' stripped) and its key:value fields. Malformed tokens
// (no ':' separator) are skipped, matching the original's tolerant sscanf
// behaviour: a bad field is ignored rather than aborting the whole line.
func ParseRecord(line string) (kind string, fields Fields, ok bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil, false
	}
	kind = strings.TrimSuffix(parts[0], ":")
	fields = make(Fields, len(parts)-1)
	for _, p := range parts[1:] {
		i := strings.IndexByte(p, ':')
		if i < 0 {
			continue
		}
		fields[p[:i]] = p[i+1:]
	}
	return kind, fields, true
}

// Float64 returns the field's value parsed as float64, or (0, false) if
// absent or unparsable.
func (f Fields) Float64(key string) (float64, bool) {
	v, ok := f[key]
	if !ok {
		return 0, false
	}
	x, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return x, true
}

// Int64 returns the field's value parsed as int64, or (0, false).
func (f Fields) Int64(key string) (int64, bool) {
	v, ok := f[key]
	if !ok {
		return 0, false
	}
	x, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return x, true
}

// Bool returns the field's value parsed as a 0/1 or true/false flag.
func (f Fields) Bool(key string) (bool, bool) {
	v, ok := f[key]
	if !ok {
		return false, false
	}
	switch v {
	case "1", "true":
		return true, true
	case "0", "false":
		return false, true
	default:
		return false, false
	}
}

// WindRecord is a parsed "wind:" line: wind-sensor reading at the mast.
type WindRecord struct {
	TimestampMs int64
	AngleDeg    float64
	SpeedMS     float64
	Valid       bool
}

// ParseWind parses fields previously split by ParseRecord for kind "wind".
func ParseWind(f Fields) (WindRecord, error) {
	var r WindRecord
	var ok bool
	if r.TimestampMs, ok = f.Int64("timestamp_ms"); !ok {
		return r, fmt.Errorf("wire: wind record missing timestamp_ms")
	}
	r.AngleDeg, _ = f.Float64("angle_deg")
	r.SpeedMS, _ = f.Float64("speed_m_s")
	r.Valid, _ = f.Bool("valid")
	return r, nil
}

// ImuRecord is a parsed "imu:" line.
type ImuRecord struct {
	TimestampMs int64
	TempC       float64
	AccXMS2     float64
	AccYMS2     float64
	AccZMS2     float64
	GyrXRadS    float64
	GyrYRadS    float64
	GyrZRadS    float64
	MagXAu      float64
	MagYAu      float64
	MagZAu      float64
	RollDeg     float64
	PitchDeg    float64
	YawDeg      float64
	LatDeg      float64
	LngDeg      float64
	AltM        float64
	VelXMS      float64
	VelYMS      float64
	VelZMS      float64
}

// ParseImu parses fields previously split by ParseRecord for kind "imu".
func ParseImu(f Fields) (ImuRecord, error) {
	var r ImuRecord
	var ok bool
	if r.TimestampMs, ok = f.Int64("timestamp_ms"); !ok {
		return r, fmt.Errorf("wire: imu record missing timestamp_ms")
	}
	r.TempC, _ = f.Float64("temp_c")
	r.AccXMS2, _ = f.Float64("acc_x_m_s2")
	r.AccYMS2, _ = f.Float64("acc_y_m_s2")
	r.AccZMS2, _ = f.Float64("acc_z_m_s2")
	r.GyrXRadS, _ = f.Float64("gyr_x_rad_s")
	r.GyrYRadS, _ = f.Float64("gyr_y_rad_s")
	r.GyrZRadS, _ = f.Float64("gyr_z_rad_s")
	r.MagXAu, _ = f.Float64("mag_x_au")
	r.MagYAu, _ = f.Float64("mag_y_au")
	r.MagZAu, _ = f.Float64("mag_z_au")
	r.RollDeg, _ = f.Float64("roll_deg")
	r.PitchDeg, _ = f.Float64("pitch_deg")
	r.YawDeg, _ = f.Float64("yaw_deg")
	r.LatDeg, _ = f.Float64("lat_deg")
	r.LngDeg, _ = f.Float64("lng_deg")
	r.AltM, _ = f.Float64("alt_m")
	r.VelXMS, _ = f.Float64("vel_x_m_s")
	r.VelYMS, _ = f.Float64("vel_y_m_s")
	r.VelZMS, _ = f.Float64("vel_z_m_s")
	return r, nil
}

// RudderStatusRecord is a parsed "ruddersts:" line, or one of its
// component-wise variants ("status_left", "status_right", "status_sail").
// NaN fields indicate an un-homed axis, per the original's wire convention.
type RudderStatusRecord struct {
	TimestampMs    int64
	RudderLDeg     float64
	RudderLPresent bool
	RudderRDeg     float64
	RudderRPresent bool
	SailDeg        float64
	SailPresent    bool
}

// ParseRudderStatus parses the combined "ruddersts:" record.
func ParseRudderStatus(f Fields) (RudderStatusRecord, error) {
	var r RudderStatusRecord
	var ok bool
	if r.TimestampMs, ok = f.Int64("timestamp_ms"); !ok {
		return r, fmt.Errorf("wire: ruddersts record missing timestamp_ms")
	}
	if v, ok := f.Float64("rudder_l_deg"); ok {
		r.RudderLDeg = v
		r.RudderLPresent = !math.IsNaN(v)
	}
	if v, ok := f.Float64("rudder_r_deg"); ok {
		r.RudderRDeg = v
		r.RudderRPresent = !math.IsNaN(v)
	}
	if v, ok := f.Float64("sail_deg"); ok {
		r.SailDeg = v
		r.SailPresent = !math.IsNaN(v)
	}
	return r, nil
}

// ParseRudderStatusLeft parses a "status_left:" component record and merges
// it into an existing RudderStatusRecord (component records arrive on
// separate lines but share the same timestamp window).
func ParseRudderStatusLeft(f Fields, into *RudderStatusRecord) error {
	ts, ok := f.Int64("timestamp_ms")
	if !ok {
		return fmt.Errorf("wire: status_left record missing timestamp_ms")
	}
	into.TimestampMs = ts
	if v, ok := f.Float64("rudder_l_deg"); ok {
		into.RudderLDeg = v
		into.RudderLPresent = !math.IsNaN(v)
	}
	return nil
}

// ParseRudderStatusRight is the status_right analogue of
// ParseRudderStatusLeft.
func ParseRudderStatusRight(f Fields, into *RudderStatusRecord) error {
	ts, ok := f.Int64("timestamp_ms")
	if !ok {
		return fmt.Errorf("wire: status_right record missing timestamp_ms")
	}
	into.TimestampMs = ts
	if v, ok := f.Float64("rudder_r_deg"); ok {
		into.RudderRDeg = v
		into.RudderRPresent = !math.IsNaN(v)
	}
	return nil
}

// ParseRudderStatusSail is the status_sail analogue of
// ParseRudderStatusLeft.
func ParseRudderStatusSail(f Fields, into *RudderStatusRecord) error {
	ts, ok := f.Int64("timestamp_ms")
	if !ok {
		return fmt.Errorf("wire: status_sail record missing timestamp_ms")
	}
	into.TimestampMs = ts
	if v, ok := f.Float64("sail_deg"); ok {
		into.SailDeg = v
		into.SailPresent = !math.IsNaN(v)
	}
	return nil
}

// CompassRecord is a parsed "compass:" line.
type CompassRecord struct {
	TimestampMs int64
	RollDeg     float64
	PitchDeg    float64
	YawDeg      float64
	TempC       float64
}

// ParseCompass parses fields previously split by ParseRecord for kind
// "compass".
func ParseCompass(f Fields) (CompassRecord, error) {
	var r CompassRecord
	var ok bool
	if r.TimestampMs, ok = f.Int64("timestamp_ms"); !ok {
		return r, fmt.Errorf("wire: compass record missing timestamp_ms")
	}
	r.RollDeg, _ = f.Float64("roll_deg")
	r.PitchDeg, _ = f.Float64("pitch_deg")
	r.YawDeg, _ = f.Float64("yaw_deg")
	r.TempC, _ = f.Float64("temp_c")
	return r, nil
}

// GPSRecord is a parsed "gps:" line.
type GPSRecord struct {
	TimestampMs int64
	LatDeg      float64
	LngDeg      float64
	SpeedMS     float64
	CogDeg      float64
}

// ParseGPS parses fields previously split by ParseRecord for kind "gps".
func ParseGPS(f Fields) (GPSRecord, error) {
	var r GPSRecord
	var ok bool
	if r.TimestampMs, ok = f.Int64("timestamp_ms"); !ok {
		return r, fmt.Errorf("wire: gps record missing timestamp_ms")
	}
	r.LatDeg, _ = f.Float64("lat_deg")
	r.LngDeg, _ = f.Float64("lng_deg")
	r.SpeedMS, _ = f.Float64("speed_m_s")
	r.CogDeg, _ = f.Float64("cog_deg")
	return r, nil
}

// HelmRecord is a parsed "helm:" line carrying the Skipper's desired
// heading.
type HelmRecord struct {
	TimestampMs  int64
	AlphaStarDeg float64
}

// ParseHelm parses fields previously split by ParseRecord for kind "helm".
func ParseHelm(f Fields) (HelmRecord, error) {
	var r HelmRecord
	var ok bool
	if r.TimestampMs, ok = f.Int64("timestamp_ms"); !ok {
		return r, fmt.Errorf("wire: helm record missing timestamp_ms")
	}
	if r.AlphaStarDeg, ok = f.Float64("alpha_star_deg"); !ok {
		return r, fmt.Errorf("wire: helm record missing alpha_star_deg")
	}
	return r, nil
}

// RemoteMode is the remote-control command code carried by a "remote:"
// record.
type RemoteMode int

// Remote-control command codes, matching the original proto/remote.h
// numbering exactly.
const (
	RemoteNormal     RemoteMode = 1
	RemoteDock       RemoteMode = 2
	RemoteBrake      RemoteMode = 3
	RemoteOverride   RemoteMode = 4
	RemotePowerCycle RemoteMode = 5
	RemoteIdle       RemoteMode = 6
)

// RemoteRecord is a parsed "remote:" line.
type RemoteRecord struct {
	TimestampS   int64
	Command      RemoteMode
	AlphaStarDeg float64
}

// ParseRemote parses fields previously split by ParseRecord for kind
// "remote".
func ParseRemote(f Fields) (RemoteRecord, error) {
	var r RemoteRecord
	var ok bool
	if r.TimestampS, ok = f.Int64("timestamp_s"); !ok {
		return r, fmt.Errorf("wire: remote record missing timestamp_s")
	}
	cmd, ok := f.Int64("command")
	if !ok {
		return r, fmt.Errorf("wire: remote record missing command")
	}
	r.Command = RemoteMode(cmd)
	r.AlphaStarDeg, _ = f.Float64("alpha_star_deg")
	return r, nil
}

// SkipperInputLine renders the "skipper_input:" output record.
func SkipperInputLine(timestampMs int64, latDeg, lngDeg, angleTrueDeg, magTrueKn float64) string {
	return fmt.Sprintf("skipper_input: timestamp_ms:%d latitude_deg:%g longitude_deg:%g angle_true_deg:%g mag_true_kn:%g",
		timestampMs, latDeg, lngDeg, angleTrueDeg, magTrueKn)
}

// HelmsmanStatusLine renders the "helmsman_st:" output record.
func HelmsmanStatusLine(timestampMs int64, tacks, jibes, inits int, directionTrueDeg, magTrueMS float64) string {
	return fmt.Sprintf("helmsman_st: timestamp_ms:%d tacks:%d jibes:%d inits:%d direction_true_deg:%g mag_true_m_s:%g",
		timestampMs, tacks, jibes, inits, directionTrueDeg, magTrueMS)
}

// HelmsmanStatusRecord is a parsed "helmsman_st:" line, consumed by shore
// and cockpit-display clients that don't run the control loop itself.
type HelmsmanStatusRecord struct {
	TimestampMs      int64
	Tacks            int
	Jibes            int
	Inits            int
	DirectionTrueDeg float64
	MagTrueMS        float64
}

// ParseHelmsmanStatus parses fields previously split by ParseRecord for kind
// "helmsman_st".
func ParseHelmsmanStatus(f Fields) (HelmsmanStatusRecord, error) {
	var r HelmsmanStatusRecord
	var ok bool
	if r.TimestampMs, ok = f.Int64("timestamp_ms"); !ok {
		return r, fmt.Errorf("wire: helmsman_st record missing timestamp_ms")
	}
	tacks, ok := f.Int64("tacks")
	if !ok {
		return r, fmt.Errorf("wire: helmsman_st record missing tacks")
	}
	r.Tacks = int(tacks)
	jibes, ok := f.Int64("jibes")
	if !ok {
		return r, fmt.Errorf("wire: helmsman_st record missing jibes")
	}
	r.Jibes = int(jibes)
	inits, ok := f.Int64("inits")
	if !ok {
		return r, fmt.Errorf("wire: helmsman_st record missing inits")
	}
	r.Inits = int(inits)
	if r.DirectionTrueDeg, ok = f.Float64("direction_true_deg"); !ok {
		return r, fmt.Errorf("wire: helmsman_st record missing direction_true_deg")
	}
	if r.MagTrueMS, ok = f.Float64("mag_true_m_s"); !ok {
		return r, fmt.Errorf("wire: helmsman_st record missing mag_true_m_s")
	}
	return r, nil
}

// ImuLine renders an "imu:" record for a producer daemon to write onto the
// bus. cmd/imud has no position fix of its own and writes 0 in the
// lat/lng/alt/vel fields (position comes from the separate "gps:" record).
func ImuLine(r ImuRecord) string {
	return fmt.Sprintf("imu: timestamp_ms:%d temp_c:%g "+
		"acc_x_m_s2:%g acc_y_m_s2:%g acc_z_m_s2:%g "+
		"gyr_x_rad_s:%g gyr_y_rad_s:%g gyr_z_rad_s:%g "+
		"mag_x_au:%g mag_y_au:%g mag_z_au:%g "+
		"roll_deg:%g pitch_deg:%g yaw_deg:%g "+
		"lat_deg:%g lng_deg:%g alt_m:%g "+
		"vel_x_m_s:%g vel_y_m_s:%g vel_z_m_s:%g",
		r.TimestampMs, r.TempC,
		r.AccXMS2, r.AccYMS2, r.AccZMS2,
		r.GyrXRadS, r.GyrYRadS, r.GyrZRadS,
		r.MagXAu, r.MagYAu, r.MagZAu,
		r.RollDeg, r.PitchDeg, r.YawDeg,
		r.LatDeg, r.LngDeg, r.AltM,
		r.VelXMS, r.VelYMS, r.VelZMS)
}

// CompassLine renders a "compass:" record.
func CompassLine(r CompassRecord) string {
	return fmt.Sprintf("compass: timestamp_ms:%d roll_deg:%g pitch_deg:%g yaw_deg:%g temp_c:%g",
		r.TimestampMs, r.RollDeg, r.PitchDeg, r.YawDeg, r.TempC)
}

// GPSLine renders a "gps:" record.
func GPSLine(r GPSRecord) string {
	return fmt.Sprintf("gps: timestamp_ms:%d lat_deg:%g lng_deg:%g speed_m_s:%g cog_deg:%g",
		r.TimestampMs, r.LatDeg, r.LngDeg, r.SpeedMS, r.CogDeg)
}

// WindLine renders a "wind:" record.
func WindLine(r WindRecord) string {
	return fmt.Sprintf("wind: timestamp_ms:%d angle_deg:%g speed_m_s:%g valid:%t",
		r.TimestampMs, r.AngleDeg, r.SpeedMS, r.Valid)
}

// RemoteLine renders a "remote:" record, as emitted by the remote-control
// bridge once per heartbeat or on command change.
func RemoteLine(r RemoteRecord) string {
	return fmt.Sprintf("remote: timestamp_s:%d command:%d alpha_star_deg:%g",
		r.TimestampS, int(r.Command), r.AlphaStarDeg)
}

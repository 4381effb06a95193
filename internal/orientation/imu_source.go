package orientation

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"
)

// defaultSPIDevice and defaultCSPin match the boat's single MPU9250.
const defaultSPIDevice = "/dev/spidev6.0"
const defaultCSPin = "18"

type imuSource struct {
	imu *mpu9250.MPU9250
}

// NewIMUSource initializes the MPU9250 over SPI at the given device/CS pin
// and returns an orientation.Source that reads roll/pitch from the
// accelerometer. Yaw is always 0 and cmd/imud writes it as such; the filter
// block derives heading from the "imu:" record's magnetometer and
// accelerometer fields, or else from the "compass:" record.
func NewIMUSource(spiDevice, csPin string) (Source, error) {
	if spiDevice == "" {
		spiDevice = defaultSPIDevice
	}
	if csPin == "" {
		csPin = defaultCSPin
	}

	// Initialize periph host once.
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("IMU CS pin %q not found", csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDevice, cs)
	if err != nil {
		return nil, fmt.Errorf("IMU SPI transport: %w", err)
	}

	imu, err := mpu9250.New(*tr)
	if err != nil {
		return nil, fmt.Errorf("IMU new device: %w", err)
	}

	if err := imu.Init(); err != nil {
		return nil, fmt.Errorf("IMU init: %w", err)
	}

	if _, err := imu.SelfTest(); err != nil {
		return nil, fmt.Errorf("IMU self-test: %w", err)
	}
	if err := imu.Calibrate(); err != nil {
		return nil, fmt.Errorf("IMU calibrate: %w", err)
	}

	return &imuSource{imu: imu}, nil
}

// Next reads accelerometer data from the IMU and computes roll/pitch
// using a simple accelerometer-only tilt estimate. Yaw is left at 0
// until proper fusion with gyro + magnetometer is implemented.
func (s *imuSource) Next() (Pose, error) {
	ax, err := s.imu.GetAccelerationX()
	if err != nil {
		return Pose{}, fmt.Errorf("IMU acc X: %w", err)
	}
	ay, err := s.imu.GetAccelerationY()
	if err != nil {
		return Pose{}, fmt.Errorf("IMU acc Y: %w", err)
	}
	az, err := s.imu.GetAccelerationZ()
	if err != nil {
		return Pose{}, fmt.Errorf("IMU acc Z: %w", err)
	}

	// Convert to float64 for math. We don't need physical units to
	// get roll/pitch, only relative ratios.
	fx := float64(ax)
	fy := float64(ay)
	fz := float64(az)

	// Basic tilt estimation from accelerometer:
	// roll  = atan2(ay, az)
	// pitch = atan2(-ax, sqrt(ay^2 + az^2))
	rollRad := math.Atan2(fy, fz)
	pitchRad := math.Atan2(-fx, math.Sqrt(fy*fy+fz*fz))

	rollDeg := rollRad * 180.0 / math.Pi
	pitchDeg := pitchRad * 180.0 / math.Pi

	return Pose{
		Roll:  rollDeg,
		Pitch: pitchDeg,
		Yaw:   0, // placeholder; to be replaced with fused yaw later
	}, nil
}

// gravityMS2 converts the accelerometer's g-scaled readings to m/s^2.
const gravityMS2 = 9.80665

// RawIMUSample is a single raw IMU reading alongside its derived Pose, for
// producers that need the individual sensor channels rather than just
// roll/pitch/yaw.
type RawIMUSample struct {
	Pose
	AccMS2  [3]float64
	GyrRadS [3]float64
	MagAu   [3]float64
	TempC   float64
}

// RawSource is a Source that can also report the sensor channels behind the
// derived Pose.
type RawSource interface {
	Source
	NextRaw() (RawIMUSample, error)
}

// NextRaw reads every MPU9250 channel (accelerometer, gyroscope,
// magnetometer, die temperature) and folds in the same accelerometer-only
// tilt estimate Next uses for roll/pitch.
func (s *imuSource) NextRaw() (RawIMUSample, error) {
	pose, err := s.Next()
	if err != nil {
		return RawIMUSample{}, err
	}

	ax, err := s.imu.GetAccelerationX()
	if err != nil {
		return RawIMUSample{}, fmt.Errorf("IMU acc X: %w", err)
	}
	ay, err := s.imu.GetAccelerationY()
	if err != nil {
		return RawIMUSample{}, fmt.Errorf("IMU acc Y: %w", err)
	}
	az, err := s.imu.GetAccelerationZ()
	if err != nil {
		return RawIMUSample{}, fmt.Errorf("IMU acc Z: %w", err)
	}
	gx, err := s.imu.GetRotationX()
	if err != nil {
		return RawIMUSample{}, fmt.Errorf("IMU gyro X: %w", err)
	}
	gy, err := s.imu.GetRotationY()
	if err != nil {
		return RawIMUSample{}, fmt.Errorf("IMU gyro Y: %w", err)
	}
	gz, err := s.imu.GetRotationZ()
	if err != nil {
		return RawIMUSample{}, fmt.Errorf("IMU gyro Z: %w", err)
	}
	mx, my, mz, err := s.imu.GetMagnetometer()
	if err != nil {
		return RawIMUSample{}, fmt.Errorf("IMU magnetometer: %w", err)
	}
	tempC, err := s.imu.GetTemperature()
	if err != nil {
		return RawIMUSample{}, fmt.Errorf("IMU temperature: %w", err)
	}

	return RawIMUSample{
		Pose:    pose,
		AccMS2:  [3]float64{float64(ax) * gravityMS2, float64(ay) * gravityMS2, float64(az) * gravityMS2},
		GyrRadS: [3]float64{float64(gx) * math.Pi / 180, float64(gy) * math.Pi / 180, float64(gz) * math.Pi / 180},
		MagAu:   [3]float64{float64(mx), float64(my), float64(mz)},
		TempC:   tempC,
	}, nil
}

// Package bme680 provides a driver for the BME680 environment sensor
// (temperature, humidity, barometric pressure). It exposes a two-phase
// measurement API suited to a tick-driven caller:
//
//	d.Trigger()              // start a forced-mode conversion (fast)
//	err := d.Collect(&s)     // fetch when ready; returns ErrNotReady while busy
//
// Gas/IAQ measurement is not implemented; the heater stays off.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when
// both w and r are provided, without releasing the bus.
//
// The driver avoids floating-point entirely; compensation uses the Bosch
// integer formulas and the fixed-point accessors return tenths/hundredths of
// units.
package bme680

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"

	"greenhouse-go/x/mathx"
)

// I2C addresses. SDO low selects Address, SDO high AddressHigh.
const (
	Address     = 0x76
	AddressHigh = 0x77
)

// Registers and magic values.
const (
	regChipID  = 0xD0
	regReset   = 0xE0
	regCtrlHum = 0x72
	regCtrlMeas = 0x74
	regConfig  = 0x75
	regMeasStatus = 0x1D
	regCoeff1  = 0x89
	regCoeff2  = 0xE1

	chipID     = 0x61
	softReset  = 0xB6

	modeSleep  = 0x00
	modeForced = 0x01

	statusNewData   = 0x80
	statusMeasuring = 0x20

	coeff1Len = 25
	coeff2Len = 16
)

// Errors returned by the driver.
var (
	ErrNotDetected = errors.New("bme680: chip not detected")
	ErrNotReady    = errors.New("bme680: not ready")
	ErrProtocol    = errors.New("bme680: protocol error")
)

// Oversampling settings for ctrl_hum/ctrl_meas fields.
type Oversampling uint8

const (
	SamplingOff Oversampling = iota
	Sampling1X
	Sampling2X
	Sampling4X
	Sampling8X
	Sampling16X
)

// Config controls measurement behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x76 if zero.
	Address uint16
	// Oversampling per quantity. Defaults: 8x temperature, 2x humidity,
	// 4x pressure.
	Temperature Oversampling
	Humidity    Oversampling
	Pressure    Oversampling
	// IIR filter coefficient exponent for temperature/pressure (0..7).
	Filter uint8
	// TriggerHint is the nominal conversion time reported by Trigger for
	// callers scheduling their own Collect. Default 200 ms.
	TriggerHint time.Duration
}

// calibration holds the factory trim values read at Configure time.
type calibration struct {
	t1 uint16
	t2 int16
	t3 int8

	p1  uint16
	p2  int16
	p3  int8
	p4  int16
	p5  int16
	p6  int8
	p7  int8
	p8  int16
	p9  int16
	p10 uint8

	h1 uint16
	h2 uint16
	h3 int8
	h4 int8
	h5 int8
	h6 uint8
	h7 int8
}

// Sample is one compensated measurement set.
type Sample struct {
	tempCenti int32 // °C * 100
	humMilli  int32 // %RH * 1000
	pressPa   int32 // Pa
}

// DeciCelsius returns temperature in tenths of °C (231 => 23.1 °C).
func (s *Sample) DeciCelsius() int32 {
	t := s.tempCenti
	if t < 0 {
		return -((-t + 5) / 10)
	}
	return (t + 5) / 10
}

// CentiRelHumidity returns relative humidity in hundredths of %RH
// (5034 => 50.34 %RH).
func (s *Sample) CentiRelHumidity() int32 {
	return int32(mathx.RoundDiv(uint32(s.humMilli), 10))
}

// DeciHectoPascal returns pressure in tenths of hPa (10132 => 1013.2 hPa).
func (s *Sample) DeciHectoPascal() int32 {
	return int32(mathx.RoundDiv(uint32(s.pressPa), 10))
}

// Device wraps an I2C connection to a BME680.
type Device struct {
	bus     drivers.I2C
	Address uint16

	cfg   Config
	cal   calibration
	buf   [16]byte // reuse buffer to avoid allocations
	tFine int32    // shared term between compensations
}

// New creates a new BME680 connection. The I2C bus must already be
// configured. This function only creates the Device object; it does not
// touch the device.
func New(bus drivers.I2C) Device {
	return Device{
		bus:     bus,
		Address: Address,
	}
}

// Connected probes the chip-id register.
func (d *Device) Connected() bool {
	if err := d.read(regChipID, d.buf[:1]); err != nil {
		return false
	}
	return d.buf[0] == chipID
}

// Configure verifies the chip, reads calibration, and applies measurement
// settings. Returns ErrNotDetected if the chip id does not match.
func (d *Device) Configure(cfgs ...Config) error {
	var c Config
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.Address != 0 {
		d.Address = c.Address
	}
	if c.Temperature == SamplingOff {
		c.Temperature = Sampling8X
	}
	if c.Humidity == SamplingOff {
		c.Humidity = Sampling2X
	}
	if c.Pressure == SamplingOff {
		c.Pressure = Sampling4X
	}
	if c.Filter > 7 {
		c.Filter = 7
	}
	if c.TriggerHint <= 0 {
		c.TriggerHint = 200 * time.Millisecond
	}
	d.cfg = c

	if !d.Connected() {
		return ErrNotDetected
	}
	if err := d.readCalibration(); err != nil {
		return err
	}

	// Humidity oversampling first; it must be written before ctrl_meas.
	if err := d.write(regCtrlHum, byte(c.Humidity)&0x07); err != nil {
		return err
	}
	if err := d.write(regConfig, (c.Filter&0x07)<<2); err != nil {
		return err
	}
	// Oversampling with mode=sleep; Trigger flips to forced.
	return d.write(regCtrlMeas, d.ctrlMeas(modeSleep))
}

// Reset issues a soft reset. Give the device ~10 ms before reconfiguring.
func (d *Device) Reset() error {
	return d.write(regReset, softReset)
}

// Trigger starts one forced-mode conversion and returns immediately.
func (d *Device) Trigger() error {
	return d.write(regCtrlMeas, d.ctrlMeas(modeForced))
}

// TriggerHint reports the nominal conversion time for the configured
// oversampling; callers should Collect after roughly this long.
func (d *Device) TriggerHint() time.Duration { return d.cfg.TriggerHint }

// Collect fetches the result of a previous Trigger. It returns ErrNotReady
// while the conversion is still running (or no fresh data is available), so
// the caller can retry after a short backoff.
func (d *Device) Collect(s *Sample) error {
	buf := d.buf[:10]
	if err := d.read(regMeasStatus, buf); err != nil {
		return err
	}
	status := buf[0]
	if status&statusMeasuring != 0 || status&statusNewData == 0 {
		return ErrNotReady
	}

	rawPress := uint32(buf[2])<<12 | uint32(buf[3])<<4 | uint32(buf[4])>>4
	rawTemp := uint32(buf[5])<<12 | uint32(buf[6])<<4 | uint32(buf[7])>>4
	rawHum := uint32(buf[8])<<8 | uint32(buf[9])

	if rawTemp == 0x80000 && rawPress == 0x80000 {
		// Power-on reset pattern: no conversion has ever completed.
		return ErrProtocol
	}

	s.tempCenti = d.compensateTemp(int32(rawTemp))
	s.humMilli = d.compensateHum(int32(rawHum))
	s.pressPa = d.compensatePress(int32(rawPress))
	return nil
}

// Read performs trigger + bounded polling until ready, for callers that do
// not schedule Collect themselves.
func (d *Device) Read(s *Sample, poll time.Duration, timeout time.Duration) error {
	if poll <= 0 {
		poll = 15 * time.Millisecond
	}
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	if err := d.Trigger(); err != nil {
		return err
	}
	deadline := time.Now().Add(timeout)
	for {
		err := d.Collect(s)
		if err != ErrNotReady {
			return err
		}
		if time.Now().After(deadline) {
			return ErrNotReady
		}
		time.Sleep(poll)
	}
}

func (d *Device) ctrlMeas(mode byte) byte {
	return byte(d.cfg.Temperature)<<5 | byte(d.cfg.Pressure)<<2 | mode
}

// -----------------------------------------------------------------------------
// Calibration
// -----------------------------------------------------------------------------

func (d *Device) readCalibration() error {
	var c1 [coeff1Len]byte
	var c2 [coeff2Len]byte
	if err := d.read(regCoeff1, c1[:]); err != nil {
		return err
	}
	if err := d.read(regCoeff2, c2[:]); err != nil {
		return err
	}

	// Coefficient block 1 starts at 0x89; offsets below are relative.
	d.cal.t2 = int16(uint16(c1[2])<<8 | uint16(c1[1]))
	d.cal.t3 = int8(c1[3])
	d.cal.p1 = uint16(c1[6])<<8 | uint16(c1[5])
	d.cal.p2 = int16(uint16(c1[8])<<8 | uint16(c1[7]))
	d.cal.p3 = int8(c1[9])
	d.cal.p4 = int16(uint16(c1[12])<<8 | uint16(c1[11]))
	d.cal.p5 = int16(uint16(c1[14])<<8 | uint16(c1[13]))
	d.cal.p7 = int8(c1[15])
	d.cal.p6 = int8(c1[16])
	d.cal.p8 = int16(uint16(c1[20])<<8 | uint16(c1[19]))
	d.cal.p9 = int16(uint16(c1[22])<<8 | uint16(c1[21]))
	d.cal.p10 = c1[23]

	// Coefficient block 2 starts at 0xE1. h1/h2 share a nibble register.
	d.cal.h2 = uint16(c2[0])<<4 | uint16(c2[1])>>4
	d.cal.h1 = uint16(c2[2])<<4 | uint16(c2[1])&0x0F
	d.cal.h3 = int8(c2[3])
	d.cal.h4 = int8(c2[4])
	d.cal.h5 = int8(c2[5])
	d.cal.h6 = c2[6]
	d.cal.h7 = int8(c2[7])
	d.cal.t1 = uint16(c2[9])<<8 | uint16(c2[8])
	return nil
}

// -----------------------------------------------------------------------------
// Compensation (Bosch integer formulas)
// -----------------------------------------------------------------------------

// compensateTemp returns °C*100 and latches tFine for the other channels.
func (d *Device) compensateTemp(adc int32) int32 {
	var1 := (adc >> 3) - (int32(d.cal.t1) << 1)
	var2 := (var1 * int32(d.cal.t2)) >> 11
	var3 := ((var1 >> 1) * (var1 >> 1)) >> 12
	var3 = (var3 * (int32(d.cal.t3) << 4)) >> 14
	d.tFine = var2 + var3
	return (d.tFine*5 + 128) >> 8
}

// compensateHum returns %RH*1000, clamped to [0,100000].
func (d *Device) compensateHum(adc int32) int32 {
	tempScaled := (d.tFine*5 + 128) >> 8
	var1 := adc - int32(d.cal.h1)*16 - ((tempScaled*int32(d.cal.h3))/100)>>1
	var2 := (int32(d.cal.h2) *
		((tempScaled*int32(d.cal.h4))/100 +
			(((tempScaled*((tempScaled*int32(d.cal.h5))/100))>>6)/100) +
			(1 << 14))) >> 10
	var3 := var1 * var2
	var4 := ((int32(d.cal.h6) << 7) + (tempScaled*int32(d.cal.h7))/100) >> 4
	var5 := ((var3 >> 14) * (var3 >> 14)) >> 10
	var6 := (var4 * var5) >> 1
	h := ((var3+var6)>>10)*1000 >> 12
	return mathx.Clamp(h, 0, 100_000)
}

// compensatePress returns Pa.
func (d *Device) compensatePress(adc int32) int32 {
	var1 := (d.tFine >> 1) - 64000
	var2 := ((((var1 >> 2) * (var1 >> 2)) >> 11) * int32(d.cal.p6)) >> 2
	var2 += (var1 * int32(d.cal.p5)) << 1
	var2 = (var2 >> 2) + (int32(d.cal.p4) << 16)
	var1 = (((((var1 >> 2) * (var1 >> 2)) >> 13) * (int32(d.cal.p3) << 5)) >> 3) +
		((int32(d.cal.p2) * var1) >> 1)
	var1 >>= 18
	var1 = ((32768 + var1) * int32(d.cal.p1)) >> 15
	p := 1048576 - adc
	p = (p - (var2 >> 12)) * 3125
	if p >= (1 << 30) {
		p = (p / var1) << 1
	} else {
		p = (p << 1) / var1
	}
	var1 = (int32(d.cal.p9) * (((p >> 3) * (p >> 3)) >> 13)) >> 12
	var2 = ((p >> 2) * int32(d.cal.p8)) >> 13
	var3 := ((p >> 8) * (p >> 8) * (p >> 8) * int32(d.cal.p10)) >> 17
	return p + ((var1 + var2 + var3 + (int32(d.cal.p7) << 7)) >> 4)
}

// -----------------------------------------------------------------------------
// Bus helpers
// -----------------------------------------------------------------------------

func (d *Device) read(reg byte, into []byte) error {
	return d.bus.Tx(d.Address, []byte{reg}, into)
}

func (d *Device) write(reg, val byte) error {
	return d.bus.Tx(d.Address, []byte{reg, val}, nil)
}

// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kennelworks

package cmd

import (
	"fmt"
	"os"

	"github.com/kennelworks/barker/pkg/caixian"
	"go.bug.st/serial"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// defaultPinName is the Broadcom line the stock wiring uses (wiringPi pin 0).
const defaultPinName = "GPIO17"

// Output is a closeable transmit line: a caixian.Pin plus lifecycle. Close
// returns the line to a safe idle state. Set discards write errors; once a
// backend has initialized, writes are assumed to succeed (see the caixian.Pin
// contract), and a quarter-phase loop has no way to report one anyway.
type Output interface {
	caixian.Pin
	Close() error
	String() string
}

// GPIOOutput drives a host GPIO line via periph.io
type GPIOOutput struct {
	pin gpio.PinIO
}

func (g *GPIOOutput) Set(high bool) {
	if high {
		_ = g.pin.Out(gpio.High)
	} else {
		_ = g.pin.Out(gpio.Low)
	}
}

// Close returns the line to high-impedance input, the reference remote's
// exit state.
func (g *GPIOOutput) Close() error {
	return g.pin.In(gpio.Float, gpio.NoEdge)
}

func (g *GPIOOutput) String() string {
	return fmt.Sprintf("GPIO: %s", g.pin.Name())
}

// SerialOutput keys a serial port's RTS control line, for transmitters wired
// through a USB serial adapter instead of a bare GPIO.
type SerialOutput struct {
	port serial.Port
	name string
}

func (s *SerialOutput) Set(high bool) {
	_ = s.port.SetRTS(high)
}

func (s *SerialOutput) Close() error {
	_ = s.port.SetRTS(false)
	return s.port.Close()
}

func (s *SerialOutput) String() string {
	return fmt.Sprintf("Serial RTS: %s @ %d baud", s.name, baudRate)
}

// OpenGPIOOutput initializes the periph host and claims the named line as a
// low output.
func OpenGPIOOutput(name string) (Output, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("GPIO host init failed: %w", err)
	}

	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("GPIO line %s is not available", name)
	}

	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("failed to drive %s as output: %w", name, err)
	}

	return &GPIOOutput{pin: pin}, nil
}

// OpenSerialOutput opens a serial port 8N1 and drives RTS low.
func OpenSerialOutput(portName string, baudRate int) (Output, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	if err := port.SetRTS(false); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to clear RTS on %s: %w", portName, err)
	}

	return &SerialOutput{port: port, name: portName}, nil
}

// ResolvePinName picks the GPIO line: --gpio flag, then the BARKER_PIN
// environment variable, then the default.
func ResolvePinName() string {
	if gpioName != "" {
		return gpioName
	}
	if env := os.Getenv("BARKER_PIN"); env != "" {
		return env
	}
	return defaultPinName
}

// OpenOutput opens the transmit line selected by flags: serial RTS when
// --port is given, otherwise GPIO. Any failure here is fatal to the command;
// no transmission is attempted on a line that did not initialize.
func OpenOutput() (Output, string, error) {
	if portName != "" {
		out, err := OpenSerialOutput(portName, baudRate)
		if err != nil {
			return nil, "", err
		}
		return out, out.String(), nil
	}

	out, err := OpenGPIOOutput(ResolvePinName())
	if err != nil {
		return nil, "", err
	}
	return out, out.String(), nil
}

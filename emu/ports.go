package emu

import "io"

// PortDevice is the externally supplied device model behind the IN and
// OUT instructions. The core holds no port state; it only routes the
// 8-bit port number and data byte. Errors are surfaced verbatim to the
// caller of Step.
type PortDevice interface {
	In(port byte) (byte, error)
	Out(port byte, value byte) error
}

// OpenBus is the default device: reads return 0xFF (floating bus),
// writes are discarded.
type OpenBus struct{}

// In returns 0xFF for every port.
func (OpenBus) In(port byte) (byte, error) {
	return 0xFF, nil
}

// Out discards the byte.
func (OpenBus) Out(port byte, value byte) error {
	return nil
}

// WriterDevice forwards bytes written to one port to an io.Writer, the
// usual console hookup for small test programs. Reads on any port see
// the open bus.
type WriterDevice struct {
	// Port is the port number the writer listens on.
	Port byte
	// W receives every byte written to Port.
	W io.Writer
}

// In returns 0xFF for every port.
func (d *WriterDevice) In(port byte) (byte, error) {
	return 0xFF, nil
}

// Out writes the byte to W when the port matches, and discards it
// otherwise.
func (d *WriterDevice) Out(port byte, value byte) error {
	if port != d.Port {
		return nil
	}
	_, err := d.W.Write([]byte{value})
	return err
}

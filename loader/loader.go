// Package loader reads program images into simulator memory. It
// supports raw binary images and Intel HEX records, the two formats
// hobbyist Z80/8085 toolchains emit.
package loader

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/sarchlab/micro8/emu"
)

// Segment is a contiguous run of program bytes with its load address.
type Segment struct {
	Origin uint16
	Data   []byte
}

// Program is a loaded image, possibly scattered across several
// segments, plus the entry point to start execution at.
type Program struct {
	Segments []Segment
	Entry    uint16
}

// WriteTo copies every segment into memory. Segments that run past
// 0xFFFF wrap around, matching the address space.
func (p *Program) WriteTo(mem *emu.Memory) {
	for _, seg := range p.Segments {
		mem.LoadProgram(seg.Origin, seg.Data)
	}
}

// LoadBinary reads a raw binary image from path. The whole file becomes
// one segment at origin, which is also the entry point.
func LoadBinary(path string, origin uint16) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading binary image: %w", err)
	}
	if len(data) > emu.MemorySize {
		return nil, fmt.Errorf("image is %d bytes, larger than the %d byte address space",
			len(data), emu.MemorySize)
	}

	return &Program{
		Segments: []Segment{{Origin: origin, Data: data}},
		Entry:    origin,
	}, nil
}

// LoadHex reads an Intel HEX file from path. Data records (type 00)
// become segments, adjacent records are merged, and the end-of-file
// record (type 01) terminates the image. The entry point is the lowest
// segment origin.
func LoadHex(path string) (*Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening hex image: %w", err)
	}
	defer file.Close()

	prog := &Program{}
	scanner := bufio.NewScanner(file)
	lineNum := 0
	sawEOF := false

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if sawEOF {
			return nil, fmt.Errorf("line %d: record after end-of-file record", lineNum)
		}

		rec, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		switch rec.recordType {
		case recordData:
			prog.appendData(rec.addr, rec.data)
		case recordEOF:
			sawEOF = true
		default:
			return nil, fmt.Errorf("line %d: unsupported record type %02X",
				lineNum, rec.recordType)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading hex image: %w", err)
	}
	if !sawEOF {
		return nil, fmt.Errorf("missing end-of-file record")
	}
	if len(prog.Segments) == 0 {
		return nil, fmt.Errorf("image contains no data records")
	}

	prog.Entry = prog.Segments[0].Origin
	for _, seg := range prog.Segments[1:] {
		if seg.Origin < prog.Entry {
			prog.Entry = seg.Origin
		}
	}
	return prog, nil
}

// appendData merges a data record into the segment list, extending the
// previous segment when the record continues it.
func (p *Program) appendData(addr uint16, data []byte) {
	if n := len(p.Segments); n > 0 {
		last := &p.Segments[n-1]
		if last.Origin+uint16(len(last.Data)) == addr {
			last.Data = append(last.Data, data...)
			return
		}
	}
	p.Segments = append(p.Segments, Segment{Origin: addr, Data: data})
}

// Intel HEX record types understood by the loader.
const (
	recordData byte = 0x00
	recordEOF  byte = 0x01
)

type hexRecord struct {
	addr       uint16
	recordType byte
	data       []byte
}

// parseRecord decodes one ":llaaaattdd...cc" line and verifies its
// checksum.
func parseRecord(line string) (hexRecord, error) {
	if line[0] != ':' {
		return hexRecord{}, fmt.Errorf("record does not start with ':'")
	}
	raw, err := hex.DecodeString(line[1:])
	if err != nil {
		return hexRecord{}, fmt.Errorf("invalid hex digits: %w", err)
	}
	if len(raw) < 5 {
		return hexRecord{}, fmt.Errorf("record too short")
	}

	length := int(raw[0])
	if len(raw) != 5+length {
		return hexRecord{}, fmt.Errorf("record length field %d does not match %d data bytes",
			length, len(raw)-5)
	}

	var sum byte
	for _, b := range raw {
		sum += b
	}
	if sum != 0 {
		return hexRecord{}, fmt.Errorf("checksum mismatch")
	}

	return hexRecord{
		addr:       uint16(raw[1])<<8 | uint16(raw[2]),
		recordType: raw[3],
		data:       raw[4 : 4+length],
	}, nil
}

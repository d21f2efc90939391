package library

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// errNoDuration means the container did not declare a duration we can read.
var errNoDuration = errors.New("no duration found")

// containerAtoms are the MP4 boxes whose payload is more boxes.
var containerAtoms = map[string]bool{
	"moov": true,
	"trak": true,
	"mdia": true,
	"minf": true,
	"stbl": true,
}

// probeMP4 reads the movie duration from the mvhd box of an ISO-BMFF file.
func probeMP4(r io.ReadSeeker, size int64) (float64, error) {
	return findMvhd(r, 0, size)
}

func findMvhd(r io.ReadSeeker, start, end int64) (float64, error) {
	offset := start
	header := make([]byte, 8)

	for offset+8 <= end {
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return 0, err
		}
		if _, err := io.ReadFull(r, header); err != nil {
			return 0, err
		}

		size := int64(binary.BigEndian.Uint32(header[0:4]))
		typ := string(header[4:8])
		headerSize := int64(8)

		switch size {
		case 0:
			size = end - offset
		case 1:
			ext := make([]byte, 8)
			if _, err := io.ReadFull(r, ext); err != nil {
				return 0, err
			}
			size = int64(binary.BigEndian.Uint64(ext))
			headerSize = 16
		}

		if size < headerSize {
			return 0, fmt.Errorf("malformed %q box at %d", typ, offset)
		}

		switch {
		case typ == "mvhd":
			return readMvhd(r)
		case containerAtoms[typ]:
			if d, err := findMvhd(r, offset+headerSize, offset+size); err == nil {
				return d, nil
			}
		}

		offset += size
	}

	return 0, errNoDuration
}

// readMvhd decodes the full box body positioned right after its header.
func readMvhd(r io.Reader) (float64, error) {
	var version [4]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return 0, err
	}

	var timescale uint32
	var duration uint64

	if version[0] == 1 {
		body := make([]byte, 28)
		if _, err := io.ReadFull(r, body); err != nil {
			return 0, err
		}
		timescale = binary.BigEndian.Uint32(body[16:20])
		duration = binary.BigEndian.Uint64(body[20:28])
	} else {
		body := make([]byte, 16)
		if _, err := io.ReadFull(r, body); err != nil {
			return 0, err
		}
		timescale = binary.BigEndian.Uint32(body[8:12])
		duration = uint64(binary.BigEndian.Uint32(body[12:16]))
	}

	if timescale == 0 {
		return 0, errNoDuration
	}
	return float64(duration) / float64(timescale), nil
}

// probeWAV reads the duration of a RIFF/WAVE file from its fmt and data chunks.
func probeWAV(r io.ReadSeeker, size int64) (float64, error) {
	riff := make([]byte, 12)
	if _, err := io.ReadFull(r, riff); err != nil {
		return 0, err
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return 0, fmt.Errorf("not a WAVE file")
	}

	var byteRate uint32
	offset := int64(12)
	chunk := make([]byte, 8)

	for offset+8 <= size {
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return 0, err
		}
		if _, err := io.ReadFull(r, chunk); err != nil {
			return 0, err
		}
		id := string(chunk[0:4])
		length := int64(binary.LittleEndian.Uint32(chunk[4:8]))

		switch id {
		case "fmt ":
			format := make([]byte, 12)
			if _, err := io.ReadFull(r, format); err != nil {
				return 0, err
			}
			byteRate = binary.LittleEndian.Uint32(format[8:12])
		case "data":
			if byteRate == 0 {
				return 0, errNoDuration
			}
			return float64(length) / float64(byteRate), nil
		}

		// chunks are word aligned
		offset += 8 + length + length%2
	}

	return 0, errNoDuration
}

package snapshot

import (
	"encoding/binary"
	"fmt"
)

var (
	snapMagic         = [4]byte{'C', 'F', 'S', '0'}
	snapHeaderVersion = uint16(1)
)

type header struct {
	Codec            string
	Compression      string
	UncompressedSize uint32
}

// Layout: magic(4) | version(2) | uncompressedSize(4) |
// codecLen(1) codec | compressionLen(1) compression | body.
func writeHeader(h header) []byte {
	buf := make([]byte, 0, 12+len(h.Codec)+len(h.Compression))
	buf = append(buf, snapMagic[:]...)

	var fixed [6]byte
	binary.LittleEndian.PutUint16(fixed[0:2], snapHeaderVersion)
	binary.LittleEndian.PutUint32(fixed[2:6], h.UncompressedSize)
	buf = append(buf, fixed[:]...)

	buf = append(buf, byte(len(h.Codec)))
	buf = append(buf, h.Codec...)
	buf = append(buf, byte(len(h.Compression)))
	buf = append(buf, h.Compression...)
	return buf
}

func readHeader(data []byte) (header, []byte, error) {
	if len(data) < 11 {
		return header{}, nil, fmt.Errorf("snapshot: file too small for header")
	}
	if [4]byte(data[:4]) != snapMagic {
		return header{}, nil, fmt.Errorf("snapshot: invalid header magic")
	}

	version := binary.LittleEndian.Uint16(data[4:6])
	if version != snapHeaderVersion {
		return header{}, nil, fmt.Errorf("snapshot: unsupported header version: %d", version)
	}

	h := header{UncompressedSize: binary.LittleEndian.Uint32(data[6:10])}

	rest := data[10:]
	name, rest, err := readString(rest)
	if err != nil {
		return header{}, nil, err
	}
	h.Codec = name

	name, rest, err = readString(rest)
	if err != nil {
		return header{}, nil, err
	}
	h.Compression = name

	return h, rest, nil
}

func readString(data []byte) (string, []byte, error) {
	if len(data) < 1 {
		return "", nil, fmt.Errorf("snapshot: truncated header")
	}
	n := int(data[0])
	if len(data) < 1+n {
		return "", nil, fmt.Errorf("snapshot: truncated header")
	}
	return string(data[1 : 1+n]), data[1+n:], nil
}

package wire

import "encoding/binary"

// Magic identifies the wire protocol. Frames whose first bytes don't match
// exactly are rejected with BadMagicError.
var Magic = []byte{'L', 'P', '0', '1'}

const (
	// ProtocolMajor/ProtocolMinor are this build's wire protocol version.
	// A peer's minor may be lower (forward compatible); major must match.
	ProtocolMajor byte = 1
	ProtocolMinor byte = 0

	// EncodingMajor/EncodingMinor are this build's payload encoding version.
	EncodingMajor byte = 1
	EncodingMinor byte = 0
)

// HeaderSize is the fixed byte length of a frame header: magic, two
// version pairs, type, compress, and a little-endian int32 total size.
var HeaderSize = len(Magic) + 1 + 1 + 1 + 1 + 1 + 1 + 4

// Header is the decoded fixed-size frame prefix.
type Header struct {
	ProtoMajor, ProtoMinor byte
	EncMajor, EncMinor     byte
	Type                   byte
	Compress               byte
	Size                   int32 // total frame size, including the header
}

// ParseHeader decodes exactly HeaderSize bytes of buf into a Header,
// validating magic, protocol, and encoding. It does not validate Size
// against any limit — callers compare Size against HeaderSize and a
// configured maximum themselves.
func ParseHeader(buf []byte) (Header, error) {
	var h Header
	if len(buf) < HeaderSize {
		return h, &IllegalMessageSizeError{Size: int32(len(buf))}
	}

	magic := buf[:len(Magic)]
	for i, b := range Magic {
		if magic[i] != b {
			got := make([]byte, len(magic))
			copy(got, magic)
			return h, &BadMagicError{Got: got}
		}
	}
	off := len(Magic)

	h.ProtoMajor, h.ProtoMinor = buf[off], buf[off+1]
	off += 2
	if h.ProtoMajor != ProtocolMajor || h.ProtoMinor > ProtocolMinor {
		return h, &UnsupportedProtocolError{
			GotMajor: h.ProtoMajor, GotMinor: h.ProtoMinor,
			WantMajor: ProtocolMajor, WantMinor: ProtocolMinor,
		}
	}

	h.EncMajor, h.EncMinor = buf[off], buf[off+1]
	off += 2
	if h.EncMajor != EncodingMajor || h.EncMinor > EncodingMinor {
		return h, &UnsupportedEncodingError{
			GotMajor: h.EncMajor, GotMinor: h.EncMinor,
			WantMajor: EncodingMajor, WantMinor: EncodingMinor,
		}
	}

	h.Type = buf[off]
	h.Compress = buf[off+1]
	off += 2

	h.Size = int32(binary.LittleEndian.Uint32(buf[off : off+4]))
	return h, nil
}

// PutHeader encodes h into buf[:HeaderSize]. buf must be at least
// HeaderSize long.
func PutHeader(buf []byte, h Header) {
	off := copy(buf, Magic)
	buf[off] = h.ProtoMajor
	buf[off+1] = h.ProtoMinor
	off += 2
	buf[off] = h.EncMajor
	buf[off+1] = h.EncMinor
	off += 2
	buf[off] = h.Type
	buf[off+1] = h.Compress
	off += 2
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(h.Size))
}

package pixoo

import (
	"encoding/binary"
)

// ─── Frame Building ─────────────────────────────────────────────────────────────
//
// Low level frame building for the Pixoo serial protocol. Multi-byte fields
// are little-endian.
//
// General frame layout:
//   [1 byte] start = 0x01
//   [2 byte] length = len(args) + 3 (LE)
//   [1 byte] command
//   [N byte] args
//   [2 byte] checksum (LE)
//   [1 byte] end = 0x02

// EncodeFrame wraps a command and its arguments into a protocol frame.
//
// The checksum is the sum of every byte from the length field through the
// last argument, modulo 65536. Only the start byte is excluded.
//
// Example, brightness 50:
//
//	01 04 00 74 32 aa 00 02
func EncodeFrame(cmd Command, args []byte) ([]byte, error) {
	length := len(args) + frameOverhead
	if length > maxFrameLength {
		return nil, protocolErrorf("frame length %d exceeds %d", length, maxFrameLength)
	}

	frame := make([]byte, 0, length+3)
	frame = append(frame, frameStart, byte(length), byte(length>>8), byte(cmd))
	frame = append(frame, args...)

	cs := checksum(frame[1:])
	frame = append(frame, byte(cs), byte(cs>>8), frameEnd)
	return frame, nil
}

// DecodeFrame validates a frame built by EncodeFrame and returns its command
// and arguments. The device never answers, so this only serves to inspect
// our own output.
func DecodeFrame(frame []byte) (Command, []byte, error) {
	if len(frame) < 7 {
		return 0, nil, protocolErrorf("frame too short: %d bytes", len(frame))
	}
	if frame[0] != frameStart || frame[len(frame)-1] != frameEnd {
		return 0, nil, protocolErrorf("bad frame delimiters 0x%02x/0x%02x", frame[0], frame[len(frame)-1])
	}

	length := int(binary.LittleEndian.Uint16(frame[1:3]))
	if length+4 != len(frame) {
		return 0, nil, protocolErrorf("length field %d does not match frame size %d", length, len(frame))
	}

	body := frame[1 : len(frame)-3]
	want := binary.LittleEndian.Uint16(frame[len(frame)-3 : len(frame)-1])
	if got := checksum(body); got != want {
		return 0, nil, protocolErrorf("checksum mismatch: got 0x%04x, want 0x%04x", got, want)
	}

	args := make([]byte, len(frame)-7)
	copy(args, frame[4:len(frame)-3])
	return Command(frame[3]), args, nil
}

func checksum(b []byte) uint16 {
	var sum uint16
	for _, v := range b {
		sum += uint16(v)
	}
	return sum
}

// ─── Chunking ───────────────────────────────────────────────────────────────────
//
// Animations and gallery uploads exceed what the firmware reads in one go,
// so the payload is cut into MaxChunkSize pieces. Every piece gets a 3 byte
// header whose layout depends on the command carrying it.

// ChunkHeader builds the header of one chunk. total is the length of the
// whole payload, size the length of this chunk and index its position.
type ChunkHeader func(total, size, index int) ([]byte, error)

// TotalSizeHeader is the gallery upload header.
//
//	[2B] total payload size (LE), same for every chunk
//	[1B] chunk index
func TotalSizeHeader(total, size, index int) ([]byte, error) {
	if total > 0xFFFF {
		return nil, protocolErrorf("payload size %d exceeds 16 bits", total)
	}
	if index > 0xFF {
		return nil, protocolErrorf("chunk index %d exceeds 8 bits", index)
	}
	return []byte{byte(total), byte(total >> 8), byte(index)}, nil
}

// ChunkSizeHeader is the direct animation draw header.
//
//	[2B] size of this chunk (LE)
//	[1B] chunk index
func ChunkSizeHeader(total, size, index int) ([]byte, error) {
	if size > 0xFFFF {
		return nil, protocolErrorf("chunk size %d exceeds 16 bits", size)
	}
	if index > 0xFF {
		return nil, protocolErrorf("chunk index %d exceeds 8 bits", index)
	}
	return []byte{byte(size), byte(size >> 8), byte(index)}, nil
}

// ContinuationHeader is the gallery header used by older firmware. It has
// no index; chunks are told apart by order alone.
//
//	[1B] 0x01 (upload phase: chunk)
//	[2B] size of this chunk (LE)
func ContinuationHeader(total, size, index int) ([]byte, error) {
	if size > 0xFFFF {
		return nil, protocolErrorf("chunk size %d exceeds 16 bits", size)
	}
	return []byte{uploadPhaseChunk, byte(size), byte(size >> 8)}, nil
}

// Chunk is one piece of a split payload.
type Chunk struct {
	Index  int
	Header []byte
	Data   []byte
}

// Bytes returns the chunk as it goes into the frame arguments.
func (c Chunk) Bytes() []byte {
	out := make([]byte, 0, len(c.Header)+len(c.Data))
	out = append(out, c.Header...)
	return append(out, c.Data...)
}

// ChunkPayload splits payload into ceil(len/capacity) chunks. Indexes start
// at 0 and increase by one; only the last chunk may be shorter than
// capacity. An empty payload yields no chunks.
//
// Example, 450 bytes with capacity 200:
//
//	Chunk 0: [0..200)
//	Chunk 1: [200..400)
//	Chunk 2: [400..450)
func ChunkPayload(payload []byte, capacity int, header ChunkHeader) ([]Chunk, error) {
	if capacity <= 0 {
		return nil, protocolErrorf("chunk capacity must be positive, got %d", capacity)
	}

	total := len(payload)
	var chunks []Chunk
	for offset, index := 0, 0; offset < total; index++ {
		size := total - offset
		if size > capacity {
			size = capacity
		}

		head, err := header(total, size, index)
		if err != nil {
			return nil, err
		}

		chunks = append(chunks, Chunk{
			Index:  index,
			Header: head,
			Data:   payload[offset : offset+size],
		})
		offset += size
	}

	return chunks, nil
}

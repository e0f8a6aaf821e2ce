package png

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"git.handmade.network/hmn/pngkit/src/oops"
)

// Signature is the eight-byte sequence that opens every PNG file.
var Signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

/*
A Chunk is one length-prefixed record of a PNG file: a four-character type,
a payload, and a trailing CRC-32 over the type and payload. Chunks read
from a file keep whatever CRC value the file declared; ReadChunks does not
verify it. Use ChecksumOK when you care.
*/
type Chunk struct {
	Length uint32
	Type   string
	Data   []byte
	CRC    uint32
}

// NewChunk builds a chunk with a correct length and CRC, ready to serialize.
func NewChunk(typ string, data []byte) Chunk {
	return Chunk{
		Length: uint32(len(data)),
		Type:   typ,
		Data:   data,
		CRC:    chunkCRC(typ, data),
	}
}

func chunkCRC(typ string, data []byte) uint32 {
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	return crc.Sum32()
}

// ChecksumOK reports whether the stored CRC matches the chunk's contents.
func (c Chunk) ChecksumOK() bool {
	return c.CRC == chunkCRC(c.Type, c.Data)
}

// Critical reports whether the chunk is required for decoding (bit 5 of the
// first type byte is clear, i.e. the letter is uppercase).
func (c Chunk) Critical() bool {
	return len(c.Type) == 4 && c.Type[0]&0x20 == 0
}

/*
ReadChunks reads a complete PNG chunk sequence: the signature, then chunks
until an IEND chunk or a clean end of file at a chunk boundary. Trailing
bytes after IEND are left unread. CRC values are recorded as found in the
file and never verified here.
*/
func ReadChunks(r io.Reader) ([]Chunk, error) {
	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return nil, oops.New(ErrBadSignature, "file is shorter than a png signature")
	}
	if sig != Signature {
		return nil, oops.New(ErrBadSignature, "first 8 bytes are % x", sig[:])
	}

	var chunks []Chunk
	for {
		var lengthBytes [4]byte
		_, err := io.ReadFull(r, lengthBytes[:])
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, truncated(err, "chunk length")
		}
		length := binary.BigEndian.Uint32(lengthBytes[:])

		var typeBytes [4]byte
		if _, err := io.ReadFull(r, typeBytes[:]); err != nil {
			return nil, truncated(err, "chunk type")
		}
		typ := string(typeBytes[:])

		data := make([]byte, length)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, truncated(err, typ+" payload")
		}

		var crcBytes [4]byte
		if _, err := io.ReadFull(r, crcBytes[:]); err != nil {
			return nil, truncated(err, typ+" crc")
		}

		chunks = append(chunks, Chunk{
			Length: length,
			Type:   typ,
			Data:   data,
			CRC:    binary.BigEndian.Uint32(crcBytes[:]),
		})

		if typ == "IEND" {
			break
		}
	}
	return chunks, nil
}

func truncated(err error, what string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return oops.New(ErrTruncated, "unexpected end of file in %s", what)
	}
	return oops.New(err, "failed to read %s", what)
}

/*
WriteChunks writes the signature followed by each chunk exactly as given.
Lengths and CRCs are serialized verbatim, so a chunk list read from one
file writes back byte for byte.
*/
func WriteChunks(w io.Writer, chunks []Chunk) error {
	sw := stickyWriter{w: w}
	sw.write(Signature[:])
	for _, c := range chunks {
		sw.writeUint32(c.Length)
		sw.write([]byte(c.Type))
		sw.write(c.Data)
		sw.writeUint32(c.CRC)
	}
	if sw.err != nil {
		return oops.New(sw.err, "failed to write chunk stream")
	}
	return nil
}

type stickyWriter struct {
	w   io.Writer
	err error
}

func (sw *stickyWriter) write(p []byte) {
	if sw.err != nil {
		return
	}
	_, sw.err = sw.w.Write(p)
}

func (sw *stickyWriter) writeUint32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	sw.write(buf[:])
}

// ImageData concatenates the payloads of all IDAT chunks, in order, into the
// single compressed stream they jointly carry.
func ImageData(chunks []Chunk) []byte {
	var idat []byte
	for _, c := range chunks {
		if c.Type == "IDAT" {
			idat = append(idat, c.Data...)
		}
	}
	return idat
}

// ImageChunks assembles the minimal valid chunk sequence for an image:
// IHDR, one IDAT holding the compressed pixel stream, and IEND.
func ImageChunks(h Header, idat []byte) []Chunk {
	return []Chunk{
		h.Encode(),
		NewChunk("IDAT", idat),
		NewChunk("IEND", nil),
	}
}

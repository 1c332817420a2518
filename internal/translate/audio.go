package translate

import (
	"bytes"
	"encoding/binary"

	"github.com/go-audio/riff"
)

// Synthesized container parameters for headerless PCM arriving from the
// bus: mono, 16-bit, 48 kHz.
const (
	pcmChannels   = 1
	pcmBitDepth   = 16
	pcmSampleRate = 48000

	wavHeaderSize = 44
)

// HasWAVHeader reports whether buf starts with a valid RIFF/WAVE
// container header (bytes 0-3 "RIFF", bytes 8-11 "WAVE").
func HasWAVHeader(buf []byte) bool {
	if len(buf) < 12 {
		return false
	}
	return bytes.Equal(buf[0:4], riff.RiffID[:]) && bytes.Equal(buf[8:12], riff.WavFormatID[:])
}

// EnsureWAV returns buf unchanged when it already carries a container
// header, otherwise it prepends a minimal 44-byte PCM header so the
// playback side can treat every inbound buffer uniformly.
func EnsureWAV(buf []byte) []byte {
	if HasWAVHeader(buf) {
		return buf
	}
	return append(wavHeader(len(buf)), buf...)
}

func wavHeader(dataLen int) []byte {
	const (
		fmtChunkSize = 16
		pcmFormat    = 1
	)
	blockAlign := pcmChannels * pcmBitDepth / 8
	byteRate := pcmSampleRate * blockAlign

	h := make([]byte, 0, wavHeaderSize)
	w := bytes.NewBuffer(h)

	w.Write(riff.RiffID[:])
	binary.Write(w, binary.LittleEndian, uint32(36+dataLen))
	w.Write(riff.WavFormatID[:])

	w.Write(riff.FmtID[:])
	binary.Write(w, binary.LittleEndian, uint32(fmtChunkSize))
	binary.Write(w, binary.LittleEndian, uint16(pcmFormat))
	binary.Write(w, binary.LittleEndian, uint16(pcmChannels))
	binary.Write(w, binary.LittleEndian, uint32(pcmSampleRate))
	binary.Write(w, binary.LittleEndian, uint32(byteRate))
	binary.Write(w, binary.LittleEndian, uint16(blockAlign))
	binary.Write(w, binary.LittleEndian, uint16(pcmBitDepth))

	w.Write(riff.DataFormatID[:])
	binary.Write(w, binary.LittleEndian, uint32(dataLen))

	return w.Bytes()
}

package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/zaf/g711"
)

// Format describes the PCM layout of a decoded WAV payload.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DecodePCM16 extracts the raw sample bytes from a 16-bit PCM WAV payload.
func DecodePCM16(wav []byte) ([]byte, Format, error) {
	if len(wav) < 12 || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, Format{}, fmt.Errorf("not a RIFF/WAVE payload")
	}

	var format Format
	var data []byte
	offset := 12
	for offset+8 <= len(wav) {
		chunkID := string(wav[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(wav[offset+4 : offset+8]))
		body := offset + 8
		if body+size > len(wav) {
			return nil, Format{}, fmt.Errorf("truncated %q chunk", chunkID)
		}
		switch chunkID {
		case "fmt ":
			if size < 16 {
				return nil, Format{}, fmt.Errorf("fmt chunk too short")
			}
			audioFormat := binary.LittleEndian.Uint16(wav[body : body+2])
			if audioFormat != 1 {
				return nil, Format{}, fmt.Errorf("unsupported audio format %d, want PCM", audioFormat)
			}
			format.Channels = int(binary.LittleEndian.Uint16(wav[body+2 : body+4]))
			format.SampleRate = int(binary.LittleEndian.Uint32(wav[body+4 : body+8]))
			format.BitsPerSample = int(binary.LittleEndian.Uint16(wav[body+14 : body+16]))
		case "data":
			data = wav[body : body+size]
		}
		offset = body + size
		if size%2 == 1 {
			offset++ // chunks are word-aligned
		}
	}

	if format.SampleRate == 0 {
		return nil, Format{}, fmt.Errorf("missing fmt chunk")
	}
	if format.BitsPerSample != 16 {
		return nil, Format{}, fmt.Errorf("unsupported bit depth %d, want 16", format.BitsPerSample)
	}
	if data == nil {
		return nil, Format{}, fmt.Errorf("missing data chunk")
	}
	return data, format, nil
}

// EncodeWAV wraps raw 16-bit little-endian PCM samples in a canonical WAV
// header.
func EncodeWAV(pcm []byte, sampleRate, channels int) []byte {
	blockAlign := channels * 2
	byteRate := sampleRate * blockAlign

	out := make([]byte, 0, 44+len(pcm))
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(36+len(pcm)))
	out = append(out, "WAVE"...)
	out = append(out, "fmt "...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1) // PCM
	out = binary.LittleEndian.AppendUint16(out, uint16(channels))
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate))
	out = binary.LittleEndian.AppendUint32(out, uint32(byteRate))
	out = binary.LittleEndian.AppendUint16(out, uint16(blockAlign))
	out = binary.LittleEndian.AppendUint16(out, 16) // bits per sample
	out = append(out, "data"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(pcm)))
	out = append(out, pcm...)
	return out
}

// ToUlaw transcodes a 16-bit PCM WAV payload to raw G.711 µ-law bytes,
// halving the payload for bandwidth-constrained playback paths.
func ToUlaw(wav []byte) ([]byte, Format, error) {
	pcm, format, err := DecodePCM16(wav)
	if err != nil {
		return nil, Format{}, err
	}
	return g711.EncodeUlaw(pcm), format, nil
}

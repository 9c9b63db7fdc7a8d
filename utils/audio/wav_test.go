package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPCM(samples int) []byte {
	pcm := make([]byte, 0, samples*2)
	for i := 0; i < samples; i++ {
		pcm = binary.LittleEndian.AppendUint16(pcm, uint16(i*137))
	}
	return pcm
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pcm := testPCM(64)
	wav := EncodeWAV(pcm, 22050, 1)
	require.Len(t, wav, 44+len(pcm))

	decoded, format, err := DecodePCM16(wav)
	require.NoError(t, err)
	assert.Equal(t, pcm, decoded)
	assert.Equal(t, Format{SampleRate: 22050, Channels: 1, BitsPerSample: 16}, format)
}

func TestDecodeRejectsNonWAV(t *testing.T) {
	_, _, err := DecodePCM16([]byte("definitely not audio"))
	assert.Error(t, err)

	_, _, err = DecodePCM16(nil)
	assert.Error(t, err)
}

func TestDecodeRejectsNonPCMFormat(t *testing.T) {
	wav := EncodeWAV(testPCM(4), 8000, 1)
	binary.LittleEndian.PutUint16(wav[20:22], 7) // mark as µ-law instead of PCM
	_, _, err := DecodePCM16(wav)
	assert.ErrorContains(t, err, "unsupported audio format")
}

func TestDecodeRejectsTruncatedData(t *testing.T) {
	wav := EncodeWAV(testPCM(16), 8000, 1)
	_, _, err := DecodePCM16(wav[:len(wav)-4])
	assert.Error(t, err)
}

func TestToUlawHalvesPayload(t *testing.T) {
	pcm := testPCM(128)
	wav := EncodeWAV(pcm, 8000, 1)

	ulaw, format, err := ToUlaw(wav)
	require.NoError(t, err)
	assert.Len(t, ulaw, len(pcm)/2, "one µ-law byte per 16-bit sample")
	assert.Equal(t, 8000, format.SampleRate)
}

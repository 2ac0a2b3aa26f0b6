package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// wavHeader — canonical 44-byte RIFF/WAVE PCM header
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32
	AudioFormat   uint16 // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

// EncodeWAV packs a float waveform into 16-bit mono PCM WAV bytes.
func EncodeWAV(samples []float32, sampleRate int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("cannot encode empty waveform")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	pcm := make([]int16, len(samples))
	for i, s := range samples {
		switch {
		case s >= 1.0:
			pcm[i] = 32767
		case s <= -1.0:
			pcm[i] = -32768
		default:
			pcm[i] = int16(s * 32768)
		}
	}

	dataSize := uint32(len(pcm) * 2)
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * 2,
		BlockAlign:    2,
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(pcm)*2))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("write wav header: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, pcm); err != nil {
		return nil, fmt.Errorf("write wav data: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeWAV parses a self-describing PCM WAV container into a mono float
// waveform. Stereo input keeps only the left channel (every other sample),
// deliberately, so transcription input stays bit-for-bit reproducible.
func decodeWAV(data []byte) ([]float32, int, error) {
	if len(data) < 44 {
		return nil, 0, fmt.Errorf("wav data too short: %d bytes", len(data))
	}

	var header wavHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, 0, fmt.Errorf("read wav header: %w", err)
	}

	if string(header.ChunkID[:]) != "RIFF" || string(header.Format[:]) != "WAVE" {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE container")
	}
	if string(header.Subchunk1ID[:]) != "fmt " || string(header.Subchunk2ID[:]) != "data" {
		return nil, 0, fmt.Errorf("unexpected wav chunk layout")
	}
	if header.AudioFormat != 1 {
		return nil, 0, fmt.Errorf("unsupported audio format: %d", header.AudioFormat)
	}
	if header.NumChannels != 1 && header.NumChannels != 2 {
		return nil, 0, fmt.Errorf("unsupported channel count: %d", header.NumChannels)
	}
	if header.SampleRate == 0 {
		return nil, 0, fmt.Errorf("invalid sample rate: 0")
	}

	raw := data[44:]
	if int(header.Subchunk2Size) < len(raw) {
		raw = raw[:header.Subchunk2Size]
	}

	var samples []float32
	switch header.BitsPerSample {
	case 8:
		samples = make([]float32, len(raw))
		for i, b := range raw {
			samples[i] = (float32(b) - 128) / 128
		}
	case 16:
		n := len(raw) / 2
		samples = make([]float32, n)
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
			samples[i] = float32(v) / 32768
		}
	case 32:
		n := len(raw) / 4
		samples = make([]float32, n)
		for i := 0; i < n; i++ {
			v := int32(binary.LittleEndian.Uint32(raw[i*4:]))
			samples[i] = float32(float64(v) / 2147483648)
		}
	default:
		return nil, 0, fmt.Errorf("unsupported bit depth: %d", header.BitsPerSample)
	}

	if header.NumChannels == 2 {
		mono := make([]float32, 0, len(samples)/2)
		for i := 0; i < len(samples); i += 2 {
			mono = append(mono, samples[i])
		}
		samples = mono
	}

	if len(samples) == 0 {
		return nil, 0, fmt.Errorf("no audio data found")
	}

	return samples, int(header.SampleRate), nil
}

// decodeRawPCM16 reinterprets bytes as headerless 16-bit signed PCM at full scale.
func decodeRawPCM16(data []byte) ([]float32, error) {
	n := len(data) / 2
	if n == 0 {
		return nil, fmt.Errorf("not enough bytes for pcm16")
	}
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(v) / 32768
	}
	return samples, nil
}

package cli

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// writeWAV writes samples as a mono 16-bit PCM WAV file.
// Samples are expected in [-1, 1]; values outside are clipped.
func writeWAV(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	dataSize := uint32(len(samples) * 2)
	byteRate := uint32(sampleRate * 2)

	// RIFF header
	w.WriteString("RIFF")
	binary.Write(w, binary.LittleEndian, uint32(36+dataSize))
	w.WriteString("WAVE")

	// fmt chunk: PCM, mono, 16-bit
	w.WriteString("fmt ")
	binary.Write(w, binary.LittleEndian, uint32(16))
	binary.Write(w, binary.LittleEndian, uint16(1))
	binary.Write(w, binary.LittleEndian, uint16(1))
	binary.Write(w, binary.LittleEndian, uint32(sampleRate))
	binary.Write(w, binary.LittleEndian, byteRate)
	binary.Write(w, binary.LittleEndian, uint16(2))
	binary.Write(w, binary.LittleEndian, uint16(16))

	// data chunk
	w.WriteString("data")
	binary.Write(w, binary.LittleEndian, dataSize)
	for _, s := range samples {
		clipped := math.Max(-1, math.Min(1, s))
		binary.Write(w, binary.LittleEndian, int16(clipped*math.MaxInt16))
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

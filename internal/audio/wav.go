// Package audio implements the downsampled mono audio representation and
// normalized cross-correlation search the synchronization engine matches
// subtitle events against.
package audio

import (
	"encoding/binary"
	"io"
	"math"
	"os"
	"sort"

	"github.com/tp7/sushi-go/internal/errorsx"
)

const (
	formatPCM        = 0x0001
	formatFloat      = 0x0003
	formatExtensible = 0xFFFE
)

type wavFormat struct {
	tag           uint16
	channels      int
	sampleRate    int
	bitsPerSample int
	blockAlign    int
}

// readRIFF walks the RIFF chunk list of r (whose total byte length is
// fileSize) and returns the fmt chunk contents and a reader positioned at
// the start of the data chunk plus that chunk's declared size.
func readRIFF(r io.ReadSeeker, fileSize int64, title string) (wavFormat, int64, int64, error) {
	var riffID [4]byte
	if _, err := io.ReadFull(r, riffID[:]); err != nil || string(riffID[:]) != "RIFF" {
		return wavFormat{}, 0, 0, errorsx.BadFormat(title, "not a RIFF file")
	}
	var riffSize uint32
	if err := binary.Read(r, binary.LittleEndian, &riffSize); err != nil {
		return wavFormat{}, 0, 0, errorsx.BadFormat(title, "truncated RIFF header")
	}
	var waveID [4]byte
	if _, err := io.ReadFull(r, waveID[:]); err != nil || string(waveID[:]) != "WAVE" {
		return wavFormat{}, 0, 0, errorsx.BadFormat(title, "missing WAVE header")
	}

	var fmtChunk wavFormat
	haveFmt := false
	var dataOffset, dataSize int64

	for {
		var id [4]byte
		if _, err := io.ReadFull(r, id[:]); err != nil {
			break
		}
		var size uint32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			break
		}
		chunkStart, _ := r.Seek(0, io.SeekCurrent)

		switch string(id[:]) {
		case "fmt ":
			f, err := parseFmtChunk(r, size, title)
			if err != nil {
				return wavFormat{}, 0, 0, err
			}
			fmtChunk = f
			haveFmt = true
		case "data":
			dataOffset = chunkStart
			dataSize = int64(size)
			// WAV files larger than 4 GiB wrap the 32-bit data size; if the
			// declared size disagrees with what's actually left in the
			// file, trust the file size instead.
			remaining := fileSize - chunkStart
			if remaining > dataSize && (int64(size) == int64(uint32(size))) && uint32(size) != uint32(remaining) && remaining > 0xFFFFFFFF-chunkStart {
				dataSize = remaining
			}
			if dataSize > remaining {
				dataSize = remaining
			}
			// Skip past (or stop at EOF for streamed data chunks).
			if _, err := r.Seek(chunkStart+dataSize, io.SeekStart); err != nil {
				_, _ = r.Seek(0, io.SeekEnd)
			}
			continue
		}

		next := chunkStart + int64(size) + int64(size&1)
		if _, err := r.Seek(next, io.SeekStart); err != nil {
			break
		}
	}

	if !haveFmt {
		return wavFormat{}, 0, 0, errorsx.BadFormat(title, "missing fmt chunk")
	}
	if dataSize == 0 {
		return wavFormat{}, 0, 0, errorsx.BadFormat(title, "missing data chunk")
	}
	return fmtChunk, dataOffset, dataSize, nil
}

func parseFmtChunk(r io.Reader, size uint32, title string) (wavFormat, error) {
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return wavFormat{}, errorsx.BadFormat(title, "truncated fmt chunk")
	}
	if len(body) < 16 {
		return wavFormat{}, errorsx.BadFormat(title, "fmt chunk too small")
	}
	f := wavFormat{
		tag:           binary.LittleEndian.Uint16(body[0:2]),
		channels:      int(binary.LittleEndian.Uint16(body[2:4])),
		sampleRate:    int(binary.LittleEndian.Uint32(body[4:8])),
		blockAlign:    int(binary.LittleEndian.Uint16(body[12:14])),
		bitsPerSample: int(binary.LittleEndian.Uint16(body[14:16])),
	}
	if f.tag == formatExtensible {
		// cbSize(2) + validBitsPerSample(2) + channelMask(4) + 16-byte
		// subformat GUID, whose first two bytes are the real format tag.
		if len(body) < 16+2+2+4+16 {
			return wavFormat{}, errorsx.BadFormat(title, "truncated WAVE_FORMAT_EXTENSIBLE fmt chunk")
		}
		guidOffset := 16 + 2 + 2 + 4
		f.tag = binary.LittleEndian.Uint16(body[guidOffset : guidOffset+2])
	}
	if f.tag != formatPCM && f.tag != formatFloat {
		return wavFormat{}, errorsx.BadFormat(title, "unsupported WAVE format tag")
	}
	if f.bitsPerSample != 8 && f.bitsPerSample != 16 && f.bitsPerSample != 24 && f.bitsPerSample != 32 {
		return wavFormat{}, errorsx.BadFormat(title, "unsupported sample width")
	}
	if f.channels < 1 {
		return wavFormat{}, errorsx.BadFormat(title, "zero channels")
	}
	return f, nil
}

// decodeFrame decodes one interleaved frame (one sample per channel)
// from raw and returns the per-channel values in [-1, 1].
func decodeFrame(raw []byte, f wavFormat) []float64 {
	out := make([]float64, f.channels)
	bytesPerSample := f.bitsPerSample / 8
	for ch := 0; ch < f.channels; ch++ {
		off := ch * bytesPerSample
		switch {
		case f.tag == formatFloat && f.bitsPerSample == 32:
			bits := binary.LittleEndian.Uint32(raw[off : off+4])
			out[ch] = float64(math.Float32frombits(bits))
		case f.bitsPerSample == 8:
			out[ch] = (float64(raw[off]) - 128) / 128
		case f.bitsPerSample == 16:
			v := int16(binary.LittleEndian.Uint16(raw[off : off+2]))
			out[ch] = float64(v) / 32768
		case f.bitsPerSample == 24:
			v := int32(raw[off]) | int32(raw[off+1])<<8 | int32(raw[off+2])<<16
			if v&0x800000 != 0 {
				v |= -0x1000000
			}
			out[ch] = float64(v) / 8388608
		default:
			out[ch] = 0
		}
	}
	return out
}

// LoadWAV parses a WAV file at path and constructs a normalized,
// downsampled, downmixed-to-mono AudioStream at targetSampleRate.
func LoadWAV(path string, targetSampleRate int, title string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errorsx.FileMissing(path, title)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errorsx.BadFormat(title, "cannot stat file")
	}

	format, dataOffset, dataSize, err := readRIFF(f, info.Size(), title)
	if err != nil {
		return nil, err
	}

	bytesPerFrame := format.channels * (format.bitsPerSample / 8)
	if bytesPerFrame == 0 {
		return nil, errorsx.BadFormat(title, "zero-size audio frame")
	}
	totalFrames := dataSize / int64(bytesPerFrame)

	if _, err := f.Seek(dataOffset, io.SeekStart); err != nil {
		return nil, errorsx.BadFormat(title, "cannot seek to audio data")
	}

	mono, err := downmixAndDownsample(f, format, totalFrames, targetSampleRate)
	if err != nil {
		return nil, errorsx.Wrap(err, "decoding audio")
	}

	return newStream(mono, targetSampleRate), nil
}

// downmixAndDownsample reads the PCM data one second (source frame-rate
// frames) at a time, averages channels to mono, and nearest-neighbor
// resamples each block down to targetSampleRate.
func downmixAndDownsample(r io.Reader, format wavFormat, totalFrames int64, targetSampleRate int) ([]float64, error) {
	bytesPerFrame := format.channels * (format.bitsPerSample / 8)
	blockFrames := format.sampleRate
	if blockFrames <= 0 {
		blockFrames = targetSampleRate
	}

	out := make([]float64, 0, totalFrames*int64(targetSampleRate)/int64(max1(format.sampleRate)))
	buf := make([]byte, blockFrames*bytesPerFrame)

	framesLeft := totalFrames
	for framesLeft > 0 {
		want := blockFrames
		if int64(want) > framesLeft {
			want = int(framesLeft)
		}
		chunk := buf[:want*bytesPerFrame]
		n, readErr := io.ReadFull(r, chunk)
		framesRead := n / bytesPerFrame
		if framesRead == 0 {
			break
		}
		monoBlock := make([]float64, framesRead)
		for i := 0; i < framesRead; i++ {
			frame := decodeFrame(chunk[i*bytesPerFrame:(i+1)*bytesPerFrame], format)
			sum := 0.0
			for _, v := range frame {
				sum += v
			}
			monoBlock[i] = sum / float64(len(frame))
		}

		resampled := nearestNeighborResample(monoBlock, format.sampleRate, targetSampleRate)
		out = append(out, resampled...)

		framesLeft -= int64(framesRead)
		if readErr != nil {
			break
		}
	}
	return out, nil
}

func max1(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// nearestNeighborResample maps a one-second (approximately) block sampled
// at srcRate down to dstRate by nearest-neighbor selection: deliberately
// cheap, sufficient for long-window cross-correlation.
func nearestNeighborResample(block []float64, srcRate, dstRate int) []float64 {
	if srcRate == dstRate || len(block) == 0 {
		return append([]float64(nil), block...)
	}
	outLen := len(block) * dstRate / srcRate
	out := make([]float64, outLen)
	ratio := float64(len(block)) / float64(outLen)
	for i := range out {
		srcIdx := int(float64(i) * ratio)
		if srcIdx >= len(block) {
			srcIdx = len(block) - 1
		}
		out[i] = block[srcIdx]
	}
	return out
}

// medianOf returns the median of xs; xs is sorted in place.
func medianOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sort.Float64s(xs)
	n := len(xs)
	if n%2 == 1 {
		return xs[n/2]
	}
	return (xs[n/2-1] + xs[n/2]) / 2
}

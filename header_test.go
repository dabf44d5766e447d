package pcmwav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewHeaderEmpty(t *testing.T) {
	h, err := NewHeader(0, TTSFormat)
	if err != nil {
		t.Fatalf("NewHeader failed: %v", err)
	}

	got, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	want := []byte{
		'R', 'I', 'F', 'F', 0x24, 0x00, 0x00, 0x00,
		'W', 'A', 'V', 'E',
		'f', 'm', 't', ' ', 0x10, 0x00, 0x00, 0x00,
		0x01, 0x00, // PCM
		0x01, 0x00, // mono
		0xc0, 0x5d, 0x00, 0x00, // 24000 Hz
		0x80, 0xbb, 0x00, 0x00, // 48000 bytes/sec
		0x02, 0x00, // block align
		0x10, 0x00, // 16 bits
		'd', 'a', 't', 'a', 0x00, 0x00, 0x00, 0x00,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestNewHeaderFields(t *testing.T) {
	h, err := NewHeader(6, Format{SampleRate: 44100, NumChannels: 2})
	if err != nil {
		t.Fatalf("NewHeader failed: %v", err)
	}

	b, _ := h.MarshalBinary()
	if len(b) != HeaderSize {
		t.Fatalf("header length = %d, want %d", len(b), HeaderSize)
	}

	checks := []struct {
		field string
		off   int
		size  int
		want  uint32
	}{
		{"ChunkSize", 4, 4, 36 + 12},
		{"Subchunk1Size", 16, 4, 16},
		{"AudioFormat", 20, 2, 1},
		{"NumChannels", 22, 2, 2},
		{"SampleRate", 24, 4, 44100},
		{"ByteRate", 28, 4, 44100 * 2 * 2},
		{"BlockAlign", 32, 2, 4},
		{"BitsPerSample", 34, 2, 16},
		{"Subchunk2Size", 40, 4, 12},
	}

	for _, c := range checks {
		var got uint32
		if c.size == 2 {
			got = uint32(binary.LittleEndian.Uint16(b[c.off:]))
		} else {
			got = binary.LittleEndian.Uint32(b[c.off:])
		}

		if got != c.want {
			t.Errorf("%s at offset %d = %d, want %d", c.field, c.off, got, c.want)
		}
	}
}

func TestNewHeaderErrors(t *testing.T) {
	testCases := []struct {
		desc    string
		samples int
		format  Format
	}{
		{"zero sample rate", 0, Format{SampleRate: 0, NumChannels: 1}},
		{"zero channels", 0, Format{SampleRate: 24000, NumChannels: 0}},
		{"negative sample count", -1, TTSFormat},
		{"size overflow", maxDataBytes/2 + 1, TTSFormat},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := NewHeader(tc.samples, tc.format)
			if !errors.Is(err, ErrInvalidFormat) {
				t.Fatalf("NewHeader error = %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestNewHeaderLargestData(t *testing.T) {
	h, err := NewHeader(maxDataBytes/2, TTSFormat)
	if err != nil {
		t.Fatalf("NewHeader failed at the size limit: %v", err)
	}

	if h.ChunkSize != h.DataSize+36 {
		t.Errorf("ChunkSize = %d, want DataSize+36 = %d", h.ChunkSize, h.DataSize+36)
	}
}

func TestHeaderDuration(t *testing.T) {
	h, err := NewHeader(24000, TTSFormat)
	if err != nil {
		t.Fatal(err)
	}

	if h.Samples() != 24000 {
		t.Errorf("Samples() = %d, want 24000", h.Samples())
	}

	if h.Duration() != time.Second {
		t.Errorf("Duration() = %s, want 1s", h.Duration())
	}

	stereo, err := NewHeader(44100, Format{SampleRate: 44100, NumChannels: 2})
	if err != nil {
		t.Fatal(err)
	}

	if stereo.Duration() != 500*time.Millisecond {
		t.Errorf("stereo Duration() = %s, want 500ms", stereo.Duration())
	}
}

func TestReadHeader(t *testing.T) {
	samples := []int16{1, -2, 3, -4, 5}

	wav, err := Encode(samples, TTSFormat)
	if err != nil {
		t.Fatal(err)
	}

	r := bytes.NewReader(wav)

	got, err := ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}

	want, _ := NewHeader(len(samples), TTSFormat)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(rest, wav[HeaderSize:]) {
		t.Errorf("reader not positioned at the samples, remaining % x", rest)
	}
}

func TestReadHeaderSkipsUnknownChunks(t *testing.T) {
	wav, err := Encode([]int16{7, 8}, TTSFormat)
	if err != nil {
		t.Fatal(err)
	}

	list := []byte{'L', 'I', 'S', 'T', 4, 0, 0, 0, 'a', 'b', 'c', 'd'}

	var withList []byte
	withList = append(withList, wav[:36]...)
	withList = append(withList, list...)
	withList = append(withList, wav[36:]...)
	binary.LittleEndian.PutUint32(withList[4:], uint32(len(withList)-8))

	h, err := ReadHeader(bytes.NewReader(withList))
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}

	if h.DataSize != 4 || h.SampleRate != 24000 || h.NumChannels != 1 {
		t.Errorf("unexpected header %+v", h)
	}
}

func TestReadHeaderErrors(t *testing.T) {
	valid, err := Encode([]int16{1}, TTSFormat)
	if err != nil {
		t.Fatal(err)
	}

	notRIFF := append([]byte(nil), valid...)
	copy(notRIFF, "RIFX")

	notWAVE := append([]byte(nil), valid...)
	copy(notWAVE[8:], "AVI ")

	testCases := []struct {
		desc string
		in   []byte
	}{
		{"empty", nil},
		{"not riff", notRIFF},
		{"not wave", notWAVE},
		{"missing data chunk", valid[:36]},
		{"data before fmt", append([]byte("RIFF\x0c\x00\x00\x00WAVE"), []byte("data\x00\x00\x00\x00")...)},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := ReadHeader(bytes.NewReader(tc.in))
			if !errors.Is(err, ErrInvalidHeader) {
				t.Fatalf("ReadHeader error = %v, want ErrInvalidHeader", err)
			}
		})
	}
}

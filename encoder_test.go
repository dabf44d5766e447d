package pcmwav

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
)

func encodeToFile(t *testing.T, f Format, write func(e *Encoder) error) []byte {
	t.Helper()

	out := filepath.Join(t.TempDir(), "out.wav")

	file, err := os.Create(out)
	if err != nil {
		t.Fatalf("couldn't create %s %v", out, err)
	}
	defer file.Close()

	enc := NewEncoder(file, f)
	if err := write(enc); err != nil {
		t.Fatal(err)
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	return data
}

func TestEncoderMatchesEncode(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 1234, -4321}

	want, err := Encode(samples, TTSFormat)
	if err != nil {
		t.Fatal(err)
	}

	got := encodeToFile(t, TTSFormat, func(e *Encoder) error {
		if err := e.WriteSamples(samples[:3]); err != nil {
			return err
		}

		return e.WriteSamples(samples[3:])
	})

	if !bytes.Equal(want, got) {
		t.Fatalf("streamed container differs:\nwant % x\ngot  % x", want, got)
	}
}

func TestEncoderIntBuffer(t *testing.T) {
	samples := []int16{5, -5, 300, -300}
	stereo := Format{SampleRate: 16000, NumChannels: 2}

	want, err := Encode(samples, stereo)
	if err != nil {
		t.Fatal(err)
	}

	got := encodeToFile(t, stereo, func(e *Encoder) error {
		return e.Write(IntBuffer(samples, stereo))
	})

	if !bytes.Equal(want, got) {
		t.Fatalf("streamed container differs:\nwant % x\ngot  % x", want, got)
	}
}

func TestEncoderEmpty(t *testing.T) {
	want, err := Encode(nil, TTSFormat)
	if err != nil {
		t.Fatal(err)
	}

	got := encodeToFile(t, TTSFormat, func(*Encoder) error { return nil })

	if !bytes.Equal(want, got) {
		t.Fatalf("empty container differs:\nwant % x\ngot  % x", want, got)
	}
}

func TestEncoderErrors(t *testing.T) {
	dir := t.TempDir()

	newEnc := func(t *testing.T, f Format) *Encoder {
		t.Helper()

		file, err := os.Create(filepath.Join(dir, filepath.Base(t.Name())+".wav"))
		if err != nil {
			t.Fatal(err)
		}

		t.Cleanup(func() { file.Close() })

		return NewEncoder(file, f)
	}

	t.Run("out of range sample", func(t *testing.T) {
		enc := newEnc(t, TTSFormat)

		err := enc.Write(&audio.IntBuffer{Data: []int{1, 40000}})
		if !errors.Is(err, ErrMalformedAudio) {
			t.Fatalf("error = %v, want ErrMalformedAudio", err)
		}

		if enc.Samples() != 0 {
			t.Errorf("Samples() = %d after a rejected buffer", enc.Samples())
		}
	})

	t.Run("channel mismatch", func(t *testing.T) {
		enc := newEnc(t, TTSFormat)

		err := enc.Write(&audio.IntBuffer{Format: &audio.Format{NumChannels: 2, SampleRate: 24000}, Data: []int{1, 2}})
		if !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("error = %v, want ErrInvalidFormat", err)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		enc := newEnc(t, Format{SampleRate: 0, NumChannels: 1})

		err := enc.WriteSamples([]int16{1})
		if !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("error = %v, want ErrInvalidFormat", err)
		}
	})

	t.Run("nil buffer", func(t *testing.T) {
		enc := newEnc(t, TTSFormat)

		if err := enc.Write(nil); err == nil {
			t.Fatal("expected an error for a nil buffer")
		}
	})

	t.Run("nil encoder", func(t *testing.T) {
		var enc *Encoder

		if err := enc.Write(&audio.IntBuffer{Data: []int{1}}); !errors.Is(err, errNilEncoder) {
			t.Fatalf("Write error = %v, want errNilEncoder", err)
		}

		if err := enc.WriteSamples([]int16{1}); !errors.Is(err, errNilEncoder) {
			t.Fatalf("WriteSamples error = %v, want errNilEncoder", err)
		}
	})

	t.Run("write after close", func(t *testing.T) {
		enc := newEnc(t, TTSFormat)

		if err := enc.Close(); err != nil {
			t.Fatal(err)
		}

		if err := enc.WriteSamples([]int16{1}); err == nil {
			t.Fatal("expected an error writing to a closed encoder")
		}

		if err := enc.Close(); err != nil {
			t.Fatalf("second Close failed: %v", err)
		}
	})
}

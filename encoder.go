package pcmwav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
)

const (
	riffSizePos = 4
	dataSizePos = HeaderSize - 4
)

var (
	errNilBuffer       = errors.New("can't add a nil buffer")
	errNilEncoder      = errors.New("can't write a nil encoder")
	errNilWriter       = errors.New("can't write to a nil writer")
	errAlreadyWroteHdr = errors.New("already wrote header")
	errEncoderClosed   = errors.New("encoder already closed")
)

// Encoder streams 16-bit PCM samples into a wav container.
// The size fields are patched in Close, so the writer must be seekable.
type Encoder struct {
	w   io.WriteSeeker
	buf *bytes.Buffer

	Format Format

	WrittenBytes int
	samples      int
	wroteHeader  bool
	closed       bool
}

// NewEncoder creates an encoder writing f-formatted audio to w.
// Don't forget to Close the encoder or the file won't be valid.
func NewEncoder(w io.WriteSeeker, f Format) *Encoder {
	return &Encoder{
		w:      w,
		buf:    new(bytes.Buffer),
		Format: f,
	}
}

func (e *Encoder) writeHeader() error {
	if e == nil {
		return errNilEncoder
	}

	if e.wroteHeader {
		return errAlreadyWroteHdr
	}

	if e.w == nil {
		return errNilWriter
	}

	h, err := NewHeader(0, e.Format)
	if err != nil {
		return err
	}

	// sizes are unknown until Close
	h.ChunkSize = 0xFFFFFFFF
	h.DataSize = 0xFFFFFFFF

	n, err := e.w.Write(h.appendTo(nil))
	e.WrittenBytes += n

	if err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	e.wroteHeader = true

	return nil
}

func (e *Encoder) ensureHeader() error {
	if e == nil {
		return errNilEncoder
	}

	if e.closed {
		return errEncoderClosed
	}

	if e.wroteHeader {
		return nil
	}

	return e.writeHeader()
}

// WriteSamples appends samples to the data chunk.
func (e *Encoder) WriteSamples(samples []int16) error {
	if err := e.ensureHeader(); err != nil {
		return err
	}

	if err := e.checkGrowth(len(samples)); err != nil {
		return err
	}

	for _, s := range samples {
		e.addSample(s)
	}

	return e.flush(len(samples))
}

// Write appends a go-audio buffer. Values outside the int16 range are
// rejected rather than clipped.
func (e *Encoder) Write(buf *audio.IntBuffer) error {
	if e == nil {
		return errNilEncoder
	}

	if buf == nil {
		return errNilBuffer
	}

	if buf.Format != nil && buf.Format.NumChannels != e.Format.NumChannels {
		return fmt.Errorf("%w: buffer has %d channel(s), encoder expects %d",
			ErrInvalidFormat, buf.Format.NumChannels, e.Format.NumChannels)
	}

	if err := e.ensureHeader(); err != nil {
		return err
	}

	if err := e.checkGrowth(len(buf.Data)); err != nil {
		return err
	}

	for _, v := range buf.Data {
		s, err := intToInt16(v)
		if err != nil {
			e.buf.Reset()
			return err
		}

		e.addSample(s)
	}

	return e.flush(len(buf.Data))
}

func (e *Encoder) addSample(s int16) {
	var b [bytesPerSample]byte
	binary.LittleEndian.PutUint16(b[:], uint16(s))
	e.buf.Write(b[:])
}

func (e *Encoder) checkGrowth(n int) error {
	if uint64(e.samples+n)*bytesPerSample > maxDataBytes {
		return fmt.Errorf("%w: %d samples overflow the 32-bit size fields", ErrInvalidFormat, e.samples+n)
	}

	return nil
}

func (e *Encoder) flush(n int) error {
	written, err := e.w.Write(e.buf.Bytes())
	e.WrittenBytes += written
	e.buf.Reset()

	if err != nil {
		return fmt.Errorf("failed to write buffer: %w", err)
	}

	e.samples += n

	return nil
}

// Samples returns the number of samples written so far.
func (e *Encoder) Samples() int {
	if e == nil {
		return 0
	}

	return e.samples
}

// Close makes sure the header is present and up to date.
// Note that the underlying writer is NOT being closed.
func (e *Encoder) Close() error {
	if e == nil || e.w == nil {
		return nil
	}

	if e.closed {
		return nil
	}

	if err := e.ensureHeader(); err != nil {
		return err
	}

	h, err := NewHeader(e.samples, e.Format)
	if err != nil {
		return err
	}

	if _, err := e.w.Seek(riffSizePos, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to file size position: %w", err)
	}

	if err := binary.Write(e.w, binary.LittleEndian, h.ChunkSize); err != nil {
		return fmt.Errorf("%w when writing the total written bytes", err)
	}

	if _, err := e.w.Seek(dataSizePos, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to PCM chunk size position: %w", err)
	}

	if err := binary.Write(e.w, binary.LittleEndian, h.DataSize); err != nil {
		return fmt.Errorf("%w when writing wav data chunk size header", err)
	}

	// jump back to the end of the file.
	if _, err := e.w.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end of file: %w", err)
	}

	e.closed = true

	if f, ok := e.w.(*os.File); ok {
		return f.Sync()
	}

	return nil
}

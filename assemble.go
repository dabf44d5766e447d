package pcmwav

import "encoding/binary"

// Encode returns a complete WAV container: the header for f followed by the
// samples in their original order. Interleaving is the caller's business; the
// samples are written exactly as given.
func Encode(samples []int16, f Format) ([]byte, error) {
	h, err := NewHeader(len(samples), f)
	if err != nil {
		return nil, err
	}

	out := h.appendTo(make([]byte, 0, HeaderSize+len(samples)*bytesPerSample))
	for _, s := range samples {
		out = binary.LittleEndian.AppendUint16(out, uint16(s))
	}

	return out, nil
}

// EncodeBase64 decodes b64, reinterprets it as 16-bit samples and assembles the
// container. Errors of every stage are returned unchanged.
func EncodeBase64(b64 string, f Format) ([]byte, error) {
	raw, err := DecodeBase64(b64)
	if err != nil {
		return nil, err
	}

	samples, err := BytesToInt16LE(raw)
	if err != nil {
		return nil, err
	}

	return Encode(samples, f)
}

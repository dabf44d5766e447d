// Package pcmwav turns raw 16-bit PCM audio into canonical WAV containers.
//
// The typical input is the base64 encoded PCM returned by a text-to-speech
// model. The pipeline is split into small pure stages that can be used on
// their own:
//
//   - DecodeBase64 turns the transport string into bytes.
//   - BytesToInt16LE reinterprets those bytes as little-endian samples.
//   - NewHeader / Header.MarshalBinary produce the fixed 44-byte RIFF header.
//   - Encode assembles header and samples into a single buffer.
//
// EncodeBase64 chains all of them. For playback and download the package keeps
// a process-local handle table (Registry) that maps short-lived Handles to
// encoded containers; handles must be released by whoever created them.
//
// Encoder offers a streaming alternative writing to an io.WriteSeeker, and
// ReadHeader parses the header of an existing file.
package pcmwav

package pcmwav

// CreateFromBase64 encodes base64 PCM in TTSFormat and registers the
// resulting container. Decode, sample and format errors are returned unchanged
// and nothing is registered.
func (r *Registry) CreateFromBase64(b64 string) (Handle, error) {
	wav, err := EncodeBase64(b64, TTSFormat)
	if err != nil {
		return "", err
	}

	return r.Register(wav)
}

// CreateHandle is CreateFromBase64 on the DefaultRegistry.
func CreateHandle(b64 string) (Handle, error) {
	return DefaultRegistry.CreateFromBase64(b64)
}

// OpenHandle looks h up in the DefaultRegistry.
func OpenHandle(h Handle) ([]byte, bool) {
	return DefaultRegistry.Open(h)
}

// ReleaseHandle releases h from the DefaultRegistry. It is safe to call more
// than once.
func ReleaseHandle(h Handle) {
	DefaultRegistry.Release(h)
}

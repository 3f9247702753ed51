// Package decodesrc adapts network-hosted audio files to the engine's
// Decoder capability, so a streaming sound can be built directly from a
// URL instead of a local file.
package decodesrc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/Alexander-D-Karpov/amp/pkg/types"
)

// bufferedBody presents a fully-downloaded response body as a seekable,
// closeable stream, since beep's decoders need io.ReadSeekCloser and an
// HTTP response body is read-once.
type bufferedBody struct {
	*bytes.Reader
}

func (bufferedBody) Close() error { return nil }

// HTTPSource fetches an MP3 over HTTP with retry and rate limiting, and
// decodes it through beep's mp3 package into the engine.Decoder
// contract. The whole response body is buffered before decoding begins,
// since beep's decoder needs a seekable stream for engine.Decoder.Seek
// to work and an HTTP body on its own is not.
type HTTPSource struct {
	streamer  beep.StreamSeekCloser
	format    beep.Format
	chunkSize int
	sampleBuf [][2]float64
}

// Config configures the retry/rate-limit behavior of Open.
type Config struct {
	RequestsPerSecond float64
	BurstSize         int
	Timeout           time.Duration
	Retries           int
	UserAgent         string
	Debug             bool
}

type debugLogger struct{}

func (debugLogger) Printf(format string, args ...interface{}) {
	log.Printf("[DECODESRC] "+format, args...)
}

// Open fetches url and returns a seekable Decoder over its MP3 content.
// chunkSize controls how many frames Decode returns per call.
func Open(url string, cfg Config, chunkSize int) (*HTTPSource, error) {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Retries
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.Logger = nil
	if cfg.Debug {
		retryClient.Logger = debugLogger{}
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)
	if err := limiter.Wait(context.Background()); err != nil {
		return nil, fmt.Errorf("decodesrc: rate limit wait: %w", err)
	}

	req, err := retryablehttp.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("decodesrc: build request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := retryClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("decodesrc: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("decodesrc: fetch %s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decodesrc: read body of %s: %w", url, err)
	}

	streamer, format, err := mp3.Decode(bufferedBody{bytes.NewReader(body)})
	if err != nil {
		return nil, fmt.Errorf("decodesrc: decode mp3 from %s: %w", url, err)
	}

	if chunkSize <= 0 {
		chunkSize = 4096
	}

	return &HTTPSource{
		streamer:  streamer,
		format:    format,
		chunkSize: chunkSize,
		sampleBuf: make([][2]float64, chunkSize),
	}, nil
}

func (s *HTTPSource) SampleRate() uint32 {
	return uint32(s.format.SampleRate)
}

func (s *HTTPSource) NumFrames() int64 {
	return int64(s.streamer.Len())
}

func (s *HTTPSource) Decode() ([]types.Frame, error) {
	n, ok := s.streamer.Stream(s.sampleBuf)
	if !ok {
		if err := s.streamer.Err(); err != nil {
			return nil, fmt.Errorf("decodesrc: stream: %w", err)
		}
		return nil, nil
	}
	out := make([]types.Frame, n)
	for i := 0; i < n; i++ {
		out[i] = types.Frame{Left: float32(s.sampleBuf[i][0]), Right: float32(s.sampleBuf[i][1])}
	}
	return out, nil
}

func (s *HTTPSource) Seek(i int64) (int64, error) {
	if i < 0 {
		i = 0
	}
	if i > int64(s.streamer.Len()) {
		i = int64(s.streamer.Len())
	}
	if err := s.streamer.Seek(int(i)); err != nil {
		return 0, fmt.Errorf("decodesrc: seek: %w", err)
	}
	return i, nil
}

// Close releases the decoder's underlying seeker.
func (s *HTTPSource) Close() error {
	return s.streamer.Close()
}

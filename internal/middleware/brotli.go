package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// BrotliConfig tunes response compression.
type BrotliConfig struct {
	Quality int
	// MinLength is the body size below which responses go out uncompressed.
	MinLength int
	Skipper   func(c *gin.Context) bool
}

var DefaultBrotliConfig = BrotliConfig{
	Quality:   brotli.DefaultCompression,
	MinLength: 1024,
}

// brotliWriter buffers the body until MinLength is reached, then switches
// the response to br encoding. Short bodies are written through as-is.
type brotliWriter struct {
	gin.ResponseWriter
	enc       *brotli.Writer
	quality   int
	minLength int
	buf       []byte
}

func (bw *brotliWriter) Write(data []byte) (int, error) {
	if bw.enc != nil {
		return bw.enc.Write(data)
	}

	bw.buf = append(bw.buf, data...)
	if len(bw.buf) < bw.minLength {
		return len(data), nil
	}

	bw.start()
	if _, err := bw.enc.Write(bw.buf); err != nil {
		return 0, err
	}
	bw.buf = nil
	return len(data), nil
}

func (bw *brotliWriter) WriteString(s string) (int, error) {
	return bw.Write([]byte(s))
}

// Flush pushes out whatever is pending, compressed or not.
func (bw *brotliWriter) Flush() {
	if bw.enc != nil {
		_ = bw.enc.Flush()
	} else if len(bw.buf) > 0 {
		_, _ = bw.ResponseWriter.Write(bw.buf)
		bw.buf = nil
	}
	bw.ResponseWriter.Flush()
}

func (bw *brotliWriter) start() {
	h := bw.ResponseWriter.Header()
	h.Set("Content-Encoding", "br")
	h.Del("Content-Length")
	bw.enc = brotli.NewWriterLevel(bw.ResponseWriter, bw.quality)
}

// finish closes the encoder or writes out a short body.
func (bw *brotliWriter) finish() error {
	if bw.enc != nil {
		return bw.enc.Close()
	}
	if len(bw.buf) == 0 {
		return nil
	}
	_, err := bw.ResponseWriter.Write(bw.buf)
	bw.buf = nil
	return err
}

// Brotli compresses responses with the default configuration.
func Brotli() gin.HandlerFunc {
	return BrotliWithConfig(DefaultBrotliConfig)
}

// BrotliWithConfig compresses responses for clients that accept br.
func BrotliWithConfig(cfg BrotliConfig) gin.HandlerFunc {
	if cfg.Quality < brotli.BestSpeed || cfg.Quality > brotli.BestCompression {
		cfg.Quality = brotli.DefaultCompression
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultBrotliConfig.MinLength
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodHead || isUpgrade(c) ||
			(cfg.Skipper != nil && cfg.Skipper(c)) || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")
		bw := &brotliWriter{
			ResponseWriter: c.Writer,
			quality:        cfg.Quality,
			minLength:      cfg.MinLength,
		}
		c.Writer = bw

		defer func() {
			if err := bw.finish(); err != nil {
				_ = c.Error(err)
			}
		}()
		c.Next()
	}
}

// isUpgrade reports WebSocket handshakes, which must not be wrapped.
func isUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		// Ignore q-values such as "br;q=0.9".
		name := strings.TrimSpace(strings.SplitN(enc, ";", 2)[0])
		if strings.EqualFold(name, "br") {
			return true
		}
	}
	return false
}

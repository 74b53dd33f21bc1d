package ocr

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func ocrLog() *zerolog.Logger {
	l := log.With().Str("module", "ocr").Logger()
	return &l
}

// Options configures a Recognizer.
type Options struct {
	// Language is the Tesseract language code. Empty means "eng".
	Language string `mapstructure:"language"`
	// TessdataPrefix overrides the training data directory.
	TessdataPrefix string `mapstructure:"tessdata_prefix"`
	// Whitelist restricts the recognized characters. Empty means digits.
	Whitelist string `mapstructure:"whitelist"`
}

// Recognizer reads single lines of digits.
type Recognizer struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewRecognizer creates a Tesseract client configured for one line of
// digits.
func NewRecognizer(opts Options) (*Recognizer, error) {
	if opts.Language == "" {
		opts.Language = "eng"
	}
	if opts.Whitelist == "" {
		opts.Whitelist = "0123456789"
	}

	client := gosseract.NewClient()
	if opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(opts.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(opts.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetWhitelist(opts.Whitelist); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}

	ocrLog().Debug().Str("language", opts.Language).Str("version", client.Version()).Msg("tesseract ready")
	return &Recognizer{client: client}, nil
}

// Recognize preprocesses img and returns the recognized line with
// surrounding whitespace removed.
func (r *Recognizer) Recognize(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, Preprocess(img), imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return trimLine(text), nil
}

// ReadNumber recognizes img and parses the result as an unsigned integer.
func (r *Recognizer) ReadNumber(img image.Image) (uint32, error) {
	text, err := r.Recognize(img)
	if err != nil {
		return 0, err
	}
	n, err := ParseUint(text)
	if err != nil {
		ocrLog().Debug().Str("text", text).Msg("unparsable number")
	}
	return n, err
}

// Close releases the Tesseract handle.
func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client.Close()
}

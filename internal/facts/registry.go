package facts

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"github.com/ironsheep/game-vision/internal/calibration"
	"github.com/ironsheep/game-vision/internal/detection"
	"github.com/ironsheep/game-vision/internal/imaging"
	"github.com/ironsheep/game-vision/internal/ocr"
)

func factsLog() *zerolog.Logger {
	l := log.With().Str("module", "facts").Logger()
	return &l
}

// NumberReader recognizes one unsigned integer in an image.
type NumberReader interface {
	ReadNumber(img image.Image) (uint32, error)
}

// Options configures a Registry. Zero-valued parameter sections fall back
// to their defaults.
type Options struct {
	Thresholds Thresholds
	Minimap    detection.MinimapParams
	Transform  detection.TransformParams
	Text       detection.TextParams
	OCR        ocr.Options

	// Runners replaces bundled models, keyed by model. Models absent here are
	// loaded from the bundle on first use.
	Runners map[Model]detection.Runner
	// Reader replaces the Tesseract recognizer.
	Reader NumberReader
}

type lazyRunner struct {
	once   sync.Once
	runner detection.Runner
	err    error
}

// Registry owns the process-wide detection assets: decoded templates, model
// sessions, the text recognizer and the calibration flags. Every asset is
// loaded at most once and read-only afterwards, so one Registry serves any
// number of concurrent detectors.
type Registry struct {
	templates  *imaging.TemplateCache
	thresholds Thresholds
	minimap    detection.MinimapParams
	transform  detection.TransformParams
	text       detection.TextParams

	runners map[Model]*lazyRunner

	ocrOpts    ocr.Options
	readerOnce sync.Once
	reader     NumberReader
	readerErr  error

	playerRatio *calibration.Flag
	hpSeparator *calibration.Flag
}

// NewRegistry returns a registry reading assets from fsys.
func NewRegistry(fsys fs.FS, opts Options) *Registry {
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	if opts.Minimap == (detection.MinimapParams{}) {
		opts.Minimap = detection.DefaultMinimapParams()
	}
	if opts.Transform == (detection.TransformParams{}) {
		opts.Transform = detection.DefaultTransformParams()
	}
	if opts.Text == (detection.TextParams{}) {
		opts.Text = detection.DefaultTextParams()
	}

	r := &Registry{
		templates:   imaging.NewTemplateCache(fsys),
		thresholds:  opts.Thresholds,
		minimap:     opts.Minimap,
		transform:   opts.Transform,
		text:        opts.Text,
		runners:     make(map[Model]*lazyRunner, len(Models)),
		ocrOpts:     opts.OCR,
		playerRatio: calibration.NewFlag("player_ratio", calibration.VariantA),
		hpSeparator: calibration.NewFlag("hp_separator", calibration.VariantA),
	}
	for _, m := range Models {
		lr := &lazyRunner{}
		if injected, ok := opts.Runners[m]; ok {
			lr.once.Do(func() { lr.runner = injected })
		}
		r.runners[m] = lr
	}
	if opts.Reader != nil {
		r.readerOnce.Do(func() { r.reader = opts.Reader })
	}
	return r
}

// Thresholds returns the configured thresholds.
func (r *Registry) Thresholds() Thresholds {
	return r.thresholds
}

// MinimapParams returns the configured minimap locator parameters.
func (r *Registry) MinimapParams() detection.MinimapParams {
	return r.minimap
}

// template returns a decoded bundled template. A missing bundled template
// is a packaging bug and panics.
func (r *Registry) template(name string, mode imaging.ColorMode) gocv.Mat {
	return r.templates.MustLoad(name, mode)
}

// Runner returns the session for m, loading it on first use.
func (r *Registry) Runner(m Model) (detection.Runner, error) {
	lr, ok := r.runners[m]
	if !ok {
		return nil, fmt.Errorf("unknown model %s", m)
	}
	lr.once.Do(func() {
		data, err := r.templates.ReadAsset(string(m))
		if err != nil {
			lr.err = err
			factsLog().Error().Err(err).Str("model", string(m)).Msg("model load failed")
			return
		}
		runner, err := detection.NewONNXRunner(string(m), data)
		if err != nil {
			lr.err = err
			factsLog().Error().Err(err).Str("model", string(m)).Msg("model load failed")
			return
		}
		factsLog().Debug().Str("model", string(m)).Msg("model loaded")
		lr.runner = runner
	})
	return lr.runner, lr.err
}

// Reader returns the number recognizer, creating it on first use.
func (r *Registry) Reader() (NumberReader, error) {
	r.readerOnce.Do(func() {
		rec, err := ocr.NewRecognizer(r.ocrOpts)
		if err != nil {
			r.readerErr = err
			factsLog().Error().Err(err).Msg("text recognizer init failed")
			return
		}
		r.reader = rec
	})
	return r.reader, r.readerErr
}

// Preload decodes every bundled template in the color mode it is matched
// in and reports every failure. Models stay lazy.
func (r *Registry) Preload() error {
	var errs []error
	load := func(name string, mode imaging.ColorMode) {
		if _, err := r.templates.Load(name, mode); err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range escTemplates {
		load(name, imaging.Grayscale)
	}
	for _, name := range []string{
		TemplateEliteBossBar1, TemplateEliteBossBar2, TemplateRune,
		TemplatePlayerDefaultRatio, TemplatePlayerIdealRatio, TemplateTomb,
		TemplateCashShop, TemplateErdaShower, TemplateHPStart, TemplateHPEnd,
		TemplateHPSeparator1, TemplateHPSeparator2, TemplateHPShield,
		TemplateWealthExpPotionMask,
	} {
		load(name, imaging.Grayscale)
	}
	load(TemplatePortal, imaging.Color)
	for _, k := range BuffKinds {
		load(k.Template(), buffMode(k))
	}
	return errors.Join(errs...)
}

// Close releases templates, model sessions and the recognizer.
func (r *Registry) Close() error {
	r.templates.Close()
	var errs []error
	for _, lr := range r.runners {
		lr.once.Do(func() {})
		if c, ok := lr.runner.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	r.readerOnce.Do(func() {})
	if c, ok := r.reader.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func buffMode(k BuffKind) imaging.ColorMode {
	if k.UsesColor() {
		return imaging.Color
	}
	return imaging.Grayscale
}

package facts

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ironsheep/game-vision/internal/imaging"
	"github.com/ironsheep/game-vision/internal/ocr"
)

// Detector answers questions about one captured frame. Rectangles and
// points are in frame coordinates unless a method says otherwise.
type Detector interface {
	// Frame returns the frame being inspected.
	Frame() *imaging.Frame

	// Mobs returns the minimap positions of mobs inside bound.
	Mobs(minimap, bound imaging.Rect, player imaging.Point) ([]imaging.Point, error)

	// EscSettings reports whether the ESC menu or one of its dialogs is open.
	EscSettings() bool

	// EliteBossBar reports whether an elite boss health bar is shown.
	EliteBossBar() bool

	// Minimap locates the inner minimap rectangle.
	Minimap(borderThreshold uint8) (imaging.Rect, error)

	// MinimapPortals returns portal boxes relative to minimap.
	MinimapPortals(minimap imaging.Rect) []imaging.Rect

	// MinimapRune returns the rune box relative to minimap.
	MinimapRune(minimap imaging.Rect) (imaging.Rect, error)

	// Player returns the player marker box relative to minimap.
	Player(minimap imaging.Rect) (imaging.Rect, error)

	// PlayerIsDead reports whether the death tombstone dialog is shown.
	PlayerIsDead() bool

	// PlayerInCashShop reports whether the cash shop is open.
	PlayerInCashShop() bool

	// HealthBar returns the area between the health bar end caps.
	HealthBar() (imaging.Rect, error)

	// CurrentMaxHealthBars splits the health bar into the current and max
	// number boxes.
	CurrentMaxHealthBars(healthBar imaging.Rect) (current, max imaging.Rect, err error)

	// Health reads the numbers inside the boxes from CurrentMaxHealthBars.
	Health(current, max imaging.Rect) (ocr.Health, error)

	// Buff reports whether kind is shown in the buff tray.
	Buff(kind BuffKind) bool

	// RuneArrows solves the rune puzzle, left to right. When preds is not
	// nil it receives the accepted model rows.
	RuneArrows(preds *RuneArrowPredictions) ([RuneArrowCount]Arrow, error)

	// ErdaShower returns the Erda Shower skill icon in the skill bar.
	ErdaShower() (imaging.Rect, error)

	// Close releases images the detector derived from the frame. The frame
	// itself belongs to the caller.
	Close() error
}

// frameViews supplies images derived from one frame. Each getter returns a
// release func the caller must invoke when done.
type frameViews interface {
	grayscale() (gocv.Mat, func())
	buffsGrayscale() (gocv.Mat, func())
	close()
}

// FrameDetector implements Detector over a Registry.
type FrameDetector struct {
	reg   *Registry
	frame *imaging.Frame
	views frameViews
}

var _ Detector = (*FrameDetector)(nil)

// NewDetector returns a detector that derives every intermediate image on
// each call.
func NewDetector(reg *Registry, frame *imaging.Frame) *FrameDetector {
	return &FrameDetector{reg: reg, frame: frame, views: directViews{mat: frame.Mat()}}
}

// NewCachedDetector returns a detector that derives the contrast grayscale
// frame and the grayscale buff tray once and reuses them for every call.
// Build one per frame.
func NewCachedDetector(reg *Registry, frame *imaging.Frame) *FrameDetector {
	return &FrameDetector{reg: reg, frame: frame, views: &cachedViews{mat: frame.Mat()}}
}

// Frame returns the frame being inspected.
func (d *FrameDetector) Frame() *imaging.Frame {
	return d.frame
}

// Close releases cached views.
func (d *FrameDetector) Close() error {
	d.views.close()
	return nil
}

func (d *FrameDetector) mat() gocv.Mat {
	return d.frame.Mat()
}

func (d *FrameDetector) region(name string) imaging.Rect {
	return mustRegion(d.frame.Width(), d.frame.Height(), name)
}

func mustRegion(width, height int, name string) imaging.Rect {
	r, err := imaging.NamedRegion(width, height, name)
	if err != nil {
		panic(err)
	}
	return r
}

func noop() {}

type directViews struct {
	mat gocv.Mat
}

func (v directViews) grayscale() (gocv.Mat, func()) {
	gray := imaging.ToGrayscale(v.mat, true)
	return gray, func() { gray.Close() }
}

func (v directViews) buffsGrayscale() (gocv.Mat, func()) {
	gray := imaging.ToGrayscale(v.mat, true)
	defer gray.Close()
	buffs := cropClone(gray, imaging.RegionBuffs)
	return buffs, func() { buffs.Close() }
}

func (directViews) close() {}

type cachedViews struct {
	mat gocv.Mat

	grayOnce  sync.Once
	gray      gocv.Mat
	hasGray   bool
	buffsOnce sync.Once
	buffs     gocv.Mat
	hasBuffs  bool

	mu     sync.Mutex
	closed bool
}

func (v *cachedViews) grayscale() (gocv.Mat, func()) {
	v.grayOnce.Do(func() {
		v.gray = imaging.ToGrayscale(v.mat, true)
		v.hasGray = true
	})
	return v.gray, noop
}

func (v *cachedViews) buffsGrayscale() (gocv.Mat, func()) {
	v.buffsOnce.Do(func() {
		gray, _ := v.grayscale()
		v.buffs = cropClone(gray, imaging.RegionBuffs)
		v.hasBuffs = true
	})
	return v.buffs, noop
}

func (v *cachedViews) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true

	v.grayOnce.Do(func() {})
	v.buffsOnce.Do(func() {})
	if v.hasGray {
		v.gray.Close()
	}
	if v.hasBuffs {
		v.buffs.Close()
	}
}

// cropClone copies the named region of mat into a new matrix.
func cropClone(mat gocv.Mat, name string) gocv.Mat {
	roi := imaging.ROI(mat, mustRegion(mat.Cols(), mat.Rows(), name))
	defer roi.Close()
	return roi.Clone()
}

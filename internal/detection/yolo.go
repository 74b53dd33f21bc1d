package detection

import (
	"fmt"
	"sort"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ironsheep/game-vision/internal/imaging"
)

// Tensor is a dense float32 network output.
type Tensor struct {
	Shape []int
	Data  []float32
}

// Rows views the tensor as rows of its last dimension. Leading dimensions,
// including the batch dimension, are flattened.
func (t Tensor) Rows() [][]float32 {
	if len(t.Shape) == 0 {
		return nil
	}
	k := t.Shape[len(t.Shape)-1]
	if k <= 0 {
		return nil
	}
	n := len(t.Data) / k
	rows := make([][]float32, n)
	for i := range rows {
		rows[i] = t.Data[i*k : (i+1)*k]
	}
	return rows
}

// Runner runs one network on a preprocessed NCHW blob.
type Runner interface {
	Run(blob gocv.Mat) (Tensor, error)
}

// ONNXRunner runs an ONNX model through the OpenCV DNN module.
//
// gocv.Net keeps per-inference state, so Run serializes callers.
type ONNXRunner struct {
	name string

	mu  sync.Mutex
	net gocv.Net
}

// NewONNXRunner loads an ONNX model from memory.
func NewONNXRunner(name string, model []byte) (*ONNXRunner, error) {
	net, err := gocv.ReadNetFromONNXBytes(model)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", name, err)
	}
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model %s: empty network", name)
	}
	return &ONNXRunner{name: name, net: net}, nil
}

// Run feeds blob through the network and copies out the first output.
func (r *ONNXRunner) Run(blob gocv.Mat) (Tensor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.net.SetInput(blob, "")
	out := r.net.Forward("")
	defer out.Close()

	if out.Empty() {
		return Tensor{}, fmt.Errorf("model %s produced no output", r.name)
	}
	data, err := out.DataPtrFloat32()
	if err != nil {
		return Tensor{}, fmt.Errorf("model %s output: %w", r.name, err)
	}
	return Tensor{
		Shape: append([]int(nil), out.Size()...),
		Data:  append([]float32(nil), data...),
	}, nil
}

// Close releases the network.
func (r *ONNXRunner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.net.Close()
}

// Confidence floors used by the bounding-box models.
const (
	ObjectConfidence    float32 = 0.5
	RuneArrowConfidence float32 = 0.8
)

// Candidate is one decoded network row in model space:
// [x1, y1, x2, y2, confidence, class fields...].
type Candidate struct {
	X1, Y1, X2, Y2 float32
	Confidence     float32
	Class          []float32
}

// ClassID returns the first class field truncated to an integer, or -1 when
// the row carries none.
func (c Candidate) ClassID() int {
	if len(c.Class) == 0 {
		return -1
	}
	return int(c.Class[0])
}

// Raw returns the row the candidate was decoded from.
func (c Candidate) Raw() []float32 {
	return append([]float32{c.X1, c.Y1, c.X2, c.Y2, c.Confidence}, c.Class...)
}

// DecodeCandidates keeps the rows whose confidence is at least floor. Rows
// shorter than five fields are ignored.
func DecodeCandidates(rows [][]float32, floor float32) []Candidate {
	var out []Candidate
	for _, row := range rows {
		if len(row) < 5 || row[4] < floor {
			continue
		}
		out = append(out, Candidate{
			X1: row[0], Y1: row[1], X2: row[2], Y2: row[3],
			Confidence: row[4],
			Class:      append([]float32(nil), row[5:]...),
		})
	}
	return out
}

// BestCandidate returns the highest-confidence row regardless of any floor.
func BestCandidate(rows [][]float32) (Candidate, bool) {
	var best []float32
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		if best == nil || row[4] > best[4] {
			best = row
		}
	}
	if best == nil {
		return Candidate{}, false
	}
	return DecodeCandidates([][]float32{best}, best[4])[0], true
}

// Remap converts a model-space candidate into a source-space rectangle.
// Corners are scaled by ratios, clamped to [0, width] x [0, height] and
// truncated.
func Remap(c Candidate, ratios imaging.Ratios, width, height int) imaging.Rect {
	clamp := func(v, hi float32) int {
		if v < 0 {
			v = 0
		}
		if v > hi {
			v = hi
		}
		return int(v)
	}
	w, h := float32(width), float32(height)
	tl := imaging.Pt(clamp(c.X1*ratios.Width, w), clamp(c.Y1*ratios.Height, h))
	br := imaging.Pt(clamp(c.X2*ratios.Width, w), clamp(c.Y2*ratios.Height, h))
	return imaging.RectFromPoints(tl, br)
}

// OrderLeftToRight sorts candidates by their left edge and requires exactly
// arity of them.
func OrderLeftToRight(cands []Candidate, arity int) ([]Candidate, error) {
	if len(cands) != arity {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDetectionCountMismatch, len(cands), arity)
	}
	out := append([]Candidate(nil), cands...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].X1 < out[j].X1 })
	return out, nil
}

// RunYOLO preprocesses mat, runs it and returns the raw output rows with
// the ratios needed to remap them.
func RunYOLO(runner Runner, mat gocv.Mat) ([][]float32, imaging.Ratios, error) {
	blob, ratios := imaging.PreprocessForYOLO(mat)
	defer blob.Close()

	out, err := runner.Run(blob)
	if err != nil {
		return nil, ratios, err
	}
	return out.Rows(), ratios, nil
}

// DetectObjects runs a bounding-box model and returns every box that clears
// floor, remapped to mat coordinates.
func DetectObjects(runner Runner, mat gocv.Mat, floor float32) ([]imaging.Rect, error) {
	rows, ratios, err := RunYOLO(runner, mat)
	if err != nil {
		return nil, err
	}
	cands := DecodeCandidates(rows, floor)
	boxes := make([]imaging.Rect, len(cands))
	for i, c := range cands {
		boxes[i] = Remap(c, ratios, mat.Cols(), mat.Rows())
	}
	return boxes, nil
}

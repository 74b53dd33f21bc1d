package facts

import (
	"errors"
	"testing"

	"github.com/ironsheep/game-vision/internal/calibration"
	"github.com/ironsheep/game-vision/internal/detection"
	"github.com/ironsheep/game-vision/internal/imaging"
	"github.com/ironsheep/game-vision/internal/ocr"
)

// patD: bright horizontal stripes with a mid square.
var patD = pattern{w: 12, h: 12, base: gray(60), cells: []patternCell{
	{imaging.NewRect(0, 0, 12, 4), gray(180)},
	{imaging.NewRect(0, 8, 12, 4), gray(180)},
	{imaging.NewRect(4, 4, 4, 4), gray(120)},
}}

// patE: bright frame around a dark core.
var patE = pattern{w: 12, h: 12, base: gray(180), cells: []patternCell{
	{imaging.NewRect(3, 3, 6, 6), gray(60)},
	{imaging.NewRect(0, 9, 6, 3), gray(120)},
}}

var healthTemplates = map[string]pattern{
	TemplateHPStart:      patA,
	TemplateHPEnd:        patB,
	TemplateHPSeparator1: patC,
	TemplateHPSeparator2: patD,
}

// createHealthFrame draws the end caps so the bar spans (112,300)-(300,312).
func createHealthFrame(t *testing.T) *imaging.Frame {
	t.Helper()
	frame := createFrame(t, 400, 360)
	draw(frame, patA, imaging.Pt(100, 300))
	draw(frame, patB, imaging.Pt(300, 300))
	return frame
}

var healthBar = imaging.NewRect(112, 300, 188, 12)

func TestHealthBar(t *testing.T) {
	reg := createRegistry(t, createAssetFS(t, healthTemplates), Options{})

	got, err := createDetector(t, reg, createHealthFrame(t)).HealthBar()
	if err != nil {
		t.Fatalf("HealthBar failed: %v", err)
	}
	if got != healthBar {
		t.Errorf("got %v, want %v", got, healthBar)
	}
}

func TestHealthBar_Errors(t *testing.T) {
	reg := createRegistry(t, createAssetFS(t, healthTemplates), Options{})

	t.Run("no caps", func(t *testing.T) {
		_, err := createDetector(t, reg, createFrame(t, 400, 360)).HealthBar()
		if !errors.Is(err, detection.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		frame := createFrame(t, 400, 360)
		draw(frame, patB, imaging.Pt(50, 300))
		draw(frame, patA, imaging.Pt(300, 300))
		_, err := createDetector(t, reg, frame).HealthBar()
		if !errors.Is(err, detection.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCurrentMaxHealthBars(t *testing.T) {
	tests := []struct {
		name     string
		shieldAt *imaging.Point
		wantX    int
	}{
		{"plain", nil, -1},
		{"with shield", &imaging.Point{X: 130, Y: 300}, 142},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			templates := map[string]pattern{TemplateHPShield: patE}
			for k, v := range healthTemplates {
				templates[k] = v
			}
			reg := createRegistry(t, createAssetFS(t, templates), Options{
				Runners: map[Model]detection.Runner{ModelText: textRunner(0.9)},
			})

			frame := createHealthFrame(t)
			draw(frame, patC, imaging.Pt(200, 300))
			if tt.shieldAt != nil {
				draw(frame, patE, *tt.shieldAt)
			}

			current, max, err := createDetector(t, reg, frame).CurrentMaxHealthBars(healthBar)
			if err != nil {
				t.Fatalf("CurrentMaxHealthBars failed: %v", err)
			}

			if current.X+current.Width != 201 {
				t.Errorf("current %v should end one pixel into the separator", current)
			}
			if current.X < healthBar.X {
				t.Errorf("current %v starts before the bar", current)
			}
			if tt.wantX >= 0 && current.X != tt.wantX {
				t.Errorf("current x: got %d, want %d", current.X, tt.wantX)
			}
			if current.Y > healthBar.Y || current.Y+current.Height < healthBar.Y+healthBar.Height-1 {
				t.Errorf("current %v should cover the bar height", current)
			}

			rightPart := imaging.NewRect(212, 300, 88, 12)
			if max.Empty() || !rightPart.Contains(max) {
				t.Errorf("max %v should be inside %v", max, rightPart)
			}
		})
	}
}

func TestCurrentMaxHealthBars_SwitchesSeparator(t *testing.T) {
	reg := createRegistry(t, createAssetFS(t, healthTemplates), Options{
		Runners: map[Model]detection.Runner{ModelText: textRunner(0.9)},
	})

	frame := createHealthFrame(t)
	draw(frame, patD, imaging.Pt(200, 300))
	d := createDetector(t, reg, frame)

	if _, _, err := d.CurrentMaxHealthBars(healthBar); !errors.Is(err, detection.ErrNotFound) {
		t.Fatalf("first separator should miss, got %v", err)
	}
	if reg.hpSeparator.Load() != calibration.VariantB {
		t.Fatal("miss should switch to the second separator")
	}
	if _, _, err := d.CurrentMaxHealthBars(healthBar); err != nil {
		t.Errorf("second separator should match, got %v", err)
	}
}

func TestCurrentMaxHealthBars_NoText(t *testing.T) {
	reg := createRegistry(t, createAssetFS(t, healthTemplates), Options{
		Runners: map[Model]detection.Runner{ModelText: textRunner(0)},
	})

	frame := createHealthFrame(t)
	draw(frame, patC, imaging.Pt(200, 300))
	_, _, err := createDetector(t, reg, frame).CurrentMaxHealthBars(healthBar)
	if !errors.Is(err, detection.ErrNoTextRegion) {
		t.Errorf("expected ErrNoTextRegion, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	current := imaging.NewRect(150, 300, 50, 12)
	max := imaging.NewRect(212, 300, 60, 12)

	tests := []struct {
		name    string
		reader  *fakeReader
		want    ocr.Health
		wantErr bool
	}{
		{"plain", &fakeReader{values: []uint32{750, 1000}}, ocr.Health{Current: 750, Max: 1000}, false},
		{"current clamped", &fakeReader{values: []uint32{1500, 1000}}, ocr.Health{Current: 1000, Max: 1000}, false},
		{"reader error", &fakeReader{err: errors.New("unreadable")}, ocr.Health{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := createRegistry(t, createAssetFS(t, nil), Options{Reader: tt.reader})
			got, err := createDetector(t, reg, createHealthFrame(t)).Health(current, max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if !tt.wantErr && tt.reader.calls != 2 {
				t.Errorf("reader calls: got %d, want 2", tt.reader.calls)
			}
		})
	}
}

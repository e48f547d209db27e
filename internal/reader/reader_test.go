package reader

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/segment-reader/internal/classifier"
	"github.com/ironsheep/segment-reader/internal/detection"
	"github.com/ironsheep/segment-reader/internal/imaging"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// glyphStrokes returns the seven segment strokes for a w x h digit cell.
func glyphStrokes(w, h int) map[classifier.Segment]image.Rectangle {
	return map[classifier.Segment]image.Rectangle{
		classifier.Top:         image.Rect(8, 4, w-8, 10),
		classifier.Middle:      image.Rect(8, h/2-3, w-8, h/2+3),
		classifier.Bottom:      image.Rect(8, h-10, w-8, h-4),
		classifier.TopLeft:     image.Rect(4, 8, 10, h/2-2),
		classifier.TopRight:    image.Rect(w-10, 8, w-4, h/2-2),
		classifier.BottomLeft:  image.Rect(4, h/2+2, 10, h-8),
		classifier.BottomRight: image.Rect(w-10, h/2+2, w-4, h-8),
	}
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

// renderDisplay draws digits into the slots of layout on a white canvas. A
// negative digit leaves its slot blank.
func renderDisplay(width, height int, layout Layout, digits ...int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, img.Bounds(), color.White)

	table := classifier.DigitPatterns()
	for i, d := range digits {
		if d < 0 {
			continue
		}
		v := table[d].Features
		cell := layout.Slots[i].Quad.Rect()
		for seg, r := range glyphStrokes(cell.Dx(), cell.Dy()) {
			if v.Get(seg) {
				fill(img, r.Add(cell.Min), color.Black)
			}
		}
	}
	return img
}

// smallLayout is three 60x120 slots with no gaps, one decimal place.
func smallLayout() Layout {
	slot := func(name string, x int) Slot {
		return Slot{Name: name, Quad: imaging.QuadFromRect(image.Rect(x, 10, x+60, 130))}
	}
	return Layout{
		Slots:         []Slot{slot("a", 10), slot("b", 70), slot("c", 130)},
		DecimalPlaces: 1,
		Unit:          "kg",
	}
}

func newTestReader(t *testing.T, layout Layout) (*Reader, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	r, err := New(classifier.NewAlgorithmModel(detection.DefaultOptions()), layout, log)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r, hook
}

func TestRead(t *testing.T) {
	layout := smallLayout()
	r, _ := newTestReader(t, layout)

	tests := []struct {
		digits []int
		want   string
	}{
		{[]int{1, 2, 3}, "12.3"},
		{[]int{0, 4, 7}, "04.7"},
		{[]int{9, 8, 5}, "98.5"},
		{[]int{6, 0, 0}, "60.0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			img := renderDisplay(200, 140, layout, tt.digits...)
			reading, err := r.Read(context.Background(), img)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if reading.String() != tt.want {
				t.Errorf("got %s, want %s", reading.String(), tt.want)
			}
		})
	}
}

func TestRead_DefaultLayout(t *testing.T) {
	layout := DefaultLayout()
	r, _ := newTestReader(t, layout)

	img := renderDisplay(1200, 700, layout, 7, 2, 5)
	reading, err := r.Read(context.Background(), img)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := reading.Format(); got != "Weight: 72.5 kg" {
		t.Errorf("Format: got %q, want %q", got, "Weight: 72.5 kg")
	}
	if reading.Value() != 72.5 {
		t.Errorf("Value: got %v, want 72.5", reading.Value())
	}
}

func TestRead_MismatchAbortsReading(t *testing.T) {
	layout := smallLayout()
	r, hook := newTestReader(t, layout)

	img := renderDisplay(200, 140, layout, 1, -1, 3)
	reading, err := r.Read(context.Background(), img)
	if reading != nil {
		t.Errorf("no partial reading should be returned, got %v", reading)
	}

	var slotErr *SlotError
	if !errors.As(err, &slotErr) {
		t.Fatalf("want *SlotError, got %v", err)
	}
	if slotErr.Index != 1 || slotErr.Name != "b" {
		t.Errorf("slot: got %d (%s), want 1 (b)", slotErr.Index, slotErr.Name)
	}
	if !errors.Is(err, classifier.ErrPredictionMismatch) {
		t.Error("slot error should wrap the prediction mismatch")
	}

	var mismatch *classifier.MismatchError
	if !errors.As(err, &mismatch) || mismatch.Features != (classifier.FeatureVector{}) {
		t.Errorf("blank slot should carry the all-false vector, got %v", err)
	}
	if slotErr.Stats == nil || slotErr.Stats.InkFraction != 0 {
		t.Errorf("blank slot stats: got %+v", slotErr.Stats)
	}

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["slot"] == 1 {
			warned = true
			if _, ok := e.Data["features"]; !ok {
				t.Error("mismatch log should include the feature vector")
			}
		}
	}
	if !warned {
		t.Error("mismatch should be logged at warn level")
	}
}

func TestRead_ReportsFirstFailingSlot(t *testing.T) {
	layout := smallLayout()
	r, _ := newTestReader(t, layout)

	img := renderDisplay(200, 140, layout, -1, 5, -1)
	for i := 0; i < 10; i++ {
		_, err := r.Read(context.Background(), img)
		var slotErr *SlotError
		if !errors.As(err, &slotErr) || slotErr.Index != 0 {
			t.Fatalf("run %d: want slot 0, got %v", i, err)
		}
	}
}

func TestRead_ReportsFirstFailingSlot_UnequalCost(t *testing.T) {
	// Slot 0 is a large perspective trim that takes far longer than the
	// small slot 1; both are blank and fail.
	layout := Layout{
		Slots: []Slot{
			{Name: "slow", Quad: imaging.Quadrilateral{
				TopLeft:     imaging.Pt(10, 10),
				TopRight:    imaging.Pt(400, 20),
				BottomRight: imaging.Pt(410, 400),
				BottomLeft:  imaging.Pt(0, 390),
			}},
			{Name: "fast", Quad: imaging.QuadFromRect(image.Rect(10, 10, 30, 50))},
		},
	}
	r, _ := newTestReader(t, layout)

	img := image.NewRGBA(image.Rect(0, 0, 420, 420))
	fill(img, img.Bounds(), color.White)

	if got := r.Labels(img); got[0] != "?" || got[1] != "?" {
		t.Fatalf("both slots should be unreadable, got %v", got)
	}

	for i := 0; i < 10; i++ {
		_, err := r.Read(context.Background(), img)
		var slotErr *SlotError
		if !errors.As(err, &slotErr) {
			t.Fatalf("run %d: want *SlotError, got %v", i, err)
		}
		if slotErr.Index != 0 || slotErr.Name != "slow" {
			t.Fatalf("run %d: want slot 0 (slow), got slot %d (%s)", i, slotErr.Index, slotErr.Name)
		}
	}
}

func TestRead_CanceledContext(t *testing.T) {
	layout := smallLayout()
	r, _ := newTestReader(t, layout)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Read(ctx, renderDisplay(200, 140, layout, 1, 2, 3))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	layout := smallLayout()
	r, _ := newTestReader(t, layout)

	path := filepath.Join(t.TempDir(), "display.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if err := png.Encode(f, renderDisplay(200, 140, layout, 3, 1, 8)); err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	f.Close()

	reading, err := r.ReadFile(context.Background(), imaging.NewImageCache(), path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if reading.String() != "31.8" {
		t.Errorf("got %s, want 31.8", reading.String())
	}

	if _, err := r.ReadFile(context.Background(), imaging.NewImageCache(), "/nonexistent.png"); err == nil {
		t.Error("ReadFile should fail for a missing file")
	}
}

func TestNew_InvalidLayout(t *testing.T) {
	model := classifier.NewAlgorithmModel(detection.DefaultOptions())
	if _, err := New(model, Layout{}, nil); err == nil {
		t.Error("New should reject an empty layout")
	}
}

func TestSlotError(t *testing.T) {
	inner := &classifier.MismatchError{}
	err := &SlotError{Index: 2, Name: "end", Err: inner}

	want := "slot 2 (end): " + inner.Error()
	if err.Error() != want {
		t.Errorf("Error(): got %q, want %q", err.Error(), want)
	}
	if errors.Unwrap(err) != inner {
		t.Error("Unwrap should return the wrapped error")
	}
}

func TestLabels(t *testing.T) {
	layout := smallLayout()
	r, _ := newTestReader(t, layout)

	img := renderDisplay(200, 140, layout, 5, -1, 2)
	got := r.Labels(img)
	want := []string{"5", "?", "2"}
	if len(got) != len(want) {
		t.Fatalf("labels: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

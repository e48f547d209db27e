package reader

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/segment-reader/internal/classifier"
	"github.com/ironsheep/segment-reader/internal/imaging"
	"github.com/ironsheep/segment-reader/internal/logger"
)

// SlotError reports a slot that could not be read. Err is either a trimming
// error or a *classifier.MismatchError, and Stats describes the lighting of
// the trimmed digit when one was produced.
type SlotError struct {
	Index int
	Name  string
	Stats *imaging.ColorStats
	Err   error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *SlotError) Unwrap() error {
	return e.Err
}

// Reader reads a multi-digit display out of photographs using a fixed layout.
// It is safe for concurrent use.
type Reader struct {
	model  *classifier.AlgorithmModel
	layout Layout
	log    *logrus.Entry
}

// New creates a Reader. A nil log uses the package logger.
func New(model *classifier.AlgorithmModel, layout Layout, log *logrus.Logger) (*Reader, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	if log == nil {
		log = logger.Logger
	}
	return &Reader{
		model:  model,
		layout: layout,
		log:    log.WithField("component", "reader"),
	}, nil
}

// Layout returns the reader's layout.
func (r *Reader) Layout() Layout {
	return r.layout
}

// Read trims every slot out of img and classifies the digits concurrently.
//
// A reading is all or nothing: if any slot fails, Read returns the
// lowest-indexed *SlotError and no digits.
func (r *Reader) Read(ctx context.Context, img image.Image) (*Reading, error) {
	slots := r.layout.Slots
	digits := make([]int, len(slots))
	slotErrs := make([]error, len(slots))

	// A plain group: every slot runs to completion so the lowest failing
	// index is known once Wait returns.
	var g errgroup.Group
	for i, slot := range slots {
		i, slot := i, slot
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			digit, err := r.readSlot(img, i, slot)
			if err != nil {
				slotErrs[i] = err
				return err
			}
			digits[i] = digit
			return nil
		})
	}
	waitErr := g.Wait()

	for _, err := range slotErrs {
		if err != nil {
			return nil, err
		}
	}
	if waitErr != nil {
		return nil, waitErr
	}

	reading := &Reading{
		Digits:        digits,
		DecimalPlaces: r.layout.DecimalPlaces,
		Unit:          r.layout.Unit,
		Label:         r.layout.Label,
	}
	r.log.WithField("reading", reading.String()).Debug("display read")
	return reading, nil
}

// ReadFile loads path through cache and reads it.
func (r *Reader) ReadFile(ctx context.Context, cache *imaging.ImageCache, path string) (*Reading, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return r.Read(ctx, img)
}

func (r *Reader) readSlot(img image.Image, i int, slot Slot) (int, error) {
	log := r.log.WithFields(logrus.Fields{"slot": i, "name": slot.Name})

	digitImg, err := imaging.Trim(img, slot.Quad)
	if err != nil {
		return 0, &SlotError{Index: i, Name: slot.Name, Err: err}
	}

	digit, err := r.model.Predict(digitImg)
	if err != nil {
		stats := imaging.RegionStats(digitImg)
		fields := logrus.Fields{
			"lightness":    stats.Lightness,
			"ink_fraction": stats.InkFraction,
		}
		var mismatch *classifier.MismatchError
		if errors.As(err, &mismatch) {
			fields["features"] = mismatch.Features.String()
		}
		log.WithFields(fields).Warn("digit did not match any pattern")
		return 0, &SlotError{Index: i, Name: slot.Name, Stats: &stats, Err: err}
	}

	log.WithField("digit", digit).Debug("slot classified")
	return digit, nil
}

// Labels classifies every slot independently and returns one label per slot:
// the digit, or "?" when the slot cannot be read. Unlike Read it never fails,
// which makes it suitable for annotating a photograph while a layout is being
// tuned.
func (r *Reader) Labels(img image.Image) []string {
	labels := make([]string, len(r.layout.Slots))
	for i, slot := range r.layout.Slots {
		digitImg, err := imaging.Trim(img, slot.Quad)
		if err != nil {
			labels[i] = "?"
			continue
		}
		digit, err := r.model.Predict(digitImg)
		if err != nil {
			labels[i] = "?"
			continue
		}
		labels[i] = strconv.Itoa(digit)
	}
	return labels
}

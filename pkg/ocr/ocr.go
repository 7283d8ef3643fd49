// Package ocr reads the transferred amount from a scanned or photographed
// deposit proof. The result is a suggestion shown next to the typed
// nominal; it never replaces it.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/logging"
)

var ErrNoAmount = errors.New("no amount detected")

// Reading is the amount picked from a proof.
type Reading struct {
	Amount     int64
	Confidence float64
	Raw        string
}

// Engine turns an image file into text. Whitelist limits the characters
// the engine may produce; empty means no limit.
type Engine interface {
	Text(path string, whitelist string, mode PageMode) (string, error)
}

type PageMode int

const (
	ModeAuto PageMode = iota
	ModeSingleBlock
	ModeSparse
)

const (
	amountChars = "0123456789RpIDRidri.,:()/- "
	digitChars  = "0123456789., "
)

// Reader runs several OCR passes over preprocessed variants of a proof and
// scores the amounts found in the combined text.
type Reader struct {
	Engine Engine
	Log    logging.Logger
	// MinConfidence drops readings below it. Zero keeps everything.
	MinConfidence float64
}

func NewReader(engine Engine, log logging.Logger) *Reader {
	if log == nil {
		log = logging.Discard()
	}
	return &Reader{Engine: engine, Log: log, MinConfidence: 0.15}
}

// ReadAmount returns ErrNoAmount when nothing plausible was found.
func (r *Reader) ReadAmount(ctx context.Context, path string) (Reading, error) {
	variants, cleanup, err := prepare(path)
	if err != nil {
		return Reading{}, fmt.Errorf("prepare %s: %w", path, err)
	}
	defer cleanup()

	var texts []string
	for _, v := range variants {
		if err := ctx.Err(); err != nil {
			return Reading{}, err
		}
		for _, pass := range v.passes {
			t, err := r.Engine.Text(v.path, pass.whitelist, pass.mode)
			if err != nil {
				r.Log.Debug(ctx, "ocr pass failed", "variant", v.name, "err", err)
				continue
			}
			texts = append(texts, normalize(t))
		}
	}
	all := strings.Join(texts, " ")
	reading, ok := pick(all)
	if !ok || reading.Confidence < r.MinConfidence {
		r.Log.Info(ctx, "no amount on proof", "path", path, "text", snippet(all, 140))
		return Reading{}, ErrNoAmount
	}
	r.Log.Info(ctx, "amount read from proof", "path", path, "amount", reading.Amount, "raw", reading.Raw, "confidence", reading.Confidence)
	return reading, nil
}

type pass struct {
	whitelist string
	mode      PageMode
}

type variant struct {
	name   string
	path   string
	passes []pass
}

// prepare writes the preprocessed variants to temp files. The original is
// always read as-is in sparse mode as the last resort.
func prepare(path string) ([]variant, func(), error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, func() {}, err
	}
	var tmp []string
	cleanup := func() {
		for _, p := range tmp {
			_ = os.Remove(p)
		}
	}

	base := enhance(img)
	var out []variant
	for _, v := range []struct {
		name   string
		passes []pass
		build  func() image.Image
	}{
		{"base", []pass{{amountChars, ModeAuto}, {digitChars, ModeAuto}}, func() image.Image { return base }},
		{"top", []pass{{amountChars, ModeSingleBlock}}, func() image.Image { return topHalf(base) }},
		{"inverted", []pass{{amountChars, ModeAuto}}, func() image.Image { return imaging.Invert(base) }},
		{"threshold", []pass{{amountChars, ModeSparse}}, func() image.Image { return dilate(adaptiveThreshold(base, 15, 7), 1) }},
	} {
		im := v.build()
		if im == nil {
			continue
		}
		f, err := os.CreateTemp("", "proof-"+v.name+"-*.png")
		if err != nil {
			continue
		}
		_ = f.Close()
		tmp = append(tmp, f.Name())
		if err := imaging.Save(im, f.Name()); err != nil {
			continue
		}
		out = append(out, variant{name: v.name, path: f.Name(), passes: v.passes})
	}
	out = append(out, variant{name: "original", path: path, passes: []pass{{"", ModeSparse}}})
	return out, cleanup, nil
}

func normalize(t string) string {
	return strings.Join(strings.Fields(t), " ")
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

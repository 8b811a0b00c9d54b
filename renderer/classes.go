package renderer

import (
	"fmt"
	"io"
	"math"

	"github.com/tsawler/weft/font"
	"github.com/tsawler/weft/model"
)

// ClassAllocator hands out small integer CSS class ids, one namespace
// per style slot. Ids must be stable and equality-preserving: equal
// values yield equal ids for the lifetime of the allocator.
type ClassAllocator interface {
	FontID(ref font.Ref) int64
	FontSizeID(size float64) int64
	FillColorID(c model.Color) int64
	StrokeColorID(c model.Color) int64
	LetterSpaceID(v float64) int64
	WordSpaceID(v float64) int64
	RiseID(v float64) int64
}

// Registry is the in-memory ClassAllocator. Scalar slots quantize by
// epsilon before keying so values that compare equal in the classifier
// land on the same id; every slot remembers insertion order so the
// stylesheet can be emitted after conversion.
type Registry struct {
	fontIDs  map[int64]int64
	fontRefs []font.Ref

	fontSizes    *scalarSlot
	letterSpaces *scalarSlot
	wordSpaces   *scalarSlot
	rises        *scalarSlot

	fillColors   *colorSlot
	strokeColors *colorSlot
}

// NewRegistry creates an empty registry. eps is the quantization step
// for scalar slots; pass the classifier's scalar epsilon.
func NewRegistry(eps float64) *Registry {
	return &Registry{
		fontIDs:      make(map[int64]int64),
		fontSizes:    newScalarSlot(eps),
		letterSpaces: newScalarSlot(eps),
		wordSpaces:   newScalarSlot(eps),
		rises:        newScalarSlot(eps),
		fillColors:   newColorSlot(),
		strokeColors: newColorSlot(),
	}
}

// FontID returns the class id for an installed font ref.
func (r *Registry) FontID(ref font.Ref) int64 {
	if id, ok := r.fontIDs[ref.ID]; ok {
		return id
	}
	id := int64(len(r.fontRefs))
	r.fontIDs[ref.ID] = id
	r.fontRefs = append(r.fontRefs, ref)
	return id
}

// FontSizeID returns the class id for a CSS font size.
func (r *Registry) FontSizeID(size float64) int64 {
	return r.fontSizes.id(size)
}

// FillColorID returns the class id for a fill color.
func (r *Registry) FillColorID(c model.Color) int64 {
	return r.fillColors.id(c)
}

// StrokeColorID returns the class id for a stroke color.
func (r *Registry) StrokeColorID(c model.Color) int64 {
	return r.strokeColors.id(c)
}

// LetterSpaceID returns the class id for a letter-spacing value.
func (r *Registry) LetterSpaceID(v float64) int64 {
	return r.letterSpaces.id(v)
}

// WordSpaceID returns the class id for a word-spacing value.
func (r *Registry) WordSpaceID(v float64) int64 {
	return r.wordSpaces.id(v)
}

// RiseID returns the class id for a text rise value.
func (r *Registry) RiseID(v float64) int64 {
	return r.rises.id(v)
}

// StylesheetTo writes one CSS rule per allocated class id.
func (r *Registry) StylesheetTo(w io.Writer) error {
	for i, ref := range r.fontRefs {
		if _, err := fmt.Fprintf(w, ".%s%d{font-family:f%d;}\n", slotClassPrefixes[SlotFont], i, ref.ID); err != nil {
			return err
		}
	}
	for i, v := range r.fontSizes.values {
		if _, err := fmt.Fprintf(w, ".%s%d{font-size:%.2fpx;}\n", slotClassPrefixes[SlotFontSize], i, v); err != nil {
			return err
		}
	}
	for i, c := range r.fillColors.values {
		if _, err := fmt.Fprintf(w, ".%s%d{color:%s;}\n", slotClassPrefixes[SlotFillColor], i, c.CSS()); err != nil {
			return err
		}
	}
	for i, c := range r.strokeColors.values {
		if _, err := fmt.Fprintf(w, ".%s%d{-webkit-text-stroke-color:%s;}\n", slotClassPrefixes[SlotStrokeColor], i, c.CSS()); err != nil {
			return err
		}
	}
	for i, v := range r.letterSpaces.values {
		if _, err := fmt.Fprintf(w, ".%s%d{letter-spacing:%.2fpx;}\n", slotClassPrefixes[SlotLetterSpace], i, v); err != nil {
			return err
		}
	}
	for i, v := range r.wordSpaces.values {
		if _, err := fmt.Fprintf(w, ".%s%d{word-spacing:%.2fpx;}\n", slotClassPrefixes[SlotWordSpace], i, v); err != nil {
			return err
		}
	}
	for i, v := range r.rises.values {
		if _, err := fmt.Fprintf(w, ".%s%d{vertical-align:%.2fpx;}\n", slotClassPrefixes[SlotRise], i, v); err != nil {
			return err
		}
	}
	return nil
}

// scalarSlot allocates ids for float values, quantized by epsilon
type scalarSlot struct {
	eps    float64
	ids    map[int64]int64
	values []float64
}

func newScalarSlot(eps float64) *scalarSlot {
	if eps <= 0 {
		eps = 1e-6
	}
	return &scalarSlot{
		eps: eps,
		ids: make(map[int64]int64),
	}
}

func (s *scalarSlot) id(v float64) int64 {
	key := int64(math.Round(v / s.eps))
	if id, ok := s.ids[key]; ok {
		return id
	}
	id := int64(len(s.values))
	s.ids[key] = id
	s.values = append(s.values, v)
	return id
}

// colorSlot allocates ids for colors, keyed by their CSS rendering
type colorSlot struct {
	ids    map[string]int64
	values []model.Color
}

func newColorSlot() *colorSlot {
	return &colorSlot{ids: make(map[string]int64)}
}

func (s *colorSlot) id(c model.Color) int64 {
	key := c.CSS()
	if id, ok := s.ids[key]; ok {
		return id
	}
	id := int64(len(s.values))
	s.ids[key] = id
	s.values = append(s.values, c)
	return id
}

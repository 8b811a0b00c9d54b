package renderer

import (
	"github.com/tsawler/weft/font"
	"github.com/tsawler/weft/model"
)

// Slot enumerates the style attributes that map 1:1 to CSS classes on
// an inline element. The order is the order class ids appear in
// buffered states and emitted class lists.
type Slot int

const (
	SlotFont Slot = iota
	SlotFontSize
	SlotFillColor
	SlotStrokeColor
	SlotLetterSpace
	SlotWordSpace
	SlotRise

	SlotCount
)

// slotClassPrefixes are the CSS class name prefixes, indexed by Slot.
var slotClassPrefixes = [SlotCount]string{"ff", "fs", "fc", "sc", "ls", "ws", "vs"}

func (s Slot) String() string {
	switch s {
	case SlotFont:
		return "font"
	case SlotFontSize:
		return "font-size"
	case SlotFillColor:
		return "fill-color"
	case SlotStrokeColor:
		return "stroke-color"
	case SlotLetterSpace:
		return "letter-space"
	case SlotWordSpace:
		return "word-space"
	case SlotRise:
		return "rise"
	default:
		return "unknown"
	}
}

// HTMLState is a snapshot of every style attribute the classifier maps
// to CSS. The spacing values are pre-multiplied by the draw text scale
// so they are in CSS units; X, Y, and Transform are set only when a new
// block is opened.
type HTMLState struct {
	Font        font.Ref
	FontSize    float64
	FillColor   model.Color
	StrokeColor model.Color
	LetterSpace float64
	WordSpace   float64
	Rise        float64

	// Block-boundary attributes
	X, Y      float64
	Transform model.Matrix
}

// umaskBySlot returns the umask bit marking a slot as meaningful.
func umaskBySlot(s Slot) int64 {
	return 1 << uint(s)
}

// allSlotsMask is the umask with every slot meaningful.
const allSlotsMask = int64(1<<SlotCount) - 1

// hashIDs computes the hash of a state's class ids restricted to the
// slots present in umask. FNV-1a over the slot index and id bytes.
func hashIDs(ids *[SlotCount]int64, umask int64) int64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)

	h := uint64(offset64)
	for i := Slot(0); i < SlotCount; i++ {
		if umask&umaskBySlot(i) == 0 {
			continue
		}
		h ^= uint64(i)
		h *= prime64
		v := uint64(ids[i])
		for b := 0; b < 8; b++ {
			h ^= v & 0xff
			h *= prime64
			v >>= 8
		}
	}
	return int64(h)
}

// diffSlots returns the set of slots (as a umask bitset) on which two
// states actually differ. Slots missing from either umask are treated
// as differing only if present in exactly one of them.
func diffSlots(a, b *State) int64 {
	var diff int64
	common := a.UMask & b.UMask
	for i := Slot(0); i < SlotCount; i++ {
		bit := umaskBySlot(i)
		if common&bit != 0 {
			if a.IDs[i] != b.IDs[i] {
				diff |= bit
			}
		} else if (a.UMask|b.UMask)&bit != 0 {
			diff |= bit
		}
	}
	return diff
}

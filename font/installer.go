package font

// Ref identifies an installed font: an opaque integer id plus the one
// property the renderer must know about, whether the font is Type 3.
// Two refs are the same font exactly when their IDs are equal.
type Ref struct {
	ID      int64
	IsType3 bool
}

// NullRef is the sentinel returned by Install(nil); it compares equal
// only to itself.
var NullRef = Ref{ID: 0}

// Installer assigns stable ids to fonts as they are first seen. The
// same *Font always yields the same Ref, so the ids are safe to use as
// CSS class keys across an entire document.
type Installer struct {
	refs map[*Font]Ref
	byID map[int64]*Font
	next int64
}

// NewInstaller creates an empty installer. Id 0 is reserved for the
// null font.
func NewInstaller() *Installer {
	return &Installer{
		refs: make(map[*Font]Ref),
		byID: make(map[int64]*Font),
		next: 1,
	}
}

// Install returns the Ref for a font, assigning a fresh id on first
// sight. Installing nil yields NullRef.
func (in *Installer) Install(f *Font) Ref {
	if f == nil {
		return NullRef
	}

	if ref, ok := in.refs[f]; ok {
		return ref
	}

	ref := Ref{ID: in.next, IsType3: f.IsType3()}
	in.next++
	in.refs[f] = ref
	in.byID[ref.ID] = f
	return ref
}

// Lookup returns the font behind a previously installed ref.
func (in *Installer) Lookup(ref Ref) (*Font, bool) {
	f, ok := in.byID[ref.ID]
	return f, ok
}

// SpaceWidth returns the space advance (in 1000ths of em) of an
// installed font. It reports false for the null font and for refs the
// installer has never seen.
func (in *Installer) SpaceWidth(ref Ref) (float64, bool) {
	f, ok := in.byID[ref.ID]
	if !ok {
		return 0, false
	}
	return f.SpaceWidth(), true
}

// Installed returns the number of fonts installed so far, not counting
// the null font.
func (in *Installer) Installed() int {
	return len(in.refs)
}

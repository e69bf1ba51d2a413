package hlslbuild

import (
	"errors"
	"fmt"
	"strconv"
)

// MaxInterpolatorWidth is the number of float channels of a hardware interpolator.
const MaxInterpolatorWidth = 4

// PackedSlot records where a packed field lives: channels [First, First+Width)
// of interpolator Interp.
type PackedSlot struct {
	Field  Field
	Interp int
	First  int
	Width  int
}

// Bin is one interpolator of a packed layout. Only fields with the same guard
// and interpolation mode share a bin.
type Bin struct {
	// Used is the number of channels occupied, which is also the declared width.
	Used            int
	Guard           string
	NoInterpolation bool
}

func (b Bin) accepts(f Field) bool {
	return b.Guard == f.Guard && b.NoInterpolation == f.NoInterpolation &&
		b.Used+f.Width <= MaxInterpolatorWidth
}

// PackedLayout is the interpolator allocation of a struct for a given set of
// active fields. It is derived data built by [NewPackedLayout].
type PackedLayout struct {
	Struct Struct
	// Slots holds one entry per packed field in declaration order.
	Slots []PackedSlot
	// Bins holds the interpolators in allocation order. Bin i is declared as interpNN : TEXCOORDi.
	Bins []Bin
	// Passthrough holds the active fields copied verbatim in declaration order:
	// fields with a hardware semantic, an explicit type or zero width.
	Passthrough []Field
}

// NewPackedLayout packs the active fields of s into interpolators with
// first-fit in declaration order. Fields bound to a hardware semantic or with
// an explicit type are never packed.
func NewPackedLayout(s Struct, active FieldSet) PackedLayout {
	l := PackedLayout{Struct: s}
	for _, f := range s.Fields {
		if !s.IsActive(f, active) {
			continue
		} else if !f.packable() {
			l.Passthrough = append(l.Passthrough, f)
			continue
		}
		idx := -1
		for i := range l.Bins {
			if l.Bins[i].accepts(f) {
				idx = i
				break
			}
		}
		if idx < 0 {
			l.Bins = append(l.Bins, Bin{Guard: f.Guard, NoInterpolation: f.NoInterpolation})
			idx = len(l.Bins) - 1
		}
		l.Slots = append(l.Slots, PackedSlot{
			Field:  f,
			Interp: idx,
			First:  l.Bins[idx].Used,
			Width:  f.Width,
		})
		l.Bins[idx].Used += f.Width
	}
	return l
}

// PackedName returns the name of the packed struct, i.e. "PackedVaryingsMeshToPS".
func (l *PackedLayout) PackedName() string { return "Packed" + l.Struct.Name }

// Interpolators returns the number of auto-packed interpolators.
func (l *PackedLayout) Interpolators() int { return len(l.Bins) }

// Registers returns the number of stage output registers the layout may
// occupy: the packed interpolators plus one per passthrough field.
func (l *PackedLayout) Registers() int { return len(l.Bins) + len(l.Passthrough) }

// Slot returns the packed slot of the field named name.
func (l *PackedLayout) Slot(name string) (PackedSlot, bool) {
	for _, slot := range l.Slots {
		if slot.Field.Name == name {
			return slot, true
		}
	}
	return PackedSlot{}, false
}

// Validate checks the layout invariants: channel ranges within a bin never
// overlap, every range fits in an interpolator, widths are preserved and no
// hardware semantic bound field was packed or collides with an interpolator semantic.
func (l *PackedLayout) Validate() error {
	var errs []error
	var masks []uint8
	used := make([]int, len(l.Bins))
	for _, slot := range l.Slots {
		f := slot.Field
		if !f.packable() {
			errs = append(errs, fmt.Errorf("field %s packed but is not packable", f.Name))
		}
		if slot.Width != f.Width {
			errs = append(errs, fmt.Errorf("field %s packed with width %d, declared %d", f.Name, slot.Width, f.Width))
		}
		if slot.Interp < 0 || slot.Interp >= len(l.Bins) {
			errs = append(errs, fmt.Errorf("field %s assigned to nonexistent interpolator %d", f.Name, slot.Interp))
			continue
		}
		if slot.First < 0 || slot.Width <= 0 || slot.First+slot.Width > MaxInterpolatorWidth {
			errs = append(errs, fmt.Errorf("field %s channel range [%d,%d) out of bounds", f.Name, slot.First, slot.First+slot.Width))
			continue
		}
		for len(masks) <= slot.Interp {
			masks = append(masks, 0)
		}
		mask := uint8((1<<slot.Width)-1) << slot.First
		if masks[slot.Interp]&mask != 0 {
			errs = append(errs, fmt.Errorf("field %s overlaps channels of interpolator %d", f.Name, slot.Interp))
		}
		masks[slot.Interp] |= mask
		used[slot.Interp] += slot.Width
		bin := l.Bins[slot.Interp]
		if bin.Guard != f.Guard || bin.NoInterpolation != f.NoInterpolation {
			errs = append(errs, fmt.Errorf("field %s shares interpolator %d of a different class", f.Name, slot.Interp))
		}
	}
	for i, bin := range l.Bins {
		if bin.Used != used[i] || bin.Used > MaxInterpolatorWidth {
			errs = append(errs, fmt.Errorf("interpolator %d declares %d channels, %d assigned", i, bin.Used, used[i]))
		}
	}
	for _, f := range l.Passthrough {
		for i := range l.Bins {
			if f.Semantic == texcoordSemantic(i) {
				errs = append(errs, fmt.Errorf("field %s semantic %s collides with interpolator %d", f.Name, f.Semantic, i))
			}
		}
	}
	return errors.Join(errs...)
}

func interpName(i int) string {
	if i < 10 {
		return "interp0" + strconv.Itoa(i)
	}
	return "interp" + strconv.Itoa(i)
}

func texcoordSemantic(i int) string { return "TEXCOORD" + strconv.Itoa(i) }

// AppendPackedStructDecl appends the declaration of the packed struct. Passthrough
// fields keep their declaration position; the interpolators are declared at
// the position of the first packed field.
//
//	struct Packed<Name> {
//		float4 positionCS : SV_Position;
//		float3 interp00 : TEXCOORD0;
//	};
func (l *PackedLayout) AppendPackedStructDecl(dst []byte) []byte {
	dst = append(dst, "struct "...)
	dst = append(dst, l.PackedName()...)
	dst = append(dst, " {\n"...)
	binsWritten := false
	pass := 0
	for _, f := range l.Struct.Fields {
		if pass < len(l.Passthrough) && l.Passthrough[pass].Name == f.Name {
			dst = appendFieldDecl(dst, f)
			pass++
			continue
		}
		if binsWritten {
			continue
		}
		if _, packed := l.Slot(f.Name); packed {
			dst = l.appendBinDecls(dst)
			binsWritten = true
		}
	}
	dst = append(dst, "};\n"...)
	return dst
}

func (l *PackedLayout) appendBinDecls(dst []byte) []byte {
	for i, bin := range l.Bins {
		dst = appendGuardOpen(dst, bin.Guard)
		dst = appendMemberDecl(dst, bin.NoInterpolation, TypeName(bin.Used), interpName(i), texcoordSemantic(i))
		dst = appendGuardClose(dst, bin.Guard)
	}
	return dst
}

// AppendPackFunc appends the function converting the unpacked struct to its packed form.
//
//	Packed<Name> Pack<Name>(<Name> input)
func (l *PackedLayout) AppendPackFunc(dst []byte) []byte {
	return l.appendConvertFunc(dst, true)
}

// AppendUnpackFunc appends the function converting the packed struct to its unpacked form.
//
//	<Name> Unpack<Name>(Packed<Name> input)
func (l *PackedLayout) AppendUnpackFunc(dst []byte) []byte {
	return l.appendConvertFunc(dst, false)
}

func (l *PackedLayout) appendConvertFunc(dst []byte, pack bool) []byte {
	from, to, fn := l.Struct.Name, l.PackedName(), "Pack"
	if !pack {
		from, to, fn = to, from, "Unpack"
	}
	dst = append(dst, to...)
	dst = append(dst, ' ')
	dst = append(dst, fn...)
	dst = append(dst, l.Struct.Name...)
	dst = append(dst, '(')
	dst = append(dst, from...)
	dst = append(dst, " input)\n{\n\t"...)
	dst = append(dst, to...)
	dst = append(dst, " output = ("...)
	dst = append(dst, to...)
	dst = append(dst, ")0;\n"...)
	pass := 0
	for _, f := range l.Struct.Fields {
		var unpacked, packed []byte
		if pass < len(l.Passthrough) && l.Passthrough[pass].Name == f.Name {
			pass++
			unpacked = append(unpacked, f.Name...)
			packed = unpacked
		} else if slot, ok := l.Slot(f.Name); ok {
			unpacked = append(unpacked, f.Name...)
			packed = append(packed, interpName(slot.Interp)...)
			packed = append(packed, '.')
			packed = AppendSwizzle(packed, slot.First, slot.Width)
		} else {
			continue
		}
		lhs, rhs := packed, unpacked
		if !pack {
			lhs, rhs = unpacked, packed
		}
		dst = appendGuardOpen(dst, f.Guard)
		dst = append(dst, "\toutput."...)
		dst = append(dst, lhs...)
		dst = append(dst, " = input."...)
		dst = append(dst, rhs...)
		dst = append(dst, ";\n"...)
		dst = appendGuardClose(dst, f.Guard)
	}
	dst = append(dst, "\treturn output;\n}\n"...)
	return dst
}

// Package mmio describes memory-mapped peripheral registers as capabilities.
//
// Register32 has the same method set as TinyGo's runtime/volatile.Register32,
// so on a device a *volatile.Register32 taken from a register map can be
// handed to any code in this module. On the host, Reg32 stands in for it.
package mmio

// Register32 is a 32-bit peripheral register.
type Register32 interface {
	Get() uint32
	Set(value uint32)
	SetBits(value uint32)
	ClearBits(value uint32)
	HasBits(value uint32) bool
	ReplaceBits(value uint32, mask uint32, pos uint8)
}

// Field is a bit field of Width bits starting at bit Shift.
type Field struct {
	Shift uint8
	Width uint8
}

// Mask returns the unshifted mask of the field.
func (f Field) Mask() uint32 {
	if f.Width >= 32 {
		return 0xFFFFFFFF
	}
	return (uint32(1) << f.Width) - 1
}

// Get extracts the field from r.
func (f Field) Get(r Register32) uint32 {
	return (r.Get() >> f.Shift) & f.Mask()
}

// Set replaces the field in r, leaving the other bits untouched.
func (f Field) Set(r Register32, value uint32) {
	r.ReplaceBits(value, f.Mask(), f.Shift)
}

// Bit returns the single-bit mask for bit n.
func Bit(n uint8) uint32 {
	return uint32(1) << n
}

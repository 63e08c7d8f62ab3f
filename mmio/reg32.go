package mmio

// Reg32 is a plain in-memory register for host builds and tests.
type Reg32 struct {
	Reg uint32
}

func (r *Reg32) Get() uint32 {
	return r.Reg
}

func (r *Reg32) Set(value uint32) {
	r.Reg = value
}

func (r *Reg32) SetBits(value uint32) {
	r.Reg |= value
}

func (r *Reg32) ClearBits(value uint32) {
	r.Reg &^= value
}

func (r *Reg32) HasBits(value uint32) bool {
	return r.Reg&value != 0
}

// ReplaceBits clears mask<<pos and sets value<<pos, like volatile.Register32.
func (r *Reg32) ReplaceBits(value uint32, mask uint32, pos uint8) {
	r.Reg = r.Reg&^(mask<<pos) | (value&mask)<<pos
}

// Func is a register whose reads and writes are handled by callbacks.
// Sim peripherals use it to model registers with side effects, such as a
// write-only trigger or a read that advances internal state.
type Func struct {
	Read  func() uint32
	Write func(uint32)
}

func (f Func) Get() uint32 {
	if f.Read == nil {
		return 0
	}
	return f.Read()
}

func (f Func) Set(value uint32) {
	if f.Write != nil {
		f.Write(value)
	}
}

func (f Func) SetBits(value uint32) {
	f.Set(f.Get() | value)
}

func (f Func) ClearBits(value uint32) {
	f.Set(f.Get() &^ value)
}

func (f Func) HasBits(value uint32) bool {
	return f.Get()&value != 0
}

func (f Func) ReplaceBits(value uint32, mask uint32, pos uint8) {
	f.Set(f.Get()&^(mask<<pos) | (value&mask)<<pos)
}

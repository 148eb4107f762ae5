package nes

// Interrupt is one of the three interrupt sources the CPU arbitrates.
type Interrupt byte

const (
	InterruptIrq   Interrupt = 0x01
	InterruptNmi   Interrupt = 0x02
	InterruptReset Interrupt = 0x04
)

// Interrupt vectors
const (
	nmiVectAddr   uint16 = 0xFFFA
	resetVectAddr uint16 = 0xFFFC
	irqVectAddr   uint16 = 0xFFFE
)

func (i Interrupt) String() string {
	switch i {
	case InterruptIrq:
		return "IRQ"
	case InterruptNmi:
		return "NMI"
	case InterruptReset:
		return "RESET"
	}
	return "none"
}

// InterruptLine records pending interrupt requests. It is shared between the
// CPU, which consumes requests, and whatever raises them (the PPU via the
// console, or the CPU itself on power-up).
//
// Masking is not applied here: a pending IRQ stays pending until the CPU is
// willing to service it.
type InterruptLine struct {
	pending Interrupt
}

// NewInterruptLine returns a line with RESET pending, as at power-on.
func NewInterruptLine() *InterruptLine {
	return &InterruptLine{pending: InterruptReset}
}

// Request marks the interrupt as pending.
func (l *InterruptLine) Request(i Interrupt) {
	l.pending |= i
}

// Pending reports whether the given interrupt is waiting to be serviced.
func (l *InterruptLine) Pending(i Interrupt) bool {
	return l.pending&i != 0
}

// NeedsHandle reports whether any interrupt is pending.
func (l *InterruptLine) NeedsHandle() bool {
	return l.pending != 0
}

// Handler selects the highest priority pending interrupt (RESET > NMI > IRQ),
// clears only that request and returns its vector address. The boolean is
// false when nothing is pending.
func (l *InterruptLine) Handler() (uint16, Interrupt, bool) {
	switch {
	case l.Pending(InterruptReset):
		l.pending &^= InterruptReset
		return resetVectAddr, InterruptReset, true
	case l.Pending(InterruptNmi):
		l.pending &^= InterruptNmi
		return nmiVectAddr, InterruptNmi, true
	case l.Pending(InterruptIrq):
		l.pending &^= InterruptIrq
		return irqVectAddr, InterruptIrq, true
	}
	return 0, 0, false
}

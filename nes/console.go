package nes

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// The PPU runs 3 times faster than the CPU (NTSC).
const ppuCyclesPerCpuCycle = 3

// Config holds the options a Console is built with.
type Config struct {
	// HardwareZeroPageWrap makes ZPX and ZPY wrap at 0x100 like the real
	// 6502. The default keeps the mod 0xFF arithmetic.
	HardwareZeroPageWrap bool

	// HardwareBranchTiming charges a taken branch the page cross cycle only
	// when the target is on another page. The default charges it whenever
	// the low byte of Pc changes.
	HardwareBranchTiming bool

	// Trace receives one line per executed instruction when set.
	Trace io.Writer
}

// Console wires the CPU, PPU and bus together and clocks them.
type Console struct {
	Cpu  *Cpu6502
	Ppu  *Ppu
	Bus  *Bus
	Cart *Cartridge

	irq *InterruptLine
}

// NewConsole builds a powered-on console with the cartridge inserted. The
// first clock services the RESET interrupt.
func NewConsole(cart *Cartridge, cfg Config) *Console {
	bus := NewBus()
	irq := NewInterruptLine()

	cpu := NewCpu6502(bus, irq)
	cpu.SetZeroPageWrap(cfg.HardwareZeroPageWrap)
	cpu.SetHardwareBranchTiming(cfg.HardwareBranchTiming)
	cpu.SetTrace(cfg.Trace)

	bus.ConnectClock(cpu)
	if cart != nil {
		bus.InsertCartridge(cart)
	}

	return &Console{
		Cpu:  cpu,
		Ppu:  NewPpu(bus),
		Bus:  bus,
		Cart: cart,
		irq:  irq,
	}
}

// Clock runs one CPU cycle followed by three PPU dots. An NMI edge raised by
// the PPU is requested on the interrupt line exactly once. It reports whether
// the CPU executed an instruction.
func (c *Console) Clock() (bool, error) {
	executed, err := c.Cpu.Step()
	if err != nil {
		return false, err
	}

	for i := 0; i < ppuCyclesPerCpuCycle; i++ {
		c.Ppu.Step()

		if c.Ppu.NeedsNmi() {
			c.Ppu.AcknowledgeNmi()
			c.irq.Request(InterruptNmi)
		}
	}

	return executed, nil
}

// StepInstruction clocks the console until the CPU executes an instruction.
func (c *Console) StepInstruction() error {
	for {
		executed, err := c.Clock()
		if err != nil {
			return err
		}
		if executed {
			return nil
		}
	}
}

// StepFrame clocks the console until the PPU completes the current frame.
func (c *Console) StepFrame() error {
	frame := c.Ppu.Frame()

	for c.Ppu.Frame() == frame {
		if _, err := c.Clock(); err != nil {
			return err
		}
	}

	return nil
}

// StartAt services the pending RESET and then moves Pc to pc, for programs
// such as nestest that are entered somewhere other than the reset vector.
func (c *Console) StartAt(pc uint16) error {
	for c.irq.Pending(InterruptReset) {
		if _, err := c.Clock(); err != nil {
			return err
		}
	}

	c.Cpu.Pc = pc
	return nil
}

// Reset the NES.
func (c *Console) Reset() {
	c.Cpu.Reset()
}

// Run emulates frames at the given rate until ctx is done or the CPU stops
// on an error. onFrame, if not nil, is called after every frame.
func (c *Console) Run(ctx context.Context, fps float64, onFrame func()) error {
	if fps <= 0 {
		return errors.Errorf("invalid frame rate %v", fps)
	}

	interval := time.Duration(float64(time.Second) / fps)
	glog.V(1).Infof("console: frame refresh time %v", interval)

	// Use a time ticker to keep frames rendered steadily at a set FPS.
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := c.StepFrame(); err != nil {
			return errors.Wrapf(err, "frame %d", c.Ppu.Frame())
		}

		if onFrame != nil {
			onFrame()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

package nes

import (
	"github.com/golang/glog"
)

const (
	// 1 frame = 262 scanlines
	// 1 scanline = 341 PPU clock cycles
	scanlinesPerFrame = 262
	dotsPerScanline   = 341

	lastVisibleScanline = 239
	postRenderScanline  = 240
	vblankScanline      = 241
	preRenderScanline   = 261
)

// Ppu keeps the PPU's place in the frame and drives the PPUSTATUS vblank bit
// and the NMI it raises. No pixels are produced.
//
// References:
// http://wiki.nesdev.com/w/index.php/PPU_registers
// https://wiki.nesdev.com/w/index.php/PPU_rendering
type Ppu struct {
	bus *Bus

	// Intertal PPU variables
	scanline int    // Scanline count in the current frame
	dot      int    // Cycle count in the current scanline
	oddFrame bool   // Odd frame
	frame    uint64 // Completed frames

	needsNmi bool // NMI edge not yet acknowledged
	nmiLevel bool // PPUCTRL NMI enable && vblank, as of the last dot
}

// NewPpu returns a PPU positioned at the start of the pre-render scanline.
func NewPpu(bus *Bus) *Ppu {
	return &Ppu{
		bus:      bus,
		scanline: preRenderScanline,
	}
}

// Step advances the PPU by one dot.
func (p *Ppu) Step() {
	// A PPUSTATUS read by the CPU clears vblank. It is applied here, once per
	// read.
	if p.bus.ConsumeStatusRead() && p.bus.PpuRegisterBit(PPUSTATUS, statusVBlank) {
		p.bus.SetPpuRegisterBit(PPUSTATUS, statusVBlank, false)
	}

	switch {
	case p.scanline <= lastVisibleScanline:
		// Visible scanlines, nothing is rendered.
	case p.scanline == postRenderScanline:
		// Idle.
	case p.scanline == vblankScanline:
		if p.dot == 0 {
			p.bus.SetPpuRegisterBit(PPUSTATUS, statusVBlank, true)
		}
	case p.scanline == preRenderScanline:
		if p.dot == 0 {
			p.bus.SetPpuRegisterBit(PPUSTATUS, statusVBlank|statusSprite0Hit|statusSpriteOverflow, false)
		}
	}

	p.dot++
	if p.dot >= dotsPerScanline {
		p.dot = 0
		p.scanline++

		if p.scanline >= scanlinesPerFrame {
			p.scanline = 0
			p.oddFrame = !p.oddFrame
			p.frame++

			if glog.V(2) {
				glog.Infof("ppu: frame %d", p.frame)
			}
		}
	}

	level := p.bus.PpuRegisterBit(PPUCTRL, ctrlNmi) &&
		p.bus.PpuRegisterBit(PPUSTATUS, statusVBlank)
	if level && !p.nmiLevel {
		p.needsNmi = true
	}
	p.nmiLevel = level
}

// NeedsNmi reports an NMI edge that has not been acknowledged.
func (p *Ppu) NeedsNmi() bool { return p.needsNmi }

// AcknowledgeNmi clears the NMI edge once it has been forwarded to the CPU.
func (p *Ppu) AcknowledgeNmi() { p.needsNmi = false }

func (p *Ppu) Scanline() int  { return p.scanline }
func (p *Ppu) Dot() int       { return p.dot }
func (p *Ppu) Frame() uint64  { return p.frame }
func (p *Ppu) OddFrame() bool { return p.oddFrame }

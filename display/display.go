package display

import (
	"fmt"
	"sort"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"
	"github.com/faiface/pixel/text"
	"github.com/golang/glog"
	"github.com/n-ulricksen/nes-core/nes"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	// Window settings
	screenW    float64 = 980
	screenH    float64 = 620
	screenPosX float64 = 600 // Where to render the display on the user's monitor.
	screenPosY float64 = 400

	margin float64 = 10

	// Instructions listed around Pc.
	disassemblyLines = 26
)

// Display is a debug window showing CPU, PPU and RAM state while the console
// runs. It has no picture: the PPU does not render.
type Display struct {
	console *nes.Console
	window  *pixelgl.Window
	atlas   *text.Atlas

	cpuText *text.Text
	ramText *text.Text
	asmText *text.Text

	keys   *keyState
	paused bool

	// Disassembly of the cartridge, keyed by address.
	asm   map[uint16]string
	addrs []uint16
}

// New opens the debug window. It must be called from the function passed to
// pixelgl.Run.
func New(console *nes.Console) (*Display, error) {
	config := pixelgl.WindowConfig{
		Title:    "NES Emulator",
		Bounds:   pixel.R(0, 0, screenW, screenH),
		Position: pixel.V(screenPosX, screenPosY),
		VSync:    true,
	}
	window, err := pixelgl.NewWindow(config)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create pixelgl window")
	}

	atlas := text.NewAtlas(basicfont.Face7x13, text.ASCII)
	top := screenH - margin - atlas.LineHeight()

	d := &Display{
		console: console,
		window:  window,
		atlas:   atlas,
		cpuText: text.New(pixel.V(margin, top), atlas),
		ramText: text.New(pixel.V(margin, top-190), atlas),
		asmText: text.New(pixel.V(screenW-300, top), atlas),
		keys:    newKeyState(),
	}

	d.asm = console.Cpu.Disassemble(0x8000, 0xFFFF)
	for addr := range d.asm {
		d.addrs = append(d.addrs, addr)
	}
	sort.Slice(d.addrs, func(i, j int) bool { return d.addrs[i] < d.addrs[j] })

	return d, nil
}

// Run emulates one frame per window refresh until the window is closed. A
// CPU error pauses emulation and stays on screen until reset. The CPU error,
// if any, is returned when the window closes.
func (d *Display) Run() error {
	for !d.window.Closed() {
		d.handleInput()

		if !d.paused {
			d.check(d.console.StepFrame())
		}

		d.draw()
	}

	return d.console.Cpu.Err()
}

func (d *Display) handleInput() {
	d.keys.update(d.window)

	switch {
	case d.keys.justPressed(keyPause):
		d.paused = !d.paused
	case d.keys.justPressed(keyReset):
		d.console.Reset()
	case d.paused && d.keys.justPressed(keyStepInstruction):
		d.check(d.console.StepInstruction())
	case d.paused && d.keys.justPressed(keyStepFrame):
		d.check(d.console.StepFrame())
	}
}

func (d *Display) check(err error) {
	if err == nil {
		return
	}
	glog.Errorf("display: %v", err)
	d.paused = true
}

func (d *Display) draw() {
	d.window.Clear(colornames.Black)

	d.cpuText.Clear()
	d.printDebugCpu(d.cpuText)
	d.cpuText.Draw(d.window, pixel.IM)

	d.ramText.Clear()
	d.printDebugMem(d.ramText)
	d.ramText.Draw(d.window, pixel.IM)

	d.asmText.Clear()
	d.printDisassembly(d.asmText)
	d.asmText.Draw(d.window, pixel.IM)

	d.window.Update()
}

func (d *Display) printDebugCpu(t *text.Text) {
	cpu := d.console.Cpu.Snapshot()
	ppu := d.console.Ppu

	t.Color = colornames.White
	fmt.Fprintf(t, "Flags: NV-BDIZC\n       %08b\n", cpu.Status)
	fmt.Fprintf(t, "PC: $%04X\n", cpu.Pc)
	fmt.Fprintf(t, "A: $%02X  X: $%02X  Y: $%02X\n", cpu.A, cpu.X, cpu.Y)
	fmt.Fprintf(t, "SP: $%02X\n\n", cpu.Sp)

	// Cycles
	fmt.Fprintf(t, "Cycle Count: %d\n", d.console.Cpu.TotalCycles())
	fmt.Fprintf(t, "Scanline: %3d  Dot: %3d\n", ppu.Scanline(), ppu.Dot())
	fmt.Fprintf(t, "Frame: %d\n", ppu.Frame())

	if d.paused {
		t.Color = colornames.Orange
		fmt.Fprintf(t, "\nPAUSED  [N] step  [F] frame\n")
	}
	if err := d.console.Cpu.Err(); err != nil {
		t.Color = colornames.Red
		fmt.Fprintf(t, "\n%v\n", err)
	}
}

func (d *Display) printDebugMem(t *text.Text) {
	// Print 16 bytes per line.
	ramRowLimit := 0x0010

	ram := d.console.Bus.Ram()

	// RAM: 0x0000-0x01FF, zero page and stack
	t.Color = colornames.Lightgray
	for i := 0x0000; i < 0x0200; i += ramRowLimit {
		fmt.Fprintf(t, "$%04X: % X\n", i, ram[i:i+ramRowLimit])
	}
}

// printDisassembly lists the instructions before and after Pc, highlighting
// the next one to execute.
func (d *Display) printDisassembly(t *text.Text) {
	pc := d.console.Cpu.Pc

	i := sort.Search(len(d.addrs), func(i int) bool { return d.addrs[i] >= pc })
	start := i - disassemblyLines/2
	if start < 0 {
		start = 0
	}

	for j := start; j < len(d.addrs) && j < start+disassemblyLines; j++ {
		if d.addrs[j] == pc {
			t.Color = colornames.Cyan
		} else {
			t.Color = colornames.White
		}
		fmt.Fprintln(t, d.asm[d.addrs[j]])
	}
}

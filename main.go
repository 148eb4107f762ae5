package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/faiface/pixel/pixelgl"
	"github.com/golang/glog"
	"github.com/n-ulricksen/nes-core/display"
	"github.com/n-ulricksen/nes-core/nes"
	"github.com/n-ulricksen/nes-core/statsview"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Command line flags
var (
	flagRom       string
	flagDebug     bool
	flagHeadless  bool
	flagFrames    int
	flagFps       float64
	flagTrace     string
	flagZpWrap    bool
	flagHwBranch  bool
	flagNestest   bool
	flagStatsview bool
)

// nestest entry point for automated runs, and where it leaves its result
// codes.
const (
	nestestEntry    uint16 = 0xC000
	nestestErrAddr1        = 0x02
	nestestErrAddr2        = 0x03
)

func main() {
	parseFlags()
	defer glog.Flush()

	if err := run(); err != nil {
		glog.Flush()
		fmt.Fprintf(os.Stderr, "nes: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() {
	flag.StringVar(&flagRom, "rom", "", "iNES cartridge to load")
	flag.BoolVar(&flagDebug, "d", false, "open the debug window")
	flag.BoolVar(&flagHeadless, "headless", false, "run without a window")
	flag.IntVar(&flagFrames, "frames", 60, "frames to run in headless mode")
	flag.Float64Var(&flagFps, "fps", 0, "headless frame rate, 0 runs unthrottled")
	flag.StringVar(&flagTrace, "trace", "", "write an instruction trace to this file")
	flag.BoolVar(&flagZpWrap, "zpwrap", false, "wrap zero page indexing at 0x100")
	flag.BoolVar(&flagHwBranch, "hwbranch", false, "charge the branch page cycle only on a real page cross")
	flag.BoolVar(&flagNestest, "nestest", false, "start at $C000 and check nestest result codes")
	flag.BoolVar(&flagStatsview, "statsview", false, "serve runtime statistics over HTTP")

	flag.Parse()
}

func run() error {
	if flagRom == "" {
		flag.Usage()
		return errors.New("no cartridge given")
	}

	if flagStatsview {
		stats := statsview.Start(statsview.DefaultAddr)
		defer stats.Stop()
		fmt.Printf("stats server available at %s\n", stats.URL)
	}

	cart, err := nes.OpenCartridge(flagRom)
	if err != nil {
		return err
	}
	glog.Infof("loaded %s: mapper %03d, %d PRG, %d CHR, %v mirroring",
		flagRom, cart.MapperID, cart.PrgBanks, cart.ChrBanks, cart.Mirror)

	cfg := nes.Config{
		HardwareZeroPageWrap: flagZpWrap,
		HardwareBranchTiming: flagHwBranch,
	}

	if flagTrace != "" {
		f, err := os.Create(flagTrace)
		if err != nil {
			return errors.Wrap(err, "trace")
		}
		defer f.Close()
		cfg.Trace = f
	}

	console := nes.NewConsole(cart, cfg)

	if flagNestest {
		if err := console.StartAt(nestestEntry); err != nil {
			return err
		}
	}

	if flagHeadless || !flagDebug {
		if err := runHeadless(console, os.Stdout); err != nil {
			return err
		}
		if flagNestest {
			return checkNestest(console)
		}
		return nil
	}

	var displayErr error
	pixelgl.Run(func() {
		d, err := display.New(console)
		if err != nil {
			displayErr = err
			return
		}
		displayErr = d.Run()
	})
	return displayErr
}

// runHeadless runs the requested number of frames, printing progress when
// stdout is a terminal.
func runHeadless(console *nes.Console, out io.Writer) error {
	defer nes.TimeTrack(time.Now())

	interactive := false
	if f, ok := out.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	frames := 0
	onFrame := func() {
		frames++
		if interactive {
			fmt.Fprintf(out, "\rframe %d/%d  cycles %d", frames, flagFrames, console.Cpu.TotalCycles())
		}
		if frames >= flagFrames {
			stop()
		}
	}

	var err error
	if flagFps > 0 {
		err = console.Run(ctx, flagFps, onFrame)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	} else {
		for frames < flagFrames && ctx.Err() == nil {
			if err = console.StepFrame(); err != nil {
				break
			}
			onFrame()
		}
	}

	if interactive {
		fmt.Fprintln(out)
	}
	return err
}

// checkNestest reports the result codes nestest leaves in RAM.
func checkNestest(console *nes.Console) error {
	ram := console.Bus.Ram()

	if ram[nestestErrAddr1] != 0x00 || ram[nestestErrAddr2] != 0x00 {
		return errors.Errorf("nestest error $%02X $%02X", ram[nestestErrAddr1], ram[nestestErrAddr2])
	}

	fmt.Println("nestest passed")
	return nil
}

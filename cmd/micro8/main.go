// Package main implements the micro8 command line runner. It loads a
// program image, executes it on the selected CPU variant and prints the
// final machine state.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/sarchlab/micro8/emu"
	"github.com/sarchlab/micro8/insts"
	"github.com/sarchlab/micro8/loader"
)

// consolePort is the output port wired to stdout, a convention for
// test programs that want to print.
const consolePort = 0x01

// Exit codes: 0 the program halted, 1 an error occurred, 2 the step
// budget ran out.
const (
	exitHalted = 0
	exitError  = 1
	exitBudget = 2
)

type options struct {
	variant  string
	origin   uint
	entry    int
	sp       uint
	maxSteps uint64
	debug    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.variant, "variant", "z80", "cpu variant: z80 or 8085")
	flag.UintVar(&opts.origin, "org", 0x0100, "load address for raw binary images")
	flag.IntVar(&opts.entry, "pc", -1, "entry point (default: image load address)")
	flag.UintVar(&opts.sp, "sp", 0xFFFE, "initial stack pointer")
	flag.Uint64Var(&opts.maxSteps, "max-steps", 10_000_000, "instruction budget before giving up")
	flag.BoolVar(&opts.debug, "v", false, "verbose logging")
	flag.Usage = usage
	flag.Parse()

	logger := createLogger(opts.debug)
	if flag.NArg() != 1 {
		usage()
		os.Exit(exitError)
	}

	os.Exit(run(logger, opts, flag.Arg(0)))
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: micro8 [options] <image.bin|image.hex>\n\n")
	fmt.Fprintf(os.Stderr, "Runs a Z80 or 8085 program until it halts.\n\n")
	flag.PrintDefaults()
}

func createLogger(debug bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	}
	return log.NewWithConfig(cfg)
}

func run(logger *log.Logger, opts options, path string) int {
	variant, err := parseVariant(opts.variant)
	if err != nil {
		logger.Error("Invalid variant", log.Err(err))
		return exitError
	}

	program, err := loadImage(path, uint16(opts.origin))
	if err != nil {
		logger.Error("Loading image failed", log.Err(err))
		return exitError
	}

	emulator := emu.NewEmulator(variant,
		emu.WithStackPointer(uint16(opts.sp)),
		emu.WithPortDevice(&emu.WriterDevice{Port: consolePort, W: os.Stdout}),
	)
	program.WriteTo(emulator.Memory())

	entry := program.Entry
	if opts.entry >= 0 {
		entry = uint16(opts.entry)
	}
	emulator.RegFile().PC = entry

	logger.Debug("Starting execution",
		log.String("variant", variant.String()),
		log.Uint16("pc", entry),
		log.Uint16("sp", uint16(opts.sp)))

	result := emulator.Run(opts.maxSteps)
	dumpState(logger, emulator, result)

	switch result.Outcome {
	case emu.OutcomeHalted:
		return exitHalted
	case emu.OutcomeBudgetExhausted:
		logger.Error("Step budget exhausted", log.Uint64("steps", result.Steps))
		return exitBudget
	default:
		logger.Error("Execution failed", log.Err(result.Err),
			log.Uint64("steps", result.Steps))
		return exitError
	}
}

func parseVariant(name string) (insts.Variant, error) {
	switch strings.ToLower(name) {
	case "z80":
		return insts.VariantZ80, nil
	case "8085", "i8085":
		return insts.VariantI8085, nil
	}
	return 0, fmt.Errorf("unknown variant %q, expected z80 or 8085", name)
}

// loadImage picks the loader by file extension: .hex is Intel HEX,
// anything else a raw binary placed at origin.
func loadImage(path string, origin uint16) (*loader.Program, error) {
	if strings.HasSuffix(strings.ToLower(path), ".hex") {
		return loader.LoadHex(path)
	}
	return loader.LoadBinary(path, origin)
}

func dumpState(logger *log.Logger, e *emu.Emulator, result emu.RunResult) {
	rf := e.RegFile()
	logger.Info("Execution finished",
		log.String("outcome", result.Outcome.String()),
		log.Uint64("steps", result.Steps))
	logger.Info("Registers",
		log.String("af", fmt.Sprintf("0x%04X", rf.Read16(insts.PairAF))),
		log.String("bc", fmt.Sprintf("0x%04X", rf.Read16(insts.PairBC))),
		log.String("de", fmt.Sprintf("0x%04X", rf.Read16(insts.PairDE))),
		log.String("hl", fmt.Sprintf("0x%04X", rf.Read16(insts.PairHL))),
		log.String("sp", fmt.Sprintf("0x%04X", rf.SP)),
		log.String("pc", fmt.Sprintf("0x%04X", rf.PC)))
	if e.Variant() == insts.VariantZ80 {
		logger.Info("Index registers",
			log.String("ix", fmt.Sprintf("0x%04X", rf.IX)),
			log.String("iy", fmt.Sprintf("0x%04X", rf.IY)))
	}
}

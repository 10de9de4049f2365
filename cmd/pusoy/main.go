package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/lox/pusoy/internal/fileutil"
	"github.com/lox/pusoy/variant"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Variant      string `short:"V" default:"thirteen" env:"PUSOY_VARIANT" help:"Variant to play"`
	VariantsFile string `name:"variants-file" default:"variants.hcl" env:"PUSOY_VARIANTS_FILE" type:"path" help:"HCL file with extra variants, ignored when missing"`
	Verbose      bool   `short:"v" help:"Enable debug logging"`
	Out          string `short:"o" type:"path" help:"Also write the result as JSON to this file"`

	stdout io.Writer   `kong:"-"`
	stderr io.Writer   `kong:"-"`
	log    *log.Logger `kong:"-"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `help:"Show version"`
	Eval     EvalCmd          `cmd:"" help:"Classify and compare hands"`
	Solve    SolveCmd         `cmd:"" help:"Find the strongest legal arrangement of a hand"`
	Check    CheckCmd         `cmd:"" help:"Check an arrangement for a foul"`
	Special  SpecialCmd       `cmd:"" help:"Detect a special hand"`
	Deal     DealCmd          `cmd:"" help:"Deal, auto-arrange and score a round"`
	Simulate SimulateCmd      `cmd:"" help:"Play many seeded rounds and summarise the results"`
	Variants VariantsCmd      `cmd:"" help:"List the available variants"`
}

func main() {
	// A missing .env is fine; flags and the real environment still apply.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pusoy"),
		kong.Description("Chinese poker arrangement, validation and scoring"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	cli.stdout, cli.stderr = os.Stdout, os.Stderr
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

func (g *Globals) logger() *log.Logger {
	if g.log != nil {
		return g.log
	}
	level := log.WarnLevel
	if g.Verbose {
		level = log.DebugLevel
	}
	g.log = log.NewWithOptions(g.stderr, log.Options{
		Level:           level,
		ReportTimestamp: g.Verbose,
	})
	return g.log
}

func (g *Globals) registry() (*variant.Registry, error) {
	r := variant.NewRegistry()
	if err := r.LoadFile(g.VariantsFile); err != nil {
		return nil, err
	}
	return r, nil
}

func (g *Globals) variant() (*variant.Variant, error) {
	r, err := g.registry()
	if err != nil {
		return nil, err
	}
	return r.Get(g.Variant)
}

// writeOut saves v as JSON when --out was given.
func (g *Globals) writeOut(v any) error {
	if g.Out == "" {
		return nil
	}
	if err := fileutil.WriteJSONAtomic(g.Out, v); err != nil {
		return err
	}
	g.logger().Debug("Wrote result", "path", g.Out)
	return nil
}

func (g *Globals) printf(format string, args ...any) {
	fmt.Fprintf(g.stdout, format, args...)
}

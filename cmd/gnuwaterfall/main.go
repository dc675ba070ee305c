package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/chzchzchz/gnuwaterfall/gnuwaterfall"
	"github.com/chzchzchz/gnuwaterfall/radio"
)

const usage = `use: gnuwaterfall <start> <stop>
    frequencies in hertz
    example: gnuwaterfall 80e6 100e6
    arrow keys pan and zoom, esc to quit
`

var errUsage = errors.New("usage")

var (
	cfgPath   string
	device    string
	history   time.Duration
	tickRate  float64
	async     bool
	winWidth  int
	winHeight int
)

var rootCmd = &cobra.Command{
	Use:           "gnuwaterfall <start> <stop>",
	Short:         "Live waterfall of radio power over a swept frequency range",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return errUsage
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error { return runWaterfall(cmd, args) },
}

func init() {
	// SDL calls must stay on the main thread.
	runtime.LockOSThread()

	rootCmd.Flags().StringVar(&cfgPath, "config", "", "YAML config file")
	rootCmd.Flags().StringVarP(&device, "device", "d", "", "demo, tcp://host:port or sdr://host:port/serial")
	rootCmd.Flags().DurationVar(&history, "history", 0, "How much time the waterfall shows")
	rootCmd.Flags().Float64VarP(&tickRate, "rate", "r", 0, "Sweeps per second")
	rootCmd.Flags().BoolVar(&async, "async", false, "Sweep in the background")
	rootCmd.Flags().IntVarP(&winWidth, "width", "w", 0, "Window width")
	rootCmd.Flags().IntVar(&winHeight, "height", 0, "Window height")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.SetUsageTemplate(usage)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})
}

func parseRange(args []string) (float64, float64, error) {
	lower, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad start %q", errUsage, args[0])
	}
	upper, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad stop %q", errUsage, args[1])
	}
	if _, err := radio.NewFrequencyRange(lower, upper); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", errUsage, err)
	}
	return lower, upper, nil
}

// loadConfig applies flags given on the command line over the config file.
func loadConfig(cmd *cobra.Command) (gnuwaterfall.Config, error) {
	cfg, err := gnuwaterfall.LoadConfig(cfgPath)
	if err != nil {
		return cfg, err
	}
	f := cmd.Flags()
	if f.Changed("device") {
		cfg.Device = device
	}
	if f.Changed("history") {
		cfg.History = gnuwaterfall.Duration(history)
	}
	if f.Changed("rate") {
		cfg.TickRate = tickRate
	}
	if f.Changed("async") {
		cfg.Async = async
	}
	if f.Changed("width") {
		cfg.Width = winWidth
	}
	if f.Changed("height") {
		cfg.Height = winHeight
	}
	return cfg, cfg.Validate()
}

func runWaterfall(cmd *cobra.Command, args []string) error {
	// Marks the go flags as parsed for glog; cobra already parsed them.
	flag.CommandLine.Parse(nil)

	lower, upper, err := parseRange(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dev, err := gnuwaterfall.OpenDevice(ctx, cfg)
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := sdl.Init(sdl.INIT_TIMER | sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return err
	}
	defer sdl.Quit()

	ww, err := newWaterfallWindow("gnuwaterfall", cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer ww.Close()

	wf, err := gnuwaterfall.New(cfg, dev, ww.sr, lower, upper)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	defer wf.Close()
	wf.Start(ctx)

	glog.Infof("sweeping %v at %g Hz with %v of history", wf.Bounds(), cfg.TickRate, cfg.History)
	return ww.Run(wf, cfg.TickInterval())
}

func main() {
	err := rootCmd.Execute()
	switch {
	case errors.Is(err, errUsage):
		if err != errUsage {
			fmt.Fprintln(os.Stderr, err)
		}
		fmt.Fprint(os.Stderr, usage)
		glog.Flush()
		os.Exit(2)
	case err != nil:
		glog.Errorf("gnuwaterfall: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Flush()
}

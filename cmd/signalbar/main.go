package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/ScoopDroid/signalbar/mobile"
)

const (
	configKey  = "config"
	facadesKey = "facades"
	itersKey   = "iters"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	cmd := &cli.Command{
		Name:  "signalbar",
		Usage: "Reactive mobile connectivity indicator engine",
		Commands: []*cli.Command{
			{
				Name:  "demo",
				Usage: "Run a scripted connectivity scenario and dump the transition log",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  configKey,
						Usage: "Path to a TOML platform config",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return demo(log, cmd.String(configKey))
				},
			},
			{
				Name:  "bench",
				Usage: "Measure propagation latency through the derivation graph",
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:  facadesKey,
						Usage: "Number of concurrent identities",
						Value: 8,
					},
					&cli.UintFlag{
						Name:  itersKey,
						Usage: "Signal updates per identity",
						Value: 1000,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return bench(log, int(cmd.Uint(facadesKey)), int(cmd.Uint(itersKey)))
				},
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("signalbar failed")
	}
}

func demo(log zerolog.Logger, configPath string) error {
	cfg := mobile.DefaultConfig()
	if configPath != "" {
		loaded, err := mobile.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	rec := mobile.NewTableRecorder(mobile.DefaultRecorderSize)
	reg := mobile.NewRegistry(cfg,
		mobile.WithLogger(log),
		mobile.WithRegistryRecorder(rec),
	)
	e := reg.Track(1)
	vm, src := e.VM, e.Sources

	emissions := 0
	count := func() func(bool) {
		return func(bool) { emissions++ }
	}
	vm.Visible.Subscribe(count())
	vm.ShowNetworkTypeIcon.Subscribe(count())
	vm.Roaming.Subscribe(count())
	vm.ShowHd.Subscribe(count())
	vm.VoWifiEligible.Subscribe(count())
	var lastIcon mobile.TypeIcon
	vm.NetworkTypeIcon.Subscribe(func(ti mobile.TypeIcon) {
		emissions++
		lastIcon = ti
	})

	// Boot in airplane mode, then come back onto an LTE network with a
	// carrier that prefers the 4G branding.
	src.Airplane.Set(true)
	src.Airplane.Set(false)
	src.DataEnabled.Set(true)
	src.DataConnected.Set(true)
	src.MobileIsDefault.Set(true)
	src.Level.Set(3)
	src.NetworkType.Set(mobile.TypeIcon{Icon: mobile.IconLTE, Desc: mobile.DescLTE})
	src.Prefer4G.Set(true)

	// A roaming blip and some data activity.
	src.Roaming.Set(true)
	src.Activity.Set(mobile.Activity{Known: true, In: true})
	src.Activity.Set(mobile.Activity{Known: true, In: true, Out: true})
	src.Activity.Set(mobile.Activity{})
	src.Roaming.Set(false)

	// HD call upgraded to VoWiFi: the HD indicator must yield.
	src.Hd.Set(true)
	src.VoWifi.Set(true)
	src.VoWifi.Set(false)

	rec.Dump(os.Stdout)

	summary := tablewriter.NewWriter(os.Stdout)
	summary.SetHeader([]string{"output", "value"})
	summary.Append([]string{"visible", fmt.Sprint(vm.Visible.Value())})
	summary.Append([]string{"networkTypeIcon", fmt.Sprintf("icon=%d desc=%d", lastIcon.Icon, lastIcon.Desc)})
	summary.Append([]string{"roaming", fmt.Sprint(vm.Roaming.Value())})
	summary.Append([]string{"showHd", fmt.Sprint(vm.ShowHd.Value())})
	summary.Append([]string{"vowifiEligible", fmt.Sprint(vm.VoWifiEligible.Value())})
	summary.Render()

	log.Info().
		Str("emissions", humanize.Comma(int64(emissions))).
		Str("transitions", humanize.Comma(int64(rec.Len()))).
		Msg("scenario complete")

	reg.Forget(1)
	return nil
}

func bench(log zerolog.Logger, facades, iters int) error {
	log.Info().Int("facades", facades).Int("iters", iters).Msg("warming up")

	tbl := table.NewWriter()
	tbl.SetTitle("Signalbar Propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	reg := mobile.NewRegistry(mobile.DefaultConfig())
	entries := make([]*mobile.Entry, facades)
	for i := range entries {
		e := reg.Track(mobile.Identity(i))
		e.VM.Visible.Subscribe(func(bool) {})
		e.VM.ContentDescription.Subscribe(func(mobile.DescID) {})
		e.VM.ShowNetworkTypeIcon.Subscribe(func(bool) {})
		e.VM.ShowHd.Subscribe(func(bool) {})
		entries[i] = e
	}

	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for i := 0; i < iters; i++ {
		start := time.Now()
		for _, e := range entries {
			e.Sources.Level.Set(i % 5)
			e.Sources.Airplane.Set(i%2 == 0)
			e.Sources.Hd.Set(i%3 == 0)
		}
		tach.AddTime(time.Since(start))
	}

	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			fmt.Sprintf("propagate: %d facades", facades),
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
	tbl.Render()

	for i := range entries {
		reg.Forget(mobile.Identity(i))
	}
	return nil
}

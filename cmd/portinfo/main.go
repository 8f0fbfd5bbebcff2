// Command portinfo prints the port layout of a module under a host profile.
//
// Usage:
//
//	portinfo [flags] [module-name ...]
//
// Without arguments it prints every registered module.
//
// Examples:
//
//	portinfo chordvox
//	portinfo -profile rack mirror
//	portinfo -config patchbox.toml -cbor chordvox > chordvox.cbor
//	portinfo -list
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/tliron/commonlog"

	"github.com/cwbudde/algo-modular/config"
	"github.com/cwbudde/algo-modular/dsp/engine"
	"github.com/cwbudde/algo-modular/host/binding"
	"github.com/cwbudde/algo-modular/internal/modules"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	profileName := flag.String("profile", "seed", "built-in host profile ("+fmt.Sprint(config.Names())+")")
	configPath := flag.String("config", "", "TOML profile file (overrides -profile)")
	list := flag.Bool("list", false, "list available module names")
	asCBOR := flag.Bool("cbor", false, "write the layout of a single module as CBOR to stdout")
	verbose := flag.Int("v", 0, "log verbosity")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: portinfo [flags] [module-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the port layout, capacity usage and pin map of modules.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints every registered module.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	commonlog.Configure(*verbose, nil)

	reg := modules.Default()
	if *list {
		for _, name := range reg.Names() {
			d, _ := reg.Lookup(name)
			fmt.Printf("%-10s %s\n", name, d.Summary)
		}
		return
	}

	profile, err := loadProfile(*profileName, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	opts, err := profile.EngineOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	names := flag.Args()
	if len(names) == 0 {
		names = reg.Names()
	}
	if *asCBOR && len(names) != 1 {
		fmt.Fprintf(os.Stderr, "error: -cbor needs exactly one module\n")
		os.Exit(2)
	}

	failed := false
	for i, name := range names {
		e, err := reg.Build(name, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			failed = true
			continue
		}
		layout := binding.NewLayout(e)
		if *asCBOR {
			data, err := binding.MarshalLayout(layout)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			os.Stdout.Write(data)
			return
		}
		if i > 0 {
			fmt.Println()
		}
		printModule(name, profile, e, layout)
	}
	if failed {
		os.Exit(1)
	}
}

func loadProfile(name, path string) (*config.Profile, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Builtin(name)
}

func printModule(name string, profile *config.Profile, e *engine.Engine, layout *binding.Layout) {
	fmt.Printf("=== %s (%s profile, %s host) ===\n", name, profile.Name, profile.Host)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "GROUP\tINDEX\tID\tCLASS\tSOURCE\n")
	for _, entry := range layout.Entries() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			entry.Group, entry.Index, entry.ID,
			engine.Class{Kind: entry.Kind, Direction: entry.Direction}, entry.Source)
	}
	tw.Flush()

	fmt.Printf("\ncounts: %s\n", e.Counts())
	tw = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "LIMIT\tUSED\tMAX\n")
	for _, l := range e.Limits() {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", l.Name, e.Counts().Sum(l.Classes...), l.Max)
	}
	tw.Flush()

	if profile.Host != config.HostSeed {
		return
	}
	pins, err := binding.SeedPins(layout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: pins: %v\n", err)
		return
	}
	fmt.Println()
	tw = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "PIN\tPORT\n")
	for _, p := range pins {
		fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.PortID)
	}
	tw.Flush()
}

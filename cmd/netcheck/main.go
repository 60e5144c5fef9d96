// Command netcheck parses a definition file, validates it and reports the
// phase graphs with inferred shapes and parameter counts.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/netdef"
	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/prototxt"
)

func main() {
	window := flag.String("window", "1x61x61", "input window as CxHxW")
	phase := flag.String("phase", "", "report a single phase (TRAIN or TEST)")
	asJSON := flag.Bool("json", false, "report in json format")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: netcheck [opts] <model.prototxt>")
		os.Exit(1)
	}
	dims, err := parseWindow(*window)
	netdef.CheckErr(err)

	net, err := prototxt.ReadNetFile(flag.Arg(0))
	netdef.CheckErr(err)
	netdef.CheckErr(net.Validate())

	phases := netdef.Phases
	if *phase != "" {
		p, err := parsePhase(*phase)
		netdef.CheckErr(err)
		phases = []netdef.Phase{p}
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		netdef.CheckErr(enc.Encode(net))
		return
	}
	fmt.Println(net)
	for _, p := range phases {
		info, err := net.Infer(p, dims)
		netdef.CheckErr(err)
		report(net, p, info)
	}
}

func report(net *netdef.NetDef, phase netdef.Phase, info []netdef.LayerInfo) {
	fmt.Printf("== %s graph (batch %d) ==\n", phase, net.BatchSize(phase))
	total := 0
	for i, li := range info {
		desc := fmt.Sprintf("%2d: %-10s %-14s => %-10s", i, li.Layer.Name, li.Layer.Type, li.Out)
		if li.Params() > 0 {
			desc += fmt.Sprintf(" params %d", li.Params())
		}
		fmt.Println(desc)
		total += li.Params()
	}
	fmt.Println("total params:", total)
}

func parsePhase(s string) (netdef.Phase, error) {
	p := netdef.Phase(s)
	for _, q := range netdef.Phases {
		if p == q {
			return p, nil
		}
	}
	return p, fmt.Errorf("invalid phase %q: expect TRAIN or TEST", s)
}

func parseWindow(s string) (d netdef.Dims, err error) {
	part := strings.Split(s, "x")
	if len(part) != 3 {
		return d, fmt.Errorf("invalid window %q: expect CxHxW", s)
	}
	val := make([]int, 3)
	for i, p := range part {
		if val[i], err = strconv.Atoi(p); err != nil {
			return d, fmt.Errorf("invalid window %q: expect CxHxW", s)
		}
	}
	return netdef.Dims{Channels: val[0], Height: val[1], Width: val[2]}, nil
}

// Command mkmodel writes the canonical microarray segmenter definition and
// its solver settings in text format.
package main

import (
	"flag"
	"fmt"
	"path"

	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/netdef"
	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/prototxt"
)

func main() {
	dir := flag.String("dir", ".", "output directory")
	name := flag.String("name", "microseg", "base file name")
	flag.Parse()

	net := netdef.SegmenterNet()
	solver := netdef.SegmenterSolver()
	netdef.CheckErr(net.Validate())
	netdef.CheckErr(solver.Validate())
	fmt.Println(net)
	fmt.Println(solver)

	netFile := path.Join(*dir, *name+".prototxt")
	solverFile := path.Join(*dir, *name+"_solver.prototxt")
	netdef.CheckErr(prototxt.WriteNetFile(netFile, net))
	netdef.CheckErr(prototxt.WriteSolverFile(solverFile, solver))

	// json copy for tools which do not read the text format
	netdef.DataDir = *dir
	netdef.CheckErr(net.Save(*name + ".net"))
	fmt.Println("saved", netFile, "and", solverFile)
}

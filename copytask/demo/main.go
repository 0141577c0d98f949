// Command demo scripts the memory module through a write/read round trip
// on synthetic copy data and serves heatmaps of the weightings, usage and
// memory contents per step. No training is involved: the interface vectors
// are built by hand with hard gates.
package main

import (
	"flag"
	"html/template"
	"log"
	"math/rand"
	"net/http"

	"dnc"
	"dnc/copytask"
)

var (
	addr    = flag.String("addr", ":9000", "listen address")
	seqLen  = flag.Int("seqlen", 8, "number of vectors to write and recall")
	numSlot = flag.Int("n", 16, "memory slots")
	width   = flag.Int("w", 8, "slot width")
	seed    = flag.Int64("seed", 5, "random seed")
)

type Step struct {
	Phase       string
	Target      []float64
	Read        []float64
	ReadWeights []float64
	Usage       []float64
	Memory      [][]float64
}

func main() {
	flag.Parse()
	rand.Seed(*seed)

	m, err := dnc.New(dnc.Config{N: *numSlot, W: *width, ReadHeads: 1, WriteHeads: 1})
	if err != nil {
		log.Fatalf("%v", err)
	}
	seq := copytask.GenSeq(*seqLen, *width)
	state := m.NewState()

	steps := make([]Step, 0, 2*len(seq))
	for _, v := range seq {
		r, err := m.Step(state, writeIfc(v, *width))
		if err != nil {
			log.Fatalf("%v", err)
		}
		steps = append(steps, snapshot(m, state, "write", v, r))
	}
	for t := range seq {
		r, err := m.Step(state, recallIfc(seq[0], *width, t == 0))
		if err != nil {
			log.Fatalf("%v", err)
		}
		steps = append(steps, snapshot(m, state, "recall", seq[t], r))
	}

	for i, s := range steps {
		log.Printf("step %d (%s): target %v, read %v", i, s.Phase, s.Target, s.Read)
	}

	http.HandleFunc("/", root(steps))
	log.Printf("listening on %s", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Printf("%v", err)
	}
}

// writeIfc writes v into the next free slot: allocation and write gates
// hard at 1, erase all ones, content key unused.
func writeIfc(v []float64, w int) *dnc.Interface {
	ifc := &dnc.Interface{
		ReadKeys:      [][]float64{append([]float64(nil), v...)},
		ReadStrengths: []float64{20},
		Writes: []dnc.WriteParams{{
			Key:       append([]float64(nil), v...),
			Strength:  20,
			Erase:     ones(w),
			Add:       append([]float64(nil), v...),
			AllocGate: 1,
			WriteGate: 1,
		}},
		FreeGates: []float64{0},
		ReadModes: [][]float64{{0, 1, 0}},
	}
	return ifc
}

// recallIfc reads without writing: content lookup of the first vector to
// locate the start, then pure forward-temporal steps.
func recallIfc(first []float64, w int, start bool) *dnc.Interface {
	modes := []float64{0, 0, 1}
	if start {
		modes = []float64{0, 1, 0}
	}
	return &dnc.Interface{
		ReadKeys:      [][]float64{append([]float64(nil), first...)},
		ReadStrengths: []float64{20},
		Writes: []dnc.WriteParams{{
			Key:      make([]float64, w),
			Strength: 1,
			Erase:    make([]float64, w),
			Add:      make([]float64, w),
		}},
		FreeGates: []float64{0},
		ReadModes: [][]float64{modes},
	}
}

func snapshot(m *dnc.Memory, s *dnc.State, phase string, target, read []float64) Step {
	cfg := m.Config()
	mem := make([][]float64, cfg.N)
	for i := 0; i < cfg.N; i++ {
		mem[i] = append([]float64(nil), s.Memory.Data[i*s.Memory.Stride:i*s.Memory.Stride+cfg.W]...)
	}
	return Step{
		Phase:       phase,
		Target:      target,
		Read:        read,
		ReadWeights: append([]float64(nil), s.ReadW[0]...),
		Usage:       append([]float64(nil), s.Usage...),
		Memory:      mem,
	}
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

var rootTmpl = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html>
<head>
  <script type="text/javascript" src="http://d3js.org/d3.v3.js"></script>
</head>
<body>
<script type="text/javascript">
var page = {{.}};

var colorbrewer = {};
colorbrewer.RdYlBu = {};
colorbrewer.RdYlBu[9] = ["#d73027","#f46d43","#fdae61","#fee090","#ffffbf","#e0f3f8","#abd9e9","#74add1","#4575b4"];

// imshow displays a 2 dimensional matrix.
function imshow(parent, matrix) {
  var table = parent.append("table");
  var tr = table.selectAll("tr").data(matrix).
    enter().append("tr");
  var colormap = d3.scale.quantize().domain([0, 1]).range(colorbrewer.RdYlBu[9].slice().reverse());
  var td = tr.selectAll("td").data(function(d) { return d; }).
    enter().append("td").
    style("background-color", colormap).
    style("min-width", "1em").
    style("height", "1em");
  return table;
}

var steps = d3.select("body").append("div");
var step = steps.selectAll("div").
  data(page.Steps).
  enter().append("div");

step.append("h4").text(function(d, i){ return "step "+i+" ("+d.Phase+")"; });
imshow(step, function(d){ return [d.Target, d.Read]; });
imshow(step, function(d){ return [d.ReadWeights, d.Usage]; });
imshow(step, function(d){ return d.Memory; });
</script>
<body>
</html>
`))

func root(steps []Step) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		page := struct {
			Steps []Step
		}{
			Steps: steps,
		}
		rootTmpl.Execute(w, page)
	}
}

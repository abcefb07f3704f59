package pipeline

// ForwardSource is the value of the forward_a/forward_b wires (§3).
type ForwardSource uint8

// Forwarding mux selects.
const (
	ForwardNone   ForwardSource = 0
	ForwardMEMWB  ForwardSource = 1
	ForwardEXMEM  ForwardSource = 2
)

// Wires holds the purely combinational signals Execute needs this cycle
// (§3): the forwarding mux selects plus the latched EX/MEM and MEM/WB
// values they select between. Unlike the pipeline registers, wires are
// never promoted — the driver recomputes them fresh every Step. PC
// redirection and the load-use stall signals are resolved directly by the
// driver instead of round-tripping through this struct, since nothing else
// in the pipeline consumes them.
type Wires struct {
	ForwardA, ForwardB ForwardSource
	EXMEMALUResult     uint32
	MEMWBWriteData     uint32
}

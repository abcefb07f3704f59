package pipeline

// ForwardingUnit resolves RAW hazards that don't require a stall by routing
// EX/MEM or MEM/WB results back into Execute (§4.8). It holds no state of
// its own; counters are accumulated by the caller from its return value.
type ForwardingUnit struct{}

// NewForwardingUnit returns a ready-to-use ForwardingUnit.
func NewForwardingUnit() *ForwardingUnit { return &ForwardingUnit{} }

// ForwardEvent records which forwarding paths fired this cycle, for the
// EX-EX / MEM-EX counters in Stats (§9, property 6).
type ForwardEvent struct {
	AFromEXMEM, AFromMEMWB bool
	BFromEXMEM, BFromMEMWB bool
}

// Resolve computes forward_a/forward_b for the instruction currently in
// ID/EX, given the EX/MEM and MEM/WB registers one and two cycles ahead of
// it. EX/MEM hazards take priority over MEM/WB hazards for the same operand
// (§4.8): a MEM/WB match is only honored when the EX/MEM check didn't fire.
func (ForwardingUnit) Resolve(idex IDEXData, exmem EXMEMData, memwb MEMWBData) (ForwardSource, ForwardSource, ForwardEvent) {
	var forwardA, forwardB ForwardSource
	var ev ForwardEvent

	exHazardA := exmem.Control.RegWrite && exmem.Rd != 0 && exmem.Rd == idex.Rs1
	exHazardB := exmem.Control.RegWrite && exmem.Rd != 0 && exmem.Rd == idex.Rs2
	memHazardA := memwb.Control.RegWrite && memwb.Rd != 0 && memwb.Rd == idex.Rs1
	memHazardB := memwb.Control.RegWrite && memwb.Rd != 0 && memwb.Rd == idex.Rs2

	switch {
	case exHazardA:
		forwardA = ForwardEXMEM
		ev.AFromEXMEM = true
	case memHazardA:
		forwardA = ForwardMEMWB
		ev.AFromMEMWB = true
	default:
		forwardA = ForwardNone
	}

	switch {
	case exHazardB:
		forwardB = ForwardEXMEM
		ev.BFromEXMEM = true
	case memHazardB:
		forwardB = ForwardMEMWB
		ev.BFromMEMWB = true
	default:
		forwardB = ForwardNone
	}

	return forwardA, forwardB, ev
}

package pipeline

// HazardUnit detects load-use hazards between the instruction in Execute
// (ID/EX out) and the instruction in Decode (IF/ID out), per §4.7. It holds
// no state of its own.
type HazardUnit struct{}

// NewHazardUnit returns a ready-to-use HazardUnit.
func NewHazardUnit() *HazardUnit { return &HazardUnit{} }

// Detect implements §4.7's condition verbatim: idex.mem_read && (idex.rd ==
// ifid.rs1 || idex.rd == ifid.rs2). ifidRs1/ifidRs2 are pre-extracted from
// the IF/ID `out` instruction by the caller via Instruction.Rs1/Rs2, which
// report 0 for formats that have no such field.
func (HazardUnit) Detect(idex IDEXData, ifidRs1, ifidRs2 uint8) bool {
	return idex.Control.MemRead && (idex.Rd == ifidRs1 || idex.Rd == ifidRs2)
}

package asmz80

import (
	"testing"

	"ggcore/internal/disasm"
)

func assembleOK(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble(%q) error: %v", src, err)
	}
	return prog
}

func TestAssembleImplied(t *testing.T) {
	prog := assembleOK(t, "nop\nhalt\ndi\nret")
	want := []byte{0x00, 0x76, 0xF3, 0xC9}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
}

func TestAssembleLdRegToReg(t *testing.T) {
	prog := assembleOK(t, "ld b,c")
	if string(prog.Bytes) != string([]byte{0x41}) {
		t.Fatalf("got % X", prog.Bytes)
	}
}

func TestAssembleLdImmediate16(t *testing.T) {
	prog := assembleOK(t, "ld hl,0x1234")
	want := []byte{0x21, 0x34, 0x12}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
}

func TestAssembleIndexedLoad(t *testing.T) {
	prog := assembleOK(t, "ld a,(ix+0x05)")
	want := []byte{0xDD, 0x7E, 0x05}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
}

func TestAssembleOrgAndLabelForwardReference(t *testing.T) {
	src := `
.org 0x0100
start:
	jp loop
loop:
	nop
	jr loop
`
	prog := assembleOK(t, src)
	if prog.Origin != 0x0100 {
		t.Fatalf("Origin = 0x%04X, want 0x0100", prog.Origin)
	}
	want := []byte{0xC3, 0x03, 0x01, 0x00, 0x18, 0xFD}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
	if prog.Symbols["loop"] != 0x0103 {
		t.Fatalf("loop = 0x%04X, want 0x0103", prog.Symbols["loop"])
	}
}

func TestAssembleByteAndWordDirectives(t *testing.T) {
	prog := assembleOK(t, ".byte 0x01,0x02,0x03\n.word 0x1234")
	want := []byte{0x01, 0x02, 0x03, 0x34, 0x12}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
}

func TestAssembleBlockDirectiveZeroFills(t *testing.T) {
	prog := assembleOK(t, ".block 4")
	want := []byte{0, 0, 0, 0}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
}

func TestAssembleDuplicateLabelFails(t *testing.T) {
	_, err := Assemble("a:\nnop\na:\nnop")
	if err == nil {
		t.Fatal("expected duplicate label error")
	}
}

func TestAssembleUnknownMnemonicFails(t *testing.T) {
	_, err := Assemble("frobnicate a,b")
	if err == nil {
		t.Fatal("expected error for unknown mnemonic")
	}
}

// roundTrip feeds each raw instruction through Decode then re-assembles the
// resulting text, checking it reproduces the original bytes. This is the
// structural property the grammar was designed around: asmz80's syntax is
// the direct inverse of what disasm prints.
func roundTrip(t *testing.T, bytes ...byte) {
	t.Helper()
	var arr [4]byte
	copy(arr[:], bytes)
	instr, err := disasm.Decode(arr)
	if err != nil {
		t.Fatalf("Decode(% X) error: %v", bytes, err)
	}

	prog, err := Assemble(instr.String())
	if err != nil {
		t.Fatalf("Assemble(%q) error: %v", instr.String(), err)
	}
	want := bytes[:instr.Length]
	if string(prog.Bytes) != string(want) {
		t.Fatalf("round trip %q: got % X, want % X", instr.String(), prog.Bytes, want)
	}
}

func TestRoundTripBaseInstructions(t *testing.T) {
	roundTrip(t, 0x41)             // ld b,c
	roundTrip(t, 0xC6, 0x05)       // add a,0x05
	roundTrip(t, 0x21, 0x34, 0x12) // ld hl,0x1234
	roundTrip(t, 0x3E, 0x7F)       // ld a,0x7F
	roundTrip(t, 0x77)             // ld (hl),a
	roundTrip(t, 0x0A)             // ld a,(bc)
	roundTrip(t, 0xC3, 0x00, 0x40) // jp 0x4000
	roundTrip(t, 0xCD, 0x00, 0x40) // call 0x4000
	roundTrip(t, 0xC5)             // push bc
	roundTrip(t, 0xE1)             // pop hl
	roundTrip(t, 0x09)             // add hl,bc
}

func TestRoundTripIndexedInstructions(t *testing.T) {
	roundTrip(t, 0xDD, 0x7E, 0x05)       // ld a,(ix+5)
	roundTrip(t, 0xDD, 0x26, 0x7F)       // ld ixh,0x7F
	roundTrip(t, 0xDD, 0x21, 0x00, 0xC0) // ld ix,0xC000
	roundTrip(t, 0xDD, 0xE5)             // push ix
}

func TestRoundTripCBAndED(t *testing.T) {
	roundTrip(t, 0xCB, 0x7A)             // bit 7,d
	roundTrip(t, 0xED, 0xB0)             // ldir
	roundTrip(t, 0xED, 0x43, 0x00, 0xC0) // ld (0xC000),bc
}

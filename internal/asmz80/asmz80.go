// Package asmz80 assembles Z80 source text into a flat byte image: a
// tokenizer splits lines into labels/directives/instructions, a first pass
// measures each instruction's encoded length to build a label table, and a
// second pass emits real bytes with labels resolved. Mnemonic and operand
// syntax mirrors exactly what internal/disasm prints, so
// Assemble(Disassemble(rom)) round-trips for any ROM built entirely from
// the documented instruction set.
//
// The original reference implementation's assembler never actually
// tokenized or resolved anything: assembler.c's tokenize() and
// resolve_symbols() are both bare "// TODO" stubs. This package supplements
// that gap with a real single-pass-per-instruction, two-pass-over-the-file
// implementation, grounded on the declared (but unfilled-in) ASMLine/
// ASMInstruction/ASMSymbol shapes in assembler/state.h.
package asmz80

import (
	"fmt"
	"strconv"
	"strings"

	"ggcore/internal/rom"
)

// Program is the result of a successful assembly.
type Program struct {
	Origin  uint16
	Bytes   []byte
	Symbols map[string]uint16
}

type parsedLine struct {
	lineno    int
	label     string
	directive string
	dirArgs   string
	mnemonic  string
	operands  string
}

// Assemble compiles source into a Program. Addresses start at 0 unless
// overridden by a leading ".org" directive.
func Assemble(source string) (*Program, error) {
	lines, err := parseLines(source)
	if err != nil {
		return nil, err
	}

	symbols := map[string]uint16{}
	origin := uint16(0)
	addr := origin

	for _, ln := range lines {
		if ln.label != "" {
			if _, dup := symbols[ln.label]; dup {
				return nil, fmt.Errorf("asmz80:%d: duplicate label %q", ln.lineno, ln.label)
			}
			symbols[ln.label] = addr
		}
		size, err := ln.size()
		if err != nil {
			return nil, fmt.Errorf("asmz80:%d: %w", ln.lineno, err)
		}
		if ln.directive == ".org" {
			v, err := parseNumber(strings.TrimSpace(ln.dirArgs))
			if err != nil {
				return nil, fmt.Errorf("asmz80:%d: .org: %w", ln.lineno, err)
			}
			addr = v
			origin = v
			continue
		}
		addr += uint16(size)
	}

	var out []byte
	addr = origin
	for _, ln := range lines {
		if ln.directive == ".org" {
			v, _ := parseNumber(strings.TrimSpace(ln.dirArgs))
			addr = v
			continue
		}
		bytes, err := ln.encode(addr, symbols)
		if err != nil {
			return nil, fmt.Errorf("asmz80:%d: %w", ln.lineno, err)
		}
		out = append(out, bytes...)
		addr += uint16(len(bytes))
	}

	return &Program{Origin: origin, Bytes: out, Symbols: symbols}, nil
}

func parseLines(source string) ([]parsedLine, error) {
	var out []parsedLine
	for i, raw := range strings.Split(source, "\n") {
		line := raw
		if idx := strings.IndexByte(line, ';'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var label string
		if idx := strings.IndexByte(line, ':'); idx >= 0 && !strings.ContainsAny(line[:idx], " \t(") {
			label = line[:idx]
			line = strings.TrimSpace(line[idx+1:])
			if line == "" {
				out = append(out, parsedLine{lineno: i + 1, label: label})
				continue
			}
		}

		head, rest := splitFirstField(line)

		if strings.HasPrefix(head, ".") {
			out = append(out, parsedLine{lineno: i + 1, label: label, directive: head, dirArgs: strings.TrimSpace(rest)})
			continue
		}

		mnemonic := strings.ToLower(head)
		operands := strings.ToLower(strings.TrimSpace(rest))
		out = append(out, parsedLine{lineno: i + 1, label: label, mnemonic: mnemonic, operands: operands})
	}
	return out, nil
}

// splitFirstField splits line at its first run of spaces/tabs, returning the
// head field and the (untrimmed) remainder. disasm.Instruction.String joins
// mnemonic and operands with a tab; hand-written source usually uses a
// space, so both are accepted here.
func splitFirstField(line string) (head, rest string) {
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}

func parseNumber(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	} else if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", s)
	}
	if neg {
		return uint16(-int32(v)), nil
	}
	return uint16(v), nil
}

func splitArgs(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

// size returns the number of bytes this line contributes to the image,
// without needing any label to already be resolved (instruction length
// never depends on an operand's *value*, only its syntactic kind).
func (ln parsedLine) size() (int, error) {
	switch ln.directive {
	case "":
		if ln.mnemonic == "" {
			return 0, nil
		}
		return instructionLength(ln.mnemonic, splitArgs(ln.operands))
	case ".org":
		return 0, nil
	case ".byte":
		return len(splitArgs(ln.dirArgs)), nil
	case ".word":
		return 2 * len(splitArgs(ln.dirArgs)), nil
	case ".block":
		n, err := parseNumber(ln.dirArgs)
		return int(n), err
	case ".rom_size", ".rom_region":
		return 1, nil
	case ".rom_header", ".rom_declsize":
		return 0, nil
	default:
		return 0, fmt.Errorf("unknown directive %q", ln.directive)
	}
}

// encode emits this line's bytes. addr is this line's own address, used to
// compute PC-relative displacements for jr/djnz.
func (ln parsedLine) encode(addr uint16, symbols map[string]uint16) ([]byte, error) {
	switch ln.directive {
	case "":
		if ln.mnemonic == "" {
			return nil, nil
		}
		return encodeInstruction(ln.mnemonic, splitArgs(ln.operands), addr, symbols)
	case ".org":
		return nil, nil
	case ".byte":
		return encodeByteList(splitArgs(ln.dirArgs), symbols)
	case ".word":
		var out []byte
		for _, a := range splitArgs(ln.dirArgs) {
			v, err := resolveValue(a, symbols)
			if err != nil {
				return nil, err
			}
			out = append(out, uint8(v), uint8(v>>8))
		}
		return out, nil
	case ".block":
		n, err := parseNumber(ln.dirArgs)
		if err != nil {
			return nil, err
		}
		return make([]byte, n), nil
	case ".rom_size":
		n, err := parseNumber(ln.dirArgs)
		if err != nil {
			return nil, err
		}
		code := rom.SizeBytesToCode(int64(n))
		return []byte{code}, nil
	case ".rom_region":
		arg := strings.Trim(ln.dirArgs, `"`)
		if code := rom.RegionStringToCode(arg); code != 0 {
			return []byte{code}, nil
		}
		return []byte{mustNumber(ln.dirArgs)}, nil
	case ".rom_header", ".rom_declsize":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown directive %q", ln.directive)
	}
}

func mustNumber(s string) uint8 {
	v, _ := parseNumber(s)
	return uint8(v)
}

func encodeByteList(args []string, symbols map[string]uint16) ([]byte, error) {
	out := make([]byte, 0, len(args))
	for _, a := range args {
		v, err := resolveValue(a, symbols)
		if err != nil {
			return nil, err
		}
		out = append(out, uint8(v))
	}
	return out, nil
}

func resolveValue(tok string, symbols map[string]uint16) (uint16, error) {
	if v, ok := symbols[tok]; ok {
		return v, nil
	}
	return parseNumber(tok)
}

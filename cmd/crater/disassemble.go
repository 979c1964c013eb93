package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ggcore/internal/disasm"
)

var disassembleStart uint16
var disassembleLen int

var disassembleCmd = &cobra.Command{
	Use:   "disassemble <binary>",
	Short: "Disassemble a flat binary image into Z80 source text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisassemble,
}

func init() {
	disassembleCmd.Flags().Uint16VarP(&disassembleStart, "origin", "g", 0, "address of the first byte in the file")
	disassembleCmd.Flags().IntVarP(&disassembleLen, "count", "n", 0, "number of instructions to decode (0 = whole file)")
	rootCmd.AddCommand(disassembleCmd)
}

func runDisassemble(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	addr := disassembleStart
	pos := 0
	count := 0
	for pos < len(data) {
		if disassembleLen > 0 && count >= disassembleLen {
			break
		}

		var window [4]byte
		copy(window[:], data[pos:])
		instr, err := disasm.Decode(window)
		if err != nil {
			return fmt.Errorf("disassemble: at 0x%04X: %w", addr, err)
		}

		fmt.Printf("%04X:\t%s\n", addr, instr.String())

		pos += int(instr.Length)
		addr += uint16(instr.Length)
		count++
	}
	return nil
}

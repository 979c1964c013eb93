// Command crater is the toolkit's command-line front end: run plays a ROM
// in an SDL2 window, assemble/disassemble drive internal/asmz80 and
// internal/disasm, and inspect dumps a ROM's parsed header.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crater",
	Short: "A Sega Game Gear emulator, assembler, and disassembler",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ggcore/internal/asmz80"
)

var assembleOut string

var assembleCmd = &cobra.Command{
	Use:   "assemble <source.asm>",
	Short: "Assemble Z80 source into a flat binary image",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssemble,
}

func init() {
	assembleCmd.Flags().StringVarP(&assembleOut, "output", "o", "", "output file (default: source with .bin extension)")
	rootCmd.AddCommand(assembleCmd)
}

func runAssemble(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	prog, err := asmz80.Assemble(string(src))
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}

	out := assembleOut
	if out == "" {
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".bin"
	}
	if err := os.WriteFile(out, prog.Bytes, 0o644); err != nil {
		return err
	}

	fmt.Printf("wrote %d bytes to %s (origin 0x%04X)\n", len(prog.Bytes), out, prog.Origin)
	if len(prog.Symbols) > 0 {
		fmt.Println("symbols:")
		for name, addr := range prog.Symbols {
			fmt.Printf("  %-16s 0x%04X\n", name, addr)
		}
	}
	return nil
}

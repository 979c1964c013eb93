package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ggcore/internal/rom"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <rom>",
	Short: "Print a ROM's parsed header",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	r, err := rom.Open(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("file:            %s\n", r.Name)
	fmt.Printf("size:            %d bytes\n", len(r.Data))
	fmt.Printf("product code:    %d\n", r.ProductCode)
	if p := r.Product(); p != "" {
		fmt.Printf("publisher:       %s\n", p)
	}
	fmt.Printf("version:         %d\n", r.Version)
	fmt.Printf("region:          %s (code %d)\n", r.Region(), r.RegionCode)
	fmt.Printf("checksum:        reported 0x%04X, expected 0x%04X", r.ReportedChecksum, r.ExpectedChecksum)
	if r.ChecksumValid() {
		fmt.Println(" (valid)")
	} else {
		fmt.Println(" (MISMATCH)")
	}
	return nil
}

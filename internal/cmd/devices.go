package cmd

import (
	"fmt"

	"github.com/DikshantV/PrepBettr-sub012/internal/audio"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available audio input devices",
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	src, err := audio.New()
	if err != nil {
		return fmt.Errorf("failed to initialize audio: %w", err)
	}
	defer src.Close()

	devices, err := src.ListDevices()
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		fmt.Println("No input devices found")
		return nil
	}

	for _, d := range devices {
		marker := " "
		if d.Default {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, d.Name)
	}

	return nil
}

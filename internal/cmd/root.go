// Package cmd implements the voicecapture command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "voicecapture",
	Short: "Microphone capture pipeline for voice interviews",
	Long: `voicecapture records microphone audio, downsamples it to 16kHz, and
produces 100ms PCM16 frames — the byte stream the interview session
transport consumes. The record command writes those frames to a WAV
file for inspection.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

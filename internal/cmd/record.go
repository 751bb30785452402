package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DikshantV/PrepBettr-sub012/internal/audio"
	"github.com/DikshantV/PrepBettr-sub012/internal/capture"
	"github.com/DikshantV/PrepBettr-sub012/internal/config"
	"github.com/DikshantV/PrepBettr-sub012/internal/logging"
	"github.com/DikshantV/PrepBettr-sub012/internal/permissions"
	"github.com/DikshantV/PrepBettr-sub012/internal/wavio"
	"github.com/spf13/cobra"
)

var (
	recordOutput   string
	recordDevice   string
	recordDuration time.Duration
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Capture microphone audio to a WAV file",
	Long: `Capture microphone audio, downsample it to the target rate, and write
the resulting 100ms frames to a WAV file until the duration elapses or
the process receives an interrupt.`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVarP(&recordOutput, "output", "o", "capture.wav", "output WAV file")
	recordCmd.Flags().StringVarP(&recordDevice, "device", "d", "", "input device name (default: system default)")
	recordCmd.Flags().DurationVar(&recordDuration, "duration", 0, "stop after this long (0 = until interrupted)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if recordDevice != "" {
		cfg.Audio.DeviceID = recordDevice
	}

	log := logging.NewWithLevel(cfg.LogLevel)

	// macOS requires explicit microphone approval before capture works
	if err := permissions.EnsurePermissions(); err != nil {
		return fmt.Errorf("required permissions not granted: %w", err)
	}

	src, err := audio.New()
	if err != nil {
		return fmt.Errorf("failed to initialize audio: %w", err)
	}

	session := capture.New(cfg.Audio, src, log)
	defer session.Dispose()

	if err := session.Initialize(); err != nil {
		return err
	}
	if err := session.StartCapture(); err != nil {
		return err
	}

	stream, err := session.Frames()
	if err != nil {
		return err
	}

	sink, err := wavio.NewWriter(recordOutput, cfg.Audio.TargetSampleRate)
	if err != nil {
		return err
	}
	defer sink.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if recordDuration > 0 {
		ctx, cancel = context.WithTimeout(ctx, recordDuration)
		defer cancel()
	}

	// Stop the session on SIGINT/SIGTERM so the frame stream ends cleanly.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			log.Info().Msg("Interrupted, stopping capture")
		case <-ctx.Done():
		}
		session.StopCapture()
	}()

	log.Info().Str("output", recordOutput).Msg("Recording")

	frames := 0
	for {
		frame, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			break
		}
		if err != nil {
			return err
		}
		if err := sink.WriteFrame(frame); err != nil {
			return err
		}
		frames++
	}

	log.Info().
		Int("frames", frames).
		Uint64("dropped", session.Dropped()).
		Msg("Recording finished")
	return nil
}

// Command pixelgrab-cli is a smoke-test harness exercising
// internal/pgcontext directly (not the C ABI) — capture a region or
// screen to a PNG-less raw dump, or drive a short recording, from the
// command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pixelgrab/pixelgrab/internal/logging"
	"github.com/pixelgrab/pixelgrab/internal/pgcontext"
)

var log = logging.L("cli")

var rootCmd = &cobra.Command{
	Use:   "pixelgrab-cli",
	Short: "PixelGrab smoke-test CLI",
	Long:  "pixelgrab-cli drives the PixelGrab Go API directly for manual and CI smoke testing.",
}

var (
	flagX, flagY, flagW, flagH int
	flagOut                    string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a screen region and write raw BGRA8 bytes to a file",
	Run: func(cmd *cobra.Command, args []string) {
		runCapture()
	},
}

var (
	flagFPS      int
	flagDuration int
	flagGpuHint  string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a screen region to an MP4 file for a fixed duration",
	Run: func(cmd *cobra.Command, args []string) {
		runRecord()
	},
}

var captureAllCmd = &cobra.Command{
	Use:   "capture-all",
	Short: "Capture every connected screen concurrently and write raw BGRA8 dumps",
	Run: func(cmd *cobra.Command, args []string) {
		runCaptureAll()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the library version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pixelgrab %s\n", pgcontext.VersionString)
	},
}

func init() {
	captureCmd.Flags().IntVar(&flagX, "x", 0, "region origin x")
	captureCmd.Flags().IntVar(&flagY, "y", 0, "region origin y")
	captureCmd.Flags().IntVar(&flagW, "width", 800, "region width")
	captureCmd.Flags().IntVar(&flagH, "height", 600, "region height")
	captureCmd.Flags().StringVar(&flagOut, "out", "capture.bgra", "output file path")

	recordCmd.Flags().IntVar(&flagX, "x", 0, "region origin x")
	recordCmd.Flags().IntVar(&flagY, "y", 0, "region origin y")
	recordCmd.Flags().IntVar(&flagW, "width", 1280, "region width")
	recordCmd.Flags().IntVar(&flagH, "height", 720, "region height")
	recordCmd.Flags().IntVar(&flagFPS, "fps", 30, "frames per second")
	recordCmd.Flags().IntVar(&flagDuration, "seconds", 3, "recording duration in seconds")
	recordCmd.Flags().StringVar(&flagOut, "out", "recording.mp4", "output mp4 path")
	recordCmd.Flags().StringVar(&flagGpuHint, "gpu", "auto", "gpu hint: auto, prefer, force-cpu")

	captureAllCmd.Flags().StringVar(&flagOut, "out", "capture", "output path prefix; screen N is written to <prefix>-N.bgra")

	rootCmd.AddCommand(captureCmd, recordCmd, captureAllCmd, versionCmd)
}

func runCapture() {
	ctx, pgErr := pgcontext.New()
	if pgErr != nil {
		log.Error("context create failed", "error", pgErr.Error())
		os.Exit(1)
	}
	defer ctx.Destroy()

	img, pgErr := ctx.CaptureRegion(flagX, flagY, flagW, flagH)
	if pgErr != nil {
		log.Error("capture failed", "error", pgErr.Error())
		os.Exit(1)
	}

	if err := os.WriteFile(flagOut, img.Bytes(), 0o644); err != nil {
		log.Error("write failed", "error", err.Error())
		os.Exit(1)
	}
	fmt.Printf("wrote %dx%d region to %s\n", img.Width(), img.Height(), flagOut)
}

func runCaptureAll() {
	ctx, pgErr := pgcontext.New()
	if pgErr != nil {
		log.Error("context create failed", "error", pgErr.Error())
		os.Exit(1)
	}
	defer ctx.Destroy()

	imgs, pgErr := ctx.CaptureAllScreens()
	if pgErr != nil {
		log.Error("capture-all failed", "error", pgErr.Error())
		os.Exit(1)
	}

	for i, img := range imgs {
		path := fmt.Sprintf("%s-%d.bgra", flagOut, i)
		if err := os.WriteFile(path, img.Bytes(), 0o644); err != nil {
			log.Error("write failed", "error", err.Error())
			os.Exit(1)
		}
		fmt.Printf("wrote %dx%d screen %d to %s\n", img.Width(), img.Height(), i, path)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

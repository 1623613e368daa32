package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pixelgrab/pixelgrab/internal/pgcontext"
	"github.com/pixelgrab/pixelgrab/internal/recorder"
)

func gpuHintFromFlag(s string) recorder.GpuHint {
	switch s {
	case "prefer":
		return recorder.GpuPreferGpu
	case "force-cpu":
		return recorder.GpuForceCpu
	default:
		return recorder.GpuAuto
	}
}

func runRecord() {
	ctx, pgErr := pgcontext.New()
	if pgErr != nil {
		log.Error("context create failed", "error", pgErr.Error())
		os.Exit(1)
	}
	defer ctx.Destroy()

	rec := ctx.NewRecorder()
	cfg := recorder.Config{
		OutputPath:     flagOut,
		X:              flagX,
		Y:              flagY,
		W:              flagW,
		H:              flagH,
		FPS:            flagFPS,
		BitrateBps:     4_000_000,
		AutoCapture:    true,
		CaptureBackend: ctx.CaptureBackend(),
		GpuHint:        gpuHintFromFlag(flagGpuHint),
	}
	if pgErr := rec.Initialize(cfg); pgErr != nil {
		log.Error("recorder init failed", "error", pgErr.Error())
		os.Exit(1)
	}
	if pgErr := rec.Start(); pgErr != nil {
		log.Error("recorder start failed", "error", pgErr.Error())
		os.Exit(1)
	}

	time.Sleep(time.Duration(flagDuration) * time.Second)

	if pgErr := rec.Stop(); pgErr != nil {
		log.Error("recorder stop failed", "error", pgErr.Error())
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%dms, %d frames)\n", flagOut, rec.GetDurationMs(), rec.GetFrameCount())
}

package ale

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

type ramSim struct {
	counterSim
	ram RAM
}

func (r *ramSim) RAM() RAM { return r.ram }

func TestRAMFrameExporterWritesValidPNG(t *testing.T) {
	sim := &ramSim{counterSim: *newCounterSim(1, 100)}
	for i := range sim.ram {
		sim.ram[i] = byte(i)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "frame.png")

	exp := RAMFrameExporter{}
	if err := exp.ExportFrame(sim, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("expected a decodable PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 16*8 || bounds.Dy() != 8*8 {
		t.Fatalf("unexpected image dimensions: %v", bounds)
	}
}

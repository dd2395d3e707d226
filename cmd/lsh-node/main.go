// Command lsh-node is the physical-layer engine's firmware entry
// point: read the embedded device-topology config, build the
// registry, open the serial link, send BOOT, and run the cooperative
// super-loop forever. Grounded on the original firmware's
// core/lsh_core.cpp LSH::setup()/loop() split, and on the teacher's
// cmd/pico-hal-main/main.go for the "sleep for USB CDC enumeration,
// then println boot banner" startup idiom.
package main

import (
	_ "embed"
	"time"

	"lsh-core/debug"
	"lsh-core/internal/config"
	"lsh-core/internal/engine"
	"lsh-core/internal/timekeeper"
)

//go:embed device.json
var embeddedConfig []byte

func main() {
	// Allow USB CDC to enumerate before the first debug line, same
	// grace period as the teacher's pico-hal-main.
	time.Sleep(2 * time.Second)

	pins, stream, clock, reset := platformHAL()
	debug.Printf("lsh-node: platform HAL ready")

	spec, err := config.Parse(embeddedConfig)
	if err != nil {
		debug.Fatal("lsh-node: config parse failed: %v", err)
		reset.Fatal()
	}

	clk := timekeeper.New(clock)
	clk.Update()

	reg, err := config.Build(spec, pins, reset, clk.Now())
	if err != nil {
		debug.Fatal("lsh-node: config build failed: %v", err)
		reset.Fatal()
	}

	link := newSerialLink(stream)
	sched := engine.New(clk, reg, link, deviceID)

	if err := sched.Boot(); err != nil {
		debug.Printf("lsh-node: boot frame send failed: %v", err)
	}

	for {
		sched.Tick()
	}
}

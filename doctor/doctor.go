// Package doctor runs the -doctor diagnostics.
package doctor

import (
	"fmt"
	"time"

	"keytally/audio"
	"keytally/chime"
	"keytally/config"
	"keytally/device"
	"keytally/sink"
)

// Run executes the system checks and returns an exit code
// (0=all pass, 1=any fail).
func Run(cfg config.Config) int {
	fmt.Println("keytally doctor - system diagnostics")
	fmt.Println("====================================")

	allPass := true

	if !checkDevices(cfg.Input.Hints) {
		allPass = false
	}
	if !checkSink(cfg.Sink) {
		allPass = false
	}
	if !checkSounds(cfg.Sounds) {
		allPass = false
	}
	checkSpeaker()

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkDevices(hints []string) bool {
	fmt.Println()
	fmt.Println("[1/4] Keyboard access")

	msg, err := device.Diagnose()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  PASS: %s\n", msg)

	devices, missing, err := device.Resolve(hints)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	for _, d := range devices {
		fmt.Printf("  matched: %s\n", d.Name())
		d.Close()
	}
	for _, hint := range missing {
		fmt.Printf("  no device matches hint %q\n", hint)
	}
	if len(devices) == 0 {
		fmt.Println("  FAIL: no configured hint matched a keyboard")
		return false
	}
	return true
}

func checkSink(cfg config.SinkConfig) bool {
	fmt.Println()
	fmt.Println("[2/4] Persistence sink")

	s := sink.NewFile(cfg.CounterPath, cfg.StatusPath)
	if err := s.WriteCounter(0); err != nil {
		fmt.Printf("  FAIL: cannot write %s: %v\n", cfg.CounterPath, err)
		return false
	}
	if _, err := s.ReadCounter(); err != nil {
		fmt.Printf("  FAIL: cannot read back %s: %v\n", cfg.CounterPath, err)
		return false
	}
	if err := s.WriteStatus(sink.StatusFlashing); err != nil {
		fmt.Printf("  FAIL: cannot write %s: %v\n", cfg.StatusPath, err)
		return false
	}
	fmt.Printf("  PASS: %s and %s writable\n", cfg.CounterPath, cfg.StatusPath)
	return true
}

func checkSounds(cfg config.SoundsConfig) bool {
	fmt.Println()
	fmt.Println("[3/4] Sound files")

	pass := true
	for _, probe := range []struct {
		label string
		path  string
	}{
		{"increment", cfg.Increment},
		{"bonus_intro", cfg.BonusIntro},
		{"bonus_loop", cfg.BonusLoop},
	} {
		if probe.path == "" {
			fmt.Printf("  %s: not configured (will be skipped)\n", probe.label)
			continue
		}
		if err := audio.Probe(probe.path); err != nil {
			fmt.Printf("  FAIL: %s %s: %v\n", probe.label, probe.path, err)
			pass = false
			continue
		}
		fmt.Printf("  PASS: %s %s decodes\n", probe.label, probe.path)
	}
	return pass
}

func checkSpeaker() {
	fmt.Println()
	fmt.Println("[4/4] Speaker cue (listen for a short tick)")
	chime.PlayReady()
	time.Sleep(500 * time.Millisecond)
}

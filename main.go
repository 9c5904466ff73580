package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"keytally/audio"
	"keytally/chime"
	"keytally/config"
	"keytally/device"
	"keytally/doctor"
	"keytally/game"
	"keytally/log"
	"keytally/shutdown"
	"keytally/sink"
	"keytally/state"
)

var version = "dev"

func main() {
	run()
}

func run() {
	testFlag := flag.Bool("test", false, "Test difficulty: increment on every keystroke")
	normalFlag := flag.Bool("normal", false, "Normal difficulty: increment within 1-100 keystrokes (default)")
	hardFlag := flag.Bool("hard", false, "Hard difficulty: increment within 1-1000 keystrokes")
	configFlag := flag.String("config", "", "Config file path (default: XDG location)")
	preserveFlag := flag.Bool("preserve", false, "Load the persisted counter instead of resetting it")
	tickFlag := flag.Duration("tick", time.Second, "Bonus countdown interval")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	logFileFlag := flag.Bool("logfile", false, "Mirror diagnostics to a log file under the log directory")
	muteFlag := flag.Bool("mute", false, "Disable the synthesized startup and error cues")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("keytally %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if *logFileFlag || *logPathFlag != "" {
		if err := log.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not init log file: %v\n", err)
		}
	}

	mode := state.ModeNormal
	switch {
	case *testFlag:
		mode = state.ModeTest
	case *hardFlag:
		mode = state.ModeHard
	case *normalFlag:
	}
	if flag.NArg() > 0 {
		log.Warnf("unknown argument %q, defaulting to %s mode", flag.Arg(0), mode)
	}

	cfgPath := *configFlag
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Warnf("config: %v, continuing with defaults", err)
	}

	if *muteFlag {
		chime.Disable()
	}

	if *doctorFlag {
		os.Exit(doctor.Run(cfg))
	}

	files := sink.NewFile(cfg.Sink.CounterPath, cfg.Sink.StatusPath)
	var counter uint32
	if *preserveFlag {
		counter, err = files.ReadCounter()
		if err != nil {
			log.Warnf("persisted counter unreadable, starting from 0: %v", err)
			counter = 0
		}
		if err := files.WriteStatus(sink.StatusFlashing); err != nil {
			log.Errorf("cannot write status sink: %v", err)
			os.Exit(1)
		}
	} else {
		if err := sink.Reset(files); err != nil {
			log.Errorf("cannot reset sink: %v", err)
			os.Exit(1)
		}
	}

	store := state.NewStore(mode, counter, state.RandSource{})
	bus := audio.NewQueue()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		audio.NewWorker(bus, audio.NewSpeakerPlayer()).Run(ctx)
	}()

	dispatcher := game.New(game.Config{
		Store:      store,
		Sink:       files,
		Bus:        bus,
		Thresholds: state.RandSource{},
		Sounds: game.Sounds{
			Increment:  cfg.Sounds.Increment,
			BonusIntro: cfg.Sounds.BonusIntro,
			BonusLoop:  cfg.Sounds.BonusLoop,
		},
		Tick: *tickFlag,
	})

	devices, missing, err := device.Resolve(cfg.Input.Hints)
	if err != nil {
		log.Errorf("device resolution: %v", err)
		os.Exit(1)
	}
	for _, hint := range missing {
		log.Warnf("no keyboard matches hint %q", hint)
	}
	if len(devices) == 0 {
		log.Warn("no keyboards matched any configured hint; nothing to listen on")
	}

	var stopping atomic.Bool
	for _, dev := range devices {
		workers.Add(1)
		go func(dev device.Device) {
			defer workers.Done()
			log.ListenerStart(dev.Name())
			err := dev.Listen(dispatcher.HandleKey)
			if stopping.Load() {
				return
			}
			// Per-listener fatal: the rest of the process carries on.
			log.ListenerExit(dev.Name(), err)
			chime.PlayError()
		}(dev)
	}

	log.SessionStart(mode.String(), len(devices))
	if cfg.Sounds.StartupCue {
		chime.PlayReady()
	}

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	<-sigChan

	log.Info("shutting down")
	stopping.Store(true)
	for _, dev := range devices {
		dev.Close()
	}
	dispatcher.Close()
	cancel()
	workers.Wait()
	log.Close()
}

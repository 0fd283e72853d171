package main

import (
	"os"
	"os/signal"
	"syscall"

	"sslcoach/internal/config"
	"sslcoach/internal/decision"
	"sslcoach/internal/filter"
	"sslcoach/internal/input"
	"sslcoach/internal/output"
	"sslcoach/internal/system"
	"sslcoach/internal/telemetry"
	"sslcoach/internal/toolserver"
	"sslcoach/internal/world"
)

func main() {
	telemetry.InitFromEnv()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		telemetry.Errorf("config: %v", err)
		os.Exit(2)
	}

	teamColor := world.Blue
	if cfg.Common.Yellow {
		teamColor = world.Yellow
	}
	telemetry.Infof("================================")
	telemetry.Infof(" sslcoach team controller")
	telemetry.Infof(" team: %s  real: %v  gc: %v", teamColor, cfg.Common.Real, cfg.Input.GameController)
	telemetry.Infof("================================")

	// Input stage. Bind failures are fatal before the loop starts.
	var receivers []input.ReceiverTask
	vision, err := input.NewVisionReceiver(cfg.Input.VisionAddr, cfg.Input.VisionPort, input.JSONVisionDecoder{})
	if err != nil {
		telemetry.Errorf("%v", err)
		os.Exit(1)
	}
	receivers = append(receivers, vision)
	if cfg.Input.GameController {
		gc, err := input.NewGameControllerReceiver(cfg.Input.GameControllerAddr, cfg.Input.GameControllerPort,
			input.JSONRefereeDecoder{AllyIsYellow: cfg.Common.Yellow})
		if err != nil {
			telemetry.Errorf("%v", err)
			vision.Close()
			os.Exit(1)
		}
		receivers = append(receivers, gc)
	}
	inputPipeline := input.NewPipeline(receivers...)

	// Output stage.
	var transport output.Transport
	if cfg.Common.Real {
		serial, err := output.NewSerialTransport(cfg.Real.USBPort, cfg.Real.USBBaud)
		if err != nil {
			telemetry.Errorf("%v", err)
			inputPipeline.Close()
			os.Exit(1)
		}
		transport = serial
	} else {
		transport = output.NewNoOpTransport()
	}
	executor := output.NewExecutor(output.NewPFollower(), transport)

	// Tool stage.
	tools, err := toolserver.NewServer(cfg.Tool.ToolPort)
	if err != nil {
		telemetry.Errorf("%v", err)
		inputPipeline.Close()
		executor.Close()
		os.Exit(1)
	}
	toolserver.StartDebugServer(toolserver.DefaultObservabilityConfig())

	var manager decision.Manager = decision.NewDispatcher()
	if cfg.Common.Manual {
		manager = &decision.ManualPipeline{ID: 3}
	}

	w := world.NewWorld(teamColor)
	sys := system.New(
		inputPipeline,
		filter.NewPipeline(cfg.Common.Yellow),
		manager,
		executor,
		tools,
		w,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		telemetry.Infof("shutting down...")
		sys.Stop()
	}()

	sys.Run(system.TickPeriod)
	sys.Close()
	telemetry.Infof("goodbye")
}

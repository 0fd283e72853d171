// Package config is the single source of truth for runtime settings.
// Defaults are overridden first by environment variables, then by CLI
// flags, so a .env file can configure a deployment and flags still win
// for one-off runs.
package config

import (
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// CommonConfig is shared by every stage.
type CommonConfig struct {
	Yellow bool // ally plays as the yellow team
	Real   bool // drive physical robots over the base station
	Manual bool // bring-up mode: drive one robot forward, no tactics
}

// InputConfig configures the sensor receivers.
type InputConfig struct {
	GameController     bool   // enable the referee receiver
	VisionAddr         string // vision multicast group
	VisionPort         int    // vision multicast port
	GameControllerAddr string // referee multicast group
	GameControllerPort int    // referee multicast port
}

// FilterConfig is reserved for smoothing-window settings.
type FilterConfig struct{}

// RealConfig configures the physical transport.
type RealConfig struct {
	USBPort string
	USBBaud int
}

// ToolConfig configures the local observer socket.
type ToolConfig struct {
	ToolPort int
}

// AppConfig is the complete application configuration.
type AppConfig struct {
	Common CommonConfig
	Input  InputConfig
	Filter FilterConfig
	Real   RealConfig
	Tool   ToolConfig
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() AppConfig {
	return AppConfig{
		Input: InputConfig{
			GameController:     false,
			VisionAddr:         "224.5.23.2",
			VisionPort:         10020,
			GameControllerAddr: "224.5.23.1",
			GameControllerPort: 10003,
		},
		Real: RealConfig{
			USBPort: "/dev/ttyUSB0",
			USBBaud: 460800,
		},
		Tool: ToolConfig{
			ToolPort: 10400,
		},
	}
}

// Load resolves the full configuration: defaults, then .env/environment,
// then CLI flags. Call once from main before anything else reads config.
func Load(args []string) (AppConfig, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	cfg.Common.Yellow = getEnvBool("SSLCOACH_YELLOW", cfg.Common.Yellow)
	cfg.Common.Real = getEnvBool("SSLCOACH_REAL", cfg.Common.Real)
	cfg.Input.VisionAddr = getEnvStr("SSLCOACH_VISION_ADDR", cfg.Input.VisionAddr)
	cfg.Input.VisionPort = getEnvInt("SSLCOACH_VISION_PORT", cfg.Input.VisionPort)
	cfg.Input.GameControllerAddr = getEnvStr("SSLCOACH_GC_ADDR", cfg.Input.GameControllerAddr)
	cfg.Input.GameControllerPort = getEnvInt("SSLCOACH_GC_PORT", cfg.Input.GameControllerPort)
	cfg.Real.USBPort = getEnvStr("SSLCOACH_USB_PORT", cfg.Real.USBPort)
	cfg.Real.USBBaud = getEnvInt("SSLCOACH_USB_BAUD", cfg.Real.USBBaud)
	cfg.Tool.ToolPort = getEnvInt("SSLCOACH_TOOL_PORT", cfg.Tool.ToolPort)

	fs := flag.NewFlagSet("controller", flag.ContinueOnError)
	fs.BoolVar(&cfg.Common.Yellow, "yellow", cfg.Common.Yellow, "ally is the yellow team")
	fs.BoolVar(&cfg.Common.Real, "real", cfg.Common.Real, "enable the physical transport")
	fs.BoolVar(&cfg.Common.Manual, "manual", cfg.Common.Manual, "manual bring-up pipeline instead of the match manager")
	fs.BoolVar(&cfg.Input.GameController, "gc", cfg.Input.GameController, "enable the referee receiver")
	fs.StringVar(&cfg.Input.VisionAddr, "vision-addr", cfg.Input.VisionAddr, "vision multicast address")
	fs.IntVar(&cfg.Input.VisionPort, "vision-port", cfg.Input.VisionPort, "vision multicast port")
	fs.StringVar(&cfg.Input.GameControllerAddr, "gc-addr", cfg.Input.GameControllerAddr, "game controller multicast address")
	fs.IntVar(&cfg.Input.GameControllerPort, "gc-port", cfg.Input.GameControllerPort, "game controller multicast port")
	fs.StringVar(&cfg.Real.USBPort, "usb-port", cfg.Real.USBPort, "base station serial port")
	fs.IntVar(&cfg.Real.USBBaud, "usb-baud", cfg.Real.USBBaud, "base station baud rate")
	fs.IntVar(&cfg.Tool.ToolPort, "tool-port", cfg.Tool.ToolPort, "observer websocket port")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func getEnvStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return defaultVal
}

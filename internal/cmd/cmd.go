package cmd

import (
	"os"
	"time"

	"github.com/calmh/imupi/internal/config"
	"github.com/calmh/imupi/internal/server"
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "imud",
	Short: "sensor daemon for the LSM6DSV16B and the Sense HAT",
	Long:  "sensor daemon serving LSM6DSV16B and Sense HAT readings over DataLog, Prometheus and websocket",
}

func ServeCmdRunE(cmd *cobra.Command, args []string) error {
	return server.NewMainApp(cmd, args).PrepareRun().Run()
}

// SensorFlags are shared by the commands that open the sensors.
func SensorFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "default configuration path")
	cmd.Flags().String("driver", config.DefaultBusDriver, "bus driver: sysfs, periph, embd or spi")
	cmd.Flags().String("device", config.DefaultBusDevice, "bus device of the LSM6DSV16B")
	cmd.Flags().Bool("debug", false, "toggle debug logging")
}

func ServeCmdFlags(cmd *cobra.Command) {
	SensorFlags(cmd)
	cmd.Flags().StringP("port", "p", config.DefaultSerialPort, "serial port of the DataLog host")
	cmd.Flags().StringP("listen", "l", config.DefaultMetricsListen, "address serving /metrics and /websocket")
}

var ServeCmd = &cobra.Command{
	Use: "serve",
	SuggestFor: []string{
		"ru", "ser",
	},
	Short: "serve start the sensor daemon using predefined configs.",
	Long: `serve start the sensor daemon using predefined configs, by the following order:
1. path specified in --config flag
2. path defined IMUPI_CONFIG environment variable
3. default location $HOME/.config/imupi/config.yaml, /etc/imupi/config.yaml, current directory
The parameters in the configuration file will be overwritten by the following order:
1. command line arguments
2. environment variables
`,
	Example: `  imud serve --config=/path/to/config`,
	RunE:    ServeCmdRunE,
}

func InitCmdFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("print", false, "print config to stdout")
	cmd.Flags().BoolP("yes", "y", false, "overwrite")
	cmd.Flags().StringP("output", "o", config.DefaultConfig, "specify output directory")
}

var InitCmd = &cobra.Command{
	Use: "init",
	SuggestFor: []string{
		"ini", "in",
	},
	Short: "init create a configuration template",
	Long: `init create a configuration template.
If --print flag is present, the configuration will be printed to stdout.
If --output / -o flag is present, the configuration will be saved to the path specified
Otherwise init will output configuration file to $HOME/.config/imupi/config.yaml
If --yes / -y flag is present, the configuration will be overwrite without confirmation
`,
	Example: `  imud init --print
  imud init --output /path/to/config.yaml
  imud init -o /path/to/config.yaml -y`,
	RunE: config.InitCfg,
}

func ProbeCmdFlags(cmd *cobra.Command) {
	SensorFlags(cmd)
	cmd.Flags().Bool("calibrate", false, "measure the gyroscope bias and save it to the calibration file")
}

var ProbeCmd = &cobra.Command{
	Use: "probe",
	SuggestFor: []string{
		"pro", "pr", "prob",
	},
	Short: "probe the configured sensors",
	Long: `probe the configured sensors.
The probe command initializes every sensor, prints its ID and one reading to stdout.
With --calibrate the sensor must be kept still while the gyroscope bias is measured.
`,
	Example: `  imud probe
  imud probe --calibrate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.NewMainApp(cmd, args).PrepareRun().ProbeSensor()
	},
}

func DumpCmdFlags(cmd *cobra.Command) {
	SensorFlags(cmd)
	cmd.Flags().Duration("interval", time.Second, "interval between measurements")
	cmd.Flags().Int("decimals", 2, "rounding precision")
	cmd.Flags().Bool("buffer", false, "use output buffering")
}

var DumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "dump sensor readings as JSON lines",
	Example: `  imud dump --interval=100ms
  imud dump --buffer | gzip > readings.json.gz`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.NewMainApp(cmd, args).PrepareRun().Dump()
	},
}

func getRootCmd() *cobra.Command {
	ServeCmdFlags(ServeCmd)
	RootCmd.AddCommand(ServeCmd)

	InitCmdFlags(InitCmd)
	RootCmd.AddCommand(InitCmd)

	ProbeCmdFlags(ProbeCmd)
	RootCmd.AddCommand(ProbeCmd)

	DumpCmdFlags(DumpCmd)
	RootCmd.AddCommand(DumpCmd)

	return RootCmd
}

func Execute() {
	rootCmd := getRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

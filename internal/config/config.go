package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/calmh/imupi/internal/utils"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const DefaultAppName = "imupi"
const DefaultConfigName = "config"
const DefaultBusDriver = "sysfs"
const DefaultBusDevice = "/dev/i2c-1"
const DefaultIMUAddress = 0x6b
const DefaultSerialPort = "/dev/ttyGS0"
const DefaultSerialBaud = 115200
const DefaultStreamIntervalMS = 20
const DefaultMetricsListen = ":9120"
const DefaultWindowSeconds = 60
const DefaultSampleIntervalMS = 500
const DefaultCalibrationFile = "calibration.json"

var userHomeDir, _ = os.UserHomeDir()
var DefaultConfig = path.Join(userHomeDir, ".config/"+DefaultAppName+"/"+DefaultConfigName+".yaml")
var DefaultConfigSearchPath0 = path.Join(userHomeDir, ".config", DefaultAppName)

const DefaultConfigSearchPath1 = "/etc/" + DefaultAppName
const DefaultConfigSearchPath2 = "./"
const DefaultConfigSearchPath3 = "/config"

type IMUOpt struct {
	Driver  string `yaml:"driver" mapstructure:"driver"`
	Device  string `yaml:"device" mapstructure:"device"`
	Address int    `yaml:"address" mapstructure:"address"`
}

type SenseHatOpt struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	Device      string  `yaml:"device" mapstructure:"device"`
	Declination float64 `yaml:"declination" mapstructure:"declination"`
}

type DataLogOpt struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	Port       string `yaml:"port" mapstructure:"port"`
	Baud       int    `yaml:"baud" mapstructure:"baud"`
	IntervalMS int    `yaml:"interval_ms" mapstructure:"interval_ms"`
}

type MetricsOpt struct {
	Listen           string `yaml:"listen" mapstructure:"listen"`
	WindowSeconds    int    `yaml:"window_seconds" mapstructure:"window_seconds"`
	SampleIntervalMS int    `yaml:"sample_interval_ms" mapstructure:"sample_interval_ms"`
}

type IMUPiOpt struct {
	IMU         IMUOpt      `yaml:"imu" mapstructure:"imu"`
	SenseHat    SenseHatOpt `yaml:"sensehat" mapstructure:"sensehat"`
	DataLog     DataLogOpt  `yaml:"datalog" mapstructure:"datalog"`
	Metrics     MetricsOpt  `yaml:"metrics" mapstructure:"metrics"`
	Calibration string      `yaml:"calibration" mapstructure:"calibration"`
	Debug       bool        `yaml:"debug" mapstructure:"debug"`
}

func (o DataLogOpt) Interval() time.Duration {
	return time.Duration(o.IntervalMS) * time.Millisecond
}

func (o MetricsOpt) Window() time.Duration {
	return time.Duration(o.WindowSeconds) * time.Second
}

func (o MetricsOpt) SampleInterval() time.Duration {
	return time.Duration(o.SampleIntervalMS) * time.Millisecond
}

type IMUPiDesc struct {
	Opt   IMUPiOpt
	Viper *viper.Viper
}

func NewIMUPiDesc() IMUPiDesc {
	return IMUPiDesc{
		Opt:   NewIMUPiOpt(),
		Viper: nil,
	}
}

func NewIMUPiOpt() IMUPiOpt {
	return IMUPiOpt{
		IMU: IMUOpt{
			Driver:  DefaultBusDriver,
			Device:  DefaultBusDevice,
			Address: DefaultIMUAddress,
		},
		SenseHat: SenseHatOpt{
			Enabled: true,
			Device:  DefaultBusDevice,
		},
		DataLog: DataLogOpt{
			Enabled:    true,
			Port:       DefaultSerialPort,
			Baud:       DefaultSerialBaud,
			IntervalMS: DefaultStreamIntervalMS,
		},
		Metrics: MetricsOpt{
			Listen:           DefaultMetricsListen,
			WindowSeconds:    DefaultWindowSeconds,
			SampleIntervalMS: DefaultSampleIntervalMS,
		},
		Calibration: DefaultCalibrationFile,
		Debug:       false,
	}
}

func (o *IMUPiDesc) Parse(cmd *cobra.Command) error {
	vipCfg := viper.New()
	vipCfg.SetDefault("imu.driver", DefaultBusDriver)
	vipCfg.SetDefault("imu.device", DefaultBusDevice)
	vipCfg.SetDefault("imu.address", DefaultIMUAddress)
	vipCfg.SetDefault("sensehat.enabled", true)
	vipCfg.SetDefault("sensehat.device", DefaultBusDevice)
	vipCfg.SetDefault("sensehat.declination", 0.0)
	vipCfg.SetDefault("datalog.enabled", true)
	vipCfg.SetDefault("datalog.port", DefaultSerialPort)
	vipCfg.SetDefault("datalog.baud", DefaultSerialBaud)
	vipCfg.SetDefault("datalog.interval_ms", DefaultStreamIntervalMS)
	vipCfg.SetDefault("metrics.listen", DefaultMetricsListen)
	vipCfg.SetDefault("metrics.window_seconds", DefaultWindowSeconds)
	vipCfg.SetDefault("metrics.sample_interval_ms", DefaultSampleIntervalMS)
	vipCfg.SetDefault("calibration", DefaultCalibrationFile)
	vipCfg.SetDefault("debug", false)

	if configFileCmd, err := cmd.Flags().GetString("config"); err == nil && configFileCmd != "" {
		vipCfg.SetConfigFile(configFileCmd)
	} else {
		configFileEnv := os.Getenv("IMUPI_CONFIG")
		if configFileEnv != "" {
			vipCfg.SetConfigFile(configFileEnv)
		} else {
			vipCfg.SetConfigName(DefaultConfigName)
			vipCfg.SetConfigType("yaml")
			vipCfg.AddConfigPath(DefaultConfigSearchPath0)
			vipCfg.AddConfigPath(DefaultConfigSearchPath1)
			vipCfg.AddConfigPath(DefaultConfigSearchPath2)
			vipCfg.AddConfigPath(DefaultConfigSearchPath3)
		}
	}

	vipCfg.SetEnvPrefix(DefaultAppName)
	vipCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vipCfg.AutomaticEnv()

	bindFlag(vipCfg, cmd, "imu.driver", "driver")
	bindFlag(vipCfg, cmd, "imu.device", "device")
	bindFlag(vipCfg, cmd, "datalog.port", "port")
	bindFlag(vipCfg, cmd, "metrics.listen", "listen")
	bindFlag(vipCfg, cmd, "debug", "debug")

	// If a config file is found, read it in.
	if err := vipCfg.ReadInConfig(); err == nil {
		log.Debugln("using config file:", vipCfg.ConfigFileUsed())
	} else {
		log.Debugln(err)
	}

	if err := vipCfg.Unmarshal(&o.Opt); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	o.Viper = vipCfg
	return nil
}

// bindFlag binds key to the named flag when the command has it.
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, name string) {
	if f := cmd.Flags().Lookup(name); f != nil {
		_ = v.BindPFlag(key, f)
	}
}

func (o *IMUPiDesc) PostParse() {
	if o.Opt.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func (o *IMUPiDesc) SaveConfig() error {
	if o.Viper == nil {
		return errors.New("viper is nil")
	}
	s, err := yaml.Marshal(o.Opt)
	if err != nil {
		return err
	}
	return os.WriteFile(o.Viper.ConfigFileUsed(), s, 0644)
}

// InitCfg prepares config for the application
func InitCfg(cmd *cobra.Command, _ []string) error {
	printFlag, _ := cmd.Flags().GetBool("print")
	outputPath, _ := cmd.Flags().GetString("output")
	overwriteFlag, _ := cmd.Flags().GetBool("yes")

	desc := NewIMUPiDesc()
	err := desc.Parse(cmd)
	if err != nil {
		log.Errorln(err)
		return err
	}

	if printFlag {
		configBuffer, _ := yaml.Marshal(desc.Opt)
		fmt.Println(string(configBuffer))
		return nil
	}
	return utils.DumpOption(desc.Opt, outputPath, overwriteFlag)
}

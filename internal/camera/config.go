package camera

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	CameraID              string `yaml:"cameraId"`
	AlarmID               string `yaml:"alarmId"`
	DetectURL             string `yaml:"detectUrl"`
	SampleIntervalSeconds int    `yaml:"sampleIntervalSeconds"`
	FramesDir             string `yaml:"framesDir"`
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.CameraID == "" {
		return Config{}, fmt.Errorf("cameraId is required")
	}
	if cfg.AlarmID == "" {
		return Config{}, fmt.Errorf("alarmId is required")
	}
	if cfg.DetectURL == "" {
		return Config{}, fmt.Errorf("detectUrl is required")
	}
	if cfg.FramesDir == "" {
		return Config{}, fmt.Errorf("framesDir is required")
	}
	if cfg.SampleIntervalSeconds <= 0 {
		cfg.SampleIntervalSeconds = 2
	}
	return cfg, nil
}

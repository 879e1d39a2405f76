package config

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-borrow/pkg/auth"
	"github.com/Astemirdum/library-borrow/pkg/kafka"
	"github.com/Astemirdum/library-borrow/pkg/logger"
	"github.com/Astemirdum/library-borrow/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LIBRARY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LIBRARY_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE" default:"1m"`
	// RPS caps requests per second per client IP on the API group.
	RPS float64 `yaml:"rps" envconfig:"HTTP_RPS" default:"100"`
}

type Config struct {
	Server   HTTPServer   `yaml:"server"`
	Database postgres.DB  `yaml:"db"`
	Log      logger.Log   `yaml:"log"`
	Auth     auth.Config  `yaml:"auth"`
	Kafka    kafka.Config `yaml:"kafka"`
	// SeedFile, when set, names a YAML file of member accounts created on start.
	SeedFile string `yaml:"seedFile" envconfig:"SEED_FILE"`
}

var (
	once    sync.Once
	cfg     Config
	loadErr error
)

// NewConfig reads config from environment once. Options are applied on
// top of the environment, so command line flags win.
func NewConfig(ops ...Option) (*Config, error) {
	once.Do(func() {
		var config Config
		if err := envconfig.Process("", &config); err != nil {
			loadErr = errors.Wrap(err, "envconfig.Process")
			return
		}
		for _, op := range ops {
			op(&config)
		}
		cfg = config
	})
	if loadErr != nil {
		return nil, loadErr
	}
	c := cfg
	return &c, nil
}

// Print writes the config as JSON. Secrets are tagged json:"-".
func Print(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}

package config

import (
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	IsDebug bool `yaml:"is_debug" env:"SIM_DEBUG" env-default:"false"`

	Station struct {
		Id              string `yaml:"id" env:"SIM_STATION_ID" env-default:"CP001"`
		Endpoint        string `yaml:"endpoint" env:"SIM_ENDPOINT" env-default:"ws://localhost:9000"`
		SecurityProfile int    `yaml:"security_profile" env:"SIM_SECURITY_PROFILE" env-default:"1"`
		Password        string `yaml:"password" env:"SIM_PASSWORD" env-default:"0123456789123456"`
		ClientCertFile  string `yaml:"client_cert_file" env-default:""`
		ClientKeyFile   string `yaml:"client_key_file" env-default:""`
		CACertFile      string `yaml:"ca_cert_file" env-default:""`
		Model           string `yaml:"model" env-default:"CP Model 1.0"`
		VendorName      string `yaml:"vendor_name" env-default:"tzi.app"`
		SerialNumber    string `yaml:"serial_number" env-default:""`
	} `yaml:"station"`

	// Evses describes the simulated topology; one entry per EVSE with its
	// connector count and connector type.
	Evses []EvseConfig `yaml:"evses"`

	CallTimeout       int `yaml:"call_timeout_seconds" env:"SIM_CALL_TIMEOUT" env-default:"30"`
	HeartbeatInterval int `yaml:"heartbeat_interval_seconds" env-default:"600"`

	Authorization struct {
		CacheEnabled          bool   `yaml:"cache_enabled" env-default:"true"`
		CacheCapacity         int    `yaml:"cache_capacity" env-default:"100"`
		CacheLifetime         int    `yaml:"cache_lifetime_seconds" env-default:"86400"`
		LocalAuthorizeOffline bool   `yaml:"local_authorize_offline" env-default:"true"`
		ForceRemote           bool   `yaml:"force_remote" env-default:"false"`
		StopTxOnInvalidId     bool   `yaml:"stop_tx_on_invalid_id" env-default:"true"`
		TxStartPoint          string `yaml:"tx_start_point" env-default:"PowerPathClosed"`
	} `yaml:"authorization"`

	Firmware struct {
		CancelOnNewRequest bool `yaml:"cancel_on_new_request" env-default:"true"`
		StageDelayMillis   int  `yaml:"stage_delay_millis" env-default:"50"`
	} `yaml:"firmware"`

	Peer struct {
		BindIP   string `yaml:"bind_ip" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env-default:"9000"`
		TLS      bool   `yaml:"tls_enabled" env-default:"false"`
		CertFile string `yaml:"cert_file" env-default:""`
		KeyFile  string `yaml:"key_file" env-default:""`
		CAFile   string `yaml:"ca_file" env-default:""`
		Password string `yaml:"password" env-default:"0123456789123456"`
	} `yaml:"peer"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env-default:"false"`
		BindIP  string `yaml:"bind_ip" env-default:"0.0.0.0"`
		Port    string `yaml:"port" env-default:"9100"`
	} `yaml:"metrics"`
}

// EvseConfig is one EVSE of the simulated topology. All its connectors share
// the configured type.
type EvseConfig struct {
	Id            int    `yaml:"id"`
	Connectors    int    `yaml:"connectors" env-default:"1"`
	ConnectorType string `yaml:"connector_type" env-default:"cType2"`
}

// Load reads the configuration file once and returns an explicit value; each
// engine or peer instance receives its own copy at construction.
func Load(path string) (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// Default returns the configuration used when no file is supplied, filled
// from environment and tag defaults only.
func Default() (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadEnv(conf); err != nil {
		return nil, err
	}
	return conf, nil
}

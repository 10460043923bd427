package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Page identifies a top-level screen of the client
type Page int

const (
	PageHome Page = iota
	PagePosts
	PageAddPost
)

// Defaults target a local development chain and the public Pinata API
const (
	DefaultRPCURL          = "http://127.0.0.1:8545"
	DefaultContractAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	DefaultPinataEndpoint  = "https://api.pinata.cloud/pinning/pinFileToIPFS"
	DefaultIPFSGateway     = "https://gateway.pinata.cloud"
)

// Config represents the application configuration
type Config struct {
	RPCURL             string        `mapstructure:"rpc_url" json:"rpc_url" validate:"required,url"`
	ContractAddress    string        `mapstructure:"contract_address" json:"contract_address" validate:"required,eth_addr"`
	KeystoreDir        string        `mapstructure:"keystore_dir" json:"keystore_dir"`
	KeystorePassphrase string        `mapstructure:"keystore_passphrase" json:"-"`
	PinataJWT          string        `mapstructure:"pinata_jwt" json:"-"`
	PinataEndpoint     string        `mapstructure:"pinata_endpoint" json:"pinata_endpoint" validate:"required,url"`
	IPFSGateway        string        `mapstructure:"ipfs_gateway" json:"ipfs_gateway" validate:"required,url"`
	ChainPollInterval  time.Duration `mapstructure:"chain_poll_interval" json:"chain_poll_interval" validate:"gte=0"`
	RPCTimeout         time.Duration `mapstructure:"rpc_timeout" json:"rpc_timeout" validate:"gt=0"`
	UploadTimeout      time.Duration `mapstructure:"upload_timeout" json:"upload_timeout" validate:"gt=0"`
	MetricsAddr        string        `mapstructure:"metrics_addr" json:"metrics_addr,omitempty" validate:"omitempty,hostname_port"`
	Logger             bool          `mapstructure:"logger" json:"logger"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultPath returns the config file location in the user's home directory
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".charm-dblog.json")
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)

	// DBLOG_PINATA_JWT, DBLOG_RPC_URL, ...
	v.SetEnvPrefix("dblog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rpc_url", DefaultRPCURL)
	v.SetDefault("contract_address", DefaultContractAddress)
	v.SetDefault("keystore_dir", defaultKeystoreDir())
	v.SetDefault("keystore_passphrase", "")
	v.SetDefault("pinata_jwt", "")
	v.SetDefault("pinata_endpoint", DefaultPinataEndpoint)
	v.SetDefault("ipfs_gateway", DefaultIPFSGateway)
	v.SetDefault("chain_poll_interval", 5*time.Second)
	v.SetDefault("rpc_timeout", 12*time.Second)
	v.SetDefault("upload_timeout", 60*time.Second)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("logger", false)
}

// fileViper holds only what is stored in the file at path: no defaults and
// no environment overrides.
func fileViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return v, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Default returns the built-in configuration without environment overrides
func Default() (Config, error) {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func defaultKeystoreDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".ethereum", "keystore")
}

// Load reads the config from the specified path. A missing file is not an
// error: defaults and environment overrides still apply.
func Load(path string) (Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	// ETH_RPC_URL is honoured when neither the file nor DBLOG_RPC_URL set one.
	if !v.InConfig("rpc_url") && os.Getenv("DBLOG_RPC_URL") == "" {
		if env := strings.TrimSpace(os.Getenv("ETH_RPC_URL")); env != "" {
			cfg.RPCURL = env
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required fields and formats
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes the non-secret settings of cfg to path. Keys already in the
// file that cfg does not carry, secrets included, are kept as they are.
func Save(path string, cfg Config) error {
	v, err := fileViper(path)
	if err != nil {
		return err
	}
	v.Set("rpc_url", cfg.RPCURL)
	v.Set("contract_address", cfg.ContractAddress)
	v.Set("keystore_dir", cfg.KeystoreDir)
	v.Set("pinata_endpoint", cfg.PinataEndpoint)
	v.Set("ipfs_gateway", cfg.IPFSGateway)
	v.Set("chain_poll_interval", cfg.ChainPollInterval.String())
	v.Set("rpc_timeout", cfg.RPCTimeout.String())
	v.Set("upload_timeout", cfg.UploadTimeout.String())
	if cfg.MetricsAddr != "" {
		v.Set("metrics_addr", cfg.MetricsAddr)
	}
	v.Set("logger", cfg.Logger)
	return v.WriteConfigAs(path)
}

// SetLogger persists the log panel toggle and leaves every other key in the
// file untouched.
func SetLogger(path string, enabled bool) error {
	v, err := fileViper(path)
	if err != nil {
		return err
	}
	v.Set("logger", enabled)
	return v.WriteConfigAs(path)
}

// LoadOrCreate loads config from path, or writes the defaults there if the
// file does not exist yet.
func LoadOrCreate(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		defaults, err := Default()
		if err != nil {
			return cfg, err
		}
		if err := Save(path, defaults); err != nil {
			return cfg, fmt.Errorf("writing default config: %w", err)
		}
	}
	return cfg, nil
}

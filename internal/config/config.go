package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/alvarorichard/bc95decrypt/internal/packet"
	"github.com/alvarorichard/bc95decrypt/internal/render"
)

// EnvPrefix namespaces every environment variable, e.g. BC95_KEY.
const EnvPrefix = "BC95"

// StdinMarker as the ciphertext argument reads ciphertexts from stdin.
const StdinMarker = "-"

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

type Cfg struct {
	Ciphertext string
	Key        string
	Output     render.Mode
	Debug      bool
	// FromStdin is set when the ciphertext argument was StdinMarker.
	FromStdin bool
}

// Load resolves settings from DefaultEnvFile, the environment and args.
func Load(args []string) (Cfg, error) {
	return LoadFrom(DefaultEnvFile, args)
}

// LoadFrom is Load with an explicit env file. Precedence, highest first:
// positional args (ciphertext, key), BC95_* environment, env file, built-in defaults.
func LoadFrom(envFile string, args []string) (Cfg, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Cfg{}, errors.Wrapf(err, "load %s", envFile)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault("message", packet.DefaultCiphertext)
	v.SetDefault("key", packet.DefaultKey)
	v.SetDefault("output", string(render.ModeText))
	v.SetDefault("debug", false)

	if len(args) > 2 {
		return Cfg{}, errors.Errorf("expected at most 2 arguments (ciphertext, key), got %d", len(args))
	}

	cfg := Cfg{
		Ciphertext: strings.TrimSpace(v.GetString("message")),
		Key:        strings.TrimSpace(v.GetString("key")),
		Debug:      v.GetBool("debug"),
	}
	if len(args) > 0 {
		cfg.Ciphertext = strings.TrimSpace(args[0])
	}
	if len(args) > 1 {
		cfg.Key = strings.TrimSpace(args[1])
	}
	if cfg.Ciphertext == StdinMarker {
		cfg.Ciphertext = ""
		cfg.FromStdin = true
	}

	mode, err := render.ParseMode(strings.ToLower(strings.TrimSpace(v.GetString("output"))))
	if err != nil {
		return Cfg{}, errors.Wrap(err, EnvPrefix+"_OUTPUT")
	}
	cfg.Output = mode

	if cfg.Key == "" {
		return Cfg{}, errors.New("key is empty")
	}
	if cfg.Ciphertext == "" && !cfg.FromStdin {
		return Cfg{}, errors.New("ciphertext is empty")
	}
	return cfg, nil
}

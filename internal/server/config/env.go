package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/postplanner/internal/flagx"
	"github.com/joho/godotenv"
)

// defaultEnvFile is tried when -env is not given. Its absence is not an error.
const defaultEnvFile = ".env"

// loadDotenv copies variables from a dotenv file into the process environment
// without overriding variables that are already set. An explicit -env file
// that cannot be read causes a panic.
func loadDotenv() {
	path := flagx.EnvFileFlags()
	if path == "" {
		if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		return
	}

	if err := godotenv.Load(path); err != nil {
		panic(err)
	}
}

// parseEnv overlays environment variables onto config. Variables that are
// not set leave the current value untouched.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}

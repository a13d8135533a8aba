package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
)

const defaultEnvFile = ".env"

// loadEnvFiles reads KEY=VALUE files into the process environment. Variables
// already set are kept. Without explicit files, ./.env is read when present.
// Subcommand flags are parsed after this runs, so their env sources see the values.
func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(defaultEnvFile); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		files = []string{defaultEnvFile}
	}

	if err := godotenv.Load(files...); err != nil {
		return goerr.Wrap(err, "failed to load env file", goerr.V("files", files))
	}
	return nil
}

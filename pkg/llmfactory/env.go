package llmfactory

import (
	"context"
	"io/fs"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// LoadEnv reads the env files, .env when none is given.
// Missing files are skipped and variables already set are kept.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		err := godotenv.Load(file)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, "unable to load %s", file)
		}
	}
	return nil
}

// InitFromEnv loads the env files and runs Init with DefaultConfig
func InitFromEnv(ctx context.Context, files ...string) (*Handle, error) {
	if err := LoadEnv(files...); err != nil {
		return nil, err
	}
	return Init(ctx, DefaultConfig())
}

package appenv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

var (
	isProd  = false
	isStag  = false
	isLocal = false
	EnvName = ""
)

var ErrUnknownAppEnv = errors.New("the value for APP_ENV is not determined")

// Load reads the .env files (".env" when none given) into the process env and
// resolves APP_ENV. Variables already set in the process env win over the file.
// A missing file is not an error, the process env alone is enough.
func Load(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("can not read the .env file: %w", err)
	}

	isLocal, isStag, isProd = false, false, false

	appEnv := os.Getenv("APP_ENV")
	switch appEnv {
	case "local":
		isLocal = true
	case "stag":
		isStag = true
	case "prod":
		isProd = true
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAppEnv, appEnv)
	}

	EnvName = appEnv
	return nil
}

func IsProd() bool {
	return isProd
}
func IsStag() bool {
	return isStag
}
func IsLocal() bool {
	return isLocal
}

func IsStagOrLocal() bool {
	return IsStag() || IsLocal()
}

package file

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"

	"github.com/custodia-labs/examprep/internal/core/ports/driven"
)

// Ensure EnvCredentials implements the interface.
var _ driven.CredentialSource = (*EnvCredentials)(nil)

// DotEnvFile is the dotenv file looked up in the working directory.
const DotEnvFile = ".env"

// EnvCredentials reads credentials from the process environment, falling
// back to a dotenv file. Process variables win over file entries.
type EnvCredentials struct {
	v *viper.Viper
}

// NewEnvCredentials loads dotenvPath if it exists.
// An empty path skips the file and reads the environment only.
func NewEnvCredentials(dotenvPath string) (*EnvCredentials, error) {
	v := viper.New()
	v.AutomaticEnv()

	if dotenvPath != "" {
		v.SetConfigFile(dotenvPath)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read %s: %w", dotenvPath, err)
			}
		}
	}

	return &EnvCredentials{v: v}, nil
}

// Get returns the credential for key, or "" when unset.
func (c *EnvCredentials) Get(key string) string {
	return c.v.GetString(key)
}

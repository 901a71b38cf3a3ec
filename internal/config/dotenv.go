package config

import (
	"os"

	"github.com/joho/godotenv"
)

var dotEnvFiles = []string{".env"}

// loadDotEnv applies the first existing file among files and returns its
// path. Variables already present in the environment win.
func loadDotEnv(files ...string) string {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			continue
		}
		return f
	}
	return ""
}

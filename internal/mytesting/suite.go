package mytesting

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/habiliai/recallhub/errors"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/suite"
)

// Suite loads the project .env, when there is one, before every test and
// hands each test a cancellable context.
type Suite struct {
	suite.Suite
	context.Context

	Cancel context.CancelFunc
}

func (s *Suite) SetupTest() {
	projectRoot, err := s.findProjectRoot()
	s.Require().NoError(err, "Failed to find project root")

	envFile := filepath.Join(projectRoot, ".env")
	if _, err := os.Stat(envFile); err == nil {
		s.Require().NoError(godotenv.Load(envFile))
	}

	s.Context, s.Cancel = context.WithCancel(context.TODO())
}

func (s *Suite) TearDownTest() {
	s.Cancel()
}

// RequireEnv skips the current test unless every key is set.
func (s *Suite) RequireEnv(keys ...string) {
	for _, key := range keys {
		if os.Getenv(key) == "" {
			s.T().Skipf("%s is not set", key)
		}
	}
}

// findProjectRoot searches for go.mod starting from this file's directory
func (s *Suite) findProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("failed to get caller information")
	}

	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.New("go.mod not found in any parent directory")
}

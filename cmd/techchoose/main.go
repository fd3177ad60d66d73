package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/techchoose/backend/internal/domain"
)

// Exit codes for different failure modes
const (
	ExitSuccess   = 0
	ExitError     = 1 // bad arguments or unknown names
	ExitNoData    = 2 // catalog source unreachable or unusable
	ExitNoMatches = 3 // nothing passed the filters
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return ExitNoData
	case errors.Is(err, domain.ErrNoMatches):
		return ExitNoMatches
	}
	return ExitError
}

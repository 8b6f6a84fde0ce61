package main

import (
	"fmt"
	"os"

	"github.com/decred/slog"
	"github.com/suffix-labs/txsig/pkg/crypto"
	"github.com/suffix-labs/txsig/pkg/roles"
)

// backendLog is the logging backend used to create all subsystem loggers.
var backendLog = slog.NewBackend(os.Stderr)

var (
	cryptoLog = backendLog.Logger("CRPT")
	rolesLog  = backendLog.Logger("ROLE")
)

func init() {
	crypto.UseLogger(cryptoLog)
	roles.UseLogger(rolesLog)
}

// setLogLevel sets the level of every subsystem logger.
func setLogLevel(level string) error {
	lvl, ok := slog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("%w: invalid --debuglevel %q", errUsage, level)
	}
	for _, logger := range []slog.Logger{cryptoLog, rolesLog} {
		logger.SetLevel(lvl)
	}
	return nil
}

package util

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/shopmonkeyus/go-common/logger"
)

// ExitPanic is the exit code after a recovered panic, the same code the runtime uses.
const ExitPanic = 2

// frames between the panic and panicError: panicError, RecoverPanic, panic()
var depth = 3

// RecoverPanic recovers from a panic in a command, logs it with its stack trace and exits.
// Deferred calls of the command have already run when the process exits.
func RecoverPanic(logger logger.Logger) {
	if r := recover(); r != nil {
		logger.Error("a panic has occurred: %+v", panicError(depth, r))
		os.Exit(ExitPanic)
	}
}

func panicError(depth int, r interface{}) error {
	if err, ok := r.(error); ok {
		return errors.WithStackDepth(err, depth+1)
	}
	return errors.NewWithDepthf(depth+1, "panic: %v", r)
}

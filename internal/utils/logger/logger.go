// Package logger provides a global logger for the application
package logger

import (
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"go.uber.org/zap"
)

var Logger *zap.Logger = zap.NewNop()

func initLogger(levelOverride string) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if environment == "" {
		environment = "prod"
	}

	logLevel := levelForEnvironment(environment)
	switch levelOverride {
	case "debug":
		logLevel = zerolog.DebugLevel
		log.Info().Msg("Debug flag detected - overriding environment log level")
	case "trace":
		logLevel = zerolog.TraceLevel
		log.Info().Msg("Trace flag detected - overriding environment log level")
	case "info":
		logLevel = zerolog.InfoLevel
		log.Info().Msg("Info flag detected - overriding environment log level")
	}

	zerolog.SetGlobalLevel(logLevel)
	initZap(environment, logLevel)

	log.Debug().Str("environment", environment).Str("level", logLevel.String()).Msg("logging initialised")
}

func levelForEnvironment(environment string) zerolog.Level {
	switch environment {
	case "dev", "test":
		log.Info().Str("environment", environment).Msg("Development/Test environment detected - enabling all log levels")
		return zerolog.TraceLevel
	case "prod":
		return zerolog.InfoLevel
	default:
		log.Warn().Str("environment", environment).Msg("Unknown environment - defaulting to production log level (info and above)")
		return zerolog.InfoLevel
	}
}

func initZap(environment string, level zerolog.Level) {
	var (
		zl  *zap.Logger
		err error
	)
	if environment == "prod" && level >= zerolog.InfoLevel {
		zl, err = zap.NewProduction()
	} else {
		zl, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Warn().Err(err).Msg("failed to build zap logger, sugared logging disabled")
		return
	}
	Logger = zl
}

// Init initializes the logger with the configuration from the environment
// and command line flags.
// It sets up the global logger to use zerolog with console output.
// Example usage:
//
//	logger.Init() <- inside whichever main() function in your entrypoint
//
// Then, `go run cmd/viewer/main.go --debug`
func Init() {
	debug := flag.Bool("debug", false, "sets log level to debug")
	trace := flag.Bool("trace", false, "sets log level to trace")
	info := flag.Bool("info", false, "sets log level to info (default)")
	flag.Parse()

	override := ""
	switch {
	case *debug:
		override = "debug"
	case *trace:
		override = "trace"
	case *info:
		override = "info"
	}
	initLogger(override)
}

// InitWithLevel is Init for entrypoints that parse their own flags (cobra).
// level is one of "", "debug", "trace" or "info".
func InitWithLevel(level string) {
	initLogger(strings.ToLower(level))
}

// Sugar returns a sugared logger for easier use
func Sugar() *zap.SugaredLogger {
	return Logger.Sugar()
}

package handler

import (
	"strings"

	"github.com/rs/zerolog"
)

const (
	SesApiV1 = "v1"
	SesApiV2 = "v2"
)

type Options struct {
	BucketName        string
	IncomingPrefix    string
	ForwardingAddress string
	Region            string
	LogLevel          zerolog.Level
	ConfigurationSet  string
	SesApiVersion     string
}

type UndefinedEnvVarsError struct {
	UndefinedVars []string
}

func (e *UndefinedEnvVarsError) Error() string {
	return "undefined environment variables: " +
		strings.Join(e.UndefinedVars, ", ")
}

type InvalidEnvVarError struct {
	Name  string
	Value string
}

func (e *InvalidEnvVarError) Error() string {
	return "invalid value for environment variable " + e.Name + ": " + e.Value
}

func GetOptions(getenv func(string) string) (*Options, error) {
	env := environment{getenv: getenv}
	return env.options()
}

type environment struct {
	getenv        func(string) string
	undefinedVars []string
}

func (env *environment) options() (*Options, error) {
	opts := Options{
		IncomingPrefix:   env.getenv("S3_BUCKET_PREFIX"),
		LogLevel:         ParseLogLevel(env.getenv("LOG_LEVEL")),
		ConfigurationSet: env.getenv("CONFIGURATION_SET"),
		SesApiVersion:    env.getenv("SES_API_VERSION"),
	}
	env.assign(&opts.BucketName, "S3_BUCKET_NAME")
	env.assign(&opts.ForwardingAddress, "FORWARD_TO_EMAIL")
	env.assign(&opts.Region, "REGION")

	if len(env.undefinedVars) != 0 {
		return nil, &UndefinedEnvVarsError{UndefinedVars: env.undefinedVars}
	}

	switch opts.SesApiVersion {
	case "":
		opts.SesApiVersion = SesApiV1
	case SesApiV1, SesApiV2:
	default:
		return nil, &InvalidEnvVarError{
			Name: "SES_API_VERSION", Value: opts.SesApiVersion,
		}
	}
	return &opts, nil
}

func (env *environment) assign(opt *string, varname string) {
	if value := env.getenv(varname); value == "" {
		env.undefinedVars = append(env.undefinedVars, varname)
	} else {
		*opt = value
	}
}

var logLevels = map[string]zerolog.Level{
	"DEBUG":    zerolog.DebugLevel,
	"INFO":     zerolog.InfoLevel,
	"WARN":     zerolog.WarnLevel,
	"WARNING":  zerolog.WarnLevel,
	"ERROR":    zerolog.ErrorLevel,
	"CRITICAL": zerolog.FatalLevel,
}

// ParseLogLevel maps a LOG_LEVEL value onto a zerolog level. Unknown or empty
// values fall back to info.
func ParseLogLevel(name string) zerolog.Level {
	if level, ok := logLevels[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return level
	}
	return zerolog.InfoLevel
}

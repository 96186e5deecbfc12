//go:build small_tests || all_tests

package handler

import (
	"testing"

	"github.com/rs/zerolog"
	"gotest.tools/assert"
)

func TestUndefinedEnvVarsErrorFormat(t *testing.T) {
	assert.ErrorContains(
		t,
		&UndefinedEnvVarsError{UndefinedVars: []string{"FOO", "BAR", "BAZ"}},
		"undefined environment variables: FOO, BAR, BAZ",
	)
}

func TestReportUndefinedEnviromentVariables(t *testing.T) {
	_, err := GetOptions(func(string) string { return "" })

	assert.DeepEqual(
		t,
		err,
		&UndefinedEnvVarsError{
			UndefinedVars: []string{
				"S3_BUCKET_NAME",
				"FORWARD_TO_EMAIL",
				"REGION",
			},
		},
	)
}

func envGetter(env map[string]string) func(string) string {
	return func(varname string) string {
		return env[varname]
	}
}

func TestAllRequiredEnvironmentVariablesDefined(t *testing.T) {
	env := map[string]string{
		"S3_BUCKET_NAME":   "my-bucket",
		"FORWARD_TO_EMAIL": "me@bar.com",
		"REGION":           "us-east-1",
	}
	opts, err := GetOptions(envGetter(env))

	assert.NilError(t, err)
	assert.DeepEqual(
		t,
		opts,
		&Options{
			BucketName:        "my-bucket",
			ForwardingAddress: "me@bar.com",
			Region:            "us-east-1",
			LogLevel:          zerolog.InfoLevel,
			SesApiVersion:     SesApiV1,
		},
	)
}

func TestOptionalEnvironmentVariables(t *testing.T) {
	env := map[string]string{
		"S3_BUCKET_NAME":    "my-bucket",
		"S3_BUCKET_PREFIX":  "emails",
		"FORWARD_TO_EMAIL":  "me@bar.com",
		"REGION":            "us-east-1",
		"LOG_LEVEL":         "DEBUG",
		"CONFIGURATION_SET": "forwarder",
		"SES_API_VERSION":   "v2",
	}
	opts, err := GetOptions(envGetter(env))

	assert.NilError(t, err)
	assert.DeepEqual(
		t,
		opts,
		&Options{
			BucketName:        "my-bucket",
			IncomingPrefix:    "emails",
			ForwardingAddress: "me@bar.com",
			Region:            "us-east-1",
			LogLevel:          zerolog.DebugLevel,
			ConfigurationSet:  "forwarder",
			SesApiVersion:     SesApiV2,
		},
	)
}

func TestRejectsUnknownSesApiVersion(t *testing.T) {
	env := map[string]string{
		"S3_BUCKET_NAME":   "my-bucket",
		"FORWARD_TO_EMAIL": "me@bar.com",
		"REGION":           "us-east-1",
		"SES_API_VERSION":  "v3",
	}
	opts, err := GetOptions(envGetter(env))

	assert.Assert(t, opts == nil)
	assert.ErrorContains(
		t, err, "invalid value for environment variable SES_API_VERSION: v3",
	)
}

func TestParseLogLevel(t *testing.T) {
	assert.Check(t, ParseLogLevel("DEBUG") == zerolog.DebugLevel)
	assert.Check(t, ParseLogLevel("info") == zerolog.InfoLevel)
	assert.Check(t, ParseLogLevel("WARNING") == zerolog.WarnLevel)
	assert.Check(t, ParseLogLevel("WARN") == zerolog.WarnLevel)
	assert.Check(t, ParseLogLevel(" ERROR ") == zerolog.ErrorLevel)
	assert.Check(t, ParseLogLevel("CRITICAL") == zerolog.FatalLevel)
	assert.Check(t, ParseLogLevel("") == zerolog.InfoLevel)
	assert.Assert(t, ParseLogLevel("LOUD") == zerolog.InfoLevel)
}

package healthcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func passingChecker() Checker {
	return func() (bool, string, error) { return true, "all good.", nil }
}

func failingChecker() Checker {
	return func() (bool, string, error) { return false, "missing.", nil }
}

func abortingChecker() Checker {
	return func() (bool, string, error) { return false, "broke.", errors.New("boom") }
}

func TestRunChecksWithoutFix(t *testing.T) {
	hh := new(Helper)
	hh.Enlist("ok", passingChecker(), nil)
	hh.Enlist("missing", failingChecker(), nil)

	report, err := hh.RunChecks(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, report.Checks, 2)
	require.Equal(t, StatusOK, report.Checks[0].Status)
	require.Equal(t, StatusFailed, report.Checks[1].Status)
	require.Empty(t, report.Fixes)
	require.False(t, report.Ok())
}

func TestRunChecksAppliesFix(t *testing.T) {
	fixed := false
	fixer := func() (string, error) {
		fixed = true
		return "created.", nil
	}

	hh := new(Helper)
	hh.Enlist("missing", failingChecker(), fixer)

	report, err := hh.RunChecks(context.Background(), true)
	require.NoError(t, err)

	require.True(t, fixed)
	require.Len(t, report.Fixes, 1)
	require.Equal(t, StatusOK, report.Fixes[0].Status)
	require.True(t, report.Ok())
}

func TestRunChecksFixFailure(t *testing.T) {
	fixer := func() (string, error) {
		return "could not create.", errors.New("denied")
	}

	hh := new(Helper)
	hh.Enlist("missing", failingChecker(), fixer)

	report, err := hh.RunChecks(context.Background(), true)
	require.NoError(t, err)

	require.Equal(t, StatusFailed, report.Fixes[0].Status)
	require.False(t, report.Ok())
}

func TestRunChecksAbortedCheckOmitsFix(t *testing.T) {
	hh := new(Helper)
	hh.Enlist("broken", abortingChecker(), nil)

	report, err := hh.RunChecks(context.Background(), true)
	require.NoError(t, err)

	require.Equal(t, StatusAborted, report.Checks[0].Status)
	require.Equal(t, StatusOmitted, report.Fixes[0].Status)
	require.False(t, report.Ok())
}

package version

import (
	"testing"

	"github.com/rxtech-lab/argo-policy/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigCompatibility(t *testing.T) {
	tests := []struct {
		name             string
		supportedVersion string
		configVersion    string
		expectError      bool
		errorContains    string
		errorCode        errors.ErrorCode
	}{
		{
			name:             "exact match",
			supportedVersion: "1.1.0",
			configVersion:    "1.1.0",
			expectError:      false,
		},
		{
			name:             "older config minor",
			supportedVersion: "1.1.0",
			configVersion:    "1.0.0",
			expectError:      false,
		},
		{
			name:             "config patch higher",
			supportedVersion: "1.1.0",
			configVersion:    "1.1.9",
			expectError:      false,
		},
		{
			name:             "short config version",
			supportedVersion: "1.1.0",
			configVersion:    "1.0",
			expectError:      false,
		},
		{
			name:             "newer config minor",
			supportedVersion: "1.1.0",
			configVersion:    "1.2.0",
			expectError:      true,
			errorContains:    "minor version mismatch",
			errorCode:        errors.ErrCodeVersionMismatch,
		},
		{
			name:             "major version differs",
			supportedVersion: "1.1.0",
			configVersion:    "2.0.0",
			expectError:      true,
			errorContains:    "major version mismatch",
			errorCode:        errors.ErrCodeVersionMismatch,
		},
		{
			name:             "supported is main",
			supportedVersion: "main",
			configVersion:    "9.9.9",
			expectError:      false,
		},
		{
			name:             "config is main",
			supportedVersion: "1.1.0",
			configVersion:    "main",
			expectError:      false,
		},
		{
			name:             "v prefix on both",
			supportedVersion: "v1.1.0",
			configVersion:    "v1.0.3",
			expectError:      false,
		},
		{
			name:             "invalid config version",
			supportedVersion: "1.1.0",
			configVersion:    "not-a-version",
			expectError:      true,
			errorContains:    "invalid config version",
			errorCode:        errors.ErrCodeInvalidVersion,
		},
		{
			name:             "empty config version",
			supportedVersion: "1.1.0",
			configVersion:    "",
			expectError:      true,
			errorContains:    "invalid config version",
			errorCode:        errors.ErrCodeInvalidVersion,
		},
		{
			name:             "invalid supported version",
			supportedVersion: "latest",
			configVersion:    "1.0.0",
			expectError:      true,
			errorContains:    "invalid supported version",
			errorCode:        errors.ErrCodeInvalidVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConfigCompatibility(tt.supportedVersion, tt.configVersion)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Equal(t, tt.errorCode, errors.GetCode(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCheckConfigVersion(t *testing.T) {
	require.NoError(t, CheckConfigVersion(SchemaVersion))
	require.NoError(t, CheckConfigVersion("1.0.0"))
	require.Error(t, CheckConfigVersion("2.0.0"))
}

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, Version, v)
}

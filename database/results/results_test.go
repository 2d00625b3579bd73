// Copyright 2025 The releasetrack authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package results_test

import (
	"testing"

	"github.com/releasetrack/releasetrack/database/models"
	"github.com/releasetrack/releasetrack/database/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	orig := &results.SignatureCheck{
		File:        "apache-example-1.0.tar.gz.asc",
		Fingerprint: "0D4A 1B2C",
		Verified:    true,
	}
	encoded, err := results.Encode(models.TaskTypeSignatureCheck, orig)
	require.NoError(t, err)
	decoded, err := results.Decode(
		models.TaskTypeSignatureCheck,
		encoded,
	)
	require.NoError(t, err)
	sig, ok := decoded.(*results.SignatureCheck)
	require.True(t, ok, "decoded payload has wrong type: %T", decoded)
	assert.Equal(t, orig, sig)
}

func TestEncodeRejectsMismatchedPayload(t *testing.T) {
	payload := &results.HashingCheck{Checked: 3}
	_, err := results.Encode(models.TaskTypeSignatureCheck, payload)
	require.ErrorIs(t, err, results.ErrResultShapeMismatch)
}

func TestUnknownTaskType(t *testing.T) {
	assert.False(t, results.Registered("NOT_A_TASK_TYPE"))
	_, err := results.Decode("NOT_A_TASK_TYPE", "{}")
	require.ErrorIs(t, err, results.ErrUnknownResultShape)
	_, err = results.Encode(
		"NOT_A_TASK_TYPE",
		&results.HashingCheck{},
	)
	require.ErrorIs(t, err, results.ErrUnknownResultShape)
}

func TestAllTaskTypesRegistered(t *testing.T) {
	for _, taskType := range []models.TaskType{
		models.TaskTypeArchiveIntegrity,
		models.TaskTypeArchiveStructure,
		models.TaskTypeHashingCheck,
		models.TaskTypeLicenseFiles,
		models.TaskTypeLicenseHeaders,
		models.TaskTypePathsCheck,
		models.TaskTypeSignatureCheck,
		models.TaskTypeSbomGenerateCycloneDX,
		models.TaskTypeVoteInitiate,
		models.TaskTypeMessageSend,
	} {
		assert.True(
			t,
			results.Registered(taskType),
			"no payload shape for %s",
			taskType,
		)
	}
}

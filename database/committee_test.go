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

package database_test

import (
	"testing"

	"github.com/releasetrack/releasetrack/database"
	"github.com/releasetrack/releasetrack/database/models"
	"github.com/releasetrack/releasetrack/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetCommittee(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.CreateCommittee(&models.Committee{
		Name:             "tooling",
		FullName:         "Apache Tooling",
		CommitteeMembers: []string{"alice", "bob"},
	}))
	committee, err := store.GetCommittee("tooling", nil)
	require.NoError(t, err)
	require.NotNil(t, committee)
	assert.Equal(t, "Apache Tooling", committee.FullName)
	assert.True(t, committee.CommitteeMembers.Contains("alice"))

	// Unknown committees return nil without error
	missing, err := store.GetCommittee("nope", nil)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateCommitteeDuplicate(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.CreateCommittee(&models.Committee{
		Name: "tooling",
	}))
	err := store.CreateCommittee(&models.Committee{Name: "tooling"})
	require.ErrorIs(t, err, database.ErrConstraintViolation)
}

func TestCreateCommitteeMissingParent(t *testing.T) {
	store := setupStore(t)
	parent := "incubator"
	err := store.CreateCommittee(&models.Committee{
		Name:                "new-podling",
		IsPodling:           true,
		ParentCommitteeName: &parent,
	})
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestPodlingDisplayName(t *testing.T) {
	committee := &models.Committee{
		Name:      "new-podling",
		FullName:  "Apache New Podling",
		IsPodling: true,
	}
	assert.Equal(t, "Apache New Podling (PPMC)", committee.DisplayName())
	committee.IsPodling = false
	assert.Equal(t, "Apache New Podling", committee.DisplayName())
}

func TestUpdateCommitteeMembership(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.CreateCommittee(&models.Committee{
		Name: "tooling",
	}))
	require.NoError(t, store.UpdateCommitteeMembership(
		"tooling",
		[]string{"alice"},
		[]string{"alice", "bob"},
		[]string{"alice"},
	))
	committee, err := store.GetCommittee("tooling", nil)
	require.NoError(t, err)
	require.NotNil(t, committee)
	assert.Equal(t, types.StringList{"alice"}, committee.CommitteeMembers)
	assert.Equal(t, types.StringList{"alice", "bob"}, committee.Committers)
	assert.True(t, committee.ReleaseManagers.Contains("alice"))
	assert.False(t, committee.ReleaseManagers.Contains("bob"))

	err = store.UpdateCommitteeMembership("nope", nil, nil, nil)
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestSetCommitteeParentCycle(t *testing.T) {
	store := setupStore(t)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, store.CreateCommittee(&models.Committee{
			Name: name,
		}))
	}
	a, b, c := "a", "b", "c"
	require.NoError(t, store.SetCommitteeParent("b", &a))
	require.NoError(t, store.SetCommitteeParent("c", &b))

	// a -> c would close the loop a -> c -> b -> a
	err := store.SetCommitteeParent("a", &c)
	require.ErrorIs(t, err, database.ErrCommitteeCycle)

	// Direct self-parent
	err = store.SetCommitteeParent("a", &a)
	require.ErrorIs(t, err, database.ErrCommitteeCycle)

	// Clearing a parent is always legal
	require.NoError(t, store.SetCommitteeParent("b", nil))
}

func TestDeleteCommittee(t *testing.T) {
	store := setupStore(t)
	seedProject(t, store, "tooling", "example")

	err := store.DeleteCommittee("tooling")
	require.ErrorIs(t, err, database.ErrCommitteeInUse)

	require.NoError(t, store.CreateCommittee(&models.Committee{
		Name: "empty",
	}))
	require.NoError(t, store.DeleteCommittee("empty"))
	err = store.DeleteCommittee("empty")
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestListCommittees(t *testing.T) {
	store := setupStore(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, store.CreateCommittee(&models.Committee{
			Name: name,
		}))
	}
	committees, err := store.ListCommittees(nil)
	require.NoError(t, err)
	require.Len(t, committees, 3)
	assert.Equal(t, "alpha", committees[0].Name)
	assert.Equal(t, "zeta", committees[2].Name)
}

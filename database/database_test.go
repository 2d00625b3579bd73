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
	"github.com/stretchr/testify/require"
)

// setupStore creates a file-backed store in a temp directory. File-backed
// stores exercise the same WAL and write-lock behavior as production.
func setupStore(t *testing.T, opts ...database.StoreOptionFunc) *database.Store {
	t.Helper()
	store, err := database.New(t.TempDir(), opts...)
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() {
		store.Close() //nolint:errcheck
	})
	return store
}

// seedProject creates a committee and a project under it
func seedProject(
	t *testing.T,
	store *database.Store,
	committeeName string,
	projectName string,
) {
	t.Helper()
	require.NoError(t, store.CreateCommittee(&models.Committee{
		Name:     committeeName,
		FullName: "Apache " + committeeName,
	}))
	require.NoError(t, store.CreateProject(&models.Project{
		Name:          projectName,
		FullName:      "Apache " + projectName,
		CommitteeName: committeeName,
	}))
}

// seedRelease creates a committee, project, and release
func seedRelease(
	t *testing.T,
	store *database.Store,
	projectName string,
	version string,
) *models.Release {
	t.Helper()
	seedProject(t, store, projectName+"-committee", projectName)
	release := &models.Release{
		ProjectName: projectName,
		Version:     version,
	}
	require.NoError(t, store.CreateRelease(release))
	return release
}

func TestStoreInMemory(t *testing.T) {
	store, err := database.New("")
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck
	require.NotNil(t, store.DB())
}

func TestStoreReopen(t *testing.T) {
	dataDir := t.TempDir()
	store, err := database.New(dataDir)
	require.NoError(t, err)
	require.NoError(t, store.CreateCommittee(&models.Committee{
		Name: "tooling",
	}))
	require.NoError(t, store.Close())

	// Data survives reopen
	store, err = database.New(dataDir)
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck
	committee, err := store.GetCommittee("tooling", nil)
	require.NoError(t, err)
	require.NotNil(t, committee)
}

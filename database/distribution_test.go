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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDistribution(t *testing.T) {
	store := setupStore(t)
	release := seedRelease(t, store, "example", "1.0")
	distribution := &models.Distribution{
		Platform:    models.DistributionPlatformPyPI,
		ReleaseName: release.Name,
		Package:     "apache-example",
		Version:     "1.0",
	}
	require.NoError(t, store.AddDistribution(distribution))

	// URLs are expanded from the platform templates
	assert.Equal(
		t,
		"https://pypi.org/pypi/apache-example/1.0/json",
		distribution.APIURL,
	)
	assert.Equal(
		t,
		"https://pypi.org/project/apache-example/1.0/",
		distribution.WebURL,
	)

	listed, err := store.ListDistributionsByRelease(release.Name, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestAddDistributionDuplicate(t *testing.T) {
	store := setupStore(t)
	release := seedRelease(t, store, "example", "1.0")
	distribution := models.Distribution{
		Platform:       models.DistributionPlatformGitHub,
		ReleaseName:    release.Name,
		OwnerNamespace: "apache",
		Package:        "example",
		Version:        "1.0",
	}
	first := distribution
	require.NoError(t, store.AddDistribution(&first))
	second := distribution
	err := store.AddDistribution(&second)
	require.ErrorIs(t, err, database.ErrConstraintViolation)

	// A different version of the same package is a new record
	third := distribution
	third.Version = "1.1"
	require.NoError(t, store.AddDistribution(&third))
}

func TestAddDistributionUnknownPlatform(t *testing.T) {
	store := setupStore(t)
	release := seedRelease(t, store, "example", "1.0")
	err := store.AddDistribution(&models.Distribution{
		Platform:    "SOURCEFORGE",
		ReleaseName: release.Name,
		Package:     "example",
		Version:     "1.0",
	})
	require.ErrorIs(t, err, database.ErrConstraintViolation)
}

func TestAddDistributionStaging(t *testing.T) {
	store := setupStore(t)
	release := seedRelease(t, store, "example", "1.0")

	// PyPI has no staging repository
	err := store.AddDistribution(&models.Distribution{
		Platform:    models.DistributionPlatformPyPI,
		ReleaseName: release.Name,
		Package:     "apache-example",
		Version:     "1.0",
		Staging:     true,
	})
	require.ErrorIs(t, err, database.ErrConstraintViolation)

	// Maven Central does
	require.NoError(t, store.AddDistribution(&models.Distribution{
		Platform:       models.DistributionPlatformMaven,
		ReleaseName:    release.Name,
		OwnerNamespace: "org.apache.example",
		Package:        "example-core",
		Version:        "1.0",
		Staging:        true,
	}))
}

func TestAddDistributionMissingRelease(t *testing.T) {
	store := setupStore(t)
	err := store.AddDistribution(&models.Distribution{
		Platform:    models.DistributionPlatformNpm,
		ReleaseName: "ghost-1.0",
		Package:     "example",
		Version:     "1.0",
	})
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestDeleteDistribution(t *testing.T) {
	store := setupStore(t)
	release := seedRelease(t, store, "example", "1.0")
	distribution := &models.Distribution{
		Platform:       models.DistributionPlatformDockerHub,
		ReleaseName:    release.Name,
		OwnerNamespace: "apache",
		Package:        "example",
		Version:        "1.0",
	}
	require.NoError(t, store.AddDistribution(distribution))
	require.NoError(t, store.DeleteDistribution(distribution.ID))
	err := store.DeleteDistribution(distribution.ID)
	require.ErrorIs(t, err, database.ErrNotFound)
}

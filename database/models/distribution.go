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

package models

import (
	"github.com/releasetrack/releasetrack/database/types"
)

// DistributionPlatform is a closed set of package distribution platforms.
// Each member carries its own configuration record, resolved through
// Config() rather than string-keyed maps at call sites.
type DistributionPlatform string

const (
	DistributionPlatformArtifactHub DistributionPlatform = "ARTIFACT_HUB"
	DistributionPlatformDockerHub   DistributionPlatform = "DOCKER_HUB"
	DistributionPlatformGitHub      DistributionPlatform = "GITHUB"
	DistributionPlatformMaven       DistributionPlatform = "MAVEN"
	DistributionPlatformNpm         DistributionPlatform = "NPM"
	DistributionPlatformNpmScoped   DistributionPlatform = "NPM_SCOPED"
	DistributionPlatformPyPI        DistributionPlatform = "PYPI"
)

// PlatformConfig is the per-variant configuration attached to a
// DistributionPlatform. Templates use [OWNER], [PACKAGE], and [VERSION]
// placeholders.
type PlatformConfig struct {
	DisplayName     string
	APIURLTemplate  string
	WebURLTemplate  string
	SupportsStaging bool
}

var platformConfigs = map[DistributionPlatform]PlatformConfig{
	DistributionPlatformArtifactHub: {
		DisplayName:    "Artifact Hub",
		APIURLTemplate: "https://artifacthub.io/api/v1/packages/helm/[OWNER]/[PACKAGE]/[VERSION]",
		WebURLTemplate: "https://artifacthub.io/packages/helm/[OWNER]/[PACKAGE]/[VERSION]",
	},
	DistributionPlatformDockerHub: {
		DisplayName:    "Docker Hub",
		APIURLTemplate: "https://hub.docker.com/v2/repositories/[OWNER]/[PACKAGE]/tags/[VERSION]",
		WebURLTemplate: "https://hub.docker.com/r/[OWNER]/[PACKAGE]/tags",
	},
	DistributionPlatformGitHub: {
		DisplayName:    "GitHub",
		APIURLTemplate: "https://api.github.com/repos/[OWNER]/[PACKAGE]/releases/tags/[VERSION]",
		WebURLTemplate: "https://github.com/[OWNER]/[PACKAGE]/releases/tag/[VERSION]",
	},
	DistributionPlatformMaven: {
		DisplayName:     "Maven Central",
		APIURLTemplate:  "https://repo1.maven.org/maven2/[OWNER]/[PACKAGE]/[VERSION]/",
		WebURLTemplate:  "https://central.sonatype.com/artifact/[OWNER]/[PACKAGE]/[VERSION]",
		SupportsStaging: true,
	},
	DistributionPlatformNpm: {
		DisplayName:    "npm",
		APIURLTemplate: "https://registry.npmjs.org/[PACKAGE]/[VERSION]",
		WebURLTemplate: "https://www.npmjs.com/package/[PACKAGE]/v/[VERSION]",
	},
	DistributionPlatformNpmScoped: {
		DisplayName:    "npm (scoped)",
		APIURLTemplate: "https://registry.npmjs.org/@[OWNER]%2F[PACKAGE]/[VERSION]",
		WebURLTemplate: "https://www.npmjs.com/package/@[OWNER]/[PACKAGE]/v/[VERSION]",
	},
	DistributionPlatformPyPI: {
		DisplayName:    "PyPI",
		APIURLTemplate: "https://pypi.org/pypi/[PACKAGE]/[VERSION]/json",
		WebURLTemplate: "https://pypi.org/project/[PACKAGE]/[VERSION]/",
	},
}

// Config returns the configuration record attached to the platform. The
// second return value is false for unknown platforms.
func (p DistributionPlatform) Config() (PlatformConfig, bool) {
	cfg, ok := platformConfigs[p]
	return cfg, ok
}

// Valid returns true if the platform is a known member of the closed set
func (p DistributionPlatform) Valid() bool {
	_, ok := platformConfigs[p]
	return ok
}

// Distribution records the publication of a release artifact on an
// external distribution platform.
type Distribution struct {
	ID             uint                 `gorm:"primaryKey"`
	Platform       DistributionPlatform `gorm:"uniqueIndex:unique_distribution;not null"`
	ReleaseName    string               `gorm:"uniqueIndex:unique_distribution;not null"`
	Release        *Release             `gorm:"foreignKey:ReleaseName;references:Name"`
	OwnerNamespace string               `gorm:"uniqueIndex:unique_distribution"`
	Package        string               `gorm:"uniqueIndex:unique_distribution;not null"`
	Version        string               `gorm:"uniqueIndex:unique_distribution;not null"`
	Staging        bool
	UploadDate     *types.UTCTime
	APIURL         string
	WebURL         string
}

func (Distribution) TableName() string {
	return "distribution"
}

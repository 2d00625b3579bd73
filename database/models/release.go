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

// ReleasePhase is the release's position in its lifecycle. Transitions are
// strictly forward, one step at a time.
type ReleasePhase string

const (
	// The release files are being composed and checked
	ReleasePhaseCandidateDraft ReleasePhase = "RELEASE_CANDIDATE_DRAFT"
	// The files are frozen and the project members are voting
	ReleasePhaseCandidate ReleasePhase = "RELEASE_CANDIDATE"
	// The vote passed and the release files are being put in place
	ReleasePhasePreview ReleasePhase = "RELEASE_PREVIEW"
	// The release is published. Terminal
	ReleasePhaseRelease ReleasePhase = "RELEASE"
)

// phaseOrder defines the forward order of release phases
var phaseOrder = []ReleasePhase{
	ReleasePhaseCandidateDraft,
	ReleasePhaseCandidate,
	ReleasePhasePreview,
	ReleasePhaseRelease,
}

// Valid returns true if the phase is a known member of the lifecycle
func (p ReleasePhase) Valid() bool {
	for _, phase := range phaseOrder {
		if p == phase {
			return true
		}
	}
	return false
}

// Next returns the phase that follows p, or false when p is terminal or
// unknown
func (p ReleasePhase) Next() (ReleasePhase, bool) {
	for i, phase := range phaseOrder {
		if p == phase && i+1 < len(phaseOrder) {
			return phaseOrder[i+1], true
		}
	}
	return "", false
}

// CanTransitionTo reports whether moving from p to next is a legal
// single-step forward transition
func (p ReleasePhase) CanTransitionTo(next ReleasePhase) bool {
	following, ok := p.Next()
	return ok && following == next
}

// Terminal reports whether the phase permits no further transitions
func (p ReleasePhase) Terminal() bool {
	return p == ReleasePhaseRelease
}

// ReleaseName derives the canonical release name from project and version
func ReleaseName(projectName, version string) string {
	return projectName + "-" + version
}

// Release represents a specific version of a project undergoing or having
// completed the publication process. The name is guaranteed to equal
// "<project>-<version>", so (project_name, version) uniqueness makes the
// name usable as the primary key.
type Release struct {
	Name            string       `gorm:"primaryKey"`
	Phase           ReleasePhase `gorm:"not null"`
	Created         types.UTCTime
	Released        *types.UTCTime
	ProjectName     string   `gorm:"uniqueIndex:unique_project_version;not null"`
	Project         *Project `gorm:"foreignKey:ProjectName;references:Name"`
	Version         string   `gorm:"uniqueIndex:unique_project_version;not null"`
	PackageManagers types.StringList
	Sboms           types.StringList
	VoteStarted     *types.UTCTime
	VoteResolved    *types.UTCTime
	Revisions       []Revision `gorm:"foreignKey:ReleaseName;references:Name;constraint:OnDelete:CASCADE"`
	Tasks           []Task     `gorm:"foreignKey:ReleaseName;references:Name"`
}

func (Release) TableName() string {
	return "release"
}

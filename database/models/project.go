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

// Project is a software unit under a committee. It owns releases and an
// optional release policy.
type Project struct {
	Name                 string `gorm:"primaryKey"`
	FullName             string
	IsPodling            bool
	IsRetired            bool
	Description          string
	Category             string
	ProgrammingLanguages types.StringList
	CommitteeName        string         `gorm:"index;not null"`
	Committee            *Committee     `gorm:"foreignKey:CommitteeName;references:Name"`
	ReleasePolicyID      *uint
	ReleasePolicy        *ReleasePolicy `gorm:"foreignKey:ReleasePolicyID;references:ID;constraint:OnDelete:CASCADE"`
	Releases             []Release      `gorm:"foreignKey:ProjectName;references:Name"`
	Created              types.UTCTime
	CreatedBy            string
}

func (Project) TableName() string {
	return "project"
}

// DisplayName returns the full name when set
func (p *Project) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Name
}

// ReleasePolicy holds per-project release workflow configuration. Zero
// values mean "unset"; readers resolve them to documented defaults via the
// store's policy accessors, never by reading fields directly.
type ReleasePolicy struct {
	ID                      uint `gorm:"primaryKey"`
	MailtoAddresses         types.StringList
	ManualVote              bool
	MinHours                int
	ReleaseChecklist        string
	PauseForRM              bool
	StartVoteTemplate       string
	AnnounceReleaseTemplate string
}

func (ReleasePolicy) TableName() string {
	return "release_policy"
}

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

// Committee represents an organizational body owning one or more projects.
// The name is a human-chosen slug and acts as the primary key. A committee
// may have a parent committee, used to express incubator hierarchies.
type Committee struct {
	Name                string  `gorm:"primaryKey"`
	FullName            string
	IsPodling           bool
	ParentCommitteeName *string     `gorm:"index"`
	ParentCommittee     *Committee  `gorm:"foreignKey:ParentCommitteeName;references:Name"`
	ChildCommittees     []Committee `gorm:"foreignKey:ParentCommitteeName;references:Name"`
	Projects            []Project   `gorm:"foreignKey:CommitteeName;references:Name"`
	CommitteeMembers    types.StringList
	Committers          types.StringList
	ReleaseManagers     types.StringList
}

func (Committee) TableName() string {
	return "committee"
}

// DisplayName returns the full name when set, decorated for podlings
func (c *Committee) DisplayName() string {
	name := c.FullName
	if name == "" {
		name = c.Name
	}
	if c.IsPodling {
		return name + " (PPMC)"
	}
	return name
}

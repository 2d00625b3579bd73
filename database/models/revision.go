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

// Revision is one immutable iteration of a release's file set. Both seq and
// number start at 1 for the first revision of a release and increase by
// exactly one per revision, with no gaps and no reuse. Rows are superseded
// by the next revision, never edited.
type Revision struct {
	ReleaseName string   `gorm:"primaryKey;uniqueIndex:unique_release_number"`
	Seq         int      `gorm:"primaryKey;autoIncrement:false"`
	Release     *Release `gorm:"foreignKey:ReleaseName;references:Name"`
	// Display counter. Tracks seq 1:1 in this schema
	Number      string `gorm:"uniqueIndex:unique_release_number;not null"`
	Created     types.UTCTime
	CreatedBy   string
	Description string
	// Release phase at creation time
	Phase ReleasePhase
}

func (Revision) TableName() string {
	return "revision"
}

// FullName returns the composed revision name, "<release>-<number>"
func (r *Revision) FullName() string {
	return r.ReleaseName + "-" + r.Number
}

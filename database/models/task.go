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
	"gorm.io/datatypes"
)

// TaskStatus is the execution status of a background task. Transitions are
// one-directional: QUEUED -> ACTIVE -> {COMPLETED, FAILED}.
type TaskStatus string

const (
	TaskStatusQueued    TaskStatus = "QUEUED"
	TaskStatusActive    TaskStatus = "ACTIVE"
	TaskStatusCompleted TaskStatus = "COMPLETED"
	TaskStatusFailed    TaskStatus = "FAILED"
)

// Terminal reports whether the status permits no further transitions
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// TaskType identifies the kind of validation or build job a task runs.
// Each member maps to a known result payload shape in the results package.
type TaskType string

const (
	TaskTypeArchiveIntegrity      TaskType = "ARCHIVE_INTEGRITY"
	TaskTypeArchiveStructure      TaskType = "ARCHIVE_STRUCTURE"
	TaskTypeHashingCheck          TaskType = "HASHING_CHECK"
	TaskTypeLicenseFiles          TaskType = "LICENSE_FILES"
	TaskTypeLicenseHeaders        TaskType = "LICENSE_HEADERS"
	TaskTypePathsCheck            TaskType = "PATHS_CHECK"
	TaskTypeSignatureCheck        TaskType = "SIGNATURE_CHECK"
	TaskTypeSbomGenerateCycloneDX TaskType = "SBOM_GENERATE_CYCLONEDX"
	TaskTypeVoteInitiate          TaskType = "VOTE_INITIATE"
	TaskTypeMessageSend           TaskType = "MESSAGE_SEND"
)

// Task is a background job with strictly forward-progressing status. The
// check constraint mirrors the application-level state machine so that even
// direct data mutation cannot produce an inconsistent row.
type Task struct {
	ID        uint       `gorm:"primaryKey"`
	TaskType  TaskType   `gorm:"not null"`
	Status    TaskStatus `gorm:"index;index:ix_task_status_added,priority:1;not null;check:valid_task_status_transitions,status = 'QUEUED' OR (status = 'ACTIVE' AND started IS NOT NULL AND pid IS NOT NULL) OR (status = 'COMPLETED' AND completed IS NOT NULL AND result IS NOT NULL) OR (status = 'FAILED' AND completed IS NOT NULL AND error IS NOT NULL)"`
	Args      datatypes.JSONMap
	Added     types.UTCTime `gorm:"index:ix_task_status_added,priority:2"`
	Started   *types.UTCTime
	PID       *int `gorm:"column:pid"`
	Completed *types.UTCTime
	// Encoded result payload. The shape is discriminated by TaskType
	Result         *string
	Error          *string
	ReleaseName    *string  `gorm:"index"`
	Release        *Release `gorm:"foreignKey:ReleaseName;references:Name"`
	RevisionNumber *string
}

func (Task) TableName() string {
	return "task"
}

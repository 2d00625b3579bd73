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

package database

import (
	"github.com/releasetrack/releasetrack/database/models"
	"github.com/releasetrack/releasetrack/event"
)

const (
	RevisionCreatedEventType     event.EventType = "database.revision-created"
	ReleasePhaseChangedEventType event.EventType = "database.release-phase-changed"
	TaskEnqueuedEventType        event.EventType = "database.task-enqueued"
	TaskStatusChangedEventType   event.EventType = "database.task-status-changed"
)

// RevisionCreatedEvent is published after a revision insert commits
type RevisionCreatedEvent struct {
	ReleaseName string
	Seq         int
	Number      string
}

// ReleasePhaseChangedEvent is published after a phase transition commits
type ReleasePhaseChangedEvent struct {
	ReleaseName string
	OldPhase    models.ReleasePhase
	NewPhase    models.ReleasePhase
}

// TaskEnqueuedEvent is published after a task is created
type TaskEnqueuedEvent struct {
	TaskId   uint
	TaskType models.TaskType
}

// TaskStatusChangedEvent is published after a task status transition commits
type TaskStatusChangedEvent struct {
	TaskId    uint
	TaskType  models.TaskType
	OldStatus models.TaskStatus
	NewStatus models.TaskStatus
}

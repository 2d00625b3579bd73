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
	"errors"
	"fmt"

	"github.com/releasetrack/releasetrack/database/models"
	"github.com/releasetrack/releasetrack/database/results"
	"github.com/releasetrack/releasetrack/database/types"
	"gorm.io/gorm"
)

// EnqueueTask creates a new task in the queued state. The task type must
// have a registered result payload shape, and any release reference must
// resolve.
func (s *Store) EnqueueTask(task *models.Task) error {
	if !results.Registered(task.TaskType) {
		return fmt.Errorf(
			"%w: %s",
			ErrUnknownResultShape,
			task.TaskType,
		)
	}
	task.Status = models.TaskStatusQueued
	task.Added = types.Now()
	task.Started = nil
	task.PID = nil
	task.Completed = nil
	task.Result = nil
	task.Error = nil
	err := s.transaction(func(tx *gorm.DB) error {
		if task.ReleaseName != nil {
			var release models.Release
			if result := tx.First(&release, "name = ?", *task.ReleaseName); result.Error != nil {
				if errors.Is(result.Error, gorm.ErrRecordNotFound) {
					return fmt.Errorf(
						"%w: release %s",
						ErrNotFound,
						*task.ReleaseName,
					)
				}
				return result.Error
			}
		}
		if result := tx.Create(task); result.Error != nil {
			return result.Error
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.taskTransitions.
		WithLabelValues(string(models.TaskStatusQueued)).
		Inc()
	s.publishEvent(
		TaskEnqueuedEventType,
		TaskEnqueuedEvent{
			TaskId:   task.ID,
			TaskType: task.TaskType,
		},
	)
	return nil
}

// StartTask claims a queued task for execution, recording the start time
// and worker pid. The guarded update makes claiming atomic under
// concurrent workers: exactly one claim of a given task succeeds.
func (s *Store) StartTask(taskId uint, pid int) error {
	return s.taskTransition(
		taskId,
		models.TaskStatusQueued,
		models.TaskStatusActive,
		map[string]any{
			"status":  models.TaskStatusActive,
			"started": types.Now(),
			"pid":     pid,
		},
	)
}

// CompleteTask finishes an active task with a structured result payload.
// The payload is validated against the task's type before anything is
// written.
func (s *Store) CompleteTask(taskId uint, result results.Result) error {
	task, err := s.GetTask(taskId, nil)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("%w: task %d", ErrNotFound, taskId)
	}
	encoded, err := results.Encode(task.TaskType, result)
	if err != nil {
		return err
	}
	return s.taskTransition(
		taskId,
		models.TaskStatusActive,
		models.TaskStatusCompleted,
		map[string]any{
			"status":    models.TaskStatusCompleted,
			"completed": types.Now(),
			"result":    encoded,
		},
	)
}

// FailTask finishes an active task with an error description
func (s *Store) FailTask(taskId uint, taskErr string) error {
	return s.taskTransition(
		taskId,
		models.TaskStatusActive,
		models.TaskStatusFailed,
		map[string]any{
			"status":    models.TaskStatusFailed,
			"completed": types.Now(),
			"error":     taskErr,
		},
	)
}

// taskTransition applies a status change guarded on the expected current
// status. When the guard matches no row, the task is either missing or in
// the wrong state; the two are distinguished for the caller.
func (s *Store) taskTransition(
	taskId uint,
	from models.TaskStatus,
	to models.TaskStatus,
	updates map[string]any,
) error {
	err := s.transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Task{}).
			Where("id = ? AND status = ?", taskId, from).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var task models.Task
			if lookup := tx.First(&task, "id = ?", taskId); lookup.Error != nil {
				if errors.Is(lookup.Error, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: task %d", ErrNotFound, taskId)
				}
				return lookup.Error
			}
			return fmt.Errorf(
				"%w: task %d is %s, not %s",
				ErrInvalidTransition,
				taskId,
				task.Status,
				from,
			)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.taskTransitions.WithLabelValues(string(to)).Inc()
	var task models.Task
	if result := s.db.First(&task, "id = ?", taskId); result.Error == nil {
		s.publishEvent(
			TaskStatusChangedEventType,
			TaskStatusChangedEvent{
				TaskId:    taskId,
				TaskType:  task.TaskType,
				OldStatus: from,
				NewStatus: to,
			},
		)
	}
	return nil
}

// GetTask retrieves a task by id. Returns nil when not found
func (s *Store) GetTask(
	taskId uint,
	txn *gorm.DB,
) (*models.Task, error) {
	if txn == nil {
		txn = s.db
	}
	ret := &models.Task{}
	if result := txn.First(ret, "id = ?", taskId); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// TaskResult decodes the stored result payload of a completed task into
// the shape registered for its type
func (s *Store) TaskResult(taskId uint) (results.Result, error) {
	task, err := s.GetTask(taskId, nil)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task %d", ErrNotFound, taskId)
	}
	if task.Result == nil {
		return nil, fmt.Errorf(
			"%w: task %d has no result (status %s)",
			ErrNotFound,
			taskId,
			task.Status,
		)
	}
	return results.Decode(task.TaskType, *task.Result)
}

// ListTasksByRelease retrieves all tasks attached to a release in
// enqueue order
func (s *Store) ListTasksByRelease(
	releaseName string,
	txn *gorm.DB,
) ([]models.Task, error) {
	if txn == nil {
		txn = s.db
	}
	var ret []models.Task
	if result := txn.
		Where("release_name = ?", releaseName).
		Order("added").
		Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// NextQueuedTask retrieves the oldest queued task, or nil when the queue
// is empty. Uses the composite (status, added) index.
func (s *Store) NextQueuedTask(txn *gorm.DB) (*models.Task, error) {
	if txn == nil {
		txn = s.db
	}
	ret := &models.Task{}
	if result := txn.
		Where("status = ?", models.TaskStatusQueued).
		Order("added").
		First(ret); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

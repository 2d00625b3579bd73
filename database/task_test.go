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
	"sync"
	"sync/atomic"
	"testing"

	"github.com/releasetrack/releasetrack/database"
	"github.com/releasetrack/releasetrack/database/models"
	"github.com/releasetrack/releasetrack/database/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskLifecycle(t *testing.T) {
	store := setupStore(t)
	release := seedRelease(t, store, "example", "1.0")

	task := &models.Task{
		TaskType:    models.TaskTypeSignatureCheck,
		ReleaseName: &release.Name,
	}
	require.NoError(t, store.EnqueueTask(task))
	require.NotZero(t, task.ID)
	assert.Equal(t, models.TaskStatusQueued, task.Status)
	assert.False(t, task.Added.IsZero())

	require.NoError(t, store.StartTask(task.ID, 4242))
	got, err := store.GetTask(task.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.TaskStatusActive, got.Status)
	require.NotNil(t, got.Started)
	require.NotNil(t, got.PID)
	assert.Equal(t, 4242, *got.PID)

	require.NoError(t, store.CompleteTask(task.ID, &results.SignatureCheck{
		File:     "example-1.0.tar.gz.asc",
		Verified: true,
	}))
	got, err = store.GetTask(task.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, got.Status)
	require.NotNil(t, got.Completed)
	require.NotNil(t, got.Result)

	// The stored result decodes back into its typed shape
	decoded, err := store.TaskResult(task.ID)
	require.NoError(t, err)
	sig, ok := decoded.(*results.SignatureCheck)
	require.True(t, ok, "unexpected result type %T", decoded)
	assert.True(t, sig.Verified)
}

func TestTaskFailure(t *testing.T) {
	store := setupStore(t)
	task := &models.Task{TaskType: models.TaskTypeHashingCheck}
	require.NoError(t, store.EnqueueTask(task))
	require.NoError(t, store.StartTask(task.ID, 1))
	require.NoError(t, store.FailTask(task.ID, "checksum mismatch"))

	got, err := store.GetTask(task.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Equal(t, "checksum mismatch", *got.Error)
	require.NotNil(t, got.Completed)

	// Failed tasks have no result to decode
	_, err = store.TaskResult(task.ID)
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestTaskInvalidTransitions(t *testing.T) {
	store := setupStore(t)
	task := &models.Task{TaskType: models.TaskTypeHashingCheck}
	require.NoError(t, store.EnqueueTask(task))

	// Completing or failing a queued task skips the active state
	err := store.CompleteTask(task.ID, &results.HashingCheck{Checked: 1})
	require.ErrorIs(t, err, database.ErrInvalidTransition)
	err = store.FailTask(task.ID, "nope")
	require.ErrorIs(t, err, database.ErrInvalidTransition)

	require.NoError(t, store.StartTask(task.ID, 1))

	// Starting an already-active task
	err = store.StartTask(task.ID, 2)
	require.ErrorIs(t, err, database.ErrInvalidTransition)

	require.NoError(t, store.FailTask(task.ID, "gave up"))

	// Terminal states accept nothing further
	err = store.StartTask(task.ID, 3)
	require.ErrorIs(t, err, database.ErrInvalidTransition)
	err = store.CompleteTask(task.ID, &results.HashingCheck{Checked: 1})
	require.ErrorIs(t, err, database.ErrInvalidTransition)
}

// TestTaskCheckConstraintBlocksDirectMutation verifies that the database
// check constraint rejects inconsistent rows even when the store's
// transition guards are bypassed with raw SQL
func TestTaskCheckConstraintBlocksDirectMutation(t *testing.T) {
	store := setupStore(t)
	task := &models.Task{TaskType: models.TaskTypeHashingCheck}
	require.NoError(t, store.EnqueueTask(task))

	// ACTIVE without started and pid violates the constraint
	result := store.DB().Exec(
		"UPDATE task SET status = 'ACTIVE' WHERE id = ?",
		task.ID,
	)
	require.Error(t, result.Error)

	// The same mutation through the pid-setting path is accepted
	result = store.DB().Exec(
		"UPDATE task SET status = 'ACTIVE', started = ?, pid = ? WHERE id = ?",
		"2025-01-01T00:00:00Z",
		4242,
		task.ID,
	)
	require.NoError(t, result.Error)
	got, err := store.GetTask(task.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, got.PID)
	assert.Equal(t, 4242, *got.PID)
}

func TestTaskUnknownType(t *testing.T) {
	store := setupStore(t)
	err := store.EnqueueTask(&models.Task{TaskType: "NOT_A_TASK_TYPE"})
	require.ErrorIs(t, err, database.ErrUnknownResultShape)
}

func TestTaskMissing(t *testing.T) {
	store := setupStore(t)
	err := store.StartTask(12345, 1)
	require.ErrorIs(t, err, database.ErrNotFound)
	got, err := store.GetTask(12345, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNextQueuedTaskOrdering(t *testing.T) {
	store := setupStore(t)

	// Empty queue
	next, err := store.NextQueuedTask(nil)
	require.NoError(t, err)
	assert.Nil(t, next)

	first := &models.Task{TaskType: models.TaskTypeLicenseFiles}
	require.NoError(t, store.EnqueueTask(first))
	second := &models.Task{TaskType: models.TaskTypePathsCheck}
	require.NoError(t, store.EnqueueTask(second))

	next, err = store.NextQueuedTask(nil)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, first.ID, next.ID)

	// Claiming the first task moves the queue head
	require.NoError(t, store.StartTask(first.ID, 1))
	next, err = store.NextQueuedTask(nil)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, second.ID, next.ID)
}

// TestConcurrentTaskClaims verifies that concurrent workers racing to
// claim the same queued task produce exactly one winner
func TestConcurrentTaskClaims(t *testing.T) {
	store := setupStore(t)
	task := &models.Task{TaskType: models.TaskTypeHashingCheck}
	require.NoError(t, store.EnqueueTask(task))

	const numWorkers = 8
	var (
		claims atomic.Int64
		wg     sync.WaitGroup
	)
	for w := range numWorkers {
		wg.Add(1)
		go func(pid int) {
			defer wg.Done()
			err := store.StartTask(task.ID, pid)
			if err == nil {
				claims.Add(1)
			} else {
				assert.ErrorIs(t, err, database.ErrInvalidTransition)
			}
		}(w + 1)
	}
	wg.Wait()
	assert.Equal(t, int64(1), claims.Load(), "expected exactly one claim")
}

func TestListTasksByRelease(t *testing.T) {
	store := setupStore(t)
	release := seedRelease(t, store, "example", "1.0")
	for _, taskType := range []models.TaskType{
		models.TaskTypeArchiveIntegrity,
		models.TaskTypeLicenseHeaders,
	} {
		require.NoError(t, store.EnqueueTask(&models.Task{
			TaskType:    taskType,
			ReleaseName: &release.Name,
		}))
	}
	require.NoError(t, store.EnqueueTask(&models.Task{
		TaskType: models.TaskTypeMessageSend,
	}))

	tasks, err := store.ListTasksByRelease(release.Name, nil)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestEnqueueTaskMissingRelease(t *testing.T) {
	store := setupStore(t)
	ghost := "ghost-1.0"
	err := store.EnqueueTask(&models.Task{
		TaskType:    models.TaskTypeHashingCheck,
		ReleaseName: &ghost,
	})
	require.ErrorIs(t, err, database.ErrNotFound)
}

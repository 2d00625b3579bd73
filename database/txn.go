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
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// Txn wraps a database transaction. All multi-step invariant-preserving
// operations run through Do so that partial application is never visible:
// any error rolls the whole transaction back.
type Txn struct {
	tx       *gorm.DB
	lock     sync.Mutex
	finished bool
}

// NewTxn starts a transaction against the store
func (s *Store) NewTxn() *Txn {
	return &Txn{tx: s.db.Begin()}
}

// DB returns the transaction database handle
func (t *Txn) DB() *gorm.DB {
	return t.tx
}

// Do executes the specified function in the context of the transaction. Any errors returned will result
// in the transaction being rolled back
func (t *Txn) Do(fn func(tx *gorm.DB) error) error {
	if err := fn(t.tx); err != nil {
		if err2 := t.Rollback(); err2 != nil {
			return fmt.Errorf(
				"rollback failed: %w: original error: %w",
				err2,
				err,
			)
		}
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func (t *Txn) Commit() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.finished {
		return nil
	}
	t.finished = true
	return t.tx.Commit().Error
}

func (t *Txn) Rollback() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.finished {
		return nil
	}
	t.finished = true
	return t.tx.Rollback().Error
}

// transaction runs fn inside a fresh transaction with commit/rollback
// handling and write error mapping applied
func (s *Store) transaction(fn func(tx *gorm.DB) error) error {
	return mapWriteError(s.NewTxn().Do(fn))
}

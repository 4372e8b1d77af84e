/*
 * Copyright 2025 The WeaveGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package metrics

import (
	"sync/atomic"
)

// CallMetrics holds various metrics for calls flowing through wrapped operations.
type CallMetrics struct {
	Current int64 // Number of currently executing calls
	Total   int64 // Total number of calls
	Failed  int64 // Number of failed calls
	Success int64 // Number of successful calls
}

// NewCallMetrics creates a new instance of CallMetrics.
func NewCallMetrics() *CallMetrics {
	m := &CallMetrics{}
	return m
}

// IncrementCurrent increases the count of current calls.
func (m *CallMetrics) IncrementCurrent() {
	atomic.AddInt64(&m.Current, 1)
}

// DecrementCurrent decreases the count of current calls.
func (m *CallMetrics) DecrementCurrent() {
	atomic.AddInt64(&m.Current, -1)
}

// IncrementTotal increases the total count of calls.
func (m *CallMetrics) IncrementTotal() {
	atomic.AddInt64(&m.Total, 1)
}

// IncrementFailed increases the count of failed calls.
func (m *CallMetrics) IncrementFailed() {
	atomic.AddInt64(&m.Failed, 1)
}

// IncrementSuccess increases the count of successful calls.
func (m *CallMetrics) IncrementSuccess() {
	atomic.AddInt64(&m.Success, 1)
}

// GetCurrent returns the current number of executing calls.
func (m *CallMetrics) GetCurrent() int64 {
	return atomic.LoadInt64(&m.Current)
}

// GetTotal returns the total number of calls.
func (m *CallMetrics) GetTotal() int64 {
	return atomic.LoadInt64(&m.Total)
}

// GetFailed returns the number of failed calls.
func (m *CallMetrics) GetFailed() int64 {
	return atomic.LoadInt64(&m.Failed)
}

// GetSuccess returns the number of successful calls.
func (m *CallMetrics) GetSuccess() int64 {
	return atomic.LoadInt64(&m.Success)
}

// Reset resets all metrics to zero.
func (m *CallMetrics) Reset() {
	atomic.StoreInt64(&m.Current, 0)
	atomic.StoreInt64(&m.Total, 0)
	atomic.StoreInt64(&m.Failed, 0)
	atomic.StoreInt64(&m.Success, 0)
}

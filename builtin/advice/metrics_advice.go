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

package advice

import (
	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/api/types/metrics"
)

var (
	// Compile-time check Metrics implements Component.
	_ Component = (*Metrics)(nil)
)

// MetricsType 组件类型标识符
const MetricsType = "metrics"

// Metrics collects call statistics for the operations its aspect matches:
// total and currently executing calls, successes and failures. Counters are
// atomic and shared by every operation the aspect wraps.
//
// Metrics 为切面匹配的操作收集调用统计：总数、当前执行数、成功数和失败数。
// 计数器是原子的，由切面包装的所有操作共享。
type Metrics struct {
	metrics *metrics.CallMetrics
}

// NewMetrics creates a metrics component around m for programmatic use.
// A nil m gets a fresh counter set.
func NewMetrics(m *metrics.CallMetrics) *Metrics {
	if m == nil {
		m = metrics.NewCallMetrics()
	}
	return &Metrics{metrics: m}
}

func (x *Metrics) Type() string {
	return MetricsType
}

func (x *Metrics) New() Component {
	return &Metrics{metrics: metrics.NewCallMetrics()}
}

// Init 初始化组件。Metrics 组件没有配置项。
func (x *Metrics) Init(_ types.Config, _ types.Configuration) error {
	if x.metrics == nil {
		x.metrics = metrics.NewCallMetrics()
	}
	return nil
}

// Entries returns the counting entries: before counts entry, afterReturning
// counts success, afterThrowing counts failure, afterFinally closes the call.
func (x *Metrics) Entries() []types.AdviceEntry {
	return []types.AdviceEntry{
		{Kind: types.KindBefore, Handler: func(inv *types.Invocation) error {
			x.metrics.IncrementCurrent()
			x.metrics.IncrementTotal()
			return nil
		}},
		{Kind: types.KindAfterReturning, Handler: func(inv *types.Invocation) error {
			x.metrics.IncrementSuccess()
			return nil
		}},
		{Kind: types.KindAfterThrowing, Handler: func(inv *types.Invocation) error {
			x.metrics.IncrementFailed()
			return nil
		}},
		{Kind: types.KindAfterFinally, Handler: func(inv *types.Invocation) error {
			x.metrics.DecrementCurrent()
			return nil
		}},
	}
}

// GetMetrics 返回当前的指标
func (x *Metrics) GetMetrics() *metrics.CallMetrics {
	return x.metrics
}

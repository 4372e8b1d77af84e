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
	"errors"
	"testing"
	"time"

	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/test/assert"
	"github.com/weavego/weavego/utils/cache"
)

var saveSignature = types.NewOperationSignature("app.repo.BookRepository", "Save", "Book")

// runEntries 按编排顺序对一个调用执行组件的增强点
func runEntries(t *testing.T, component Component, inv *types.Invocation, target func() error) error {
	var callErr error
	entries := component.Entries()
	run := func(kind types.AdviceKind) {
		for _, entry := range entries {
			if entry.Kind == kind {
				if err := entry.Handler(inv); err != nil && callErr == nil {
					callErr = err
				}
			}
		}
	}
	run(types.KindBefore)
	if callErr == nil {
		callErr = target()
	}
	if callErr == nil {
		run(types.KindAfterReturning)
	} else {
		inv.SetError(callErr)
		run(types.KindAfterThrowing)
	}
	run(types.KindAfterFinally)
	return callErr
}

func TestRegistryBuiltins(t *testing.T) {
	for _, componentType := range []string{DebugType, MetricsType, RetryType} {
		component, err := Registry.New(componentType)
		assert.Nil(t, err)
		assert.Equal(t, componentType, component.Type())
	}
	_, err := Registry.New("tracing")
	assert.NotNil(t, err)
}

func TestRegistryRejectsDuplicateType(t *testing.T) {
	r := new(ComponentRegistry)
	assert.Nil(t, r.Add(&Debug{}))
	assert.NotNil(t, r.Add(&Debug{}))
}

func TestDebugReportsFlow(t *testing.T) {
	var flows []string
	var errs []error
	config := types.NewConfig(types.WithOnDebug(func(flowType string, inv *types.Invocation, err error) {
		flows = append(flows, flowType)
		errs = append(errs, err)
	}))
	debug := NewDebug(config)

	inv := types.NewInvocation(saveSignature, []interface{}{"dune"})
	err := runEntries(t, debug, inv, func() error { return nil })
	assert.Nil(t, err)
	assert.Equal(t, []string{types.In, types.Out}, flows)
	assert.Nil(t, errs[0])
	assert.Nil(t, errs[1])

	// 失败的调用在Out流里带上失败
	flows, errs = nil, nil
	boom := errors.New("store unavailable")
	inv = types.NewInvocation(saveSignature, []interface{}{"dune"})
	err = runEntries(t, debug, inv, func() error { return boom })
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, []string{types.In, types.Out}, flows)
	assert.True(t, errors.Is(errs[1], boom))
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(nil)

	inv := types.NewInvocation(saveSignature, []interface{}{"dune"})
	assert.Nil(t, runEntries(t, m, inv, func() error { return nil }))

	inv = types.NewInvocation(saveSignature, []interface{}{"dune"})
	err := runEntries(t, m, inv, func() error { return errors.New("store unavailable") })
	assert.NotNil(t, err)

	stats := m.GetMetrics()
	assert.Equal(t, int64(2), stats.GetTotal())
	assert.Equal(t, int64(1), stats.GetSuccess())
	assert.Equal(t, int64(1), stats.GetFailed())
	assert.Equal(t, int64(0), stats.GetCurrent())

	stats.Reset()
	assert.Equal(t, int64(0), stats.GetTotal())
}

func TestRetryUntilSuccess(t *testing.T) {
	retry, err := NewRetry(types.NewConfig(), RetryConfiguration{MaxAttempts: 3})
	assert.Nil(t, err)
	entries := retry.Entries()
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, types.KindAround, entries[0].Kind)

	attempts := 0
	inv := types.NewInvocation(saveSignature, []interface{}{"dune"})
	err = entries[0].Around(inv, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("store unavailable")
		}
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	retry, err := NewRetry(types.NewConfig(), RetryConfiguration{MaxAttempts: 2})
	assert.Nil(t, err)

	attempts := 0
	boom := errors.New("store unavailable")
	inv := types.NewInvocation(saveSignature, []interface{}{"dune"})
	err = retry.Entries()[0].Around(inv, func() error {
		attempts++
		return boom
	})
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 2, attempts)
}

func TestRetryDefaultsAndValidation(t *testing.T) {
	retry, err := NewRetry(types.NewConfig(), RetryConfiguration{})
	assert.Nil(t, err)
	assert.Equal(t, 3, retry.Config.MaxAttempts)

	_, err = NewRetry(types.NewConfig(), RetryConfiguration{Delay: "fast"})
	assert.NotNil(t, err)
	_, err = NewRetry(types.NewConfig(), RetryConfiguration{Cooldown: "soon"})
	assert.NotNil(t, err)
}

// 尝试耗尽后进入冷却期，冷却期内退化为单次调用
func TestRetryCooldown(t *testing.T) {
	store := cache.NewMemoryCache(time.Minute)
	config := types.NewConfig(types.WithCache(store))
	retry, err := NewRetry(config, RetryConfiguration{MaxAttempts: 3, Cooldown: "10s"})
	assert.Nil(t, err)
	around := retry.Entries()[0].Around

	boom := errors.New("store unavailable")
	attempts := 0
	fail := func() error {
		attempts++
		return boom
	}

	inv := types.NewInvocation(saveSignature, []interface{}{"dune"})
	err = around(inv, fail)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 3, attempts)

	// 冷却期内只尝试一次
	attempts = 0
	inv = types.NewInvocation(saveSignature, []interface{}{"dune"})
	err = around(inv, fail)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 1, attempts)

	// 冷却状态按操作签名隔离
	attempts = 0
	otherInv := types.NewInvocation(types.NewOperationSignature("app.repo.BookRepository", "Delete", "string"), nil)
	err = around(otherInv, fail)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 3, attempts)
}

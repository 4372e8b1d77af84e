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

package engine

import (
	"errors"

	"github.com/weavego/weavego/api/types"
)

// CompiledChain is the ordered advice sequence plus the terminal target call
// for one operation, computed once per signature and reused for every call.
//
// Layering: around entries nest around everything else, the lowest order
// outermost; before/after entries are scheduled relative to the terminal step
// only. The terminal step runs exactly once per call unless an around entry
// explicitly re-invokes its continuation.
//
// CompiledChain 一个操作的有序增强链加终端目标调用，按签名编译一次，每次调用复用。
// 环绕增强点嵌套包裹其余所有层，Order 最小的在最外层；
// before/after 增强点只相对终端步骤排布。
type CompiledChain struct {
	signature types.OperationSignature
	target    types.OperationFunc
	invoke    func(inv *types.Invocation) error
	// direct 无增强点时直接调用目标
	direct bool
}

// newCompiledChain composes the chain for one operation from the resolved,
// already ordered advice entries.
func newCompiledChain(signature types.OperationSignature, target types.OperationFunc, entries []resolvedEntry) *CompiledChain {
	c := &CompiledChain{
		signature: signature,
		target:    target,
	}
	if len(entries) == 0 {
		c.direct = true
		return c
	}

	// 按类型分组，保持全局排序
	var befores, returnings, throwings, finallies, arounds []resolvedEntry
	for _, item := range entries {
		switch item.entry.Kind {
		case types.KindBefore:
			befores = append(befores, item)
		case types.KindAfterReturning:
			returnings = append(returnings, item)
		case types.KindAfterThrowing:
			throwings = append(throwings, item)
		case types.KindAfterFinally:
			finallies = append(finallies, item)
		case types.KindAround:
			arounds = append(arounds, item)
		}
	}

	core := func(inv *types.Invocation) error {
		var callErr error

		// A before failure aborts the call: the terminal step and afterReturning
		// entries are skipped, afterThrowing and afterFinally still fire below.
		for _, item := range befores {
			if err := item.entry.Handler(inv); err != nil {
				callErr = err
				break
			}
		}

		if callErr == nil {
			result, err := c.target(inv.Args()...)
			if err != nil {
				callErr = err
			} else {
				inv.SetResult(result)
			}
		}

		if callErr == nil {
			// afterReturning is observe-only: the caller-visible value is
			// snapshotted before any afterReturning entry runs.
			snapshot := inv.Result()
			for _, item := range returnings {
				if err := item.entry.Handler(inv); err != nil {
					callErr = err
					break
				}
			}
			inv.SetResult(snapshot)
		}

		if callErr != nil {
			inv.SetError(callErr)
			for _, item := range throwings {
				if err := item.entry.Handler(inv); err != nil {
					// 增强点自身失败：跳过后续同类增强点，原失败不被吞掉
					callErr = errors.Join(callErr, err)
					inv.SetError(callErr)
					break
				}
			}
		}

		// afterFinally entries run on every exit path; a failure in one never
		// cancels the ones still owed.
		for _, item := range finallies {
			if err := item.entry.Handler(inv); err != nil {
				callErr = joinErr(callErr, err)
			}
		}

		inv.SetError(callErr)
		return callErr
	}

	// 环绕层从内向外包裹，Order 最小的最后包，即最外层最先执行
	invoke := core
	for i := len(arounds) - 1; i >= 0; i-- {
		around := arounds[i].entry.Around
		next := invoke
		invoke = func(inv *types.Invocation) error {
			return around(inv, func() error {
				return next(inv)
			})
		}
	}
	c.invoke = invoke
	return c
}

// Call runs the chain for one call: fresh invocation, full chain, result or
// failure from the invocation record. The chain itself performs no logging,
// timing, or state mutation: it is pure plumbing around the advice.
//
// Call 执行一次调用：新建调用记录，执行完整链，从调用记录取结果或失败。
func (c *CompiledChain) Call(args []interface{}) (interface{}, error) {
	if c.direct {
		return c.target(args...)
	}
	inv := types.NewInvocation(c.signature, args)
	err := c.invoke(inv)
	if err != nil && inv.Err() == nil {
		inv.SetError(err)
	}
	return inv.Result(), err
}

// Direct reports whether the chain degenerates to a direct target call.
func (c *CompiledChain) Direct() bool {
	return c.direct
}

func joinErr(pending error, err error) error {
	if pending == nil {
		return err
	}
	return errors.Join(pending, err)
}

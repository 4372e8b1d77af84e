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

package types

import (
	"github.com/gofrs/uuid/v5"
)

// Invocation is the mutable per-call record passed through an advice chain.
// It is owned exclusively by one in-flight call and never shared across
// concurrent calls to the same operation.
//
// Invocation 是通过增强链传递的每次调用的可变记录。
// 它由一次进行中的调用独占，不会在对同一操作的并发调用间共享。
type Invocation struct {
	// Id 调用ID，同一次调用在整个增强链流转过程中唯一
	Id string
	// Signature identifies the operation being invoked.
	Signature OperationSignature
	// Metadata carries per-call values advice entries may use to coordinate.
	// Metadata 携带每次调用的值，增强点之间可借此协调。
	Metadata Metadata

	args      []interface{}
	result    interface{}
	hasResult bool
	err       error
}

// NewInvocation creates a fresh invocation record for one call, with a uuid id.
// NewInvocation 为一次调用创建新的调用记录，并通过uuid生成调用ID。
func NewInvocation(signature OperationSignature, args []interface{}) *Invocation {
	uuId, _ := uuid.NewV4()
	return &Invocation{
		Id:        uuId.String(),
		Signature: signature,
		Metadata:  NewMetadata(),
		args:      args,
	}
}

// Args returns the ordered argument values of the call.
func (inv *Invocation) Args() []interface{} {
	return inv.args
}

// Arg returns the argument at index i, or nil if out of range.
func (inv *Invocation) Arg(i int) interface{} {
	if i < 0 || i >= len(inv.args) {
		return nil
	}
	return inv.args[i]
}

// ArgCount returns the number of arguments.
func (inv *Invocation) ArgCount() int {
	return len(inv.args)
}

// SetArg replaces the argument at index i. Out-of-range indexes are ignored.
// SetArg 替换下标 i 处的参数。下标越界则忽略。
func (inv *Invocation) SetArg(i int, v interface{}) {
	if i >= 0 && i < len(inv.args) {
		inv.args[i] = v
	}
}

// SetResult fills the result slot.
func (inv *Invocation) SetResult(v interface{}) {
	inv.result = v
	inv.hasResult = true
}

// Result returns the value in the result slot, nil if the slot is still empty.
func (inv *Invocation) Result() interface{} {
	return inv.result
}

// HasResult reports whether the result slot has been filled.
func (inv *Invocation) HasResult() bool {
	return inv.hasResult
}

// SetError fills or clears the failure slot. Clearing is an explicit choice
// reserved for around advice that suppresses a failure.
// SetError 填充或清除失败槽。清除是环绕增强点抑制失败时的显式选择。
func (inv *Invocation) SetError(err error) {
	inv.err = err
}

// Err returns the failure carried by the call, nil if none.
func (inv *Invocation) Err() error {
	return inv.err
}

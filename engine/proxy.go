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
	"fmt"
	"sync/atomic"

	"github.com/weavego/weavego/api/types"
)

// GetProxy returns a callable wrapper with the same calling convention as the
// registered target operation. Invoking it looks up (or lazily builds, then
// caches) the compiled chain for the signature and runs it. An operation
// matched by zero aspects costs a direct call plus one cache lookup.
//
// Requesting a proxy for an unregistered signature is a configuration error.
//
// GetProxy 返回与注册的目标操作调用约定相同的可调用包装器。
// 调用它会查找（或首次懒构建并缓存）该签名的编译链并执行。
// 未被任何切面匹配的操作，开销为一次直接调用加一次缓存查找。
func (e *Engine) GetProxy(signature types.OperationSignature) (types.OperationFunc, error) {
	op, ok := e.registry.Operation(signature)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrOperationNotFound, signature.String())
	}
	key := signature.String()
	return func(args ...interface{}) (interface{}, error) {
		return e.chainFor(key, op).Call(args)
	}, nil
}

// chainFor returns the compiled chain for an operation, composing it on first
// use. Composition is build-then-publish: concurrent first calls may compose
// duplicate chains, but only one is ever published and partial chains are
// never observable.
//
// chainFor 返回操作的编译链，首次使用时编译。
// 先构建后发布：并发的首次调用可能重复编译，但只会发布一个，不会暴露半成品链。
func (e *Engine) chainFor(key string, op types.Operation) *CompiledChain {
	if v, ok := e.chains.Load(key); ok {
		return v.(*CompiledChain)
	}
	atomic.StoreInt32(&e.composed, 1)
	chain := newCompiledChain(op.Signature, op.Invoke, e.registry.ResolveApplicable(op.Signature))
	actual, _ := e.chains.LoadOrStore(key, chain)
	return actual.(*CompiledChain)
}

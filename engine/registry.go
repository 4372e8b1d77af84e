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
	"sort"
	"sync"

	"github.com/weavego/weavego/api/types"
)

// registeredAspect 注册的切面及其注册序号
type registeredAspect struct {
	aspect *types.Aspect
	// seq 注册序号，相同Order的切面按注册顺序决出先后
	seq int
}

// resolvedEntry is one advice entry resolved for a signature, carrying the
// sort keys of its owning aspect.
type resolvedEntry struct {
	aspectName string
	order      int
	seq        int
	entry      types.AdviceEntry
}

// Registry holds the registered components, their operations and the declared
// aspects of one engine. Aspects and operations are declared during assembly
// and immutable thereafter.
//
// Registry 保存一个引擎注册的组件、操作和声明的切面。
// 切面和操作在装配期声明，之后不可变。
type Registry struct {
	mu sync.RWMutex
	// operations 按签名key索引的操作
	operations map[string]types.Operation
	// components 按限定名索引的组件操作签名
	components map[string][]types.OperationSignature
	aspects    []registeredAspect
	// aspectNames 已注册切面名，用于唯一性校验
	aspectNames map[string]bool
}

// NewRegistry 创建一个空注册表
func NewRegistry() *Registry {
	return &Registry{
		operations:  make(map[string]types.Operation),
		components:  make(map[string][]types.OperationSignature),
		aspectNames: make(map[string]bool),
	}
}

// RegisterComponent registers a component under its qualified name together
// with the operations it exposes. Signatures are created here, once, and are
// immutable afterwards. Declaration problems (empty name, mismatched owning
// component, missing callable, duplicate signature) are configuration errors.
//
// RegisterComponent 以限定名注册组件及其暴露的操作。
// 签名在此一次性创建，之后不可变。声明问题属于配置错误。
func (r *Registry) RegisterComponent(qualifiedName string, operations ...types.Operation) error {
	if qualifiedName == "" {
		return fmt.Errorf("register component: qualified name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, op := range operations {
		if op.Signature.Component == "" {
			op.Signature.Component = qualifiedName
		}
		if op.Signature.Component != qualifiedName {
			return fmt.Errorf("register component %s: operation %s owned by %s",
				qualifiedName, op.Signature.Operation, op.Signature.Component)
		}
		if op.Signature.Operation == "" {
			return fmt.Errorf("register component %s: operation name must not be empty", qualifiedName)
		}
		if op.Invoke == nil {
			return fmt.Errorf("register component %s: operation %s has no callable", qualifiedName, op.Signature.Operation)
		}
		key := op.Signature.String()
		if _, ok := r.operations[key]; ok {
			return fmt.Errorf("register component %s: %w: %s", qualifiedName, types.ErrDuplicateOperation, key)
		}
		r.operations[key] = op
		r.components[qualifiedName] = append(r.components[qualifiedName], op.Signature)
	}
	return nil
}

// RegisterAspect validates and registers an aspect. Registering two aspects
// under the same name is a configuration error.
// RegisterAspect 校验并注册切面。同名切面重复注册是配置错误。
func (r *Registry) RegisterAspect(aspect *types.Aspect) error {
	if err := aspect.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aspectNames[aspect.Name] {
		return fmt.Errorf("%w: %s", types.ErrDuplicateAspect, aspect.Name)
	}
	r.aspectNames[aspect.Name] = true
	r.aspects = append(r.aspects, registeredAspect{aspect: aspect, seq: len(r.aspects)})
	return nil
}

// Operation looks up the registered operation for a signature.
func (r *Registry) Operation(signature types.OperationSignature) (types.Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operations[signature.String()]
	return op, ok
}

// Signatures returns every registered operation signature, ordered by key.
func (r *Registry) Signatures() []types.OperationSignature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.operations))
	for key := range r.operations {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	result := make([]types.OperationSignature, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.operations[key].Signature)
	}
	return result
}

// Aspects returns a copy of the registered aspects in registration order.
// Aspects 按注册顺序返回已注册切面的副本。
func (r *Registry) Aspects() []*types.Aspect {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*types.Aspect, 0, len(r.aspects))
	for _, item := range r.aspects {
		result = append(result, item.aspect)
	}
	return result
}

// ResolveApplicable collects every advice entry whose effective pointcut rule
// matches the signature, stable-sorted by (aspect order, registration
// sequence) ascending. Two aspects with equal explicit order have no
// guaranteed relative order beyond registration sequence: the tie-break keeps
// repeated runs deterministic, it is not a contract callers should design
// against. Aspects without an explicit order sort after all explicitly
// ordered ones.
//
// ResolveApplicable 收集切入点规则匹配该签名的所有增强点，
// 按（切面Order，注册序号）升序稳定排序。
// 相同显式Order的切面之间只有注册顺序这一确定性决胜，不构成调用方可依赖的契约。
func (r *Registry) ResolveApplicable(signature types.OperationSignature) []resolvedEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []resolvedEntry
	for _, item := range r.aspects {
		for _, entry := range item.aspect.Entries {
			rule := item.aspect.RuleFor(entry)
			if rule != nil && rule.Matches(signature) {
				result = append(result, resolvedEntry{
					aspectName: item.aspect.Name,
					order:      item.aspect.Order,
					seq:        item.seq,
					entry:      entry,
				})
			}
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].order != result[j].order {
			return result[i].order < result[j].order
		}
		return result[i].seq < result[j].seq
	})
	return result
}

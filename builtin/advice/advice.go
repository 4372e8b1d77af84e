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

// Package advice provides the stock advice components that can be referenced
// from aspect definition documents by type, or instantiated programmatically.
//
// advice 包提供内置的增强点组件，可在切面定义文档中按类型引用，也可编程方式创建。
package advice

import (
	"fmt"
	"sync"

	"github.com/weavego/weavego/api/types"
)

// Component is an advice component that can be declared in an aspect
// definition document. A component is registered as a prototype; New() creates
// the per-aspect instance and Init() applies its configuration block.
//
// Component 可在切面定义文档中声明的增强点组件。
// 组件以原型方式注册；New() 创建每个切面的实例，Init() 应用其配置块。
type Component interface {
	// Type returns the unique identifier of this component type.
	// Type 返回组件类型的唯一标识符。
	Type() string
	// New creates a fresh instance of the component.
	New() Component
	// Init applies the configuration block of the advice definition.
	// A malformed configuration is a declaration-time error.
	Init(config types.Config, configuration types.Configuration) error
	// Entries returns the advice entries the component contributes to its aspect.
	Entries() []types.AdviceEntry
}

// ComponentRegistry holds the advice component prototypes by type.
// ComponentRegistry 按类型保存增强点组件原型。
type ComponentRegistry struct {
	mu         sync.RWMutex
	components map[string]Component
}

// Add registers a component prototype. Registering the same type twice is an error.
func (r *ComponentRegistry) Add(component Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.components == nil {
		r.components = make(map[string]Component)
	}
	if _, ok := r.components[component.Type()]; ok {
		return fmt.Errorf("advice component %s already registered", component.Type())
	}
	r.components[component.Type()] = component
	return nil
}

// New creates a fresh instance of the component registered under componentType.
func (r *ComponentRegistry) New(componentType string) (Component, error) {
	r.mu.RLock()
	prototype, ok := r.components[componentType]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("advice component %s not found", componentType)
	}
	return prototype.New(), nil
}

// Registry is the default advice component registry, pre-populated with the
// builtin components.
// Registry 默认的增强点组件注册表，预置内置组件。
var Registry = new(ComponentRegistry)

func init() {
	_ = Registry.Add(&Debug{})
	_ = Registry.Add(&Metrics{})
	_ = Registry.Add(&Retry{})
}

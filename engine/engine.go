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

// Package engine implements the interception engine: the registries holding
// components and aspects, the advice chain composer, and the proxy factory
// producing wrapped callables.
//
// Composition flows one way at assembly time (matcher, registry, composer,
// factory) and one way at call time (caller, proxy, chain, target, back up
// the chain). Each call executes its full chain synchronously on the calling
// goroutine, matching a direct call's execution contract.
//
// engine 包实现拦截引擎：保存组件和切面的注册表、增强链编排器，
// 以及产出包装可调用单元的代理工厂。
// 每次调用在调用方 goroutine 上同步执行完整增强链，与直接调用的执行契约一致。
package engine

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/utils/cache"
)

// ErrAspectsFrozen is returned when an aspect is registered after the first
// chain composition. Compiled chains are cached for the operation's lifetime
// and never invalidated, so late declarations could silently not apply.
//
// ErrAspectsFrozen 首次编链之后注册切面的错误。
// 编译链按操作生命周期缓存且不会失效，晚到的声明会静默不生效，因此直接拒绝。
var ErrAspectsFrozen = errors.New("aspect set is frozen after first composition")

// Engine is one assembled interception engine: a component/aspect registry
// plus the compiled chain cache behind the proxies it hands out.
//
// Engine 一个装配好的拦截引擎：组件/切面注册表，加上代理背后的编译链缓存。
type Engine struct {
	// Config 引擎配置
	Config   types.Config
	registry *Registry
	// chains 按签名key缓存的编译链，读多写一
	chains sync.Map
	// composed 首链编译后置位，此后切面集冻结
	composed int32
}

// Option is a function type that modifies the Engine.
type Option func(*Engine) error

// WithConfig is an option that sets the config of the engine.
func WithConfig(config types.Config) Option {
	return func(e *Engine) error {
		e.Config = config
		return nil
	}
}

// New creates an interception engine with the default config and applies the
// provided options.
// New 创建一个默认配置的拦截引擎，并应用提供的选项。
func New(opts ...Option) *Engine {
	e := &Engine{
		Config:   NewConfig(),
		registry: NewRegistry(),
	}
	for _, opt := range opts {
		_ = opt(e)
	}
	return e
}

// NewConfig creates a config with the engine defaults: the JSON aspect
// definition parser and the shared in-memory cache.
// NewConfig 创建带引擎默认值的配置：JSON 切面定义解析器和共享内存缓存。
func NewConfig(opts ...types.Option) types.Config {
	c := types.NewConfig(opts...)
	if c.Parser == nil {
		c.Parser = &JsonParser{}
	}
	if c.Cache == nil {
		c.Cache = cache.DefaultCache
	}
	return c
}

// RegisterComponent registers a component and the operations it exposes.
// See Registry.RegisterComponent.
func (e *Engine) RegisterComponent(qualifiedName string, operations ...types.Operation) error {
	return e.registry.RegisterComponent(qualifiedName, operations...)
}

// RegisterAspect registers an aspect during assembly. Registration after the
// first chain composition returns ErrAspectsFrozen.
// RegisterAspect 在装配期注册切面。首次编链后注册返回 ErrAspectsFrozen。
func (e *Engine) RegisterAspect(aspect *types.Aspect) error {
	if atomic.LoadInt32(&e.composed) != 0 {
		return ErrAspectsFrozen
	}
	return e.registry.RegisterAspect(aspect)
}

// LoadAspects parses a declarative aspect definition document with the
// configured parser and registers every declared aspect.
// LoadAspects 用配置的解析器解析声明式切面定义文档，并注册其中的全部切面。
func (e *Engine) LoadAspects(def []byte) error {
	parser := e.Config.Parser
	if parser == nil {
		parser = &JsonParser{}
	}
	aspects, err := parser.DecodeAspects(e.Config, def)
	if err != nil {
		return err
	}
	for _, aspect := range aspects {
		if err := e.RegisterAspect(aspect); err != nil {
			return err
		}
	}
	return nil
}

// Invoke calls a registered operation through its proxy.
// Invoke 通过代理调用注册的操作。
func (e *Engine) Invoke(signature types.OperationSignature, args ...interface{}) (interface{}, error) {
	op, ok := e.registry.Operation(signature)
	if !ok {
		return nil, types.ErrOperationNotFound
	}
	return e.chainFor(signature.String(), op).Call(args)
}

// Signatures returns every registered operation signature.
func (e *Engine) Signatures() []types.OperationSignature {
	return e.registry.Signatures()
}

// Aspects returns a copy of the registered aspects in registration order.
func (e *Engine) Aspects() []*types.Aspect {
	return e.registry.Aspects()
}

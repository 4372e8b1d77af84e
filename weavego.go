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

// Package weavego provides a lightweight, embedded, pointcut-based
// method-interception engine.
//
// Independent cross-cutting behaviors (logging, security checks, timing,
// retries) attach to selected operations without modifying the calling or the
// called code: aspects declare a pointcut rule selecting operations and one or
// more advice entries with a relative execution priority, and the engine
// produces a proxy per matched operation that runs the composed advice chain
// around the original call.
//
// # Usage
//
// Register a component and the operations it exposes:
//
//	repo := weavego.NewEngine()
//	_ = repo.RegisterComponent("app.repo.BookRepository",
//		types.Operation{
//			Signature: types.NewOperationSignature("app.repo.BookRepository", "Save", "Book"),
//			Invoke: func(args ...interface{}) (interface{}, error) {
//				return store.Save(args[0].(Book))
//			},
//		},
//	)
//
// Declare an aspect during assembly:
//
//	rule := pointcut.MustPackage("app.repo.*")
//	_ = repo.RegisterAspect(types.NewAspect("log",
//		types.WithOrder(1),
//		types.WithPointcut(rule),
//		types.WithBefore(func(inv *types.Invocation) error {
//			log.Printf("calling %s", inv.Signature.QualifiedName())
//			return nil
//		}),
//	))
//
// Or load aspects from a definition document:
//
//	var aspectsFile = `
//	{
//	  "aspects": [
//	    {
//	      "name": "log",
//	      "order": 1,
//	      "pointcut": {"type": "package", "pattern": "app.repo.*"},
//	      "advice": [
//	        {"kind": "before", "script": "metadata['seen']='1'; return {'metadata':metadata};"},
//	        {"type": "metrics"}
//	      ]
//	    }
//	  ]
//	}
//	`
//	err := repo.LoadAspects([]byte(aspectsFile))
//
// Substitute the proxy for direct references:
//
//	save, _ := repo.GetProxy(types.NewOperationSignature("app.repo.BookRepository", "Save", "Book"))
//	result, err := save(book)
package weavego

import (
	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/engine"
)

// DefaultEngine is the engine behind the package-level functions.
// DefaultEngine 包级函数背后的默认引擎实例。
var DefaultEngine = engine.New()

// NewEngine creates an independent interception engine.
// NewEngine 创建一个独立的拦截引擎。
func NewEngine(opts ...engine.Option) *engine.Engine {
	return engine.New(opts...)
}

// NewConfig creates a config with the engine defaults applied.
func NewConfig(opts ...types.Option) types.Config {
	return engine.NewConfig(opts...)
}

// RegisterComponent registers a component on the default engine.
func RegisterComponent(qualifiedName string, operations ...types.Operation) error {
	return DefaultEngine.RegisterComponent(qualifiedName, operations...)
}

// RegisterAspect registers an aspect on the default engine.
func RegisterAspect(aspect *types.Aspect) error {
	return DefaultEngine.RegisterAspect(aspect)
}

// LoadAspects loads a declarative aspect definition document into the default engine.
func LoadAspects(def []byte) error {
	return DefaultEngine.LoadAspects(def)
}

// GetProxy returns the proxy for a registered operation of the default engine.
func GetProxy(signature types.OperationSignature) (types.OperationFunc, error) {
	return DefaultEngine.GetProxy(signature)
}

// Invoke calls a registered operation of the default engine through its proxy.
func Invoke(signature types.OperationSignature, args ...interface{}) (interface{}, error) {
	return DefaultEngine.Invoke(signature, args...)
}

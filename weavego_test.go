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

package weavego

import (
	"errors"
	"fmt"
	"testing"

	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/engine"
	"github.com/weavego/weavego/pointcut"
	"github.com/weavego/weavego/test/assert"
)

// bookRepository 示例仓储：按id存取书名
type bookRepository struct {
	books map[string]string
}

func (r *bookRepository) save(id, title string) (interface{}, error) {
	r.books[id] = title
	return id, nil
}

func (r *bookRepository) findById(id string) (interface{}, error) {
	title, ok := r.books[id]
	if !ok {
		return nil, fmt.Errorf("book %s not found", id)
	}
	return title, nil
}

func registerBooks(t *testing.T, e *engine.Engine) *bookRepository {
	repo := &bookRepository{books: map[string]string{}}
	err := e.RegisterComponent("app.repo.BookRepository",
		types.Operation{
			Signature: types.NewOperationSignature("app.repo.BookRepository", "Save", "string", "string"),
			Invoke: func(args ...interface{}) (interface{}, error) {
				return repo.save(args[0].(string), args[1].(string))
			},
		},
		types.Operation{
			Signature: types.NewOperationSignature("app.repo.BookRepository", "FindById", "string"),
			Invoke: func(args ...interface{}) (interface{}, error) {
				return repo.findById(args[0].(string))
			},
		},
	)
	assert.Nil(t, err)
	return repo
}

// 组件注册、切面编排、代理调用的完整回路
func TestBookRepositoryWeaving(t *testing.T) {
	var trace []string
	e := NewEngine()
	registerBooks(t, e)

	assert.Nil(t, e.RegisterAspect(types.NewAspect("logging",
		types.WithOrder(1),
		types.WithPointcut(pointcut.MustPackage("app.repo.*")),
		types.WithBefore(func(inv *types.Invocation) error {
			trace = append(trace, "before:"+inv.Signature.Operation)
			return nil
		}),
		types.WithAfterFinally(func(inv *types.Invocation) error {
			trace = append(trace, "after:"+inv.Signature.Operation)
			return nil
		}),
	)))
	assert.Nil(t, e.RegisterAspect(types.NewAspect("security",
		types.WithOrder(2),
		types.WithPointcut(pointcut.And(
			pointcut.MustPackage("app.repo.*"),
			pointcut.MustName("Save"),
		)),
		types.WithBefore(func(inv *types.Invocation) error {
			if inv.Arg(1) == "forbidden" {
				return errors.New("title not allowed")
			}
			return nil
		}),
	)))

	save, err := e.GetProxy(types.NewOperationSignature("app.repo.BookRepository", "Save", "string", "string"))
	assert.Nil(t, err)
	find, err := e.GetProxy(types.NewOperationSignature("app.repo.BookRepository", "FindById", "string"))
	assert.Nil(t, err)

	id, err := save("1", "dune")
	assert.Nil(t, err)
	assert.Equal(t, "1", id)
	title, err := find("1")
	assert.Nil(t, err)
	assert.Equal(t, "dune", title)
	assert.Equal(t, []string{"before:Save", "after:Save", "before:FindById", "after:FindById"}, trace)

	// 安全切面拒绝的调用不触达仓储
	_, err = save("2", "forbidden")
	assert.NotNil(t, err)
	_, err = find("2")
	assert.NotNil(t, err)
}

// 声明式定义文档走同一条装配路径
func TestBookRepositoryDeclarativeAspects(t *testing.T) {
	var events []string
	e := NewEngine(engine.WithConfig(NewConfig(
		types.WithOnDebug(func(flowType string, inv *types.Invocation, err error) {
			events = append(events, flowType)
		}),
	)))
	registerBooks(t, e)

	def := `{
	  "aspects": [
	    {
	      "name": "debugRepo",
	      "pointcut": {"type": "package", "pattern": "app.repo.*"},
	      "advice": [
	        {"type": "debug"}
	      ]
	    }
	  ]
	}`
	assert.Nil(t, e.LoadAspects([]byte(def)))

	_, err := e.Invoke(types.NewOperationSignature("app.repo.BookRepository", "Save", "string", "string"), "1", "dune")
	assert.Nil(t, err)
	assert.Equal(t, []string{types.In, types.Out}, events)
}

func TestDefaultEngineFacade(t *testing.T) {
	component := "app.facade.Echo"
	assert.Nil(t, RegisterComponent(component, types.Operation{
		Signature: types.NewOperationSignature(component, "Echo", "string"),
		Invoke: func(args ...interface{}) (interface{}, error) {
			return args[0], nil
		},
	}))

	proxy, err := GetProxy(types.NewOperationSignature(component, "Echo", "string"))
	assert.Nil(t, err)
	out, err := proxy("dune")
	assert.Nil(t, err)
	assert.Equal(t, "dune", out)

	out, err = Invoke(types.NewOperationSignature(component, "Echo", "string"), "hyperion")
	assert.Nil(t, err)
	assert.Equal(t, "hyperion", out)

	_, err = Invoke(types.NewOperationSignature(component, "Missing"))
	assert.True(t, errors.Is(err, types.ErrOperationNotFound))
}

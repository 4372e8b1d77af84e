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
	"errors"
	"strings"
)

const (
	// In represents the flow of an invocation entering an operation.
	// In 表示调用进入操作的流向。
	In = "IN"
	// Out represents the flow of an invocation leaving an operation.
	// Out 表示调用离开操作的流向。
	Out = "OUT"
)

const (
	// Global is the prefix for global property placeholders, e.g. ${global.key}.
	// Global 全局属性占位符前缀，例如：${global.key}。
	Global = "global"
	// Secrets is the prefix for decrypted secret placeholders, e.g. ${secrets.key}.
	// Secrets 解密后的密钥占位符前缀，例如：${secrets.key}。
	Secrets = "secrets"
)

// PathSeparator separates the segments of a qualified component name.
const PathSeparator = "."

var (
	// ErrDuplicateAspect is returned when an aspect is registered twice under the same name.
	// ErrDuplicateAspect 同名切面重复注册错误。
	ErrDuplicateAspect = errors.New("aspect already registered")
	// ErrDuplicateOperation is returned when an operation signature is registered twice.
	ErrDuplicateOperation = errors.New("operation already registered")
	// ErrOperationNotFound is returned when a proxy is requested for an unregistered operation.
	// ErrOperationNotFound 未注册操作错误。
	ErrOperationNotFound = errors.New("operation not found")
	// ErrInvalidAdviceKind is returned for an unknown advice kind keyword.
	ErrInvalidAdviceKind = errors.New("invalid advice kind")
)

// OperationSignature identifies one callable unit exposed by a component.
// It is immutable and created when the owning component is registered.
//
// OperationSignature 标识组件暴露的一个可调用单元。
// 它是不可变的，在所属组件注册时创建。
type OperationSignature struct {
	// Component is the qualified name of the owning component, e.g. "app.repo.BookRepository".
	// Component 所属组件的全限定名，例如："app.repo.BookRepository"。
	Component string
	// Operation is the operation name, e.g. "Save".
	// Operation 操作名，例如："Save"。
	Operation string
	// ParamTypes holds the declared parameter type names, in order.
	// ParamTypes 按声明顺序保存参数类型名。
	ParamTypes []string
}

// NewOperationSignature creates an immutable operation signature.
// NewOperationSignature 创建一个不可变的操作签名。
func NewOperationSignature(component string, operation string, paramTypes ...string) OperationSignature {
	return OperationSignature{
		Component:  component,
		Operation:  operation,
		ParamTypes: paramTypes,
	}
}

// QualifiedName returns "component.operation".
func (s OperationSignature) QualifiedName() string {
	return s.Component + PathSeparator + s.Operation
}

// ComponentSegments returns the dot-separated segments of the component name.
func (s OperationSignature) ComponentSegments() []string {
	return strings.Split(s.Component, PathSeparator)
}

// String renders the signature as "component.operation(type1,type2)".
// The rendered form is unique per registered operation and used as a cache key.
func (s OperationSignature) String() string {
	return s.QualifiedName() + "(" + strings.Join(s.ParamTypes, ",") + ")"
}

// OperationFunc is the calling convention shared by target operations and proxies.
// OperationFunc 目标操作和代理共享的调用约定。
type OperationFunc func(args ...interface{}) (interface{}, error)

// Operation couples a signature with the callable that implements it.
// Operation 将签名与其实现的可调用单元绑定。
type Operation struct {
	Signature OperationSignature
	Invoke    OperationFunc
}

// AdviceKind classifies where a piece of advice runs relative to the target operation.
// AdviceKind 区分增强点相对于目标操作的执行位置。
type AdviceKind string

const (
	// KindBefore runs prior to the target operation.
	KindBefore AdviceKind = "before"
	// KindAfterReturning runs only after the target operation returns successfully.
	KindAfterReturning AdviceKind = "afterReturning"
	// KindAfterThrowing runs only if the call carries a failure.
	KindAfterThrowing AdviceKind = "afterThrowing"
	// KindAfterFinally runs on every exit path, success or failure.
	KindAfterFinally AdviceKind = "afterFinally"
	// KindAround wraps the rest of the chain, including the target call.
	KindAround AdviceKind = "around"
)

// ParseAdviceKind converts a DSL keyword into an AdviceKind.
// ParseAdviceKind 将 DSL 关键字转换为 AdviceKind。
func ParseAdviceKind(s string) (AdviceKind, error) {
	switch AdviceKind(s) {
	case KindBefore, KindAfterReturning, KindAfterThrowing, KindAfterFinally, KindAround:
		return AdviceKind(s), nil
	default:
		return "", ErrInvalidAdviceKind
	}
}

// Configuration holds the declarative configuration block of an advice definition.
// Configuration 增强点定义的声明式配置块。
type Configuration map[string]interface{}

// Copy 复制
func (c Configuration) Copy() Configuration {
	result := make(Configuration, len(c))
	for k, v := range c {
		result[k] = v
	}
	return result
}

// Metadata 调用元数据
type Metadata map[string]string

// NewMetadata 创建一个新的调用元数据实例
func NewMetadata() Metadata {
	return make(Metadata)
}

// BuildMetadata 通过map，创建一个新的调用元数据实例
func BuildMetadata(data Metadata) Metadata {
	metadata := make(Metadata)
	for k, v := range data {
		metadata[k] = v
	}
	return metadata
}

// Copy 复制
func (md Metadata) Copy() Metadata {
	return BuildMetadata(md)
}

// Has 是否存在某个key
func (md Metadata) Has(key string) bool {
	_, ok := md[key]
	return ok
}

// GetValue 通过key获取值
func (md Metadata) GetValue(key string) string {
	v := md[key]
	return v
}

// PutValue 设置值
func (md Metadata) PutValue(key, value string) {
	if key != "" {
		md[key] = value
	}
}

// Values 获取所有值
func (md Metadata) Values() map[string]string {
	return md
}

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

// The aspect model provides an AOP (Aspect Oriented Programming) mechanism over
// registered operations, which is similar to an interceptor or hook mechanism,
// but more powerful and flexible.
//
//   - It allows adding extra behavior around matched operations without modifying
//     the calling or the called code.
//   - It allows separating common behaviors (such as logging, security checks,
//     timing, retries) from the business logic.
//
// 切面模型为注册的操作提供 AOP(面向切面编程，Aspect Oriented Programming)机制，
// 它类似拦截器或者hook机制，但是功能更加强大和灵活。
//
//   - 它允许在不修改调用方和被调用方代码的情况下，对匹配的操作添加额外的行为。
//   - 它允许把一些公共的行为（例如：日志、安全校验、耗时统计、重试）从业务逻辑中分离出来。

import (
	"errors"
	"fmt"
	"math"
)

// LowestPrecedence is the sentinel order of aspects declared without an explicit
// order. It is larger than any explicit order, so unordered aspects run after
// all explicitly ordered ones.
//
// LowestPrecedence 未显式声明顺序的切面的哨兵顺序值。
// 它大于任何显式顺序，因此未排序的切面在所有显式排序的切面之后执行。
const LowestPrecedence = math.MaxInt

// HighestPrecedence is the smallest usable explicit order value.
const HighestPrecedence = math.MinInt

// PointcutRule is a pure predicate selecting which operations an aspect applies to.
// Evaluating the same rule against the same signature always yields the same result.
//
// PointcutRule 声明一个切入点，用于判断增强点是否作用于某个操作。
// 对同一签名求值同一规则，结果永远相同。
type PointcutRule interface {
	// Matches reports whether the rule selects the given operation signature.
	// Matches 判断规则是否选中给定的操作签名。
	Matches(signature OperationSignature) bool
}

// AdviceFunc is the behavior of a Before/AfterReturning/AfterThrowing/AfterFinally
// entry. A non-nil error is an advice failure and propagates to the caller.
//
// AdviceFunc 是 Before/AfterReturning/AfterThrowing/AfterFinally 增强点的行为。
// 返回非 nil 错误即增强点失败，并向调用方传播。
type AdviceFunc func(inv *Invocation) error

// AroundFunc is the behavior of an Around entry. proceed runs the rest of the
// chain including the terminal target call; the entry decides whether, and how
// many times, to invoke it. Not calling proceed suppresses the target call;
// calling it more than once is explicit retry semantics owned by the entry.
//
// AroundFunc 是环绕增强点的行为。proceed 执行增强链的剩余部分（包含对目标的终端调用）；
// 增强点决定是否调用以及调用多少次。不调用 proceed 即抑制目标调用；
// 多次调用即显式的重试语义，由增强点自己负责。
type AroundFunc func(inv *Invocation, proceed func() error) error

// AdviceEntry is one piece of behavior owned by an aspect.
// AdviceEntry 切面拥有的一个行为单元。
type AdviceEntry struct {
	// Kind 增强点类型
	Kind AdviceKind
	// Pointcut optionally narrows the owning aspect's rule for this entry only.
	// Pointcut 可选，仅对该增强点收窄所属切面的规则。
	Pointcut PointcutRule
	// Handler is the behavior for every kind except Around.
	Handler AdviceFunc
	// Around is the behavior for the Around kind.
	Around AroundFunc
}

// Aspect is a named bundle of advice entries sharing one pointcut rule and one
// execution order. The smaller the order value, the higher the priority.
//
// Aspect 是共享一个切入点规则和一个执行顺序的命名增强点集合。
// Order 值越小，优先级越高。
type Aspect struct {
	// Name 切面名称，注册时唯一
	Name string
	// Order 执行顺序，默认 LowestPrecedence
	Order int
	// Pointcut 切面级切入点规则
	Pointcut PointcutRule
	// Entries 增强点列表
	Entries []AdviceEntry
}

// AspectOption modifies an aspect during construction.
type AspectOption func(*Aspect)

// WithOrder sets the explicit execution order of the aspect.
// WithOrder 设置切面的显式执行顺序。
func WithOrder(order int) AspectOption {
	return func(a *Aspect) {
		a.Order = order
	}
}

// WithPointcut sets the aspect-level pointcut rule.
// WithPointcut 设置切面级切入点规则。
func WithPointcut(rule PointcutRule) AspectOption {
	return func(a *Aspect) {
		a.Pointcut = rule
	}
}

// WithBefore adds a before advice entry.
func WithBefore(fn AdviceFunc) AspectOption {
	return WithEntry(AdviceEntry{Kind: KindBefore, Handler: fn})
}

// WithAfterReturning adds an advice entry that runs only on success.
func WithAfterReturning(fn AdviceFunc) AspectOption {
	return WithEntry(AdviceEntry{Kind: KindAfterReturning, Handler: fn})
}

// WithAfterThrowing adds an advice entry that runs only on failure.
func WithAfterThrowing(fn AdviceFunc) AspectOption {
	return WithEntry(AdviceEntry{Kind: KindAfterThrowing, Handler: fn})
}

// WithAfterFinally adds an advice entry that runs on every exit path.
func WithAfterFinally(fn AdviceFunc) AspectOption {
	return WithEntry(AdviceEntry{Kind: KindAfterFinally, Handler: fn})
}

// WithAround adds an around advice entry.
func WithAround(fn AroundFunc) AspectOption {
	return WithEntry(AdviceEntry{Kind: KindAround, Around: fn})
}

// WithEntry adds a fully specified advice entry.
func WithEntry(entry AdviceEntry) AspectOption {
	return func(a *Aspect) {
		a.Entries = append(a.Entries, entry)
	}
}

// NewAspect creates an aspect with the default (lowest precedence) order and
// applies the provided options.
// NewAspect 创建一个默认顺序（最低优先级）的切面，并应用提供的选项。
func NewAspect(name string, opts ...AspectOption) *Aspect {
	a := &Aspect{
		Name:  name,
		Order: LowestPrecedence,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Validate checks the aspect declaration and returns a configuration error if
// it is malformed. Surfaced at declaration time, never mid-call.
// Validate 校验切面声明，不合法则返回配置错误。只在声明期暴露，不在调用期暴露。
func (a *Aspect) Validate() error {
	if a.Name == "" {
		return errors.New("aspect name must not be empty")
	}
	if len(a.Entries) == 0 {
		return fmt.Errorf("aspect %s declares no advice", a.Name)
	}
	for i, entry := range a.Entries {
		if _, err := ParseAdviceKind(string(entry.Kind)); err != nil {
			return fmt.Errorf("aspect %s entry %d: %w: %s", a.Name, i, err, entry.Kind)
		}
		if entry.Kind == KindAround {
			if entry.Around == nil {
				return fmt.Errorf("aspect %s entry %d: around advice needs an Around func", a.Name, i)
			}
		} else if entry.Handler == nil {
			return fmt.Errorf("aspect %s entry %d: %s advice needs a Handler func", a.Name, i, entry.Kind)
		}
		if a.Pointcut == nil && entry.Pointcut == nil {
			return fmt.Errorf("aspect %s entry %d: no pointcut rule declared", a.Name, i)
		}
	}
	return nil
}

// RuleFor returns the effective pointcut rule for one entry: the entry rule if
// set, otherwise the aspect rule.
func (a *Aspect) RuleFor(entry AdviceEntry) PointcutRule {
	if entry.Pointcut != nil {
		return entry.Pointcut
	}
	return a.Pointcut
}

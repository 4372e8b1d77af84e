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

// Package el wraps the expr expression language for advice guard conditions.
//
// A guard is compiled once at declaration time and evaluated against the live
// invocation environment (args, metadata, component, operation, error) on each
// call. Guards select whether an advice entry runs for a particular call; they
// are not pointcut rules and never see operation signatures at composition time.
//
// el 包封装 expr 表达式语言，用于增强点的守卫条件。
// 守卫在声明期编译一次，每次调用时对运行环境求值。
package el

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Guard 编译后的守卫表达式
type Guard struct {
	// Expression 原始表达式
	Expression string
	program    *vm.Program
}

// NewGuard compiles a guard expression. A compile failure is a configuration
// error surfaced at declaration time.
// NewGuard 编译守卫表达式。编译失败是声明期的配置错误。
func NewGuard(expression string) (*Guard, error) {
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("guard %q: %w", expression, err)
	}
	return &Guard{Expression: expression, program: program}, nil
}

// Allows evaluates the guard against the given environment. A non-boolean
// result is an evaluation error.
// Allows 对给定环境求值守卫。非布尔结果视为求值错误。
func (g *Guard) Allows(env map[string]interface{}) (bool, error) {
	out, err := expr.Run(g.program, env)
	if err != nil {
		return false, fmt.Errorf("guard %q: %w", g.Expression, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("guard %q: result %v is not a bool", g.Expression, out)
	}
	return b, nil
}

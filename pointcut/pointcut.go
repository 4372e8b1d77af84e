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

// Package pointcut implements the structured pointcut rules selecting which
// operations an aspect applies to.
//
// Rules are pure predicates over operation signatures: matching never fails and
// never has side effects. Malformed patterns are rejected when the rule is
// declared, so a constructed rule is always total.
//
// Leaf rules:
//   - Package: matches the component's qualified name by segment prefix, with an
//     optional trailing "*" segment matching zero or more remaining segments.
//   - Name: matches the operation name with a glob where "*" matches any run of
//     characters within the name.
//
// Composite rules combine sub-rules with And/Or/Not, evaluated in declaration
// order with short-circuiting.
//
// pointcut 包实现结构化的切入点规则，用于选择切面作用于哪些操作。
//
// 规则是对操作签名的纯谓词：匹配永远不会失败，也没有副作用。
// 不合法的模式在声明规则时被拒绝，因此构造出来的规则总是全函数。
package pointcut

import (
	"errors"
	"fmt"
	"strings"

	"github.com/weavego/weavego/api/types"
)

const (
	// Wildcard 多级通配符段
	Wildcard = "*"
)

var (
	// ErrEmptyPattern 空模式错误
	ErrEmptyPattern = errors.New("pattern must not be empty")
	// ErrInvalidPattern 非法模式错误
	ErrInvalidPattern = errors.New("invalid pattern")
)

var (
	// Compile-time check packageRule implements types.PointcutRule.
	_ types.PointcutRule = (*packageRule)(nil)
	// Compile-time check nameRule implements types.PointcutRule.
	_ types.PointcutRule = (*nameRule)(nil)
	_ types.PointcutRule = (*andRule)(nil)
	_ types.PointcutRule = (*orRule)(nil)
	_ types.PointcutRule = (*notRule)(nil)
)

// packageRule matches by qualified-name segment prefix.
type packageRule struct {
	segments []string
	wildcard bool
}

// Package creates a rule matching the component's qualified name by segment
// prefix. The pattern is a dot-separated qualified name whose last segment may
// be "*", matching zero or more trailing segments:
//
//	Package("app.repo")    matches exactly the component "app.repo"
//	Package("app.repo.*")  matches "app.repo", "app.repo.x", "app.repo.x.y"
//	Package("*")           matches every component
//
// A "*" anywhere but the last segment is a configuration error.
//
// Package 创建按限定名分段前缀匹配组件的规则。模式是点分隔的限定名，
// 末段可以是 "*"，匹配零个或多个后续分段。"*" 出现在非末段是配置错误。
func Package(pattern string) (types.PointcutRule, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("package rule: %w", ErrEmptyPattern)
	}
	segments := strings.Split(pattern, types.PathSeparator)
	wildcard := segments[len(segments)-1] == Wildcard
	if wildcard {
		segments = segments[:len(segments)-1]
	}
	for _, segment := range segments {
		if segment == "" || strings.Contains(segment, Wildcard) {
			return nil, fmt.Errorf("package rule %q: %w", pattern, ErrInvalidPattern)
		}
	}
	return &packageRule{segments: segments, wildcard: wildcard}, nil
}

func (r *packageRule) Matches(signature types.OperationSignature) bool {
	segments := signature.ComponentSegments()
	if r.wildcard {
		if len(segments) < len(r.segments) {
			return false
		}
	} else if len(segments) != len(r.segments) {
		return false
	}
	for i, segment := range r.segments {
		if segments[i] != segment {
			return false
		}
	}
	return true
}

// nameRule matches the operation name with a glob.
type nameRule struct {
	pattern string
}

// Name creates a rule matching the operation name with a glob pattern where "*"
// matches any run of characters within the name:
//
//	Name("Save")   matches only "Save"
//	Name("Find*")  matches "Find", "FindById", "FindAll"
//	Name("*")      matches every operation
//
// Name 创建按操作名通配匹配的规则，"*" 匹配名称内任意一段字符。
func Name(pattern string) (types.PointcutRule, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("name rule: %w", ErrEmptyPattern)
	}
	return &nameRule{pattern: pattern}, nil
}

func (r *nameRule) Matches(signature types.OperationSignature) bool {
	return matchGlob(r.pattern, signature.Operation)
}

// matchGlob reports whether name matches pattern, "*" matching any run of
// characters. Iterative backtracking over the single wildcard class.
func matchGlob(pattern, name string) bool {
	var pi, ni int
	star := -1
	backtrack := 0
	for ni < len(name) {
		if pi < len(pattern) && pattern[pi] == '*' {
			star = pi
			backtrack = ni
			pi++
		} else if pi < len(pattern) && pattern[pi] == name[ni] {
			pi++
			ni++
		} else if star >= 0 {
			pi = star + 1
			backtrack++
			ni = backtrack
		} else {
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}

type andRule struct {
	rules []types.PointcutRule
}

// And combines sub-rules with logical AND. Evaluation follows declaration order
// and stops at the first non-match.
// And 将子规则按逻辑与组合。按声明顺序求值，遇到第一个不匹配即停止。
func And(rules ...types.PointcutRule) types.PointcutRule {
	return &andRule{rules: rules}
}

func (r *andRule) Matches(signature types.OperationSignature) bool {
	for _, rule := range r.rules {
		if !rule.Matches(signature) {
			return false
		}
	}
	return true
}

type orRule struct {
	rules []types.PointcutRule
}

// Or combines sub-rules with logical OR. Evaluation follows declaration order
// and stops at the first match. Combining several package rules into one
// applies-to-all rule is the typical use.
// Or 将子规则按逻辑或组合。按声明顺序求值，遇到第一个匹配即停止。
func Or(rules ...types.PointcutRule) types.PointcutRule {
	return &orRule{rules: rules}
}

func (r *orRule) Matches(signature types.OperationSignature) bool {
	for _, rule := range r.rules {
		if rule.Matches(signature) {
			return true
		}
	}
	return false
}

type notRule struct {
	rule types.PointcutRule
}

// Not negates a rule.
func Not(rule types.PointcutRule) types.PointcutRule {
	return &notRule{rule: rule}
}

func (r *notRule) Matches(signature types.OperationSignature) bool {
	return !r.rule.Matches(signature)
}

// MustPackage is like Package but panics on a malformed pattern.
// Intended for statically known patterns declared during assembly.
func MustPackage(pattern string) types.PointcutRule {
	rule, err := Package(pattern)
	if err != nil {
		panic(err)
	}
	return rule
}

// MustName is like Name but panics on a malformed pattern.
func MustName(pattern string) types.PointcutRule {
	rule, err := Name(pattern)
	if err != nil {
		panic(err)
	}
	return rule
}

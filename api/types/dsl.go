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

// AspectsDefinition is the root of a declarative aspect definition document.
//
// Example:
//
//	{
//	  "aspects": [
//	    {
//	      "name": "log",
//	      "order": 1,
//	      "pointcut": {
//	        "type": "and",
//	        "rules": [
//	          {"type": "package", "pattern": "app.repo.*"},
//	          {"type": "name", "pattern": "Save*"}
//	        ]
//	      },
//	      "advice": [
//	        {"kind": "before", "script": "metadata['seen']='1'; return {'metadata':metadata};"},
//	        {"type": "metrics"}
//	      ]
//	    }
//	  ]
//	}
//
// AspectsDefinition 声明式切面定义文档的根结构。
type AspectsDefinition struct {
	// Aspects 切面定义列表
	Aspects []AspectDefinition `json:"aspects"`
	// Secrets holds encrypted values (AES-256, hex) decrypted with Config.SecretKey
	// at parse time and substituted via ${secrets.key} placeholders.
	// Secrets 加密的密钥配置，解析时用 Config.SecretKey 解密，通过 ${secrets.key} 占位符替换。
	Secrets map[string]string `json:"secrets,omitempty"`
}

// AspectDefinition declares one aspect.
// AspectDefinition 单个切面的定义。
type AspectDefinition struct {
	// Name 切面名称，注册时唯一
	Name string `json:"name"`
	// Order 执行顺序，省略时为最低优先级
	Order *int `json:"order,omitempty"`
	// Pointcut 切面级切入点规则树
	Pointcut *RuleDefinition `json:"pointcut,omitempty"`
	// Advice 增强点定义列表
	Advice []AdviceDefinition `json:"advice"`
}

// RuleDefinition declares one node of a pointcut rule tree.
// Leaf types: "package" (qualified-name prefix with trailing multi-level
// wildcard) and "name" (operation-name glob). Composite types: "and", "or",
// "not" over sub-rules, evaluated in declaration order.
//
// RuleDefinition 切入点规则树的一个节点。
// 叶子类型："package"（限定名前缀，支持末尾多级通配符）和 "name"（操作名通配）。
// 组合类型："and"、"or"、"not"，按声明顺序对子规则求值。
type RuleDefinition struct {
	// Type 规则类型：package、name、and、or、not
	Type string `json:"type"`
	// Pattern 叶子规则的匹配模式
	Pattern string `json:"pattern,omitempty"`
	// Rules 组合规则的子规则
	Rules []*RuleDefinition `json:"rules,omitempty"`
}

// AdviceDefinition declares one advice entry of an aspect.
// AdviceDefinition 切面的一个增强点定义。
type AdviceDefinition struct {
	// Type references a registered advice component, e.g. "debug", "metrics",
	// "retry". Empty or "script" declares an inline script advice.
	// Type 引用已注册的增强点组件，例如 "debug"、"metrics"、"retry"。
	// 空或 "script" 表示内联脚本增强点。
	Type string `json:"type,omitempty"`
	// Kind is required for script advice: before, afterReturning, afterThrowing,
	// afterFinally. Script advice cannot be around.
	Kind string `json:"kind,omitempty"`
	// Condition is an optional guard expression evaluated against the live
	// invocation (args, metadata, component, operation, error); the advice is
	// skipped when it evaluates to false.
	// Condition 可选的守卫表达式，对运行中的调用求值；为 false 时跳过该增强点。
	Condition string `json:"condition,omitempty"`
	// Script is the body of a script advice, wrapped as:
	// function Advice(args, metadata, component, operation, error) { ${Script} }
	Script string `json:"script,omitempty"`
	// Pointcut 增强点级切入点规则，收窄切面级规则
	Pointcut *RuleDefinition `json:"pointcut,omitempty"`
	// Configuration 组件增强点的配置块
	Configuration Configuration `json:"configuration,omitempty"`
}

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

	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/builtin/advice"
	"github.com/weavego/weavego/pointcut"
	"github.com/weavego/weavego/utils/aes"
	"github.com/weavego/weavego/utils/el"
	"github.com/weavego/weavego/utils/js"
	"github.com/weavego/weavego/utils/json"
	"github.com/weavego/weavego/utils/str"
)

const (
	// ScriptAdviceType 内联脚本增强点类型
	ScriptAdviceType = "script"
	// ScriptAdviceFuncTemplate JS函数模板，用于包装用户脚本
	ScriptAdviceFuncTemplate = "function Advice(args, metadata, component, operation, error) { %s }"
	// ScriptAdviceFuncName JS引擎中执行的函数名称
	ScriptAdviceFuncName = "Advice"
)

// Compile-time check JsonParser implements types.Parser.
var _ types.Parser = (*JsonParser)(nil)

// JsonParser parses JSON aspect definition documents into aspects ready for
// registration. Every problem a definition can have (unknown rule or advice
// type, malformed pattern, bad guard expression, script compile failure,
// undecryptable secret) surfaces here, at declaration time.
//
// JsonParser 将 JSON 切面定义文档解析为可注册的切面。
// 定义可能存在的所有问题都在声明期于此暴露。
type JsonParser struct {
}

// DecodeAspects parses a definition document into aspects.
func (p *JsonParser) DecodeAspects(config types.Config, def []byte) ([]*types.Aspect, error) {
	var root types.AspectsDefinition
	if err := json.Unmarshal(def, &root); err != nil {
		return nil, err
	}
	secretsEnv, err := decryptSecrets(config, root.Secrets)
	if err != nil {
		return nil, err
	}
	aspects := make([]*types.Aspect, 0, len(root.Aspects))
	for _, aspectDef := range root.Aspects {
		aspect, err := p.buildAspect(config, aspectDef, secretsEnv)
		if err != nil {
			return nil, err
		}
		aspects = append(aspects, aspect)
	}
	return aspects, nil
}

// EncodeAspects renders a definition document back to JSON.
func (p *JsonParser) EncodeAspects(def types.AspectsDefinition) ([]byte, error) {
	return json.Marshal(def)
}

func (p *JsonParser) buildAspect(config types.Config, def types.AspectDefinition, secretsEnv map[string]string) (*types.Aspect, error) {
	aspect := &types.Aspect{
		Name:  def.Name,
		Order: types.LowestPrecedence,
	}
	if def.Order != nil {
		aspect.Order = *def.Order
	}
	if def.Pointcut != nil {
		rule, err := buildRule(def.Pointcut)
		if err != nil {
			return nil, fmt.Errorf("aspect %s: %w", def.Name, err)
		}
		aspect.Pointcut = rule
	}
	for i, adviceDef := range def.Advice {
		entries, err := p.buildEntries(config, adviceDef, secretsEnv)
		if err != nil {
			return nil, fmt.Errorf("aspect %s advice %d: %w", def.Name, i, err)
		}
		aspect.Entries = append(aspect.Entries, entries...)
	}
	if err := aspect.Validate(); err != nil {
		return nil, err
	}
	return aspect, nil
}

// buildRule 递归构建切入点规则树
func buildRule(def *types.RuleDefinition) (types.PointcutRule, error) {
	switch def.Type {
	case "package":
		return pointcut.Package(def.Pattern)
	case "name":
		return pointcut.Name(def.Pattern)
	case "and", "or":
		if len(def.Rules) == 0 {
			return nil, fmt.Errorf("%s rule needs sub-rules", def.Type)
		}
		subRules := make([]types.PointcutRule, 0, len(def.Rules))
		for _, subDef := range def.Rules {
			subRule, err := buildRule(subDef)
			if err != nil {
				return nil, err
			}
			subRules = append(subRules, subRule)
		}
		if def.Type == "and" {
			return pointcut.And(subRules...), nil
		}
		return pointcut.Or(subRules...), nil
	case "not":
		if len(def.Rules) != 1 {
			return nil, fmt.Errorf("not rule needs exactly one sub-rule")
		}
		subRule, err := buildRule(def.Rules[0])
		if err != nil {
			return nil, err
		}
		return pointcut.Not(subRule), nil
	default:
		return nil, fmt.Errorf("unknown rule type: %s", def.Type)
	}
}

func (p *JsonParser) buildEntries(config types.Config, def types.AdviceDefinition, secretsEnv map[string]string) ([]types.AdviceEntry, error) {
	subst := func(s string) string {
		s = str.SprintfVar(s, types.Global+".", config.Properties.Values())
		return str.SprintfVar(s, types.Secrets+".", secretsEnv)
	}

	var guard *el.Guard
	if def.Condition != "" {
		var err error
		if guard, err = el.NewGuard(subst(def.Condition)); err != nil {
			return nil, err
		}
	}

	var entryRule types.PointcutRule
	if def.Pointcut != nil {
		var err error
		if entryRule, err = buildRule(def.Pointcut); err != nil {
			return nil, err
		}
	}

	var entries []types.AdviceEntry
	if def.Type == "" || def.Type == ScriptAdviceType {
		entry, err := p.buildScriptEntry(config, def, subst)
		if err != nil {
			return nil, err
		}
		entries = []types.AdviceEntry{entry}
	} else {
		component, err := advice.Registry.New(def.Type)
		if err != nil {
			return nil, err
		}
		if err = component.Init(config, processVariables(def.Configuration, subst)); err != nil {
			return nil, err
		}
		entries = component.Entries()
	}

	for i := range entries {
		if entries[i].Pointcut == nil {
			entries[i].Pointcut = entryRule
		}
		if guard != nil {
			if entries[i].Kind == types.KindAround {
				entries[i].Around = guardedAround(guard, entries[i].Around)
			} else {
				entries[i].Handler = guardedHandler(guard, entries[i].Handler)
			}
		}
	}
	return entries, nil
}

// buildScriptEntry 构建内联脚本增强点
func (p *JsonParser) buildScriptEntry(config types.Config, def types.AdviceDefinition, subst func(string) string) (types.AdviceEntry, error) {
	kind, err := types.ParseAdviceKind(def.Kind)
	if err != nil {
		return types.AdviceEntry{}, fmt.Errorf("%w: %q", err, def.Kind)
	}
	if kind == types.KindAround {
		// 脚本无法携带延续，环绕语义只能用Go编写
		return types.AdviceEntry{}, fmt.Errorf("script advice cannot be around")
	}
	if def.Script == "" {
		return types.AdviceEntry{}, fmt.Errorf("script advice needs a script body")
	}
	jsEngine, err := js.NewGojaJsEngine(config, fmt.Sprintf(ScriptAdviceFuncTemplate, subst(def.Script)), nil)
	if err != nil {
		return types.AdviceEntry{}, err
	}
	return types.AdviceEntry{Kind: kind, Handler: scriptHandler(jsEngine)}, nil
}

// scriptHandler wraps a compiled script as an advice handler. The script
// receives (args, metadata, component, operation, error) and may return
// {'metadata': metadata} to publish metadata updates; a thrown exception is
// an advice failure.
func scriptHandler(jsEngine *js.GojaJsEngine) types.AdviceFunc {
	return func(inv *types.Invocation) error {
		var errStr string
		if inv.Err() != nil {
			errStr = inv.Err().Error()
		}
		out, err := jsEngine.Execute(ScriptAdviceFuncName,
			inv.Args(), inv.Metadata.Values(), inv.Signature.Component, inv.Signature.Operation, errStr)
		if err != nil {
			return err
		}
		if result, ok := out.(map[string]interface{}); ok {
			if metadata, ok := result["metadata"].(map[string]interface{}); ok {
				for k, v := range metadata {
					inv.Metadata.PutValue(k, fmt.Sprintf("%v", v))
				}
			}
		}
		return nil
	}
}

// guardedHandler skips the handler when the guard evaluates to false.
func guardedHandler(guard *el.Guard, handler types.AdviceFunc) types.AdviceFunc {
	return func(inv *types.Invocation) error {
		allowed, err := guard.Allows(guardEnv(inv))
		if err != nil {
			return err
		}
		if !allowed {
			return nil
		}
		return handler(inv)
	}
}

// guardedAround proceeds without the around behavior when the guard evaluates
// to false.
func guardedAround(guard *el.Guard, around types.AroundFunc) types.AroundFunc {
	return func(inv *types.Invocation, proceed func() error) error {
		allowed, err := guard.Allows(guardEnv(inv))
		if err != nil {
			return err
		}
		if !allowed {
			return proceed()
		}
		return around(inv, proceed)
	}
}

// guardEnv 守卫表达式的求值环境
func guardEnv(inv *types.Invocation) map[string]interface{} {
	var errStr string
	if inv.Err() != nil {
		errStr = inv.Err().Error()
	}
	return map[string]interface{}{
		"args":      inv.Args(),
		"metadata":  inv.Metadata.Values(),
		"component": inv.Signature.Component,
		"operation": inv.Signature.Operation,
		"error":     errStr,
	}
}

// processVariables 使用全局配置和解密后的密钥替换配置占位符，例如：${global.propertyKey}
func processVariables(configuration types.Configuration, subst func(string) string) types.Configuration {
	result := make(types.Configuration, len(configuration))
	for key, value := range configuration {
		if strV, ok := value.(string); ok {
			result[key] = subst(strV)
		} else {
			result[key] = value
		}
	}
	return result
}

// decryptSecrets 解密定义文档中的secrets配置
func decryptSecrets(config types.Config, secrets map[string]string) (map[string]string, error) {
	if len(secrets) == 0 {
		return nil, nil
	}
	if config.SecretKey == "" {
		return nil, fmt.Errorf("definition declares secrets but no secret key is configured")
	}
	result := make(map[string]string, len(secrets))
	for key, encrypted := range secrets {
		plain, err := aes.Decrypt(encrypted, []byte(config.SecretKey))
		if err != nil {
			return nil, fmt.Errorf("decrypt secret %s: %w", key, err)
		}
		result[key] = plain
	}
	return result, nil
}

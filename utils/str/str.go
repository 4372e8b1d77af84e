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

package str

import (
	"math/rand"
	"regexp"
	"strings"
)

// 匹配形如 ${key} 的占位符
var tplVarRegex = regexp.MustCompile(`\$\{(\s*[\w.]+\s*)\}`)

// SprintfDict replaces ${key} placeholders in original with values from dict.
// Placeholders without a dict entry are left untouched.
// SprintfDict 使用dict中的值替换original中的 ${key} 占位符，没有对应值的占位符保持原样。
func SprintfDict(original string, dict map[string]string) string {
	replaced := tplVarRegex.ReplaceAllStringFunc(original, func(s string) string {
		matches := tplVarRegex.FindStringSubmatch(s)
		if len(matches) < 2 {
			return s
		}
		result, ok := dict[strings.TrimSpace(matches[1])]
		if !ok {
			return s
		} else {
			return result
		}
	})
	return replaced
}

// SprintfVar replaces ${prefixkey} placeholders with values from env keyed
// without the prefix, e.g. SprintfVar(s, "global.", env) replaces ${global.key}
// with env["key"].
// SprintfVar 使用env中的值替换 ${prefixkey} 占位符，例如 ${global.key} 替换为 env["key"]。
func SprintfVar(original string, prefix string, env map[string]string) string {
	if len(env) == 0 || !CheckHasVar(original) {
		return original
	}
	dict := make(map[string]string, len(env))
	for k, v := range env {
		dict[prefix+k] = v
	}
	return SprintfDict(original, dict)
}

// CheckHasVar 检查字符串是否有占位符
func CheckHasVar(str string) bool {
	return strings.Contains(str, "${") && strings.Contains(str, "}")
}

const randomStrOptions = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const randomStrOptionsLen = len(randomStrOptions)

// RandomStr 创建指定长度的随机字符
func RandomStr(num int) string {
	var builder strings.Builder
	for i := 0; i < num; i++ {
		builder.WriteByte(randomStrOptions[rand.Intn(randomStrOptionsLen)])
	}
	return builder.String()
}

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
	"testing"

	"github.com/weavego/weavego/test/assert"
)

func TestSprintfDict(t *testing.T) {
	dict := map[string]string{"name": "dune", "shelf": "scifi"}
	assert.Equal(t, "book dune on shelf scifi", SprintfDict("book ${name} on shelf ${shelf}", dict))
	// 没有对应值的占位符保持原样
	assert.Equal(t, "book ${author}", SprintfDict("book ${author}", dict))
	assert.Equal(t, "no placeholders", SprintfDict("no placeholders", dict))
}

func TestSprintfVar(t *testing.T) {
	env := map[string]string{"name": "dune"}
	assert.Equal(t, "book dune", SprintfVar("book ${global.name}", "global.", env))
	// 前缀不匹配的占位符保持原样
	assert.Equal(t, "book ${secrets.name}", SprintfVar("book ${secrets.name}", "global.", env))
	assert.Equal(t, "book ${global.name}", SprintfVar("book ${global.name}", "global.", nil))
}

func TestCheckHasVar(t *testing.T) {
	assert.True(t, CheckHasVar("${key}"))
	assert.True(t, CheckHasVar("prefix ${a.b} suffix"))
	assert.False(t, CheckHasVar("plain"))
	assert.False(t, CheckHasVar("${unclosed"))
}

func TestRandomStr(t *testing.T) {
	assert.Equal(t, 16, len(RandomStr(16)))
	assert.Equal(t, 0, len(RandomStr(0)))
}

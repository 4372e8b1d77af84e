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

package pointcut

import (
	"testing"

	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/test/assert"
)

func TestPackageRule(t *testing.T) {
	save := types.NewOperationSignature("app.repo.BookRepository", "Save", "Book")

	exact, err := Package("app.repo.BookRepository")
	assert.Nil(t, err)
	assert.True(t, exact.Matches(save))
	assert.False(t, exact.Matches(types.NewOperationSignature("app.service.BookService", "Save")))

	// 末尾通配符匹配零个或多个后续分段
	wildcard, err := Package("app.repo.*")
	assert.Nil(t, err)
	assert.True(t, wildcard.Matches(save))
	assert.True(t, wildcard.Matches(types.NewOperationSignature("app.repo", "Save")))
	assert.True(t, wildcard.Matches(types.NewOperationSignature("app.repo.sub.Deep", "Save")))
	assert.False(t, wildcard.Matches(types.NewOperationSignature("app.repository", "Save")))

	all, err := Package("*")
	assert.Nil(t, err)
	assert.True(t, all.Matches(save))
	assert.True(t, all.Matches(types.NewOperationSignature("x", "y")))
}

func TestPackageRuleInvalidPattern(t *testing.T) {
	_, err := Package("")
	assert.NotNil(t, err)
	_, err = Package("  ")
	assert.NotNil(t, err)
	// 通配符只能出现在末段
	_, err = Package("app.*.repo")
	assert.NotNil(t, err)
	_, err = Package("app.re*po")
	assert.NotNil(t, err)
	_, err = Package("app..repo")
	assert.NotNil(t, err)
}

func TestNameRule(t *testing.T) {
	exact, err := Name("Save")
	assert.Nil(t, err)
	assert.True(t, exact.Matches(types.NewOperationSignature("app.repo", "Save")))
	assert.False(t, exact.Matches(types.NewOperationSignature("app.repo", "SaveAll")))

	prefix, err := Name("Find*")
	assert.Nil(t, err)
	assert.True(t, prefix.Matches(types.NewOperationSignature("app.repo", "Find")))
	assert.True(t, prefix.Matches(types.NewOperationSignature("app.repo", "FindById")))
	assert.False(t, prefix.Matches(types.NewOperationSignature("app.repo", "Save")))

	infix, err := Name("*By*")
	assert.Nil(t, err)
	assert.True(t, infix.Matches(types.NewOperationSignature("app.repo", "FindById")))
	assert.True(t, infix.Matches(types.NewOperationSignature("app.repo", "DeleteByName")))
	assert.False(t, infix.Matches(types.NewOperationSignature("app.repo", "FindAll")))

	_, err = Name("")
	assert.NotNil(t, err)
}

func TestCompositeRules(t *testing.T) {
	save := types.NewOperationSignature("app.repo.BookRepository", "Save", "Book")
	find := types.NewOperationSignature("app.repo.BookRepository", "FindById", "string")

	repoRule := MustPackage("app.repo.*")
	saveRule := MustName("Save*")

	and := And(repoRule, saveRule)
	assert.True(t, and.Matches(save))
	assert.False(t, and.Matches(find))

	// 组合多个包规则为一个"全部适用"规则
	or := Or(MustPackage("app.repo.*"), MustPackage("app.service.*"), MustPackage("app.web.*"))
	assert.True(t, or.Matches(save))
	assert.True(t, or.Matches(types.NewOperationSignature("app.web.BookController", "List")))
	assert.False(t, or.Matches(types.NewOperationSignature("app.jobs.Indexer", "Run")))

	not := Not(saveRule)
	assert.False(t, not.Matches(save))
	assert.True(t, not.Matches(find))
}

// 短路求值遵循声明顺序
func TestCompositeShortCircuit(t *testing.T) {
	sig := types.NewOperationSignature("app.repo", "Save")
	var evaluated []string
	probe := func(name string, result bool) types.PointcutRule {
		return probeRule{name: name, result: result, evaluated: &evaluated}
	}

	evaluated = nil
	And(probe("a", false), probe("b", true)).Matches(sig)
	assert.Equal(t, []string{"a"}, evaluated)

	evaluated = nil
	Or(probe("a", true), probe("b", false)).Matches(sig)
	assert.Equal(t, []string{"a"}, evaluated)

	evaluated = nil
	Or(probe("a", false), probe("b", true)).Matches(sig)
	assert.Equal(t, []string{"a", "b"}, evaluated)
}

type probeRule struct {
	name      string
	result    bool
	evaluated *[]string
}

func (r probeRule) Matches(_ types.OperationSignature) bool {
	*r.evaluated = append(*r.evaluated, r.name)
	return r.result
}

// 对同一签名重复求值同一规则，结果永远相同
func TestMatchIsDeterministic(t *testing.T) {
	rule := And(MustPackage("app.repo.*"), Or(MustName("Save*"), MustName("Find*")))
	sig := types.NewOperationSignature("app.repo.BookRepository", "FindById", "string")
	first := rule.Matches(sig)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, rule.Matches(sig))
	}
}

func TestMustHelpersPanic(t *testing.T) {
	defer func() {
		assert.NotNil(t, recover())
	}()
	MustPackage("app.*.bad")
}

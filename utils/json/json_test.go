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

package json

import (
	"testing"

	"github.com/weavego/weavego/test/assert"
)

func TestMarshalNoEscapeHTML(t *testing.T) {
	b, err := Marshal(map[string]string{"condition": "a < b && c > d"})
	assert.Nil(t, err)
	assert.Equal(t, `{"condition":"a < b && c > d"}`, string(b))
}

func TestMarshalEscapeHTML(t *testing.T) {
	b, err := Marshal2(map[string]string{"k": "<v>"}, true)
	assert.Nil(t, err)
	assert.Equal(t, `{"k":"<v>"}`, string(b))
}

func TestUnmarshal(t *testing.T) {
	var m map[string]interface{}
	assert.Nil(t, Unmarshal([]byte(`{"name":"log","order":1}`), &m))
	assert.Equal(t, "log", m["name"])

	assert.NotNil(t, Unmarshal([]byte(`{`), &m))
}

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

package aes

import (
	"testing"

	"github.com/weavego/weavego/test/assert"
)

func TestEncryptDecrypt(t *testing.T) {
	key := []byte("db85160e6bdd5f5e0da0dc0e1ef02d42")
	for _, plaintext := range []string{"opensesame", "", "中文密钥值", "a longer secret value spanning more than one block"} {
		encrypted, err := Encrypt(plaintext, key)
		assert.Nil(t, err)
		assert.NotEqual(t, plaintext, encrypted)

		decrypted, err := Decrypt(encrypted, key)
		assert.Nil(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

// 短于32字节的key补齐到32字节
func TestEncryptShortKey(t *testing.T) {
	encrypted, err := Encrypt("opensesame", []byte("short"))
	assert.Nil(t, err)
	decrypted, err := Decrypt(encrypted, []byte("short"))
	assert.Nil(t, err)
	assert.Equal(t, "opensesame", decrypted)
}

func TestDecryptWrongKey(t *testing.T) {
	encrypted, err := Encrypt("opensesame", []byte("key-one"))
	assert.Nil(t, err)
	decrypted, err := Decrypt(encrypted, []byte("key-two"))
	// 错误key解出的不是原文
	if err == nil {
		assert.NotEqual(t, "opensesame", decrypted)
	}
}

func TestDecryptMalformed(t *testing.T) {
	key := []byte("db85160e6bdd5f5e0da0dc0e1ef02d42")
	// 非hex
	_, err := Decrypt("not hex", key)
	assert.NotNil(t, err)
	// 太短，连IV都不完整
	_, err = Decrypt("deadbeef", key)
	assert.NotNil(t, err)
	// 长度不是块大小的整数倍
	_, err = Decrypt("00000000000000000000000000000000000000000000000000000000000000000000", key)
	assert.NotNil(t, err)
}

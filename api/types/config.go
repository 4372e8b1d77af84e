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

import (
	"time"
)

// Parser decodes declarative aspect definitions into aspects.
// Parser 将声明式切面定义解码为切面。
type Parser interface {
	// DecodeAspects parses a definition document into ready-to-register aspects.
	// Malformed definitions are configuration errors surfaced here, at
	// declaration time, never at match or call time.
	DecodeAspects(config Config, def []byte) ([]*Aspect, error)
	// EncodeAspects renders a definition document back to its serialized form.
	EncodeAspects(def AspectsDefinition) ([]byte, error)
}

// Config defines the configuration for the interception engine.
// Config 拦截引擎的配置。
type Config struct {
	// OnDebug is a callback function for invocation debug information. It is called
	// by the builtin debug advice when an invocation enters (flowType=IN) or leaves
	// (flowType=OUT) a wrapped operation.
	// - flowType: The event type, either IN or OUT.
	// - inv: The invocation being processed; inv.Signature names the operation.
	// - err: Error information, if any.
	OnDebug func(flowType string, inv *Invocation, err error)
	// ScriptMaxExecutionTime is the maximum execution time for script advice,
	// defaulting to 2000 milliseconds.
	ScriptMaxExecutionTime time.Duration
	// Parser is the aspect definition parser interface, defaulting to `engine.JsonParser`.
	Parser Parser
	// Logger is the logging interface, defaulting to `DefaultLogger()`.
	Logger Logger
	// Properties are global properties in key-value format.
	// Aspect definition configurations can replace values with ${global.propertyKey}.
	// Replacement occurs during aspect declaration and only once.
	Properties Metadata
	// Udf is a map for registering custom Golang functions and native scripts that
	// can be called at runtime by the script advice engine.
	Udf map[string]interface{}
	// SecretKey is an AES-256 key of up to 32 characters in length, used for
	// decrypting the `secrets` block of an aspect definition document.
	SecretKey string
	// Cache is a shared runtime store advice entries may use for coordination,
	// e.g. retry cooldown bookkeeping. Shared across all operations of an engine.
	Cache Cache
}

// RegisterUdf registers a custom function callable from script advice.
// RegisterUdf 注册可被脚本增强点调用的自定义函数。
func (c *Config) RegisterUdf(name string, value interface{}) {
	if c.Udf == nil {
		c.Udf = make(map[string]interface{})
	}
	c.Udf[name] = value
}

// NewConfig creates a new Config with default values and applies the provided options.
// NewConfig 创建带默认值的配置，并应用提供的选项。
func NewConfig(opts ...Option) Config {
	c := &Config{
		ScriptMaxExecutionTime: time.Millisecond * 2000,
		Logger:                 DefaultLogger(),
		Properties:             NewMetadata(),
	}

	for _, opt := range opts {
		_ = opt(c)
	}
	return *c
}

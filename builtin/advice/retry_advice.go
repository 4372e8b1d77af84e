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

package advice

import (
	"time"

	"github.com/weavego/weavego/api/types"
	"github.com/weavego/weavego/utils/maps"
)

var (
	// Compile-time check Retry implements Component.
	_ Component = (*Retry)(nil)
)

// RetryType 组件类型标识符
const RetryType = "retry"

// retryOpenKeyPrefix 冷却状态的缓存key前缀
const retryOpenKeyPrefix = "retry:open:"

// RetryConfiguration Retry 组件配置结构
type RetryConfiguration struct {
	// MaxAttempts 单次调用最多尝试次数，默认3
	MaxAttempts int
	// Delay 两次尝试之间的等待时间，例如 "100ms"，默认不等待
	Delay string
	// Cooldown is how long retrying stays disabled for an operation after all
	// attempts of one call failed, e.g. "10s". Requires Config.Cache. Empty
	// disables the cooldown.
	// Cooldown 一次调用的全部尝试都失败后，该操作停止重试的时长。需要 Config.Cache。
	Cooldown string
}

// Retry is an around advice component that re-invokes its continuation when
// the inner chain fails, up to MaxAttempts times. Re-invocation is the around
// entry's explicit choice: every attempt runs the full inner chain again,
// including inner advice.
//
// With a Cooldown configured and a shared cache available, an operation whose
// attempts were all exhausted stops being retried until the cooldown expires,
// so a persistently failing target degrades to single attempts.
//
// Retry 是环绕增强点组件，内层链失败时重新调用其延续，最多 MaxAttempts 次。
// 重新调用是环绕增强点的显式选择：每次尝试都会重新执行完整的内层链。
// 配置了 Cooldown 且有共享缓存时，尝试耗尽的操作在冷却期内退化为单次调用。
type Retry struct {
	// Config 组件配置信息
	Config RetryConfiguration

	cache types.Cache
	delay time.Duration
}

// NewRetry creates a retry component for programmatic use.
func NewRetry(config types.Config, configuration RetryConfiguration) (*Retry, error) {
	x := &Retry{}
	raw := types.Configuration{
		"maxAttempts": configuration.MaxAttempts,
		"delay":       configuration.Delay,
		"cooldown":    configuration.Cooldown,
	}
	if err := x.Init(config, raw); err != nil {
		return nil, err
	}
	return x, nil
}

func (x *Retry) Type() string {
	return RetryType
}

func (x *Retry) New() Component {
	return &Retry{Config: RetryConfiguration{MaxAttempts: 3}}
}

// Init 初始化组件，解析配置
func (x *Retry) Init(config types.Config, configuration types.Configuration) error {
	if err := maps.Map2Struct(configuration, &x.Config); err != nil {
		return err
	}
	if x.Config.MaxAttempts <= 0 {
		x.Config.MaxAttempts = 3
	}
	if x.Config.Delay != "" {
		delay, err := time.ParseDuration(x.Config.Delay)
		if err != nil {
			return err
		}
		x.delay = delay
	}
	if x.Config.Cooldown != "" {
		if _, err := time.ParseDuration(x.Config.Cooldown); err != nil {
			return err
		}
	}
	x.cache = config.Cache
	return nil
}

// Entries returns the single around entry.
func (x *Retry) Entries() []types.AdviceEntry {
	return []types.AdviceEntry{
		{Kind: types.KindAround, Around: x.around},
	}
}

func (x *Retry) around(inv *types.Invocation, proceed func() error) error {
	if x.cooldownActive(inv.Signature) {
		// 冷却期内退化为单次调用
		return proceed()
	}
	var err error
	for attempt := 0; attempt < x.Config.MaxAttempts; attempt++ {
		if attempt > 0 {
			if x.delay > 0 {
				time.Sleep(x.delay)
			}
			// 清除上一次尝试留下的失败，重新执行内层链
			inv.SetError(nil)
		}
		if err = proceed(); err == nil {
			return nil
		}
	}
	x.openCooldown(inv.Signature)
	return err
}

func (x *Retry) cooldownActive(signature types.OperationSignature) bool {
	if x.cache == nil || x.Config.Cooldown == "" {
		return false
	}
	return x.cache.Has(retryOpenKeyPrefix + signature.String())
}

func (x *Retry) openCooldown(signature types.OperationSignature) {
	if x.cache == nil || x.Config.Cooldown == "" {
		return
	}
	_ = x.cache.Set(retryOpenKeyPrefix+signature.String(), time.Now().UnixNano(), x.Config.Cooldown)
}

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
	"github.com/weavego/weavego/api/types"
)

var (
	// Compile-time check Debug implements Component.
	_ Component = (*Debug)(nil)
)

// DebugType 组件类型标识符
const DebugType = "debug"

// Debug is a debug logging component that reports invocation flow through
// wrapped operations. It contributes a before entry logging the incoming call
// (In flow) and an afterFinally entry logging the outcome (Out flow), making
// it the first stop when tracing what advice ran around an operation.
//
// Events go to the OnDebug callback configured in the engine config; without
// one they fall back to the config Logger.
//
// Debug 是调试日志组件，报告调用在被包装操作中的流转。
// 它提供一个 before 增强点记录调用流入（In 流），一个 afterFinally 增强点记录
// 调用结果（Out 流）。事件发送到配置中的 OnDebug 回调，未配置时退回到 Logger。
type Debug struct {
	config types.Config
}

// NewDebug creates a debug component for programmatic use.
func NewDebug(config types.Config) *Debug {
	return &Debug{config: config}
}

// Type 返回组件类型标识符
func (x *Debug) Type() string {
	return DebugType
}

// New 创建 Debug 组件的新实例
func (x *Debug) New() Component {
	return &Debug{}
}

// Init 初始化组件。Debug 组件没有配置项。
func (x *Debug) Init(config types.Config, _ types.Configuration) error {
	x.config = config
	return nil
}

// Entries returns the before and afterFinally logging entries.
func (x *Debug) Entries() []types.AdviceEntry {
	return []types.AdviceEntry{
		{Kind: types.KindBefore, Handler: func(inv *types.Invocation) error {
			x.onDebug(types.In, inv, nil)
			return nil
		}},
		{Kind: types.KindAfterFinally, Handler: func(inv *types.Invocation) error {
			x.onDebug(types.Out, inv, inv.Err())
			return nil
		}},
	}
}

// onDebug 发送调试事件
func (x *Debug) onDebug(flowType string, inv *types.Invocation, err error) {
	if x.config.OnDebug != nil {
		x.config.OnDebug(flowType, inv, err)
	} else if x.config.Logger != nil {
		x.config.Logger.Printf("flowType=%s,id=%s,signature=%s,args=%v,err=%v",
			flowType, inv.Id, inv.Signature.String(), inv.Args(), err)
	}
}

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

// Package assert provides the minimal assertion helpers used by the test suite.
package assert

import (
	"fmt"
	"reflect"
	"testing"
)

// True asserts that value is true.
func True(t *testing.T, value bool, msgAndArgs ...interface{}) {
	t.Helper()
	if !value {
		fail(t, "expected true, got false", msgAndArgs)
	}
}

// False asserts that value is false.
func False(t *testing.T, value bool, msgAndArgs ...interface{}) {
	t.Helper()
	if value {
		fail(t, "expected false, got true", msgAndArgs)
	}
}

// Equal asserts that expected and actual are deeply equal.
func Equal(t *testing.T, expected, actual interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		fail(t, fmt.Sprintf("expected: %v, actual: %v", expected, actual), msgAndArgs)
	}
}

// NotEqual asserts that expected and actual are not deeply equal.
func NotEqual(t *testing.T, expected, actual interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if reflect.DeepEqual(expected, actual) {
		fail(t, fmt.Sprintf("expected values to differ, both: %v", actual), msgAndArgs)
	}
}

// Nil asserts that value is nil.
func Nil(t *testing.T, value interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if !isNil(value) {
		fail(t, fmt.Sprintf("expected nil, got: %v", value), msgAndArgs)
	}
}

// NotNil asserts that value is not nil.
func NotNil(t *testing.T, value interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if isNil(value) {
		fail(t, "expected value, got nil", msgAndArgs)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

func fail(t *testing.T, msg string, msgAndArgs []interface{}) {
	t.Helper()
	if len(msgAndArgs) > 0 {
		msg = msg + " - " + fmt.Sprint(msgAndArgs...)
	}
	t.Error(msg)
}

// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

// CallType is the kind of invocation dispatched to an actor
type CallType int

const (
	// InterfaceMethod is a call to one of the actor methods
	InterfaceMethod CallType = iota
	// TimerCall is a timer firing
	TimerCall
	// ReminderCall is a reminder firing
	ReminderCall
)

// String returns the string representation of the call type
func (c CallType) String() string {
	switch c {
	case InterfaceMethod:
		return "method"
	case TimerCall:
		return "timer"
	case ReminderCall:
		return "reminder"
	default:
		return "unknown"
	}
}

// MethodContext describes one invocation. It is handed to the pre and post
// call hooks of the actor.
type MethodContext struct {
	// MethodName is the dispatched method, timer callback or reminder name
	MethodName string
	// CallType is the kind of invocation
	CallType CallType
	// ReentrancyID is the id of the call chain the invocation belongs to.
	// Nil for a non-reentrant call.
	ReentrancyID *string
}

func newMethodContext(name string, callType CallType) MethodContext {
	return MethodContext{MethodName: name, CallType: callType}
}

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

import (
	"github.com/tochemey/vactor/log"
	"github.com/tochemey/vactor/reentrancy"
	"github.com/tochemey/vactor/serializer"
	"github.com/tochemey/vactor/state"
)

// RuntimeContext is shared by all the instances of one actor type: the type
// information and the collaborators the runtime was configured with.
type RuntimeContext struct {
	info       *TypeInfo
	provider   state.Provider
	serializer serializer.Serializer
	scheduler  Scheduler
	reentrancy *reentrancy.Config
	logger     log.Logger
}

// TypeInfo returns the actor type information
func (x *RuntimeContext) TypeInfo() *TypeInfo {
	return x.info
}

// ActorType returns the actor type name
func (x *RuntimeContext) ActorType() string {
	return x.info.name
}

// StateProvider returns the state provider
func (x *RuntimeContext) StateProvider() state.Provider {
	return x.provider
}

// Serializer returns the serializer of payloads and state values
func (x *RuntimeContext) Serializer() serializer.Serializer {
	return x.serializer
}

// Scheduler returns the timers and reminders scheduler
func (x *RuntimeContext) Scheduler() Scheduler {
	return x.scheduler
}

// Reentrancy returns the reentrancy configuration of the actor type
func (x *RuntimeContext) Reentrancy() *reentrancy.Config {
	return x.reentrancy
}

// Logger returns the logger
func (x *RuntimeContext) Logger() log.Logger {
	return x.logger
}

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

package config

import (
	"sort"

	"github.com/tochemey/vactor/internal/duration"
	"github.com/tochemey/vactor/reentrancy"
)

// Entity describes one registered actor type in the configuration document.
type Entity struct {
	// Type is the actor type name
	Type string
	// Reentrancy overrides the runtime wide reentrancy configuration. Optional.
	Reentrancy *reentrancy.Config
}

// Document is the JSON configuration document served to the sidecar.
// Durations use the sidecar duration format, e.g. "1h0m0s0ms".
type Document struct {
	Entities                   []string            `json:"entities"`
	ActorIdleTimeout           string              `json:"actorIdleTimeout,omitempty"`
	ActorScanInterval          string              `json:"actorScanInterval,omitempty"`
	DrainOngoingCallTimeout    string              `json:"drainOngoingCallTimeout,omitempty"`
	DrainRebalancedActors      bool                `json:"drainRebalancedActors"`
	Reentrancy                 *ReentrancyDocument `json:"reentrancy,omitempty"`
	RemindersStoragePartitions int                 `json:"remindersStoragePartitions"`
	EntitiesConfig             []*EntitiesDocument `json:"entitiesConfig,omitempty"`
}

// ReentrancyDocument is the reentrancy section of the configuration document
type ReentrancyDocument struct {
	Enabled       bool `json:"enabled"`
	MaxStackDepth *int `json:"maxStackDepth,omitempty"`
}

// EntitiesDocument carries the settings overridden for some actor types
type EntitiesDocument struct {
	Entities   []string            `json:"entities"`
	Reentrancy *ReentrancyDocument `json:"reentrancy,omitempty"`
}

// Document builds the configuration document for the given entities.
// Entities are listed in type name order.
func (c *Config) Document(entities ...Entity) *Document {
	sorted := make([]Entity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Type < sorted[j].Type
	})

	document := &Document{
		Entities:                   make([]string, 0, len(sorted)),
		ActorIdleTimeout:           duration.Format(c.ActorIdleTimeout),
		ActorScanInterval:          duration.Format(c.ActorScanInterval),
		DrainOngoingCallTimeout:    duration.Format(c.DrainOngoingCallTimeout),
		DrainRebalancedActors:      c.DrainRebalancedActors,
		Reentrancy:                 toReentrancyDocument(c.Reentrancy),
		RemindersStoragePartitions: c.RemindersStoragePartitions,
	}

	for _, entity := range sorted {
		document.Entities = append(document.Entities, entity.Type)
		if entity.Reentrancy != nil {
			document.EntitiesConfig = append(document.EntitiesConfig, &EntitiesDocument{
				Entities:   []string{entity.Type},
				Reentrancy: toReentrancyDocument(entity.Reentrancy),
			})
		}
	}
	return document
}

func toReentrancyDocument(config *reentrancy.Config) *ReentrancyDocument {
	if config == nil {
		return nil
	}

	document := &ReentrancyDocument{Enabled: config.Enabled()}
	if depth := config.MaxStackDepth(); depth > 0 {
		document.MaxStackDepth = &depth
	}
	return document
}

// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package mgtools holds the built-in fix batch for the MGTools userscript.
package mgtools

import (
	_ "embed"

	"github.com/walteh/fixpatch/pkg/anchor"
	"github.com/walteh/fixpatch/pkg/pipeline"
)

// DefaultTarget is patched when no target is named.
const DefaultTarget = "MGTools.user.js"

// Stage names, in execution order.
const (
	StageNotificationButton = "remove-notification-button"
	StageMultiHarvestSync   = "multiharvest-sync"
	StageDiscordCompat      = "discord-compat"
	StageAnimationToggle    = "remove-animation-toggle"
)

var (
	//go:embed payloads/multiharvest-helpers.js
	multiHarvestHelpers string

	//go:embed payloads/multiharvest-sync.js
	multiHarvestSync string

	//go:embed payloads/discord-detection.js
	discordDetection string

	//go:embed payloads/animation-migration.js
	animationMigration string
)

// 📦 Stages returns the built-in batch in its fixed order. Every stage is a
// no-op on input that lacks its anchor.
func Stages() []pipeline.Stage {
	return []pipeline.Stage{
		NotificationButton(),
		MultiHarvestSync(),
		DiscordCompat(),
		AnimationToggle(),
	}
}

// 🔕 NotificationButton removes the quick notification toggle button and
// everything wired to it, keeping the settings checkbox.
//
// The button markup goes first and is compacted on its own; the handler,
// the calls and the helper function are then marked together against the
// post-markup sequence and compacted once.
func NotificationButton() pipeline.Stage {
	markup := pipeline.Sweep{
		StageName: StageNotificationButton,
		Marks: []pipeline.Mark{{
			Anchor:  anchor.On(anchor.ContainsAll("notification-quick-toggle", "<button")),
			Window:  anchor.Fixed(1, 3),
			All:     true,
			Message: "Removed notification button UI",
		}},
	}

	handlerEnd := anchor.Or(
		anchor.And(anchor.HasPrefix("//"), anchor.Contains("Helper function")),
		anchor.And(anchor.HasPrefix("function "), anchor.Contains("updateQuickToggleButton")),
	)

	wiring := pipeline.Sweep{
		StageName: StageNotificationButton,
		Marks: []pipeline.Mark{
			{
				Anchor:  anchor.On(anchor.Contains("// Quick notification toggle button")),
				Window:  anchor.UntilLine(handlerEnd, false),
				Message: "Removed button event listeners",
			},
			{
				Anchor:  anchor.On(anchor.Contains("updateQuickToggleButton(quickToggle")),
				Window:  anchor.Fixed(1, 2),
				All:     true,
				Message: "Removed updateQuickToggleButton calls",
			},
			{
				Anchor:  anchor.On(anchor.Contains("function updateQuickToggleButton")),
				Window:  anchor.Window{Before: 1, Until: anchor.TrimmedEquals("}"), Inclusive: true},
				Message: "Removed updateQuickToggleButton function",
			},
		},
	}

	return pipeline.Chain{
		StageName: StageNotificationButton,
		Stages:    []pipeline.Stage{markup, wiring},
	}
}

// 🌾 MultiHarvestSync adds the slot index sync helpers ahead of
// updateSlotIndex and calls them from the harvest handler.
func MultiHarvestSync() pipeline.Stage {
	return pipeline.Chain{
		StageName: StageMultiHarvestSync,
		Stages: []pipeline.Stage{
			pipeline.Rule{
				StageName: StageMultiHarvestSync,
				Anchor: anchor.On(anchor.Or(
					anchor.Contains("const updateSlotIndex = direction =>"),
					anchor.ContainsAll("const updateSlotIndex =", "direction"),
				)),
				Action:  pipeline.InsertBefore,
				Text:    multiHarvestHelpers,
				Guard:   anchor.Contains("MULTI-HARVEST SYNC HELPERS"),
				Message: "Added helper functions before updateSlotIndex",
			},
			pipeline.Rule{
				StageName: StageMultiHarvestSync,
				Anchor:    anchor.On(anchor.Contains("ALLOWED HarvestCrop:")),
				Action:    pipeline.InsertAfter,
				Text:      multiHarvestSync,
				Guard:     anchor.Contains("Check for multi-harvest and sync slot index"),
				Message:   "Added multi-harvest sync logic to harvest handler",
			},
		},
	}
}

// 💬 DiscordCompat extends Discord host detection with desktop and iframe
// checks.
func DiscordCompat() pipeline.Stage {
	return pipeline.Rule{
		StageName: StageDiscordCompat,
		Anchor:    anchor.On(anchor.ContainsAll("const isDiscordHost", "discord.com")),
		Action:    pipeline.InsertAfter,
		Text:      discordDetection,
		Guard:     anchor.Contains("const isDiscordDesktop = typeof window.DiscordNative"),
		Message:   "Enhanced Discord environment detection",
	}
}

// 🎞️ AnimationToggle drops the stored animationEnabled key on the first
// save of MGA_data that follows the MGA_saveJSON definition.
func AnimationToggle() pipeline.Stage {
	definition := anchor.On(anchor.Contains("function MGA_saveJSON("))
	return pipeline.Rule{
		StageName: StageAnimationToggle,
		Anchor:    anchor.On(anchor.ContainsAll("MGA_saveJSON", "MGA_data")).In(anchor.After(definition)),
		Action:    pipeline.InsertAfter,
		Text:      animationMigration,
		Guard:     anchor.Contains("Clean deprecated animation key"),
		Message:   "Added animation toggle migration code",
	}
}

package line

import (
	"fmt"

	"github.com/lineglot/lineglot/internal/language"
)

// Postback data values understood by the dispatcher. Slot letters follow the
// three-step setup flow: primary A, primary B, then optional secondary C.
const (
	ActionShowPrimaryA   = "show_primary_lang_a"
	ActionShowPrimaryB   = "show_primary_lang_b"
	ActionShowSecondaryC = "show_secondary_lang_c"
	ActionSetPrimaryA    = "set_primary_lang_a"
	ActionSetPrimaryB    = "set_primary_lang_b"
	ActionSetSecondaryC  = "set_secondary_lang_c"
	ActionToggle         = "toggle_translation"
)

func box(layout string, contents []map[string]any, extra map[string]any) map[string]any {
	b := map[string]any{"type": "box", "layout": layout, "contents": contents}
	for k, v := range extra {
		b[k] = v
	}
	return b
}

func text(s string, extra map[string]any) map[string]any {
	t := map[string]any{"type": "text", "text": s}
	for k, v := range extra {
		t[k] = v
	}
	return t
}

func pickerRow(label, showAction string) map[string]any {
	return box("horizontal", []map[string]any{
		text("選擇語言", map[string]any{"flex": 4, "size": "sm", "color": "#aaaaaa"}),
		text("▼", map[string]any{"flex": 1, "size": "sm", "color": "#aaaaaa", "align": "end"}),
	}, map[string]any{
		"action": map[string]any{
			"type":        "postback",
			"label":       label,
			"data":        "action=" + showAction,
			"displayText": label,
		},
		"paddingAll":      "md",
		"backgroundColor": "#f5f5f5",
		"cornerRadius":    "md",
		"margin":          "md",
	})
}

func sectionHeader(title string, extra map[string]any) []map[string]any {
	attrs := map[string]any{"weight": "bold", "color": "#1DB446", "size": "md"}
	for k, v := range extra {
		attrs[k] = v
	}
	return []map[string]any{
		text(title, attrs),
		{"type": "separator", "margin": "md"},
	}
}

// SettingsMenu is the top-level translation setup bubble: pickers for the two
// primary languages and the optional secondary language.
func SettingsMenu() FlexMessage {
	sectionA := append(sectionHeader("主要語言A", nil), pickerRow("選擇主要語言A", ActionShowPrimaryA))
	sectionB := append(sectionHeader("主要語言B", map[string]any{"margin": "xl"}), pickerRow("選擇主要語言B", ActionShowPrimaryB))
	sectionC := append(sectionHeader("次要語言C（選填）", map[string]any{"margin": "xl"}), pickerRow("選擇次要語言C", ActionShowSecondaryC))

	return FlexMessage{
		Type:    "flex",
		AltText: "選擇翻譯語言",
		Contents: map[string]any{
			"type": "bubble",
			"header": box("vertical", []map[string]any{
				text("🌐 選擇翻譯語言", map[string]any{"weight": "bold", "size": "xl", "align": "center"}),
			}, nil),
			"body": box("vertical", []map[string]any{
				box("vertical", sectionA, nil),
				box("vertical", sectionB, nil),
				box("vertical", sectionC, nil),
			}, nil),
			"footer": box("vertical", []map[string]any{
				{
					"type":   "button",
					"style":  "primary",
					"color":  "#1DB446",
					"height": "sm",
					"action": map[string]any{
						"type":        "postback",
						"label":       "開啟／關閉翻譯",
						"data":        "action=" + ActionToggle,
						"displayText": "切換翻譯功能",
					},
				},
				text("✨ 支援多語言同時翻譯", map[string]any{"size": "sm", "color": "#888888", "align": "center", "margin": "md"}),
			}, nil),
		},
	}
}

// LanguageListMenu lists every supported language as a postback row that sets
// the given slot ("a", "b" or "c").
func LanguageListMenu(slot string) FlexMessage {
	var title, action string
	switch slot {
	case "b":
		title, action = "選擇主要語言B", ActionSetPrimaryB
	case "c":
		title, action = "選擇次要語言C", ActionSetSecondaryC
	default:
		title, action = "選擇主要語言A", ActionSetPrimaryA
	}

	rows := make([]map[string]any, 0, len(language.Supported))
	for _, l := range language.Supported {
		rows = append(rows, box("horizontal", []map[string]any{
			text(l.Label, map[string]any{"size": "sm", "gravity": "center"}),
		}, map[string]any{
			"action": map[string]any{
				"type":        "postback",
				"label":       l.Name,
				"data":        fmt.Sprintf("action=%s&lang=%s", action, l.Code),
				"displayText": "選擇 " + l.Name,
			},
			"paddingAll":      "md",
			"backgroundColor": "#f5f5f5",
			"cornerRadius":    "md",
			"margin":          "xs",
		}))
	}

	return FlexMessage{
		Type:    "flex",
		AltText: title,
		Contents: map[string]any{
			"type": "bubble",
			"body": box("vertical", []map[string]any{
				text(title, map[string]any{"weight": "bold", "size": "xl", "align": "center"}),
				box("vertical", rows, map[string]any{"margin": "lg", "spacing": "sm"}),
			}, nil),
		},
	}
}

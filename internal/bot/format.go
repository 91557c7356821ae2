package bot

import (
	"fmt"
	"strings"

	"github.com/lineglot/lineglot/internal/language"
	"github.com/lineglot/lineglot/internal/line"
	"github.com/lineglot/lineglot/internal/orchestrator"
	"github.com/lineglot/lineglot/internal/settings"
)

const (
	msgHelp = "📖 指令說明：\n" +
		"/翻譯 — 開啟語言設定選單\n" +
		"/狀態 — 查看目前翻譯設定\n" +
		"/<語言代碼> — 快速設定主要語言A（例如 /ja）"
	msgNotConfigured       = "尚未設定翻譯語言，輸入 /翻譯 開始設定"
	msgSettingFailed       = "❌ 設定失敗，請稍後再試"
	msgProcessingFailed    = "處理訊息時發生錯誤，請稍後再試。"
	msgSendTextOnly        = "請傳送文字訊息"
	msgUnsupportedLanguage = "❌ 不支援的語言代碼"
	msgNeedPrimaryA        = "請先設定主要語言A"
	msgNeedPrimaryAB       = "請先設定主要語言A和B"
	msgTranslationOn       = "✅ 已開啟翻譯功能"
	msgTranslationOff      = "❌ 已關閉翻譯功能"
	msgAllTargetsFailed    = "❌ 翻譯失敗：無法獲得有效的翻譯結果"

	// Leading line of a translation reply shows at most this many runes of
	// the original message.
	originalPreviewRunes = 200
)

// formatResults renders the orchestrator output as reply messages: the
// original text first, then one line per translated target. A pass-through
// slot is already represented by the original line and adds nothing. Failed
// targets surface as an "unavailable" line so the reader knows a language is
// missing rather than silently dropped.
func formatResults(original string, results []orchestrator.Result) []line.Message {
	preview := original
	if runes := []rune(preview); len(runes) > originalPreviewRunes {
		preview = string(runes[:originalPreviewRunes])
	}
	msgs := []line.Message{line.NewText("📝 原文：\n" + preview)}

	translated, failed := 0, 0
	for _, r := range results {
		if r.PassThrough {
			continue
		}
		name := language.DisplayName(r.TargetLang)
		if r.Err != nil {
			failed++
			msgs = append(msgs, line.NewText(fmt.Sprintf("❌ 翻譯（%s）暫時無法使用", name)))
			continue
		}
		translated++
		msgs = append(msgs, line.NewText(fmt.Sprintf("🔄 %s：\n%s", name, strings.TrimSpace(r.Text))))
	}

	// With no usable translation at all, a list of per-target failures tells
	// the user nothing the summary line doesn't.
	if translated == 0 && failed > 0 {
		return []line.Message{line.NewText(msgAllTargetsFailed)}
	}
	return msgs
}

func formatLanguageSet(field settings.Field, code string) string {
	name := language.DisplayName(code)
	switch field {
	case settings.FieldPrimaryA:
		return fmt.Sprintf("✅ 已設定主要語言A為：%s\n\n請繼續設定主要語言B", name)
	case settings.FieldPrimaryB:
		return fmt.Sprintf("✅ 已設定主要語言B為：%s\n\n您可以繼續設定次要語言C，或直接開始使用翻譯功能", name)
	default:
		return fmt.Sprintf("✅ 已設定次要語言C為：%s", name)
	}
}

func formatSetupComplete(cfg *settings.Setting) string {
	return "✅ 語言設定已更新！\n\n" + formatStatus(cfg) + "\n\n您現在可以開始使用翻譯功能了！"
}

func formatStatus(cfg *settings.Setting) string {
	slot := func(code string) string {
		if code == "" {
			return "未設定"
		}
		return language.DisplayName(code)
	}
	toggle := "關閉 ❌"
	if cfg.IsTranslating {
		toggle = "開啟 ✅"
	}
	return "📊 當前翻譯設定：\n" +
		"主要語言A：" + slot(cfg.PrimaryLangA) + "\n" +
		"主要語言B：" + slot(cfg.PrimaryLangB) + "\n" +
		"次要語言C：" + slot(cfg.SecondaryLangC) + "\n" +
		"自動翻譯：" + toggle
}

package problemgen

import (
	"strings"
	"testing"

	"github.com/abhisek/mathsheet/internal/worksheet"
)

func TestBuildSystemPrompt(t *testing.T) {
	p := buildSystemPrompt(3, nil)
	for _, want := range []string{"三年级", "'÷'", "'×'", "mentalQuestions", "wordQuestions"} {
		if !strings.Contains(p, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if strings.Contains(p, "禁止生成的题目") {
		t.Error("avoid section should be omitted without history")
	}

	p = buildSystemPrompt(5, []string{"12 + 7 =", `他说"你好"`})
	if !strings.Contains(p, "五年级") {
		t.Error("grade not reflected")
	}
	if !strings.Contains(p, `禁止生成的题目（已存在）: ["12 + 7 =","他说\"你好\""]`) {
		t.Errorf("avoid list not JSON encoded:\n%s", p)
	}
}

func TestBuildSystemPrompt_GradeFallback(t *testing.T) {
	if !strings.Contains(buildSystemPrompt(0, nil), "三年级") {
		t.Error("out-of-range grade should fall back to grade 3")
	}
}

func TestBuildUserMessage(t *testing.T) {
	s := worksheet.DefaultSettings()
	s.Topic = "两位数乘一位数"
	msg := buildUserMessage(s)

	for _, want := range []string{
		"1. 口算题 (mentalQuestions): 25 道",
		"2. 竖式计算 (verticalQuestions): 6 道",
		"4. 填空题 (fillInBlankQuestions): 0 道",
		"6. 应用题 (wordQuestions): 1 道",
		"当前侧重的主题/知识点: 两位数乘一位数",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("user message missing %q:\n%s", want, msg)
		}
	}
}

func TestRecentAvoid(t *testing.T) {
	avoid := []string{"a", "b", "c", "d"}
	if got := recentAvoid(avoid, 2); len(got) != 2 || got[0] != "c" {
		t.Errorf("got %v", got)
	}
	if got := recentAvoid(avoid, 0); len(got) != 4 {
		t.Errorf("zero limit should keep all, got %v", got)
	}
}
